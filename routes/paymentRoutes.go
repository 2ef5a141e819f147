package routes

import (
	"civicfix-be/controllers"
	"civicfix-be/middlewares"
	"civicfix-be/models"

	"github.com/gin-gonic/gin"
)

// PaymentRoutes sets up checkout creation, gateway success callbacks and
// the admin payment history
func PaymentRoutes(r *gin.Engine) {
	citizen := r.Group("/")
	citizen.Use(middlewares.AuthMiddleware(), middlewares.RequireRole(string(models.RoleCitizen)))
	{
		citizen.POST("/create-checkout-session", controllers.CreateCheckoutSession)
		citizen.POST("/create-issue-boost-checkout-session", controllers.CreateBoostCheckoutSession)
	}

	// Success callbacks carry the one-time session id issued at checkout
	r.POST("/payment-success", middlewares.AuthMiddleware(), controllers.PaymentSuccess)
	r.POST("/issue-boost-payment-success", middlewares.AuthMiddleware(), controllers.BoostPaymentSuccess)

	r.GET("/api/payments",
		middlewares.AuthMiddleware(),
		middlewares.RequireRole(string(models.RoleAdmin)),
		controllers.GetPayments,
	)
}
