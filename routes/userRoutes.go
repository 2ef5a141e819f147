package routes

import (
	"civicfix-be/controllers"
	"civicfix-be/middlewares"
	"civicfix-be/models"

	"github.com/gin-gonic/gin"
)

// UserRoutes sets up user listing, profile and admin user-management routes
func UserRoutes(r *gin.Engine) {
	r.GET("/api/users", middlewares.AuthMiddleware(), controllers.GetUsers)
	r.PATCH("/api/user/:id/update", middlewares.AuthMiddleware(), controllers.UpdateUser)

	admin := r.Group("/api/user")
	admin.Use(middlewares.AuthMiddleware(), middlewares.RequireRole(string(models.RoleAdmin)))
	{
		admin.PATCH("/:id/block", controllers.ToggleBlockUser)
		admin.POST("/create-staff", controllers.CreateStaff)
		admin.DELETE("/:id/delete", controllers.DeleteStaff)
	}
}
