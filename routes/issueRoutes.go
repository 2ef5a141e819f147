package routes

import (
	"civicfix-be/controllers"
	"civicfix-be/middlewares"
	"civicfix-be/models"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up issue reporting, listing and lifecycle routes.
// Lifecycle actions are split by role: citizens report/edit/delete/upvote,
// staff advance status, admins assign and reject.
func IssueRoutes(r *gin.Engine) {
	// Public listing for the home and all-issues pages
	r.GET("/api/all-issues", controllers.GetAllIssues)
	r.GET("/api/latest-resolved-issues", controllers.LatestResolvedIssues)

	r.POST("/api/report-issue",
		middlewares.AuthMiddleware(),
		middlewares.RequireRole(string(models.RoleCitizen)),
		middlewares.ReportRateLimiter(10),
		controllers.ReportIssue,
	)

	issue := r.Group("/api/issue")
	issue.Use(middlewares.AuthMiddleware())
	{
		issue.GET("/:id", controllers.GetIssue)
		issue.PATCH("/:id/update", controllers.UpdateIssue)
		issue.DELETE("/:id/delete", controllers.DeleteIssue)
		issue.PATCH("/:id/upvote", controllers.UpvoteIssue)
	}

	staff := r.Group("/api/issues")
	staff.Use(middlewares.AuthMiddleware(), middlewares.RequireRole(string(models.RoleStaff)))
	{
		staff.PATCH("/:id/status", controllers.UpdateIssueStatus)
	}

	admin := r.Group("/api/issues")
	admin.Use(middlewares.AuthMiddleware(), middlewares.RequireRole(string(models.RoleAdmin)))
	{
		admin.PATCH("/:id/assign", controllers.AssignStaff)
		admin.PATCH("/:id/reject", controllers.RejectIssue)
	}

	r.GET("/api/dashboard/stats", middlewares.AuthMiddleware(), controllers.GetDashboardStats)
}
