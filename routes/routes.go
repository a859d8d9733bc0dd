package routes

import (
	"github.com/gin-gonic/gin"

	"talenthub-api/controllers"
	"talenthub-api/middleware"
)

// Controllers bundles the handler set the router mounts.
type Controllers struct {
	Auth       *controllers.AuthController
	Apply      *controllers.ApplyController
	Admin      *controllers.AdminController
	Jobs       *controllers.JobController
	Ideas      *controllers.IdeaController
	Recruiters *controllers.RecruiterController
	Prospects  *controllers.ProspectController
	Leads      *controllers.LeadController
}

// SetupRoutes mounts the API surface. Public reads and submissions take
// no auth; everything that exposes applicant data sits behind the admin
// gate.
func SetupRoutes(router *gin.Engine, gate *middleware.AdminGate, ctrl Controllers) {
	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"message": "Talent Hub API is running",
			})
		})

		api.POST("/login", ctrl.Auth.Login)
		api.POST("/apply", ctrl.Apply.Submit)

		api.GET("/jobs", ctrl.Jobs.List)
		api.GET("/jobs/:id/participants", ctrl.Jobs.Participants)
		api.GET("/ideas", ctrl.Ideas.List)
		api.POST("/ideas", ctrl.Ideas.Create)
		api.GET("/ideas/:id/participants", ctrl.Jobs.Participants)

		api.GET("/recruiters", ctrl.Recruiters.List)
		api.GET("/recruiters/slug/:slug", ctrl.Recruiters.GetBySlug)

		api.POST("/prospects", ctrl.Prospects.Create)
		api.POST("/leads", ctrl.Leads.Create)

		// Admin routes
		admin := api.Group("")
		admin.Use(middleware.RequireAdmin(gate))
		{
			admin.GET("/admin/resume-link/:key", ctrl.Admin.ResumeLink)
			admin.GET("/applications", ctrl.Admin.Applications)
			admin.GET("/collaborators", ctrl.Admin.Collaborators)

			admin.POST("/jobs", ctrl.Jobs.Create)
			admin.DELETE("/jobs/:id", ctrl.Jobs.Delete)
			admin.DELETE("/ideas/:id", ctrl.Ideas.Delete)

			admin.POST("/recruiters", ctrl.Recruiters.Create)
			admin.PUT("/recruiters/:id", ctrl.Recruiters.Update)
			admin.DELETE("/recruiters/:id", ctrl.Recruiters.Delete)

			admin.GET("/prospects", ctrl.Prospects.List)
			admin.DELETE("/prospects/:id", ctrl.Prospects.Delete)

			admin.GET("/leads", ctrl.Leads.List)
		}
	}
}
