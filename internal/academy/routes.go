package academy

import (
	"academy-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, academyService *AcademyService, ls LogServicePort) {
	ac := &AcademyController{Service: academyService, LS: ls}

	public := r.Group("/api/academics")
	{
		public.GET("", ac.PublicList)
		public.GET("/:id", ac.PublicGet)
	}

	admin := r.Group("/api/admin/academics")
	admin.Use(middlewares.AuthMiddleware(), middlewares.RequireRoles(middlewares.RoleAdmin))
	{
		admin.GET("", ac.AdminList)
		admin.GET("/:id", ac.AdminGet)
		admin.PATCH("/:id/status", ac.SetStatus)
		admin.DELETE("/:id", ac.Delete)
		admin.DELETE("", ac.BulkDelete)
	}

	own := r.Group("/api/academy")
	own.Use(middlewares.AuthMiddleware(), middlewares.RequireRoles(middlewares.RoleAcademic, middlewares.RoleAdmin))
	{
		own.GET("", ac.Mine)
		own.PUT("", ac.UpdateDetails)
		own.PUT("/media", ac.UpdateMedia)
		own.POST("/onboarding", ac.CompleteOnboarding)
		own.GET("/athletics", ac.ListAthletics)
		own.POST("/athletics", ac.AddAthletic)
		own.DELETE("/athletics/:athleticId", ac.RemoveAthletic)
	}
}
