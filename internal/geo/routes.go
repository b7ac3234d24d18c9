package geo

import (
	"academy-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, geoService *GeoService, ls LogServicePort) {
	gc := &GeoController{Service: geoService, LS: ls}

	public := r.Group("/api/geo/:level")
	{
		public.GET("", gc.List)
		public.GET("/:id", gc.Get)
	}

	admin := r.Group("/api/geo/:level")
	admin.Use(middlewares.AuthMiddleware(), middlewares.RequireRoles(middlewares.RoleAdmin))
	{
		admin.POST("", gc.Create)
		admin.POST("/import", gc.Import)
		admin.PUT("/:id", gc.Update)
		admin.DELETE("", gc.BulkDelete)
		admin.DELETE("/:id", gc.Delete)
		admin.PUT("/:id/translations/:locale", gc.SetTranslation)
		admin.DELETE("/:id/translations/:locale", gc.DeleteTranslation)
	}
}
