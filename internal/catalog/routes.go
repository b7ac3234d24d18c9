package catalog

import (
	"academy-api/internal/logs"
	"academy-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, svc *CatalogService, cache *SportCache, ls logs.Writer) {
	cc := &CatalogController{Service: svc, Sports: cache, LS: ls}

	public := r.Group("/api")
	{
		public.GET("/sports", cc.ListSports)
		public.GET("/sports/:id", cc.GetSport)
		public.GET("/facilities", cc.ListFacilities)
		public.GET("/genders", cc.ListGenders)
		public.GET("/spoken-languages", cc.ListSpokenLanguages)
	}

	admin := r.Group("/api")
	admin.Use(middlewares.AuthMiddleware(), middlewares.RequireRoles(middlewares.RoleAdmin))
	{
		admin.POST("/sports", cc.CreateSport)
		admin.PUT("/sports/:id", cc.UpdateSport)
		admin.DELETE("/sports/:id", cc.DeleteSport)
		admin.DELETE("/sports", cc.BulkDeleteSports)
		admin.POST("/facilities", cc.CreateFacility)
		admin.POST("/genders", cc.CreateGender)
		admin.POST("/spoken-languages", cc.CreateSpokenLanguage)
	}
}
