package page

import (
	"academy-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, pageService *PageService, ls LogServicePort) {
	pc := &PageController{Service: pageService, LS: ls}

	r.GET("/api/pages/:slug", pc.Get)

	admin := r.Group("/api/admin/pages")
	admin.Use(middlewares.AuthMiddleware(), middlewares.RequireRoles(middlewares.RoleAdmin))
	{
		admin.GET("", pc.List)
		admin.PUT("/:slug", pc.Upsert)
		admin.DELETE("/:slug", pc.Delete)
	}
}
