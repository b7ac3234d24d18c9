package coach

import (
	"academy-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, coachService *CoachService, ls LogServicePort) {
	cc := &CoachController{Service: coachService, LS: ls}

	g := r.Group("/api/coaches")
	g.Use(middlewares.AuthMiddleware(), middlewares.RequireRoles(middlewares.RoleAcademic, middlewares.RoleAdmin))
	{
		g.GET("", cc.List)
		g.GET("/:id", cc.Get)
		g.POST("", cc.Create)
		g.PUT("/:id", cc.Update)
		g.DELETE("/:id", cc.Delete)
		g.DELETE("", cc.BulkDelete)
	}
}
