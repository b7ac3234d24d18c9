package block

import (
	"academy-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, blockService *BlockService, ls LogServicePort) {
	bc := &BlockController{Service: blockService, LS: ls}

	g := r.Group("/api/blocks")
	g.Use(middlewares.AuthMiddleware(), middlewares.RequireRoles(middlewares.RoleAcademic, middlewares.RoleAdmin))
	{
		g.GET("", bc.List)
		g.GET("/:id", bc.Get)
		g.POST("", bc.Create)
		g.POST("/check", bc.Check)
		g.PUT("/:id", bc.Update)
		g.DELETE("/:id", bc.Delete)
		g.DELETE("", bc.BulkDelete)
	}
}
