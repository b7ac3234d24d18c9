package branch

import (
	"academy-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, branchService *BranchService, ls LogServicePort) {
	bc := &BranchController{Service: branchService, LS: ls}

	g := r.Group("/api/branches")
	g.Use(middlewares.AuthMiddleware(), middlewares.RequireRoles(middlewares.RoleAcademic, middlewares.RoleAdmin))
	{
		g.GET("", bc.List)
		g.GET("/:id", bc.Get)
		g.POST("", bc.Create)
		g.PUT("/:id", bc.Update)
		g.DELETE("/:id", bc.Delete)
		g.DELETE("", bc.BulkDelete)
	}
}
