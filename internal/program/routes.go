package program

import (
	"academy-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, programService *ProgramService, ls LogServicePort) {
	pc := &ProgramController{Service: programService, LS: ls}

	tenant := r.Group("/api")
	tenant.Use(middlewares.AuthMiddleware(), middlewares.RequireRoles(middlewares.RoleAcademic, middlewares.RoleAdmin))
	{
		tenant.GET("/programs", pc.List)
		tenant.GET("/programs/:id", pc.Get)
		tenant.POST("/programs", pc.Create)
		tenant.PUT("/programs/:id", pc.Update)
		tenant.DELETE("/programs/:id", pc.Delete)
		tenant.DELETE("/programs", pc.BulkDelete)

		tenant.POST("/programs/:id/packages", pc.CreatePackage)
		tenant.PUT("/packages/:packageId", pc.UpdatePackage)
		tenant.DELETE("/packages/:packageId", pc.DeletePackage)

		tenant.POST("/programs/:id/discounts", pc.CreateDiscount)
		tenant.PUT("/discounts/:discountId", pc.UpdateDiscount)
		tenant.DELETE("/discounts/:discountId", pc.DeleteDiscount)
	}
}
