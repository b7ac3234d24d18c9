package report

import (
	"academy-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, reportService *ReportService, ls LogServicePort) {
	rc := &ReportController{Service: reportService, LS: ls}

	admin := r.Group("/api/admin/reports")
	admin.Use(middlewares.AuthMiddleware(), middlewares.RequireRoles(middlewares.RoleAdmin))
	{
		admin.POST("/bookings", rc.ExportBookings)
	}

	tenant := r.Group("/api/academy/reports")
	tenant.Use(middlewares.AuthMiddleware(), middlewares.RequireRoles(middlewares.RoleAcademic, middlewares.RoleAdmin))
	{
		tenant.POST("/bookings", rc.ExportAcademyBookings)
		tenant.GET("/blocks", rc.ExportBlocks)
	}
}
