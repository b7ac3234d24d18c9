package booking

import (
	"academy-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, bookingService *BookingService, ls LogServicePort) {
	bc := &BookingController{Service: bookingService, LS: ls}

	mine := r.Group("/api/bookings")
	mine.Use(middlewares.AuthMiddleware())
	{
		mine.POST("", bc.Create)
		mine.GET("/mine", bc.Mine)
	}

	tenant := r.Group("/api/academy")
	tenant.Use(middlewares.AuthMiddleware(), middlewares.RequireRoles(middlewares.RoleAcademic, middlewares.RoleAdmin))
	{
		tenant.GET("/bookings", bc.List)
		tenant.GET("/bookings/:id", bc.Get)
		tenant.PATCH("/bookings/:id/status", bc.UpdateStatus)
		tenant.PUT("/bookings/:id/deduction", bc.SetDeduction)
		tenant.PATCH("/sessions/:sessionId/status", bc.UpdateSessionStatus)
	}
}
