package logs

import (
	"academy-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, logService *LogService) {
	lc := &LogController{LogService: logService}

	group := r.Group("/api/logs")
	group.Use(middlewares.AuthMiddleware(), middlewares.RequireRoles(middlewares.RoleAdmin))
	{
		group.POST("", lc.GetLogs)
	}
}
