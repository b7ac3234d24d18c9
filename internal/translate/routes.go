package translate

import (
	"academy-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, suggester *Suggester) {
	tc := &TranslateController{Suggester: suggester}

	group := r.Group("/api/translate")
	group.Use(middlewares.AuthMiddleware(), middlewares.RequireRoles(middlewares.RoleAdmin, middlewares.RoleAcademic))
	{
		group.POST("/suggest", tc.Suggest)
	}
}
