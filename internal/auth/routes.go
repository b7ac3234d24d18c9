package auth

import (
	"academy-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, authService *AuthService, ls LogServicePort) {
	ac := &AuthController{AuthService: authService, LS: ls}

	public := r.Group("/api/auth")
	{
		public.POST("/signup", ac.SignUp)
		public.POST("/login", ac.Login)
		public.POST("/logout", ac.Logout)
		public.POST("/refresh", ac.Refresh)
		public.GET("/me", ac.Me)
	}

	admin := r.Group("/api/auth")
	admin.Use(middlewares.AuthMiddleware(), middlewares.RequireRoles(middlewares.RoleAdmin))
	{
		admin.POST("/impersonate", ac.Impersonate)
		admin.DELETE("/impersonate", ac.StopImpersonation)
	}

	users := r.Group("/api/users")
	users.Use(middlewares.AuthMiddleware(), middlewares.RequireRoles(middlewares.RoleAdmin))
	{
		users.GET("", ac.GetUsers)
	}

	profiles := r.Group("/api/profiles")
	profiles.Use(middlewares.AuthMiddleware())
	{
		profiles.GET("", ac.ListProfiles)
		profiles.POST("", ac.CreateProfile)
		profiles.DELETE("/:id", ac.DeleteProfile)
	}
}
