package wishlist

import (
	"academy-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, wishlistService *WishlistService) {
	wc := &WishlistController{Service: wishlistService}

	group := r.Group("/api/wishlist")
	group.Use(middlewares.AuthMiddleware())
	{
		group.GET("", wc.List)
		group.POST("/:academicId", wc.Add)
		group.DELETE("/:academicId", wc.Remove)
	}
}
