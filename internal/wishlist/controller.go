package wishlist

import (
	"net/http"
	"strconv"

	"academy-api/internal/middlewares"
	"academy-api/internal/util"

	"github.com/gin-gonic/gin"
)

type WishlistController struct {
	Service WishlistServiceAPI
}

func (wc *WishlistController) caller(c *gin.Context) (userID, academicID uint, ok bool) {
	userID, ok = middlewares.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, 0, false
	}
	if c.Param("academicId") == "" {
		return userID, 0, true
	}
	n, err := strconv.ParseUint(c.Param("academicId"), 10, 64)
	if err != nil || n == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid academicId"})
		return 0, 0, false
	}
	return userID, uint(n), true
}

func (wc *WishlistController) Add(c *gin.Context) {
	userID, academicID, ok := wc.caller(c)
	if !ok {
		return
	}
	w, err := wc.Service.Add(userID, academicID)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": w})
}

func (wc *WishlistController) Remove(c *gin.Context) {
	userID, academicID, ok := wc.caller(c)
	if !ok {
		return
	}
	if err := wc.Service.Remove(userID, academicID); err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "removed from wishlist"})
}

func (wc *WishlistController) List(c *gin.Context) {
	userID, _, ok := wc.caller(c)
	if !ok {
		return
	}
	var f ListFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	items, total, err := wc.Service.List(userID, f)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	page, size := util.NormalizePage(f.Page, f.PageSize)
	c.JSON(http.StatusOK, gin.H{
		"data":        items,
		"page":        page,
		"page_size":   size,
		"total":       total,
		"total_pages": util.TotalPages(total, size),
	})
}
