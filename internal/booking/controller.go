package booking

import (
	"fmt"
	"net/http"
	"strconv"

	"academy-api/internal/logs"
	"academy-api/internal/middlewares"
	"academy-api/internal/util"

	"github.com/gin-gonic/gin"
)

type BookingController struct {
	Service BookingServiceAPI
	LS      LogServicePort
}

func (bc *BookingController) scope(c *gin.Context, param string) (academicID, id uint, ok bool) {
	academicID, err := middlewares.TenantAcademicID(c)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return 0, 0, false
	}
	if param == "" {
		return academicID, 0, true
	}
	n, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || n == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return 0, 0, false
	}
	return academicID, uint(n), true
}

func (bc *BookingController) audit(c *gin.Context, academicID uint, action, msg string, payload any) {
	entry := logs.SystemLog{Level: logs.LevelInfo, Service: "booking", Action: action, Message: msg}
	if academicID != 0 {
		entry.AcademicID = &academicID
	}
	if uid, ok := middlewares.UserID(c); ok {
		entry.UserID = &uid
	}
	logs.Record(bc.LS, entry, payload)
}

func listResponse(c *gin.Context, items []Booking, total int64, f ListFilter) {
	page, size := util.NormalizePage(f.Page, f.PageSize)
	c.JSON(http.StatusOK, gin.H{
		"data":        items,
		"page":        page,
		"page_size":   size,
		"total":       total,
		"total_pages": util.TotalPages(total, size),
	})
}

func (bc *BookingController) Create(c *gin.Context) {
	userID, ok := middlewares.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := bc.Service.Create(c.Request.Context(), userID, in)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	bc.audit(c, b.AcademicID, "CREATE_BOOKING", fmt.Sprintf("Booking %d created", b.ID), in)
	c.JSON(http.StatusCreated, gin.H{"data": b})
}

func (bc *BookingController) Mine(c *gin.Context) {
	userID, ok := middlewares.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var f ListFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	items, total, err := bc.Service.ListMine(userID, f)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	listResponse(c, items, total, f)
}

func (bc *BookingController) List(c *gin.Context) {
	academicID, _, ok := bc.scope(c, "")
	if !ok {
		return
	}
	var f ListFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	items, total, err := bc.Service.List(academicID, f)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	listResponse(c, items, total, f)
}

func (bc *BookingController) Get(c *gin.Context) {
	academicID, id, ok := bc.scope(c, "id")
	if !ok {
		return
	}
	b, err := bc.Service.Get(academicID, id)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": b})
}

func (bc *BookingController) UpdateStatus(c *gin.Context) {
	academicID, id, ok := bc.scope(c, "id")
	if !ok {
		return
	}
	var in StatusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := bc.Service.UpdateStatus(c.Request.Context(), academicID, id, in.Status)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	bc.audit(c, academicID, "UPDATE_BOOKING_STATUS", fmt.Sprintf("Booking %d is now %s", id, b.Status), in)
	c.JSON(http.StatusOK, gin.H{"data": b})
}

func (bc *BookingController) SetDeduction(c *gin.Context) {
	academicID, id, ok := bc.scope(c, "id")
	if !ok {
		return
	}
	var in DeductionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := bc.Service.SetDeduction(academicID, id, in.AssessmentDeductionID)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	bc.audit(c, academicID, "SET_BOOKING_DEDUCTION", fmt.Sprintf("Booking %d deduction updated", id), in)
	c.JSON(http.StatusOK, gin.H{"data": b})
}

func (bc *BookingController) UpdateSessionStatus(c *gin.Context) {
	academicID, id, ok := bc.scope(c, "sessionId")
	if !ok {
		return
	}
	var in StatusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, err := bc.Service.UpdateSessionStatus(c.Request.Context(), academicID, id, in.Status)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	bc.audit(c, academicID, "UPDATE_SESSION_STATUS", fmt.Sprintf("Session %d is now %s", id, s.Status), in)
	c.JSON(http.StatusOK, gin.H{"data": s})
}
