package coach

import (
	"fmt"
	"net/http"
	"strconv"

	"academy-api/internal/logs"
	"academy-api/internal/middlewares"
	"academy-api/internal/util"

	"github.com/gin-gonic/gin"
)

type CoachController struct {
	Service CoachServiceAPI
	LS      LogServicePort
}

func (cc *CoachController) scope(c *gin.Context, withID bool) (academicID, id uint, ok bool) {
	academicID, err := middlewares.TenantAcademicID(c)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return 0, 0, false
	}
	if !withID {
		return academicID, 0, true
	}
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || n == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coach id"})
		return 0, 0, false
	}
	return academicID, uint(n), true
}

func (cc *CoachController) audit(c *gin.Context, academicID uint, action, msg string, payload any) {
	entry := logs.SystemLog{Level: logs.LevelInfo, Service: "coach", Action: action, Message: msg, AcademicID: &academicID}
	if uid, ok := middlewares.UserID(c); ok {
		entry.UserID = &uid
	}
	logs.Record(cc.LS, entry, payload)
}

func (cc *CoachController) List(c *gin.Context) {
	academicID, _, ok := cc.scope(c, false)
	if !ok {
		return
	}
	var f ListFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	items, total, err := cc.Service.List(academicID, f)
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

func (cc *CoachController) Get(c *gin.Context) {
	academicID, id, ok := cc.scope(c, true)
	if !ok {
		return
	}
	co, err := cc.Service.Get(academicID, id)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": co})
}

func (cc *CoachController) Create(c *gin.Context) {
	academicID, _, ok := cc.scope(c, false)
	if !ok {
		return
	}
	var in CoachInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	co, err := cc.Service.Create(c.Request.Context(), academicID, in)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	cc.audit(c, academicID, "CREATE_COACH", fmt.Sprintf("Coach %d created", co.ID), withoutImage(in))
	c.JSON(http.StatusCreated, gin.H{"data": co})
}

func (cc *CoachController) Update(c *gin.Context) {
	academicID, id, ok := cc.scope(c, true)
	if !ok {
		return
	}
	var in CoachInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	co, err := cc.Service.Update(c.Request.Context(), academicID, id, in)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	cc.audit(c, academicID, "UPDATE_COACH", fmt.Sprintf("Coach %d updated", id), withoutImage(in))
	c.JSON(http.StatusOK, gin.H{"data": co})
}

func (cc *CoachController) Delete(c *gin.Context) {
	academicID, id, ok := cc.scope(c, true)
	if !ok {
		return
	}
	if err := cc.Service.Delete(academicID, id); err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	cc.audit(c, academicID, "DELETE_COACH", fmt.Sprintf("Coach %d deleted", id), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Coach deleted", "id": id})
}

func (cc *CoachController) BulkDelete(c *gin.Context) {
	academicID, _, ok := cc.scope(c, false)
	if !ok {
		return
	}
	ids, err := util.ParseIDList(c.QueryArray("ids"))
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	n, err := cc.Service.BulkDelete(academicID, ids)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	cc.audit(c, academicID, "BULK_DELETE_COACHES", fmt.Sprintf("%d coaches deleted", n), gin.H{"ids": ids})
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

// withoutImage keeps base64 payloads out of the audit log.
func withoutImage(in CoachInput) CoachInput {
	in.Image = nil
	return in
}
