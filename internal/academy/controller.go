package academy

import (
	"fmt"
	"net/http"
	"strconv"

	"academy-api/internal/logs"
	"academy-api/internal/middlewares"
	"academy-api/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AcademyController struct {
	Service AcademyServiceAPI
	LS      LogServicePort
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func tenant(c *gin.Context) (uint, bool) {
	id, err := middlewares.TenantAcademicID(c)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return 0, false
	}
	return id, true
}

func (ac *AcademyController) audit(c *gin.Context, academicID uint, action, msg string, payload any) {
	entry := logs.SystemLog{Level: logs.LevelInfo, Service: "academy", Action: action, Message: msg}
	if uid, ok := middlewares.UserID(c); ok {
		entry.UserID = &uid
	}
	if academicID > 0 {
		entry.AcademicID = &academicID
	}
	logs.Record(ac.LS, entry, payload)
}

func (ac *AcademyController) list(c *gin.Context, f ListFilter) {
	items, total, err := ac.Service.List(f)
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

// PublicList only ever shows accepted academies.
func (ac *AcademyController) PublicList(c *gin.Context) {
	var f ListFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f.Status = StatusAccepted
	ac.list(c, f)
}

func (ac *AcademyController) PublicGet(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	a, err := ac.Service.Get(id)
	if err == nil && a.Status != StatusAccepted {
		err = gorm.ErrRecordNotFound
	}
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": a})
}

func (ac *AcademyController) AdminList(c *gin.Context) {
	var f ListFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ac.list(c, f)
}

func (ac *AcademyController) AdminGet(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	a, err := ac.Service.Get(id)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": a})
}

func (ac *AcademyController) SetStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in StatusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := ac.Service.SetStatus(id, in.Status)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	ac.audit(c, id, "SET_ACADEMY_STATUS", fmt.Sprintf("Academy %d %s", id, a.Status), in)
	c.JSON(http.StatusOK, gin.H{"data": a})
}

func (ac *AcademyController) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ac.Service.Delete(c.Request.Context(), id); err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	ac.audit(c, 0, "DELETE_ACADEMY", fmt.Sprintf("Academy %d deleted", id), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Academy deleted", "id": id})
}

func (ac *AcademyController) BulkDelete(c *gin.Context) {
	ids, err := util.ParseIDList(c.QueryArray("ids"))
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	n, err := ac.Service.BulkDelete(c.Request.Context(), ids)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	ac.audit(c, 0, "BULK_DELETE_ACADEMIES", fmt.Sprintf("%d academies deleted", n), gin.H{"ids": ids})
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

func (ac *AcademyController) Mine(c *gin.Context) {
	id, ok := tenant(c)
	if !ok {
		return
	}
	a, err := ac.Service.Get(id)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": a})
}

func (ac *AcademyController) UpdateDetails(c *gin.Context) {
	id, ok := tenant(c)
	if !ok {
		return
	}
	var in DetailsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := ac.Service.UpdateDetails(id, in)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	ac.audit(c, id, "UPDATE_ACADEMY", fmt.Sprintf("Academy %d details updated", id), in)
	c.JSON(http.StatusOK, gin.H{"data": a})
}

func (ac *AcademyController) UpdateMedia(c *gin.Context) {
	id, ok := tenant(c)
	if !ok {
		return
	}
	var in MediaInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := ac.Service.UpdateMedia(c.Request.Context(), id, in)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	ac.audit(c, id, "UPDATE_ACADEMY_MEDIA", fmt.Sprintf("Academy %d media updated", id), gin.H{"logo": in.Logo != nil, "gallery": len(in.Gallery)})
	c.JSON(http.StatusOK, gin.H{"data": a})
}

func (ac *AcademyController) CompleteOnboarding(c *gin.Context) {
	id, ok := tenant(c)
	if !ok {
		return
	}
	a, err := ac.Service.CompleteOnboarding(id)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	ac.audit(c, id, "COMPLETE_ONBOARDING", fmt.Sprintf("Academy %d onboarded", id), nil)
	c.JSON(http.StatusOK, gin.H{"data": a})
}

func (ac *AcademyController) ListAthletics(c *gin.Context) {
	id, ok := tenant(c)
	if !ok {
		return
	}
	rows, err := ac.Service.ListAthletics(id)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (ac *AcademyController) AddAthletic(c *gin.Context) {
	id, ok := tenant(c)
	if !ok {
		return
	}
	var in AthleticInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	row, err := ac.Service.AddAthletic(id, in)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	ac.audit(c, id, "ADD_ATHLETIC", fmt.Sprintf("User %d joined academy %d", in.UserID, id), in)
	c.JSON(http.StatusCreated, gin.H{"data": row})
}

func (ac *AcademyController) RemoveAthletic(c *gin.Context) {
	id, ok := tenant(c)
	if !ok {
		return
	}
	aid, ok := paramID(c, "athleticId")
	if !ok {
		return
	}
	if err := ac.Service.RemoveAthletic(id, aid); err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	ac.audit(c, id, "REMOVE_ATHLETIC", fmt.Sprintf("Athletic %d removed from academy %d", aid, id), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Removed", "id": aid})
}
