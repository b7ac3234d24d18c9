package branch

import (
	"fmt"
	"net/http"
	"strconv"

	"academy-api/internal/logs"
	"academy-api/internal/middlewares"
	"academy-api/internal/util"

	"github.com/gin-gonic/gin"
)

type BranchController struct {
	Service BranchServiceAPI
	LS      LogServicePort
}

func (bc *BranchController) scope(c *gin.Context, withID bool) (academicID, id uint, ok bool) {
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
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid branch id"})
		return 0, 0, false
	}
	return academicID, uint(n), true
}

func (bc *BranchController) audit(c *gin.Context, academicID uint, action, msg string, payload any) {
	entry := logs.SystemLog{Level: logs.LevelInfo, Service: "branch", Action: action, Message: msg, AcademicID: &academicID}
	if uid, ok := middlewares.UserID(c); ok {
		entry.UserID = &uid
	}
	logs.Record(bc.LS, entry, payload)
}

func (bc *BranchController) List(c *gin.Context) {
	academicID, _, ok := bc.scope(c, false)
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
	page, size := util.NormalizePage(f.Page, f.PageSize)
	c.JSON(http.StatusOK, gin.H{
		"data":        items,
		"page":        page,
		"page_size":   size,
		"total":       total,
		"total_pages": util.TotalPages(total, size),
	})
}

func (bc *BranchController) Get(c *gin.Context) {
	academicID, id, ok := bc.scope(c, true)
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

func (bc *BranchController) Create(c *gin.Context) {
	academicID, _, ok := bc.scope(c, false)
	if !ok {
		return
	}
	var in BranchInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := bc.Service.Create(academicID, in)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	bc.audit(c, academicID, "CREATE_BRANCH", fmt.Sprintf("Branch %d created", b.ID), in)
	c.JSON(http.StatusCreated, gin.H{"data": b})
}

func (bc *BranchController) Update(c *gin.Context) {
	academicID, id, ok := bc.scope(c, true)
	if !ok {
		return
	}
	var in BranchInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := bc.Service.Update(academicID, id, in)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	bc.audit(c, academicID, "UPDATE_BRANCH", fmt.Sprintf("Branch %d updated", id), in)
	c.JSON(http.StatusOK, gin.H{"data": b})
}

func (bc *BranchController) Delete(c *gin.Context) {
	academicID, id, ok := bc.scope(c, true)
	if !ok {
		return
	}
	if err := bc.Service.Delete(academicID, id); err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	bc.audit(c, academicID, "DELETE_BRANCH", fmt.Sprintf("Branch %d deleted", id), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Branch deleted", "id": id})
}

func (bc *BranchController) BulkDelete(c *gin.Context) {
	academicID, _, ok := bc.scope(c, false)
	if !ok {
		return
	}
	ids, err := util.ParseIDList(c.QueryArray("ids"))
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	n, err := bc.Service.BulkDelete(academicID, ids)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	bc.audit(c, academicID, "BULK_DELETE_BRANCHES", fmt.Sprintf("%d branches deleted", n), gin.H{"ids": ids})
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}
