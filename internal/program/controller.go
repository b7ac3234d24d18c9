package program

import (
	"fmt"
	"net/http"
	"strconv"

	"academy-api/internal/logs"
	"academy-api/internal/middlewares"
	"academy-api/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgramController struct {
	Service ProgramServiceAPI
	LS      LogServicePort
}

// scope resolves the tenant academy and, when param is set, a positive id
// path parameter.
func (pc *ProgramController) scope(c *gin.Context, param string) (academicID, id uint, ok bool) {
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

func (pc *ProgramController) audit(c *gin.Context, academicID uint, action, msg string, payload any) {
	entry := logs.SystemLog{Level: logs.LevelInfo, Service: "program", Action: action, Message: msg, AcademicID: &academicID}
	if uid, ok := middlewares.UserID(c); ok {
		entry.UserID = &uid
	}
	logs.Record(pc.LS, entry, payload)
}

func (pc *ProgramController) List(c *gin.Context) {
	academicID, _, ok := pc.scope(c, "")
	if !ok {
		return
	}
	var f ListFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	items, total, err := pc.Service.List(academicID, f)
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

func (pc *ProgramController) Get(c *gin.Context) {
	academicID, id, ok := pc.scope(c, "id")
	if !ok {
		return
	}
	p, err := pc.Service.Get(academicID, id)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": p})
}

func (pc *ProgramController) Create(c *gin.Context) {
	academicID, _, ok := pc.scope(c, "")
	if !ok {
		return
	}
	var in ProgramInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := pc.Service.Create(academicID, in)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	pc.audit(c, academicID, "CREATE_PROGRAM", fmt.Sprintf("Program %d created", p.ID), in)
	c.JSON(http.StatusCreated, gin.H{"data": p})
}

func (pc *ProgramController) Update(c *gin.Context) {
	academicID, id, ok := pc.scope(c, "id")
	if !ok {
		return
	}
	var in ProgramInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := pc.Service.Update(academicID, id, in)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	pc.audit(c, academicID, "UPDATE_PROGRAM", fmt.Sprintf("Program %d updated", id), in)
	c.JSON(http.StatusOK, gin.H{"data": p})
}

func (pc *ProgramController) Delete(c *gin.Context) {
	academicID, id, ok := pc.scope(c, "id")
	if !ok {
		return
	}
	if err := pc.Service.Delete(academicID, id); err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	pc.audit(c, academicID, "DELETE_PROGRAM", fmt.Sprintf("Program %d deleted", id), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Program deleted", "id": id})
}

func (pc *ProgramController) BulkDelete(c *gin.Context) {
	academicID, _, ok := pc.scope(c, "")
	if !ok {
		return
	}
	ids, err := util.ParseIDList(c.QueryArray("ids"))
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	n, err := pc.Service.BulkDelete(academicID, ids)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	pc.audit(c, academicID, "BULK_DELETE_PROGRAMS", fmt.Sprintf("%d programs deleted", n), gin.H{"ids": ids})
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

func (pc *ProgramController) CreatePackage(c *gin.Context) {
	academicID, programID, ok := pc.scope(c, "id")
	if !ok {
		return
	}
	var in PackageInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pkg, err := pc.Service.CreatePackage(academicID, programID, in)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	pc.audit(c, academicID, "CREATE_PACKAGE", fmt.Sprintf("Package %d created in program %d", pkg.ID, programID), in)
	c.JSON(http.StatusCreated, gin.H{"data": pkg})
}

func (pc *ProgramController) UpdatePackage(c *gin.Context) {
	academicID, id, ok := pc.scope(c, "packageId")
	if !ok {
		return
	}
	var in PackageInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pkg, err := pc.Service.UpdatePackage(academicID, id, in)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	pc.audit(c, academicID, "UPDATE_PACKAGE", fmt.Sprintf("Package %d updated", id), in)
	c.JSON(http.StatusOK, gin.H{"data": pkg})
}

func (pc *ProgramController) DeletePackage(c *gin.Context) {
	academicID, id, ok := pc.scope(c, "packageId")
	if !ok {
		return
	}
	if err := pc.Service.DeletePackage(academicID, id); err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	pc.audit(c, academicID, "DELETE_PACKAGE", fmt.Sprintf("Package %d deleted", id), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Package deleted", "id": id})
}

func (pc *ProgramController) CreateDiscount(c *gin.Context) {
	academicID, programID, ok := pc.scope(c, "id")
	if !ok {
		return
	}
	var in DiscountInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, err := pc.Service.CreateDiscount(academicID, programID, in)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	pc.audit(c, academicID, "CREATE_DISCOUNT", fmt.Sprintf("Discount %d created in program %d", d.ID, programID), in)
	c.JSON(http.StatusCreated, gin.H{"data": d})
}

func (pc *ProgramController) UpdateDiscount(c *gin.Context) {
	academicID, id, ok := pc.scope(c, "discountId")
	if !ok {
		return
	}
	var in DiscountInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, err := pc.Service.UpdateDiscount(academicID, id, in)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	pc.audit(c, academicID, "UPDATE_DISCOUNT", fmt.Sprintf("Discount %d updated", id), in)
	c.JSON(http.StatusOK, gin.H{"data": d})
}

func (pc *ProgramController) DeleteDiscount(c *gin.Context) {
	academicID, id, ok := pc.scope(c, "discountId")
	if !ok {
		return
	}
	if err := pc.Service.DeleteDiscount(academicID, id); err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	pc.audit(c, academicID, "DELETE_DISCOUNT", fmt.Sprintf("Discount %d deleted", id), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Discount deleted", "id": id})
}
