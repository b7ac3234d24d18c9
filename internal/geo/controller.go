package geo

import (
	"fmt"
	"net/http"
	"strconv"

	"academy-api/internal/logs"
	"academy-api/internal/middlewares"
	"academy-api/internal/util"

	"github.com/gin-gonic/gin"
)

type GeoController struct {
	Service GeoServiceAPI
	LS      LogServicePort
}

func (gc *GeoController) level(c *gin.Context) (Level, bool) {
	l, err := ParseLevel(c.Param("level"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return "", false
	}
	return l, true
}

func (gc *GeoController) levelAndID(c *gin.Context) (Level, uint, bool) {
	l, ok := gc.level(c)
	if !ok {
		return "", 0, false
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return "", 0, false
	}
	return l, uint(id), true
}

func (gc *GeoController) audit(c *gin.Context, action, msg string, payload any) {
	entry := logs.SystemLog{Level: logs.LevelInfo, Service: "geo", Action: action, Message: msg}
	if uid, ok := middlewares.UserID(c); ok {
		entry.UserID = &uid
	}
	logs.Record(gc.LS, entry, payload)
}

func (gc *GeoController) List(c *gin.Context) {
	l, ok := gc.level(c)
	if !ok {
		return
	}
	var f ListFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	items, total, err := gc.Service.List(l, f)
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

func (gc *GeoController) Get(c *gin.Context) {
	l, id, ok := gc.levelAndID(c)
	if !ok {
		return
	}
	place, err := gc.Service.Get(l, id)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": place})
}

func (gc *GeoController) Create(c *gin.Context) {
	l, ok := gc.level(c)
	if !ok {
		return
	}
	var in PlaceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	place, err := gc.Service.Create(l, in)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	gc.audit(c, "CREATE_PLACE", fmt.Sprintf("%s %d created", l, place.ID), in)
	c.JSON(http.StatusCreated, gin.H{"data": place})
}

func (gc *GeoController) Update(c *gin.Context) {
	l, id, ok := gc.levelAndID(c)
	if !ok {
		return
	}
	var in PlaceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	place, err := gc.Service.UpdateMain(l, id, in)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	gc.audit(c, "UPDATE_PLACE", fmt.Sprintf("%s %d updated", l, id), in)
	c.JSON(http.StatusOK, gin.H{"data": place})
}

func (gc *GeoController) SetTranslation(c *gin.Context) {
	l, id, ok := gc.levelAndID(c)
	if !ok {
		return
	}
	var in TranslationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	place, err := gc.Service.SetTranslation(l, id, c.Param("locale"), in)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	gc.audit(c, "SET_PLACE_TRANSLATION", fmt.Sprintf("%s %d translation %s saved", l, id, c.Param("locale")), in)
	c.JSON(http.StatusOK, gin.H{"data": place})
}

func (gc *GeoController) DeleteTranslation(c *gin.Context) {
	l, id, ok := gc.levelAndID(c)
	if !ok {
		return
	}
	if err := gc.Service.DeleteTranslation(l, id, c.Param("locale")); err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	gc.audit(c, "DELETE_PLACE_TRANSLATION", fmt.Sprintf("%s %d translation %s deleted", l, id, c.Param("locale")), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Translation deleted"})
}

func (gc *GeoController) Delete(c *gin.Context) {
	l, id, ok := gc.levelAndID(c)
	if !ok {
		return
	}
	if err := gc.Service.Delete(l, id); err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	gc.audit(c, "DELETE_PLACE", fmt.Sprintf("%s %d deleted", l, id), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Deleted", "id": id})
}

func (gc *GeoController) BulkDelete(c *gin.Context) {
	l, ok := gc.level(c)
	if !ok {
		return
	}
	ids, err := util.ParseIDList(c.QueryArray("ids"))
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	n, err := gc.Service.BulkDelete(l, ids)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	gc.audit(c, "BULK_DELETE_PLACES", fmt.Sprintf("%d %s deleted", n, l), gin.H{"ids": ids})
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

func (gc *GeoController) Import(c *gin.Context) {
	l, ok := gc.level(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required", "field": "file"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file"})
		return
	}
	defer f.Close()

	res, err := gc.Service.Import(l, fh.Filename, f)
	if err != nil {
		status, body := util.ErrorResponse(err)
		if res != nil && len(res.Errors) > 0 {
			body["rows"] = res.Errors
		}
		c.JSON(status, body)
		return
	}
	gc.audit(c, "IMPORT_PLACES", fmt.Sprintf("%d %s imported from %s", res.Created, l, fh.Filename), nil)
	c.JSON(http.StatusCreated, gin.H{"data": res})
}
