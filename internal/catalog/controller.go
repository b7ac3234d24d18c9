package catalog

import (
	"fmt"
	"net/http"
	"strconv"

	"academy-api/internal/logs"
	"academy-api/internal/middlewares"
	"academy-api/internal/util"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	Service CatalogServiceAPI
	Sports  SportsReader
	LS      logs.Writer
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func (cc *CatalogController) audit(c *gin.Context, action, msg string, payload any) {
	entry := logs.SystemLog{Level: logs.LevelInfo, Service: "catalog", Action: action, Message: msg}
	if uid, ok := middlewares.UserID(c); ok {
		entry.UserID = &uid
	}
	logs.Record(cc.LS, entry, payload)
}

func (cc *CatalogController) ListSports(c *gin.Context) {
	items, cached, err := cc.Sports.Sports(c.Request.Context(), c.Query("locale"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if cached {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (cc *CatalogController) GetSport(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	sport, err := cc.Service.GetSport(id)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sport})
}

func (cc *CatalogController) CreateSport(c *gin.Context) {
	var in SportInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sport, err := cc.Service.CreateSport(in)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	cc.Sports.Invalidate(c.Request.Context())
	cc.audit(c, "CREATE_SPORT", fmt.Sprintf("Sport %d created", sport.ID), in)
	c.JSON(http.StatusCreated, gin.H{"data": sport})
}

func (cc *CatalogController) UpdateSport(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in SportInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sport, err := cc.Service.UpdateSport(id, in)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	cc.Sports.Invalidate(c.Request.Context())
	cc.audit(c, "UPDATE_SPORT", fmt.Sprintf("Sport %d updated", id), in)
	c.JSON(http.StatusOK, gin.H{"data": sport})
}

func (cc *CatalogController) DeleteSport(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := cc.Service.DeleteSport(id); err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	cc.Sports.Invalidate(c.Request.Context())
	cc.audit(c, "DELETE_SPORT", fmt.Sprintf("Sport %d deleted", id), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Sport deleted", "id": id})
}

// BulkDeleteSports handles DELETE /api/sports?ids=1,2,3.
func (cc *CatalogController) BulkDeleteSports(c *gin.Context) {
	ids, err := util.ParseIDList(c.QueryArray("ids"))
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	n, err := cc.Service.BulkDeleteSports(ids)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	cc.Sports.Invalidate(c.Request.Context())
	cc.audit(c, "BULK_DELETE_SPORTS", fmt.Sprintf("%d sports deleted", n), gin.H{"ids": ids})
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

func (cc *CatalogController) listHandler(fn func(string) ([]LocalizedItem, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := fn(c.Query("locale"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": items})
	}
}

func (cc *CatalogController) ListFacilities(c *gin.Context) {
	cc.listHandler(cc.Service.ListFacilities)(c)
}

func (cc *CatalogController) ListGenders(c *gin.Context) {
	cc.listHandler(cc.Service.ListGenders)(c)
}

func (cc *CatalogController) ListSpokenLanguages(c *gin.Context) {
	cc.listHandler(cc.Service.ListSpokenLanguages)(c)
}

func (cc *CatalogController) CreateFacility(c *gin.Context) {
	var in CatalogInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, err := cc.Service.CreateFacility(in)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	cc.audit(c, "CREATE_FACILITY", fmt.Sprintf("Facility %d created", f.ID), in)
	c.JSON(http.StatusCreated, gin.H{"data": f})
}

func (cc *CatalogController) CreateGender(c *gin.Context) {
	var in CatalogInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g, err := cc.Service.CreateGender(in)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	cc.audit(c, "CREATE_GENDER", fmt.Sprintf("Gender %d created", g.ID), in)
	c.JSON(http.StatusCreated, gin.H{"data": g})
}

func (cc *CatalogController) CreateSpokenLanguage(c *gin.Context) {
	var in CatalogInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	l, err := cc.Service.CreateSpokenLanguage(in)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	cc.audit(c, "CREATE_SPOKEN_LANGUAGE", fmt.Sprintf("Spoken language %s created", l.Code), in)
	c.JSON(http.StatusCreated, gin.H{"data": l})
}
