package page

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"academy-api/internal/logs"
	"academy-api/internal/middlewares"
	"academy-api/internal/util"

	"github.com/gin-gonic/gin"
)

type PageController struct {
	Service PageServiceAPI
	LS      LogServicePort
}

// Get serves GET /api/pages/:slug?locale=..&last_modified=..
//
// last_modified is the updated_at the client cached, as RFC3339 or unix
// milliseconds.
func (pc *PageController) Get(c *gin.Context) {
	clientLM, err := parseOptionalTime(c.Query("last_modified"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid last_modified (use RFC3339 or unix ms)"})
		return
	}

	res, err := pc.Service.GetIfModified(c.Param("slug"), c.Query("locale"), clientLM)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}

	p := res.Page
	c.Header("Last-Modified", p.UpdatedAt.UTC().Format(time.RFC3339Nano))
	c.Header("ETag", p.Checksum)

	out := gin.H{
		"not_modified": res.NotModified,
		"slug":         p.Slug,
		"checksum":     p.Checksum,
		"updated_at":   p.UpdatedAt,
	}
	if !res.NotModified {
		out["locale"] = res.Translation.Locale
		out["title"] = res.Translation.Title
		out["body"] = res.Translation.Body
	}
	c.JSON(http.StatusOK, out)
}

func (pc *PageController) List(c *gin.Context) {
	pages, err := pc.Service.List()
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": pages})
}

func (pc *PageController) Upsert(c *gin.Context) {
	var in PageInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := pc.Service.Upsert(c.Param("slug"), in)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	pc.audit(c, "UPSERT_PAGE", "Page "+p.Slug+" saved", in)
	c.JSON(http.StatusOK, gin.H{"data": p})
}

func (pc *PageController) Delete(c *gin.Context) {
	slug := c.Param("slug")
	if err := pc.Service.Delete(slug); err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	pc.audit(c, "DELETE_PAGE", "Page "+slug+" deleted", nil)
	c.JSON(http.StatusOK, gin.H{"message": "page deleted"})
}

func (pc *PageController) audit(c *gin.Context, action, msg string, payload any) {
	entry := logs.SystemLog{Level: logs.LevelInfo, Service: "page", Action: action, Message: msg}
	if uid, ok := middlewares.UserID(c); ok {
		entry.UserID = &uid
	}
	logs.Record(pc.LS, entry, payload)
}

func parseOptionalTime(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return &t, nil
	}
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		t := time.UnixMilli(ms)
		return &t, nil
	}
	return nil, strconv.ErrSyntax
}
