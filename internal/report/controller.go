package report

import (
	"net/http"

	"academy-api/internal/logs"
	"academy-api/internal/middlewares"
	"academy-api/internal/util"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	Service ReportServiceAPI
	LS      LogServicePort
}

func (rc *ReportController) send(c *gin.Context, f *File, action string, academicID uint, payload any) {
	entry := logs.SystemLog{Level: logs.LevelInfo, Service: "report", Action: action, Message: "Exported " + f.Name}
	if academicID != 0 {
		entry.AcademicID = &academicID
	}
	if uid, ok := middlewares.UserID(c); ok {
		entry.UserID = &uid
	}
	logs.Record(rc.LS, entry, payload)

	c.Header("Content-Disposition", `attachment; filename="`+f.Name+`"`)
	c.Data(http.StatusOK, f.ContentType, f.Data)
}

// ExportBookings serves POST /api/admin/reports/bookings.
func (rc *ReportController) ExportBookings(c *gin.Context) {
	var req BookingExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, err := rc.Service.ExportBookings(req)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	rc.send(c, f, "EXPORT_BOOKINGS", 0, req)
}

func (rc *ReportController) ExportAcademyBookings(c *gin.Context) {
	academicID, err := middlewares.TenantAcademicID(c)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	var req BookingExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, err := rc.Service.ExportAcademyBookings(academicID, req)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	rc.send(c, f, "EXPORT_BOOKINGS", academicID, req)
}

func (rc *ReportController) ExportBlocks(c *gin.Context) {
	academicID, err := middlewares.TenantAcademicID(c)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	var req BlockExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, err := rc.Service.ExportBlocks(academicID, req)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	rc.send(c, f, "EXPORT_BLOCKS", academicID, req)
}
