package logs

import (
	"net/http"

	"academy-api/internal/util"

	"github.com/gin-gonic/gin"
)

type LogServiceAPI interface {
	GetLogs(input LogFilterInput) ([]LogRow, LogAggregates, int64, int, error)
}

var _ LogServiceAPI = (*LogService)(nil)

type LogController struct {
	LogService LogServiceAPI
}

func (lc *LogController) GetLogs(c *gin.Context) {
	var input LogFilterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rows, aggs, total, totalPages, err := lc.LogService.GetLogs(input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	page, pageSize := util.NormalizePage(input.Page, input.PageSize)
	c.JSON(http.StatusOK, gin.H{
		"data":        rows,
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": totalPages,
		"aggregates":  aggs,
	})
}
