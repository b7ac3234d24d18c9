package logs

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"academy-api/internal/util"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Writer is the audit sink the feature controllers depend on.
type Writer interface {
	Log(entry SystemLog, payload any) error
}

// Record writes an audit entry and only prints a failure; auditing never
// fails the request that triggered it.
func Record(w Writer, entry SystemLog, payload any) {
	if w == nil {
		return
	}
	if err := w.Log(entry, payload); err != nil {
		log.Printf("Failed to insert log: %v", err)
	}
}

type LogService struct {
	DB *gorm.DB
}

var _ Writer = (*LogService)(nil)

func (ls *LogService) Log(entry SystemLog, metadata interface{}) error {
	var meta []byte
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			meta = b
		}
	}

	row := SystemLog{
		Level:      entry.Level,
		Service:    util.ClampText(entry.Service, 100),
		UserID:     entry.UserID,
		AcademicID: entry.AcademicID,
		Action:     util.ClampText(entry.Action, 255),
		Message:    entry.Message,
		Resources:  entry.Resources,
		Metadata:   meta,
		CreatedAt:  time.Now(),
	}
	if row.Level == "" {
		row.Level = LevelInfo
	}

	return ls.DB.Create(&row).Error
}

func (ls *LogService) GetLogs(input LogFilterInput) ([]LogRow, LogAggregates, int64, int, error) {
	input.Page, input.PageSize = util.NormalizePage(input.Page, input.PageSize)

	base := ls.DB.
		Table("logs").
		Select("logs.*, a.firstname as firstname, a.lastname as lastname").
		Joins("LEFT JOIN users a ON logs.user_id = a.id")

	// last 30 days unless a range is given
	if input.StartDate == nil && input.EndDate == nil {
		base = base.Where("logs.created_at >= ?", time.Now().AddDate(0, 0, -30))
	}

	if input.UserID != nil {
		base = base.Where("logs.user_id = ?", *input.UserID)
	}
	if input.AcademicID != nil {
		base = base.Where("logs.academic_id = ?", *input.AcademicID)
	}
	if v := trimmed(input.Level); v != "" {
		base = base.Where("logs.level = ?", v)
	}
	if v := trimmed(input.Service); v != "" {
		base = base.Where("logs.service = ?", v)
	}
	if v := trimmed(input.Action); v != "" {
		base = base.Where("logs.action = ?", v)
	}
	if len(input.Resources) > 0 {
		base = base.Where("logs.resources && ?", pq.Array(input.Resources))
	}

	start, hasStart, endExclusive, hasEnd, err := util.ParseDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, LogAggregates{}, 0, 0, err
	}
	if hasStart {
		base = base.Where("logs.created_at >= ?", start)
	}
	if hasEnd {
		base = base.Where("logs.created_at < ?", endExclusive)
	}

	if v := trimmed(input.Search); v != "" {
		like := "%" + v + "%"
		base = base.Where(
			`CAST(logs.id AS TEXT) ILIKE ?
			 OR logs.service ILIKE ?
			 OR logs.action ILIKE ?
			 OR logs.message ILIKE ?
			 OR COALESCE(array_to_string(logs.resources, ','),'') ILIKE ?
			 OR COALESCE(a.firstname,'') ILIKE ?
			 OR COALESCE(a.lastname,'') ILIKE ?`,
			like, like, like, like, like, like, like,
		)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, LogAggregates{}, 0, 0, err
	}
	totalPages := util.TotalPages(total, input.PageSize)

	var rows []LogRow
	if err := base.
		Session(&gorm.Session{}).
		Order("logs.created_at DESC").
		Limit(input.PageSize).
		Offset((input.Page - 1) * input.PageSize).
		Scan(&rows).Error; err != nil {
		return nil, LogAggregates{}, 0, 0, err
	}

	aggs, err := ls.aggregates(base)
	if err != nil {
		return nil, LogAggregates{}, 0, 0, err
	}

	return rows, aggs, total, totalPages, nil
}

func (ls *LogService) aggregates(base *gorm.DB) (LogAggregates, error) {
	const limit = 12
	aggs := LogAggregates{}

	sub := base.Session(&gorm.Session{}).
		Select("logs.user_id, logs.service, logs.action, a.firstname, a.lastname")
	derived := ls.DB.Table("(?) as x", sub)

	countBy := func(col string) ([]AggItem, error) {
		var out []AggItem
		err := derived.Session(&gorm.Session{}).
			Select(col + " AS label, COUNT(*) AS count").
			Group(col).
			Order("count DESC").
			Limit(limit).
			Scan(&out).Error
		return out, err
	}

	var err error
	if aggs.ByService, err = countBy("x.service"); err != nil {
		return LogAggregates{}, err
	}
	if aggs.ByAction, err = countBy("x.action"); err != nil {
		return LogAggregates{}, err
	}

	if err := derived.Session(&gorm.Session{}).
		Select(`
			x.user_id,
			COALESCE(x.firstname,'') AS firstname,
			COALESCE(x.lastname,'') AS lastname,
			CASE
				WHEN (COALESCE(x.firstname,'') = '' AND COALESCE(x.lastname,'') = '')
				THEN 'Unknown'
				ELSE TRIM(COALESCE(x.firstname,'') || ' ' || COALESCE(x.lastname,''))
			END AS label,
			COUNT(*) AS count
		`).
		Group("x.user_id, firstname, lastname, label").
		Order("count DESC").
		Limit(limit).
		Scan(&aggs.ByPerson).Error; err != nil {
		return LogAggregates{}, err
	}

	return aggs, nil
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}
