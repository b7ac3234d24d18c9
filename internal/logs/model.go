package logs

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

const (
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

type SystemLog struct {
	ID         uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Level      string         `gorm:"size:20;not null" json:"level"`
	Service    string         `gorm:"size:100;not null;index" json:"service"`
	UserID     *uint          `gorm:"index" json:"user_id,omitempty"`
	AcademicID *uint          `gorm:"index" json:"academic_id,omitempty"`
	Action     string         `gorm:"size:255;not null" json:"action"`
	Message    string         `gorm:"type:text;not null" json:"message"`
	Resources  pq.StringArray `gorm:"type:text[];column:resources" json:"resources"`
	Metadata   datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

type LogFilterInput struct {
	UserID     *uint    `json:"user_id"`
	AcademicID *uint    `json:"academic_id"`
	Level      *string  `json:"level"`
	Service    *string  `json:"service"`
	Action     *string  `json:"action"`
	Resources  []string `json:"resources"`

	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`

	Search   *string `json:"search"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

type AggItem struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

type PersonAggItem struct {
	UserID    *uint  `json:"user_id,omitempty"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Label     string `json:"label"`
	Count     int64  `json:"count"`
}

type LogAggregates struct {
	ByService []AggItem       `json:"by_service"`
	ByAction  []AggItem       `json:"by_action"`
	ByPerson  []PersonAggItem `json:"by_person"`
}

type LogRow struct {
	SystemLog
	Firstname string `json:"firstname" gorm:"column:firstname"`
	Lastname  string `json:"lastname" gorm:"column:lastname"`
}

func (SystemLog) TableName() string {
	return "logs"
}
