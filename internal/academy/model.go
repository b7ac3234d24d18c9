package academy

import (
	"time"

	"academy-api/internal/auth"
	"academy-api/internal/catalog"
	"academy-api/internal/media"
	"academy-api/internal/util"

	"gorm.io/datatypes"
)

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"

	AthleticPrimary = "primary"
	AthleticFellow  = "fellow"
)

type Academic struct {
	ID           uint                  `gorm:"primaryKey;autoIncrement" json:"id"`
	Slug         string                `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Status       string                `gorm:"size:20;not null;default:pending;check:status IN ('pending','accepted','rejected')" json:"status"`
	Onboarded    bool                  `gorm:"not null;default:false" json:"onboarded"`
	EntryFees    float64               `gorm:"type:numeric(10,2);not null;default:0" json:"entry_fees"`
	Policy       string                `gorm:"type:text" json:"policy"`
	Extra        string                `gorm:"type:text" json:"extra"`
	LogoURL      string                `gorm:"size:1024;column:logo" json:"logo"`
	Gallery      datatypes.JSON        `json:"gallery"`
	UserID       *uint                 `gorm:"index" json:"user_id,omitempty"`
	User         *auth.User            `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Translations []AcademicTranslation `gorm:"constraint:OnDelete:CASCADE" json:"translations,omitempty"`
	Sports       []AcademicSport       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SportIDs     []uint                `gorm:"-" json:"sport_ids"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

type AcademicTranslation struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	AcademicID  uint   `gorm:"not null;uniqueIndex:idx_academic_translations_parent_locale" json:"academic_id"`
	Locale      string `gorm:"size:10;not null;uniqueIndex:idx_academic_translations_parent_locale" json:"locale"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

type AcademicSport struct {
	ID         uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	AcademicID uint           `gorm:"not null;uniqueIndex:idx_academic_sports_pair" json:"academic_id"`
	SportID    uint           `gorm:"not null;uniqueIndex:idx_academic_sports_pair" json:"sport_id"`
	Sport      *catalog.Sport `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Athletic links a user (and optionally one of their profiles) to an academy.
type Athletic struct {
	ID         uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	AcademicID uint          `gorm:"not null;index" json:"academic_id"`
	Academic   *Academic     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID     uint          `gorm:"not null;index" json:"user_id"`
	User       *auth.User    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ProfileID  *uint         `json:"profile_id,omitempty"`
	Profile    *auth.Profile `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Type       string        `gorm:"size:20;not null;default:primary;check:type IN ('primary','fellow')" json:"type"`
	CreatedAt  time.Time     `json:"created_at"`
}

func (Academic) TableName() string            { return "academics" }
func (AcademicTranslation) TableName() string { return "academic_translations" }
func (AcademicSport) TableName() string       { return "academic_sports" }
func (Athletic) TableName() string            { return "athletics" }

func Models() []any {
	return []any{&Academic{}, &AcademicTranslation{}, &AcademicSport{}, &Athletic{}}
}

type AcademySummary struct {
	ID        uint      `json:"id"`
	Slug      string    `json:"slug"`
	Status    string    `json:"status"`
	Onboarded bool      `json:"onboarded"`
	Name      string    `json:"name"`
	Locale    string    `json:"locale"`
	LogoURL   string    `gorm:"column:logo" json:"logo"`
	EntryFees float64   `json:"entry_fees"`
	CreatedAt time.Time `json:"created_at"`
}

type ListFilter struct {
	Locale   string `form:"locale"`
	Status   string `form:"status"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type DetailsInput struct {
	Translations []util.TranslationInput `json:"translations" binding:"required"`
	SportIDs     []uint                  `json:"sport_ids"`
	EntryFees    *float64                `json:"entry_fees"`
	Policy       *string                 `json:"policy"`
	Extra        *string                 `json:"extra"`
}

// MediaInput replaces the logo when set and the gallery when non-nil.
type MediaInput struct {
	Logo    *media.Item  `json:"logo"`
	Gallery []media.Item `json:"gallery"`
}

type StatusInput struct {
	Status string `json:"status" binding:"required"`
}

type AthleticInput struct {
	UserID    uint   `json:"user_id" binding:"required"`
	ProfileID *uint  `json:"profile_id"`
	Type      string `json:"type"`
}
