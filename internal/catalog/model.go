package catalog

import (
	"time"

	"academy-api/internal/util"
)

type Sport struct {
	ID           uint               `gorm:"primaryKey;autoIncrement" json:"id"`
	Image        string             `gorm:"size:512" json:"image"`
	Translations []SportTranslation `gorm:"constraint:OnDelete:CASCADE" json:"translations,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

type SportTranslation struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	SportID uint   `gorm:"not null;uniqueIndex:idx_sport_translations_parent_locale" json:"sport_id"`
	Locale  string `gorm:"size:10;not null;uniqueIndex:idx_sport_translations_parent_locale" json:"locale"`
	Name    string `gorm:"size:255;not null" json:"name"`
}

type Facility struct {
	ID           uint                  `gorm:"primaryKey;autoIncrement" json:"id"`
	Translations []FacilityTranslation `gorm:"constraint:OnDelete:CASCADE" json:"translations,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
}

type FacilityTranslation struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	FacilityID uint   `gorm:"not null;uniqueIndex:idx_facility_translations_parent_locale" json:"facility_id"`
	Locale     string `gorm:"size:10;not null;uniqueIndex:idx_facility_translations_parent_locale" json:"locale"`
	Name       string `gorm:"size:255;not null" json:"name"`
}

type Gender struct {
	ID           uint                `gorm:"primaryKey;autoIncrement" json:"id"`
	Translations []GenderTranslation `gorm:"constraint:OnDelete:CASCADE" json:"translations,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

type GenderTranslation struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	GenderID uint   `gorm:"not null;uniqueIndex:idx_gender_translations_parent_locale" json:"gender_id"`
	Locale   string `gorm:"size:10;not null;uniqueIndex:idx_gender_translations_parent_locale" json:"locale"`
	Name     string `gorm:"size:100;not null" json:"name"`
}

type SpokenLanguage struct {
	ID           uint                        `gorm:"primaryKey;autoIncrement" json:"id"`
	Code         string                      `gorm:"size:10;uniqueIndex" json:"code"`
	Translations []SpokenLanguageTranslation `gorm:"constraint:OnDelete:CASCADE" json:"translations,omitempty"`
	CreatedAt    time.Time                   `json:"created_at"`
}

type SpokenLanguageTranslation struct {
	ID               uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	SpokenLanguageID uint   `gorm:"not null;uniqueIndex:idx_spoken_language_translations_parent_locale" json:"spoken_language_id"`
	Locale           string `gorm:"size:10;not null;uniqueIndex:idx_spoken_language_translations_parent_locale" json:"locale"`
	Name             string `gorm:"size:100;not null" json:"name"`
}

// LocalizedItem is a catalog row resolved to one locale, falling back to
// the English name when the locale has no row.
type LocalizedItem struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Locale string `json:"locale"`
	Image  string `json:"image,omitempty"`
}

type SportInput struct {
	Image        string                  `json:"image"`
	Translations []util.TranslationInput `json:"translations" binding:"required"`
}

type CatalogInput struct {
	Code         string                  `json:"code"`
	Translations []util.TranslationInput `json:"translations" binding:"required"`
}

// Models lists the catalog tables in migration order.
func Models() []any {
	return []any{
		&Sport{}, &SportTranslation{},
		&Facility{}, &FacilityTranslation{},
		&Gender{}, &GenderTranslation{},
		&SpokenLanguage{}, &SpokenLanguageTranslation{},
	}
}

func (Sport) TableName() string                     { return "sports" }
func (SportTranslation) TableName() string          { return "sport_translations" }
func (Facility) TableName() string                  { return "facilities" }
func (FacilityTranslation) TableName() string       { return "facility_translations" }
func (Gender) TableName() string                    { return "genders" }
func (GenderTranslation) TableName() string         { return "gender_translations" }
func (SpokenLanguage) TableName() string            { return "spoken_languages" }
func (SpokenLanguageTranslation) TableName() string { return "spoken_language_translations" }
