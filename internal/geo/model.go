package geo

import (
	"time"
)

type Level string

const (
	LevelCountry Level = "countries"
	LevelState   Level = "states"
	LevelCity    Level = "cities"
)

type Country struct {
	ID           uint                 `gorm:"primaryKey;autoIncrement" json:"id"`
	Code         *string              `gorm:"size:2;uniqueIndex" json:"code,omitempty"`
	Translations []CountryTranslation `gorm:"constraint:OnDelete:CASCADE" json:"translations,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

type CountryTranslation struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	CountryID uint   `gorm:"not null;uniqueIndex:idx_country_translations_parent_locale" json:"country_id"`
	Locale    string `gorm:"size:10;not null;uniqueIndex:idx_country_translations_parent_locale" json:"locale"`
	Name      string `gorm:"size:255;not null" json:"name"`
}

type State struct {
	ID           uint               `gorm:"primaryKey;autoIncrement" json:"id"`
	CountryID    uint               `gorm:"not null;index" json:"country_id"`
	Country      *Country           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Translations []StateTranslation `gorm:"constraint:OnDelete:CASCADE" json:"translations,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

type StateTranslation struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	StateID uint   `gorm:"not null;uniqueIndex:idx_state_translations_parent_locale" json:"state_id"`
	Locale  string `gorm:"size:10;not null;uniqueIndex:idx_state_translations_parent_locale" json:"locale"`
	Name    string `gorm:"size:255;not null" json:"name"`
}

type City struct {
	ID           uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	StateID      uint              `gorm:"not null;index" json:"state_id"`
	State        *State            `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Translations []CityTranslation `gorm:"constraint:OnDelete:CASCADE" json:"translations,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

type CityTranslation struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	CityID uint   `gorm:"not null;uniqueIndex:idx_city_translations_parent_locale" json:"city_id"`
	Locale string `gorm:"size:10;not null;uniqueIndex:idx_city_translations_parent_locale" json:"locale"`
	Name   string `gorm:"size:255;not null" json:"name"`
}

func (Country) TableName() string            { return "countries" }
func (CountryTranslation) TableName() string { return "country_translations" }
func (State) TableName() string              { return "states" }
func (StateTranslation) TableName() string   { return "state_translations" }
func (City) TableName() string               { return "cities" }
func (CityTranslation) TableName() string    { return "city_translations" }

func Models() []any {
	return []any{
		&Country{}, &CountryTranslation{},
		&State{}, &StateTranslation{},
		&City{}, &CityTranslation{},
	}
}

// Place is one row of a level resolved to a locale (English fallback).
type Place struct {
	ID         uint   `json:"id"`
	ParentID   *uint  `json:"parent_id,omitempty"`
	ParentName string `json:"parent_name,omitempty"`
	Name       string `json:"name"`
	Locale     string `json:"locale"`
}

type Translation struct {
	Locale string `json:"locale"`
	Name   string `json:"name"`
}

type PlaceDetail struct {
	Place
	Translations []Translation `json:"translations"`
}

type ListFilter struct {
	Locale   string `form:"locale"`
	Search   string `form:"search"`
	ParentID uint   `form:"parent_id"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// PlaceInput carries the main (English) name and, below countries, the parent.
type PlaceInput struct {
	Name     string  `json:"name" binding:"required"`
	ParentID uint    `json:"parent_id"`
	Code     *string `json:"code"`
}

type TranslationInput struct {
	Name string `json:"name" binding:"required"`
}

type RowError struct {
	Row   int    `json:"row"`
	Cell  string `json:"cell,omitempty"`
	Error string `json:"error"`
}

type ImportResult struct {
	Created int        `json:"created"`
	Errors  []RowError `json:"errors,omitempty"`
}
