package page

import "time"

// Page is a static content page (terms, privacy, about) addressed by slug.
type Page struct {
	ID           uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	Slug         string            `gorm:"size:100;not null;uniqueIndex" json:"slug"`
	Checksum     string            `gorm:"size:64;not null" json:"checksum"`
	UpdatedAt    time.Time         `gorm:"not null;autoUpdateTime" json:"updated_at"`
	Translations []PageTranslation `gorm:"constraint:OnDelete:CASCADE" json:"translations,omitempty"`
}

type PageTranslation struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	PageID uint   `gorm:"not null;uniqueIndex:idx_page_translations_locale" json:"page_id"`
	Locale string `gorm:"size:10;not null;uniqueIndex:idx_page_translations_locale" json:"locale"`
	Title  string `gorm:"size:255;not null" json:"title"`
	Body   string `gorm:"type:text;not null" json:"body"`
}

func Models() []any {
	return []any{&Page{}, &PageTranslation{}}
}

type TranslationInput struct {
	Locale string `json:"locale" binding:"required"`
	Title  string `json:"title" binding:"required"`
	Body   string `json:"body"`
}

type PageInput struct {
	Translations []TranslationInput `json:"translations" binding:"required"`
}

// Result is a page read for one locale. Translation falls back to the main
// locale when the requested one is missing.
type Result struct {
	NotModified bool
	Page        *Page
	Translation *PageTranslation
}
