package page

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strings"
	"time"

	"academy-api/internal/util"

	"gorm.io/gorm"
)

type PageService struct {
	DB *gorm.DB
}

func normalizeSlug(slug string) (string, error) {
	if strings.TrimSpace(slug) == "" {
		return "", util.NewFieldError("slug", "slug is required")
	}
	return util.Slugify(slug), nil
}

// checksum hashes the translations in locale order so clients can compare
// content without downloading it.
func checksum(rows []PageTranslation) string {
	sorted := append([]PageTranslation(nil), rows...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Locale < sorted[j].Locale })
	h := sha256.New()
	for _, r := range sorted {
		h.Write([]byte(r.Locale + "\x00" + r.Title + "\x00" + r.Body + "\x00"))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// GetIfModified returns the page in locale. When clientLastModified is set and
// the page was not updated after it, only NotModified and the page header are
// filled.
func (s *PageService) GetIfModified(slug, locale string, clientLastModified *time.Time) (*Result, error) {
	slug, err := normalizeSlug(slug)
	if err != nil {
		return nil, err
	}

	var p Page
	if err := s.DB.Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, err
	}
	if clientLastModified != nil && !p.UpdatedAt.After(*clientLastModified) {
		return &Result{NotModified: true, Page: &p}, nil
	}

	locale = util.NormalizeLocale(locale)
	var rows []PageTranslation
	err = s.DB.Where("page_id = ? AND locale IN ?", p.ID, []string{locale, util.MainLocale}).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	res := &Result{Page: &p}
	for i := range rows {
		if rows[i].Locale == locale {
			res.Translation = &rows[i]
			break
		}
		if rows[i].Locale == util.MainLocale {
			res.Translation = &rows[i]
		}
	}
	if res.Translation == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return res, nil
}

func (s *PageService) List() ([]Page, error) {
	var out []Page
	err := s.DB.Preload("Translations", func(db *gorm.DB) *gorm.DB { return db.Order("locale ASC") }).
		Order("slug ASC").Find(&out).Error
	return out, err
}

// Upsert creates the page or replaces all of its translations.
func (s *PageService) Upsert(slug string, in PageInput) (*Page, error) {
	slug, err := normalizeSlug(slug)
	if err != nil {
		return nil, err
	}
	generic := make([]util.TranslationInput, 0, len(in.Translations))
	for _, t := range in.Translations {
		generic = append(generic, util.TranslationInput{Locale: t.Locale, Name: t.Title, Description: t.Body})
	}
	norm, err := util.NormalizeTranslations(generic, true)
	if err != nil {
		return nil, err
	}
	rows := make([]PageTranslation, 0, len(norm))
	for _, t := range norm {
		rows = append(rows, PageTranslation{Locale: t.Locale, Title: t.Name, Body: t.Description})
	}
	sum := checksum(rows)

	var p Page
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("slug = ?", slug).First(&p).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			p = Page{Slug: slug, Checksum: sum}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if p.Checksum == sum {
				return nil
			}
			if err := tx.Model(&p).Updates(map[string]any{"checksum": sum, "updated_at": time.Now()}).Error; err != nil {
				return err
			}
			if err := tx.Where("page_id = ?", p.ID).Delete(&PageTranslation{}).Error; err != nil {
				return err
			}
		}
		for i := range rows {
			rows[i].PageID = p.ID
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	var out Page
	err = s.DB.Preload("Translations", func(db *gorm.DB) *gorm.DB { return db.Order("locale ASC") }).
		First(&out, p.ID).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PageService) Delete(slug string) error {
	slug, err := normalizeSlug(slug)
	if err != nil {
		return err
	}
	res := s.DB.Where("slug = ?", slug).Delete(&Page{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
