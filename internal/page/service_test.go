package page

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"academy-api/internal/util"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		t.Cleanup(func() { _ = sqlDB.Close() })
	}
	return db
}

func terms(body string) PageInput {
	return PageInput{Translations: []TranslationInput{
		{Locale: "en", Title: "Terms", Body: body},
		{Locale: "AR", Title: "الشروط", Body: body + " (ar)"},
	}}
}

func TestUpsert_CreatesAndReplaces(t *testing.T) {
	svc := &PageService{DB: newTestDB(t)}

	p, err := svc.Upsert(" Terms ", terms("v1"))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if p.Slug != "terms" || len(p.Translations) != 2 || p.Translations[0].Locale != "ar" {
		t.Fatalf("unexpected page: %+v", p)
	}

	same, err := svc.Upsert("terms", terms("v1"))
	if err != nil {
		t.Fatalf("upsert same: %v", err)
	}
	if same.ID != p.ID || same.Checksum != p.Checksum || !same.UpdatedAt.Equal(p.UpdatedAt) {
		t.Fatalf("unchanged content must keep the page as is: %+v vs %+v", same, p)
	}

	next, err := svc.Upsert("terms", PageInput{Translations: []TranslationInput{{Locale: "en", Title: "Terms", Body: "v2"}}})
	if err != nil {
		t.Fatalf("upsert v2: %v", err)
	}
	if next.Checksum == p.Checksum || len(next.Translations) != 1 || next.UpdatedAt.Before(p.UpdatedAt) {
		t.Fatalf("translations not replaced: %+v", next)
	}
}

func TestUpsert_Validation(t *testing.T) {
	svc := &PageService{DB: newTestDB(t)}

	cases := []struct {
		name  string
		slug  string
		in    PageInput
		field string
	}{
		{"blank slug", "  ", terms("x"), "slug"},
		{"no main locale", "about", PageInput{Translations: []TranslationInput{{Locale: "ar", Title: "x"}}}, "translations"},
		{"duplicate locale", "about", PageInput{Translations: []TranslationInput{{Locale: "en", Title: "a"}, {Locale: "EN", Title: "b"}}}, "translations"},
		{"empty title", "about", PageInput{Translations: []TranslationInput{{Locale: "en", Title: " "}}}, "translations"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Upsert(tc.slug, tc.in)
			fe, ok := util.AsFieldError(err)
			if !ok || fe.Field != tc.field {
				t.Fatalf("expected field error on %s, got %v", tc.field, err)
			}
		})
	}
}

func TestGetIfModified(t *testing.T) {
	svc := &PageService{DB: newTestDB(t)}
	p, err := svc.Upsert("terms", terms("v1"))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	res, err := svc.GetIfModified("terms", "ar", nil)
	if err != nil || res.NotModified || res.Translation.Locale != "ar" {
		t.Fatalf("arabic read: %+v %v", res, err)
	}
	res, err = svc.GetIfModified("terms", "fr", nil)
	if err != nil || res.Translation.Locale != "en" {
		t.Fatalf("fallback to en: %+v %v", res, err)
	}

	lm := p.UpdatedAt
	res, err = svc.GetIfModified("terms", "en", &lm)
	if err != nil || !res.NotModified || res.Translation != nil {
		t.Fatalf("expected not modified: %+v %v", res, err)
	}
	older := p.UpdatedAt.Add(-time.Minute)
	res, err = svc.GetIfModified("terms", "en", &older)
	if err != nil || res.NotModified || res.Translation.Body != "v1" {
		t.Fatalf("expected full page: %+v %v", res, err)
	}

	if _, err := svc.GetIfModified("privacy", "en", nil); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDelete_CascadesTranslations(t *testing.T) {
	db := newTestDB(t)
	svc := &PageService{DB: db}
	if _, err := svc.Upsert("about", terms("x")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := svc.Delete("about"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var n int64
	db.Model(&PageTranslation{}).Count(&n)
	if n != 0 {
		t.Fatalf("translations left: %d", n)
	}
	if err := svc.Delete("about"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
