package util

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newLinksDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:links_"+SanitizePart(t.Name())+"?mode=memory&cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	for _, ddl := range []string{
		"CREATE TABLE things (id integer PRIMARY KEY, academic_id integer)",
		"CREATE TABLE owner_things (id integer PRIMARY KEY, owner_id integer NOT NULL, thing_id integer NOT NULL REFERENCES things(id) ON DELETE CASCADE, UNIQUE(owner_id, thing_id))",
		"INSERT INTO things (id, academic_id) VALUES (1, 1), (2, 1), (3, 2)",
	} {
		if err := db.Exec(ddl).Error; err != nil {
			t.Fatalf("ddl: %v", err)
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		t.Cleanup(func() { _ = sqlDB.Close() })
	}
	return db
}

func TestReplaceLinks(t *testing.T) {
	db := newLinksDB(t)

	if err := ReplaceLinks(db, "owner_things", "owner_id", 7, "thing_id", []uint{2, 1, 2, 0}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, err := LinkedIDs(db, "owner_things", "owner_id", 7, "thing_id")
	if err != nil || len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("linked: %v %v", got, err)
	}

	if err := ReplaceLinks(db, "owner_things", "owner_id", 7, "thing_id", nil); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, _ = LinkedIDs(db, "owner_things", "owner_id", 7, "thing_id")
	if len(got) != 0 {
		t.Fatalf("expected no links, got %v", got)
	}

	if err := ReplaceLinks(db, "owner_things", "owner_id", 7, "thing_id", []uint{99}); !IsForeignKeyViolation(err) {
		t.Fatalf("expected fk violation, got %v", err)
	}
}

func TestCheckIDs(t *testing.T) {
	db := newLinksDB(t)

	if err := CheckIDs(db, "things", "thing_ids", []uint{1, 2}, "academic_id = ?", 1); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	err := CheckIDs(db, "things", "thing_ids", []uint{1, 3}, "academic_id = ?", 1)
	if fe, ok := AsFieldError(err); !ok || fe.Field != "thing_ids" {
		t.Fatalf("expected field error for foreign id, got %v", err)
	}
	if err := CheckIDs(db, "things", "thing_ids", []uint{3, 3}, ""); err != nil {
		t.Fatalf("unscoped duplicate ids: %v", err)
	}
	if err := CheckIDs(db, "things", "thing_ids", nil, ""); err != nil {
		t.Fatalf("empty set: %v", err)
	}
}
