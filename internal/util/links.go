package util

import (
	"gorm.io/gorm"
)

// ReplaceLinks rewrites the junction rows of one owner, e.g. the sports of a
// branch: ReplaceLinks(tx, "branch_sports", "branch_id", 3, "sport_id", ids).
func ReplaceLinks(tx *gorm.DB, table, ownerCol string, ownerID uint, otherCol string, ids []uint) error {
	if err := tx.Exec("DELETE FROM "+table+" WHERE "+ownerCol+" = ?", ownerID).Error; err != nil {
		return err
	}
	ids = UniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, map[string]any{ownerCol: ownerID, otherCol: id})
	}
	return tx.Table(table).Create(&rows).Error
}

// LinkedIDs returns the other-side ids linked to ownerID.
func LinkedIDs(tx *gorm.DB, table, ownerCol string, ownerID uint, otherCol string) ([]uint, error) {
	out := []uint{}
	err := tx.Table(table).Where(ownerCol+" = ?", ownerID).Order(otherCol+" ASC").Pluck(otherCol, &out).Error
	return out, err
}

// CheckIDs fails with a field error unless every id exists in table. An
// optional scope (e.g. "academic_id = ?", 4) restricts the lookup to one
// tenant.
func CheckIDs(tx *gorm.DB, table, field string, ids []uint, scope string, scopeArgs ...any) error {
	ids = UniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}
	q := tx.Table(table).Where("id IN ?", ids)
	if scope != "" {
		q = q.Where(scope, scopeArgs...)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if int(n) != len(ids) {
		return NewFieldError(field, "unknown or foreign id in "+field)
	}
	return nil
}
