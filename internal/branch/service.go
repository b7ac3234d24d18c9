package branch

import (
	"strings"

	"academy-api/internal/util"

	"gorm.io/gorm"
)

type BranchService struct {
	DB *gorm.DB
}

func validate(in BranchInput) ([]util.TranslationInput, error) {
	trs, err := util.NormalizeTranslations(in.Translations, true)
	if err != nil {
		return nil, err
	}
	if in.Latitude != nil && (*in.Latitude < -90 || *in.Latitude > 90) {
		return nil, util.NewFieldError("latitude", "latitude must be between -90 and 90")
	}
	if in.Longitude != nil && (*in.Longitude < -180 || *in.Longitude > 180) {
		return nil, util.NewFieldError("longitude", "longitude must be between -180 and 180")
	}
	if in.Rating < 0 || in.Rating > 5 {
		return nil, util.NewFieldError("rating", "rating must be between 0 and 5")
	}
	return trs, nil
}

func (s *BranchService) List(academicID uint, f ListFilter) ([]BranchSummary, int64, error) {
	locale := util.NormalizeLocale(f.Locale)
	page, size := util.NormalizePage(f.Page, f.PageSize)

	base := func() *gorm.DB {
		q := s.DB.Table("branches AS b").
			Joins("LEFT JOIN branch_translations t ON t.branch_id = b.id AND t.locale = ?", locale).
			Joins("LEFT JOIN branch_translations en ON en.branch_id = b.id AND en.locale = ?", util.MainLocale).
			Where("b.academic_id = ?", academicID)
		if search := strings.TrimSpace(f.Search); search != "" {
			like := "%" + strings.ToLower(search) + "%"
			q = q.Where("(LOWER(COALESCE(t.name, en.name, '')) LIKE ? OR LOWER(COALESCE(t.address, en.address, '')) LIKE ?)", like, like)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []BranchSummary
	err := base().
		Select("b.id, b.is_default, b.latitude, b.longitude, b.rating, " +
			"COALESCE(t.name, en.name, '') AS name, COALESCE(t.address, en.address, '') AS address, " +
			"COALESCE(t.locale, en.locale, '') AS locale").
		Order("b.is_default DESC, name ASC, b.id ASC").
		Offset((page - 1) * size).
		Limit(size).
		Scan(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *BranchService) Get(academicID, id uint) (*Branch, error) {
	var b Branch
	err := s.DB.
		Preload("Translations", func(db *gorm.DB) *gorm.DB { return db.Order("locale ASC") }).
		Where("academic_id = ?", academicID).
		First(&b, id).Error
	if err != nil {
		return nil, err
	}
	if b.SportIDs, err = util.LinkedIDs(s.DB, "branch_sports", "branch_id", id, "sport_id"); err != nil {
		return nil, err
	}
	if b.FacilityIDs, err = util.LinkedIDs(s.DB, "branch_facilities", "branch_id", id, "facility_id"); err != nil {
		return nil, err
	}
	return &b, nil
}

// save writes translations and links for b, and keeps at most one default
// branch per academy. The first branch of an academy is always the default.
func (s *BranchService) save(tx *gorm.DB, b *Branch, in BranchInput, trs []util.TranslationInput) error {
	if err := util.CheckIDs(tx, "sports", "sport_ids", in.SportIDs, ""); err != nil {
		return err
	}
	if err := util.CheckIDs(tx, "facilities", "facility_ids", in.FacilityIDs, ""); err != nil {
		return err
	}

	if !b.IsDefault {
		var others int64
		if err := tx.Model(&Branch{}).Where("academic_id = ? AND id <> ? AND is_default = ?", b.AcademicID, b.ID, true).Count(&others).Error; err != nil {
			return err
		}
		if others == 0 {
			b.IsDefault = true
			if err := tx.Model(b).Update("is_default", true).Error; err != nil {
				return err
			}
		}
	} else {
		if err := tx.Model(&Branch{}).
			Where("academic_id = ? AND id <> ?", b.AcademicID, b.ID).
			Update("is_default", false).Error; err != nil {
			return err
		}
	}

	if err := tx.Where("branch_id = ?", b.ID).Delete(&BranchTranslation{}).Error; err != nil {
		return err
	}
	rows := make([]BranchTranslation, 0, len(trs))
	for _, t := range trs {
		rows = append(rows, BranchTranslation{BranchID: b.ID, Locale: t.Locale, Name: t.Name, Address: t.Address})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return err
	}

	if err := util.ReplaceLinks(tx, "branch_sports", "branch_id", b.ID, "sport_id", in.SportIDs); err != nil {
		return err
	}
	return util.ReplaceLinks(tx, "branch_facilities", "branch_id", b.ID, "facility_id", in.FacilityIDs)
}

func (s *BranchService) Create(academicID uint, in BranchInput) (*Branch, error) {
	trs, err := validate(in)
	if err != nil {
		return nil, err
	}

	b := Branch{
		AcademicID: academicID,
		Latitude:   in.Latitude,
		Longitude:  in.Longitude,
		Rating:     in.Rating,
		URL:        strings.TrimSpace(in.URL),
		IsDefault:  in.IsDefault,
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&b).Error; err != nil {
			return err
		}
		return s.save(tx, &b, in, trs)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(academicID, b.ID)
}

// Update replaces the branch fields, translations, sports and facilities.
// Clearing is_default on the only default branch is ignored.
func (s *BranchService) Update(academicID, id uint, in BranchInput) (*Branch, error) {
	trs, err := validate(in)
	if err != nil {
		return nil, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var b Branch
		if err := tx.Where("academic_id = ?", academicID).First(&b, id).Error; err != nil {
			return err
		}
		b.Latitude = in.Latitude
		b.Longitude = in.Longitude
		b.Rating = in.Rating
		b.URL = strings.TrimSpace(in.URL)
		b.IsDefault = in.IsDefault
		if err := tx.Model(&b).Select("latitude", "longitude", "rating", "url", "is_default").Updates(&b).Error; err != nil {
			return err
		}
		return s.save(tx, &b, in, trs)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(academicID, id)
}

// Delete removes a branch. When it was the default, the oldest remaining
// branch becomes the default.
func (s *BranchService) Delete(academicID, id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("academic_id = ?", academicID).Delete(&Branch{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return promoteDefault(tx, academicID)
	})
}

func (s *BranchService) BulkDelete(academicID uint, ids []uint) (int64, error) {
	ids = util.UniqueIDs(ids)
	if len(ids) == 0 {
		return 0, util.NewFieldError("ids", "no ids given")
	}
	var n int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("academic_id = ? AND id IN ?", academicID, ids).Delete(&Branch{})
		if res.Error != nil {
			return res.Error
		}
		n = res.RowsAffected
		return promoteDefault(tx, academicID)
	})
	return n, err
}

func promoteDefault(tx *gorm.DB, academicID uint) error {
	var defaults int64
	if err := tx.Model(&Branch{}).Where("academic_id = ? AND is_default = ?", academicID, true).Count(&defaults).Error; err != nil {
		return err
	}
	if defaults > 0 {
		return nil
	}
	var first Branch
	err := tx.Where("academic_id = ?", academicID).Order("id ASC").First(&first).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	return tx.Model(&first).Update("is_default", true).Error
}
