package academy

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"academy-api/internal/catalog"
	"academy-api/internal/media"
	"academy-api/internal/util"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AcademyService struct {
	DB       *gorm.DB
	Uploader media.Uploader
}

// CreatePendingAcademy runs inside the sign-up transaction.
func (s *AcademyService) CreatePendingAcademy(tx *gorm.DB, ownerID uint, name string) (uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, util.NewFieldError("academy_name", "academy name is required")
	}
	slug, err := uniqueSlug(tx, util.Slugify(name))
	if err != nil {
		return 0, err
	}

	a := Academic{
		Slug:         slug,
		Status:       StatusPending,
		UserID:       &ownerID,
		Translations: []AcademicTranslation{{Locale: util.MainLocale, Name: name}},
	}
	if err := tx.Create(&a).Error; err != nil {
		return 0, err
	}
	return a.ID, nil
}

func uniqueSlug(tx *gorm.DB, base string) (string, error) {
	var taken []string
	if err := tx.Model(&Academic{}).
		Where("slug = ? OR slug LIKE ?", base, base+"-%").
		Pluck("slug", &taken).Error; err != nil {
		return "", err
	}
	used := make(map[string]bool, len(taken))
	for _, s := range taken {
		used[s] = true
	}
	if !used[base] {
		return base, nil
	}
	for i := 2; ; i++ {
		if cand := fmt.Sprintf("%s-%d", base, i); !used[cand] {
			return cand, nil
		}
	}
}

func (s *AcademyService) AcademyIDForOwner(ownerID uint) (uint, error) {
	var a Academic
	if err := s.DB.Select("id").Where("user_id = ?", ownerID).Order("id ASC").First(&a).Error; err != nil {
		return 0, err
	}
	return a.ID, nil
}

func (s *AcademyService) AcademyExists(id uint) (bool, error) {
	var n int64
	err := s.DB.Model(&Academic{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (s *AcademyService) Get(id uint) (*Academic, error) {
	var a Academic
	err := s.DB.
		Preload("Translations", func(db *gorm.DB) *gorm.DB { return db.Order("locale ASC") }).
		Preload("Sports").
		First(&a, id).Error
	if err != nil {
		return nil, err
	}
	a.SportIDs = make([]uint, 0, len(a.Sports))
	for _, sp := range a.Sports {
		a.SportIDs = append(a.SportIDs, sp.SportID)
	}
	return &a, nil
}

func (s *AcademyService) List(f ListFilter) ([]AcademySummary, int64, error) {
	locale := util.NormalizeLocale(f.Locale)
	page, size := util.NormalizePage(f.Page, f.PageSize)

	base := func() *gorm.DB {
		q := s.DB.Table("academics AS a").
			Joins("LEFT JOIN academic_translations t ON t.academic_id = a.id AND t.locale = ?", locale).
			Joins("LEFT JOIN academic_translations en ON en.academic_id = a.id AND en.locale = ?", util.MainLocale)
		if st := strings.TrimSpace(f.Status); st != "" {
			q = q.Where("a.status = ?", st)
		}
		if search := strings.TrimSpace(f.Search); search != "" {
			like := "%" + strings.ToLower(search) + "%"
			q = q.Where("(LOWER(COALESCE(t.name, en.name, '')) LIKE ? OR LOWER(a.slug) LIKE ?)", like, like)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []AcademySummary
	err := base().
		Select("a.id, a.slug, a.status, a.onboarded, a.logo, a.entry_fees, a.created_at, " +
			"COALESCE(t.name, en.name, '') AS name, COALESCE(t.locale, en.locale, '') AS locale").
		Order("a.created_at DESC, a.id DESC").
		Offset((page - 1) * size).
		Limit(size).
		Scan(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// UpdateDetails replaces the translation set and the sports set, and updates
// the scalar fields that were sent.
func (s *AcademyService) UpdateDetails(id uint, in DetailsInput) (*Academic, error) {
	trs, err := util.NormalizeTranslations(in.Translations, true)
	if err != nil {
		return nil, err
	}
	if in.EntryFees != nil && *in.EntryFees < 0 {
		return nil, util.NewFieldError("entry_fees", "entry fees cannot be negative")
	}
	sportIDs := util.UniqueIDs(in.SportIDs)

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var a Academic
		if err := tx.Select("id").First(&a, id).Error; err != nil {
			return err
		}

		updates := map[string]any{}
		if in.EntryFees != nil {
			updates["entry_fees"] = *in.EntryFees
		}
		if in.Policy != nil {
			updates["policy"] = strings.TrimSpace(*in.Policy)
		}
		if in.Extra != nil {
			updates["extra"] = strings.TrimSpace(*in.Extra)
		}
		if len(updates) > 0 {
			if err := tx.Model(&a).Updates(updates).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("academic_id = ?", id).Delete(&AcademicTranslation{}).Error; err != nil {
			return err
		}
		rows := make([]AcademicTranslation, 0, len(trs))
		for _, t := range trs {
			rows = append(rows, AcademicTranslation{AcademicID: id, Locale: t.Locale, Name: t.Name, Description: t.Description})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}

		if in.SportIDs == nil {
			return nil
		}
		if len(sportIDs) > 0 {
			var n int64
			if err := tx.Model(&catalog.Sport{}).Where("id IN ?", sportIDs).Count(&n).Error; err != nil {
				return err
			}
			if int(n) != len(sportIDs) {
				return util.NewFieldError("sport_ids", "unknown sport id")
			}
		}
		if err := tx.Where("academic_id = ?", id).Delete(&AcademicSport{}).Error; err != nil {
			return err
		}
		links := make([]AcademicSport, 0, len(sportIDs))
		for _, sid := range sportIDs {
			links = append(links, AcademicSport{AcademicID: id, SportID: sid})
		}
		if len(links) == 0 {
			return nil
		}
		return tx.Create(&links).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

// UpdateMedia uploads the logo, then the gallery, then writes the row. A
// failed step aborts the rest; files already uploaded stay in the bucket.
func (s *AcademyService) UpdateMedia(ctx context.Context, id uint, in MediaInput) (*Academic, error) {
	ok, err := s.AcademyExists(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	updates := map[string]any{}
	if in.Logo != nil {
		url, err := media.UploadOne(ctx, s.Uploader, media.AcademyPrefix(id, "logo"), *in.Logo)
		if err != nil {
			log.Printf("academy %d: logo upload failed: %v", id, err)
			return nil, util.NewFieldError("logo", "failed to upload logo")
		}
		updates["logo"] = url
	}
	if in.Gallery != nil {
		urls, err := media.UploadMany(ctx, s.Uploader, media.AcademyPrefix(id, "gallery"), in.Gallery)
		if err != nil {
			log.Printf("academy %d: gallery upload failed: %v", id, err)
			return nil, util.NewFieldError("gallery", "failed to upload gallery")
		}
		bs, err := json.Marshal(urls)
		if err != nil {
			return nil, err
		}
		updates["gallery"] = datatypes.JSON(bs)
	}

	if len(updates) > 0 {
		if err := s.DB.Model(&Academic{ID: id}).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.Get(id)
}

// SetStatus reviews a pending academy. Accepted and rejected are final.
func (s *AcademyService) SetStatus(id uint, status string) (*Academic, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != StatusAccepted && status != StatusRejected {
		return nil, util.NewFieldError("status", "status must be accepted or rejected")
	}

	res := s.DB.Model(&Academic{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		a, err := s.Get(id)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: academy is already %s", util.ErrConflict, a.Status)
	}
	return s.Get(id)
}

// CompleteOnboarding flips the onboarded flag once the academy has at least
// one branch and one coach. Calling it again is a no-op.
func (s *AcademyService) CompleteOnboarding(id uint) (*Academic, error) {
	a, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if a.Onboarded {
		return a, nil
	}

	var branches, coaches int64
	if err := s.DB.Table("branches").Where("academic_id = ?", id).Count(&branches).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Table("coaches").Where("academic_id = ?", id).Count(&coaches).Error; err != nil {
		return nil, err
	}
	if branches == 0 {
		return nil, util.NewFieldError("branches", "add at least one branch before finishing onboarding")
	}
	if coaches == 0 {
		return nil, util.NewFieldError("coaches", "add at least one coach before finishing onboarding")
	}

	if err := s.DB.Model(&Academic{ID: id}).Update("onboarded", true).Error; err != nil {
		return nil, err
	}
	a.Onboarded = true
	return a, nil
}

// Delete removes the academy and everything it owns. The owning user stays.
func (s *AcademyService) Delete(ctx context.Context, id uint) error {
	res := s.DB.Delete(&Academic{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	s.dropMedia(ctx, id)
	return nil
}

func (s *AcademyService) BulkDelete(ctx context.Context, ids []uint) (int64, error) {
	ids = util.UniqueIDs(ids)
	if len(ids) == 0 {
		return 0, util.NewFieldError("ids", "no ids given")
	}
	var existing []uint
	if err := s.DB.Model(&Academic{}).Where("id IN ?", ids).Pluck("id", &existing).Error; err != nil {
		return 0, err
	}
	res := s.DB.Where("id IN ?", ids).Delete(&Academic{})
	if res.Error != nil {
		return 0, res.Error
	}
	for _, id := range existing {
		s.dropMedia(ctx, id)
	}
	return res.RowsAffected, nil
}

func (s *AcademyService) dropMedia(ctx context.Context, id uint) {
	if s.Uploader == nil {
		return
	}
	if err := s.Uploader.DeletePrefix(ctx, fmt.Sprintf("academics/%d", id)); err != nil {
		log.Printf("academy %d: failed to delete media: %v", id, err)
	}
}

func (s *AcademyService) AddAthletic(academicID uint, in AthleticInput) (*Athletic, error) {
	typ := strings.ToLower(strings.TrimSpace(in.Type))
	if typ == "" {
		typ = AthleticPrimary
	}
	if typ != AthleticPrimary && typ != AthleticFellow {
		return nil, util.NewFieldError("type", "type must be primary or fellow")
	}
	a := Athletic{AcademicID: academicID, UserID: in.UserID, ProfileID: in.ProfileID, Type: typ}
	if err := s.DB.Create(&a).Error; err != nil {
		if util.IsForeignKeyViolation(err) {
			return nil, util.NewFieldError("user_id", "user or profile does not exist")
		}
		return nil, err
	}
	return &a, nil
}

func (s *AcademyService) ListAthletics(academicID uint) ([]Athletic, error) {
	var out []Athletic
	err := s.DB.Where("academic_id = ?", academicID).Order("id ASC").Find(&out).Error
	return out, err
}

func (s *AcademyService) RemoveAthletic(academicID, id uint) error {
	res := s.DB.Where("academic_id = ?", academicID).Delete(&Athletic{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
