package coach

import (
	"context"
	"log"
	"strings"
	"time"

	"academy-api/internal/media"
	"academy-api/internal/util"

	"gorm.io/gorm"
)

type CoachService struct {
	DB       *gorm.DB
	Uploader media.Uploader
}

type link struct {
	table, col string
	ids        func(in CoachInput) []uint
	field      string
	check      string
}

var links = []link{
	{"coach_sports", "sport_id", func(in CoachInput) []uint { return in.SportIDs }, "sport_ids", "sports"},
	{"coach_spoken_languages", "spoken_language_id", func(in CoachInput) []uint { return in.SpokenLanguageIDs }, "spoken_language_ids", "spoken_languages"},
	{"coach_packages", "package_id", func(in CoachInput) []uint { return in.PackageIDs }, "package_ids", "packages"},
	{"coach_programs", "program_id", func(in CoachInput) []uint { return in.ProgramIDs }, "program_ids", "programs"},
}

func normalize(in CoachInput) (Coach, error) {
	c := Coach{
		Name:                     strings.TrimSpace(in.Name),
		Title:                    strings.TrimSpace(in.Title),
		Bio:                      strings.TrimSpace(in.Bio),
		GenderID:                 in.GenderID,
		PrivateSessionPercentage: in.PrivateSessionPercentage,
	}
	if c.Name == "" {
		return c, util.NewFieldError("name", "name is required")
	}
	if p := c.PrivateSessionPercentage; p != nil && (*p < 0 || *p > 100) {
		return c, util.NewFieldError("private_session_percentage", "percentage must be between 0 and 100")
	}
	var err error
	if c.DateOfBirth, err = util.ParseOptionalDay("date_of_birth", in.DateOfBirth); err != nil {
		return c, err
	}
	if c.DateOfBirth != nil && time.Time(*c.DateOfBirth).After(time.Now()) {
		return c, util.NewFieldError("date_of_birth", "date of birth is in the future")
	}
	return c, nil
}

// checkLinks verifies every linked id exists; packages and programs must
// belong to the tenant academy.
func checkLinks(tx *gorm.DB, academicID uint, in CoachInput) error {
	if in.GenderID != nil {
		if err := util.CheckIDs(tx, "genders", "gender_id", []uint{*in.GenderID}, ""); err != nil {
			return err
		}
	}
	for _, l := range links {
		var err error
		switch l.check {
		case "programs":
			err = util.CheckIDs(tx, l.check, l.field, l.ids(in), "academic_id = ?", academicID)
		case "packages":
			err = util.CheckIDs(tx, l.check, l.field, l.ids(in), "program_id IN (SELECT id FROM programs WHERE academic_id = ?)", academicID)
		default:
			err = util.CheckIDs(tx, l.check, l.field, l.ids(in), "")
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func saveLinks(tx *gorm.DB, coachID uint, in CoachInput) error {
	for _, l := range links {
		if err := util.ReplaceLinks(tx, l.table, "coach_id", coachID, l.col, l.ids(in)); err != nil {
			return err
		}
	}
	return nil
}

func (s *CoachService) uploadImage(ctx context.Context, academicID uint, it *media.Item) (string, error) {
	if it == nil {
		return "", nil
	}
	url, err := media.UploadOne(ctx, s.Uploader, media.AcademyPrefix(academicID, "coaches"), *it)
	if err != nil {
		log.Printf("academy %d: coach image upload failed: %v", academicID, err)
		return "", util.NewFieldError("image", "failed to upload image")
	}
	return url, nil
}

func (s *CoachService) List(academicID uint, f ListFilter) ([]Coach, int64, error) {
	page, size := util.NormalizePage(f.Page, f.PageSize)

	q := s.DB.Model(&Coach{}).Where("academic_id = ?", academicID)
	if search := strings.TrimSpace(f.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(title) LIKE ?)", like, like)
	}
	if f.SportID != 0 {
		q = q.Where("EXISTS (SELECT 1 FROM coach_sports cs WHERE cs.coach_id = coaches.id AND cs.sport_id = ?)", f.SportID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []Coach
	if err := q.Order("name ASC, id ASC").Offset((page - 1) * size).Limit(size).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *CoachService) Get(academicID, id uint) (*Coach, error) {
	var c Coach
	if err := s.DB.Where("academic_id = ?", academicID).First(&c, id).Error; err != nil {
		return nil, err
	}
	targets := []*[]uint{&c.SportIDs, &c.SpokenLanguageIDs, &c.PackageIDs, &c.ProgramIDs}
	for i, l := range links {
		ids, err := util.LinkedIDs(s.DB, l.table, "coach_id", id, l.col)
		if err != nil {
			return nil, err
		}
		*targets[i] = ids
	}
	return &c, nil
}

func (s *CoachService) Create(ctx context.Context, academicID uint, in CoachInput) (*Coach, error) {
	c, err := normalize(in)
	if err != nil {
		return nil, err
	}
	if err := checkLinks(s.DB, academicID, in); err != nil {
		return nil, err
	}
	if c.Image, err = s.uploadImage(ctx, academicID, in.Image); err != nil {
		return nil, err
	}
	c.AcademicID = academicID

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&c).Error; err != nil {
			return err
		}
		return saveLinks(tx, c.ID, in)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(academicID, c.ID)
}

// Update replaces the coach fields and every link set. The image is kept
// unless a new one is given.
func (s *CoachService) Update(ctx context.Context, academicID, id uint, in CoachInput) (*Coach, error) {
	next, err := normalize(in)
	if err != nil {
		return nil, err
	}
	var cur Coach
	if err := s.DB.Where("academic_id = ?", academicID).First(&cur, id).Error; err != nil {
		return nil, err
	}
	if err := checkLinks(s.DB, academicID, in); err != nil {
		return nil, err
	}
	next.ID, next.AcademicID, next.Image = cur.ID, academicID, cur.Image
	if in.Image != nil {
		if next.Image, err = s.uploadImage(ctx, academicID, in.Image); err != nil {
			return nil, err
		}
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&cur).
			Select("name", "title", "bio", "gender_id", "image", "date_of_birth", "private_session_percentage").
			Updates(&next).Error; err != nil {
			return err
		}
		return saveLinks(tx, id, in)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(academicID, id)
}

func (s *CoachService) Delete(academicID, id uint) error {
	res := s.DB.Where("academic_id = ?", academicID).Delete(&Coach{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *CoachService) BulkDelete(academicID uint, ids []uint) (int64, error) {
	ids = util.UniqueIDs(ids)
	if len(ids) == 0 {
		return 0, util.NewFieldError("ids", "no ids given")
	}
	res := s.DB.Where("academic_id = ? AND id IN ?", academicID, ids).Delete(&Coach{})
	return res.RowsAffected, res.Error
}
