package catalog

import (
	"academy-api/internal/util"

	"gorm.io/gorm"
)

type CatalogService struct {
	DB *gorm.DB
}

// listLocalized resolves each row of table to the requested locale with an
// English fallback.
func (s *CatalogService) listLocalized(table, transTable, fk, locale, extraCols string) ([]LocalizedItem, error) {
	locale = util.NormalizeLocale(locale)

	cols := "b.id, COALESCE(t.name, en.name, '') AS name, COALESCE(t.locale, en.locale, '') AS locale"
	if extraCols != "" {
		cols += ", " + extraCols
	}

	var out []LocalizedItem
	err := s.DB.Table(table+" AS b").
		Select(cols).
		Joins("LEFT JOIN "+transTable+" t ON t."+fk+" = b.id AND t.locale = ?", locale).
		Joins("LEFT JOIN "+transTable+" en ON en."+fk+" = b.id AND en.locale = ?", util.MainLocale).
		Order("name ASC, b.id ASC").
		Scan(&out).Error
	return out, err
}

func (s *CatalogService) ListSports(locale string) ([]LocalizedItem, error) {
	return s.listLocalized("sports", "sport_translations", "sport_id", locale, "b.image AS image")
}

func (s *CatalogService) ListFacilities(locale string) ([]LocalizedItem, error) {
	return s.listLocalized("facilities", "facility_translations", "facility_id", locale, "")
}

func (s *CatalogService) ListGenders(locale string) ([]LocalizedItem, error) {
	return s.listLocalized("genders", "gender_translations", "gender_id", locale, "")
}

func (s *CatalogService) ListSpokenLanguages(locale string) ([]LocalizedItem, error) {
	return s.listLocalized("spoken_languages", "spoken_language_translations", "spoken_language_id", locale, "")
}

func (s *CatalogService) GetSport(id uint) (*Sport, error) {
	var sport Sport
	if err := s.DB.Preload("Translations").First(&sport, id).Error; err != nil {
		return nil, err
	}
	return &sport, nil
}

func (s *CatalogService) CreateSport(in SportInput) (*Sport, error) {
	trs, err := util.NormalizeTranslations(in.Translations, true)
	if err != nil {
		return nil, err
	}

	sport := Sport{Image: in.Image}
	for _, t := range trs {
		sport.Translations = append(sport.Translations, SportTranslation{Locale: t.Locale, Name: t.Name})
	}
	if err := s.DB.Create(&sport).Error; err != nil {
		return nil, err
	}
	return &sport, nil
}

// UpdateSport replaces the image and the whole translation set.
func (s *CatalogService) UpdateSport(id uint, in SportInput) (*Sport, error) {
	trs, err := util.NormalizeTranslations(in.Translations, true)
	if err != nil {
		return nil, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var sport Sport
		if err := tx.First(&sport, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&sport).Update("image", in.Image).Error; err != nil {
			return err
		}
		if err := tx.Where("sport_id = ?", id).Delete(&SportTranslation{}).Error; err != nil {
			return err
		}
		rows := make([]SportTranslation, 0, len(trs))
		for _, t := range trs {
			rows = append(rows, SportTranslation{SportID: id, Locale: t.Locale, Name: t.Name})
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetSport(id)
}

func (s *CatalogService) DeleteSport(id uint) error {
	res := s.DB.Delete(&Sport{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *CatalogService) BulkDeleteSports(ids []uint) (int64, error) {
	ids = util.UniqueIDs(ids)
	if len(ids) == 0 {
		return 0, util.NewFieldError("ids", "no ids given")
	}
	res := s.DB.Where("id IN ?", ids).Delete(&Sport{})
	return res.RowsAffected, res.Error
}

func (s *CatalogService) CreateFacility(in CatalogInput) (*Facility, error) {
	trs, err := util.NormalizeTranslations(in.Translations, true)
	if err != nil {
		return nil, err
	}
	f := Facility{}
	for _, t := range trs {
		f.Translations = append(f.Translations, FacilityTranslation{Locale: t.Locale, Name: t.Name})
	}
	if err := s.DB.Create(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *CatalogService) CreateGender(in CatalogInput) (*Gender, error) {
	trs, err := util.NormalizeTranslations(in.Translations, true)
	if err != nil {
		return nil, err
	}
	g := Gender{}
	for _, t := range trs {
		g.Translations = append(g.Translations, GenderTranslation{Locale: t.Locale, Name: t.Name})
	}
	if err := s.DB.Create(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *CatalogService) CreateSpokenLanguage(in CatalogInput) (*SpokenLanguage, error) {
	trs, err := util.NormalizeTranslations(in.Translations, true)
	if err != nil {
		return nil, err
	}
	l := SpokenLanguage{Code: in.Code}
	if l.Code == "" {
		return nil, util.NewFieldError("code", "language code is required")
	}
	for _, t := range trs {
		l.Translations = append(l.Translations, SpokenLanguageTranslation{Locale: t.Locale, Name: t.Name})
	}
	if err := s.DB.Create(&l).Error; err != nil {
		if util.IsUniqueViolation(err) {
			return nil, util.NewFieldError("code", "language code already exists")
		}
		return nil, err
	}
	return &l, nil
}
