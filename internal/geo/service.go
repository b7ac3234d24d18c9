package geo

import (
	"strings"
	"time"

	"academy-api/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type levelDef struct {
	table     string
	trans     string
	fk        string
	parentCol string
	parent    Level
}

var levels = map[Level]levelDef{
	LevelCountry: {table: "countries", trans: "country_translations", fk: "country_id"},
	LevelState:   {table: "states", trans: "state_translations", fk: "state_id", parentCol: "country_id", parent: LevelCountry},
	LevelCity:    {table: "cities", trans: "city_translations", fk: "city_id", parentCol: "state_id", parent: LevelState},
}

func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := levels[l]; !ok {
		return "", util.NewFieldError("level", "unknown level "+s)
	}
	return l, nil
}

func modelFor(l Level) any {
	switch l {
	case LevelCountry:
		return &Country{}
	case LevelState:
		return &State{}
	}
	return &City{}
}

type GeoService struct {
	DB *gorm.DB
}

// localized joins the requested and English translations; cols is the select
// list for Place.
func (s *GeoService) localized(locale string, l Level) (q *gorm.DB, cols string) {
	d := levels[l]
	cols = "b.id, COALESCE(t.name, en.name, '') AS name, COALESCE(t.locale, en.locale, '') AS locale"

	q = s.DB.Table(d.table+" AS b").
		Joins("LEFT JOIN "+d.trans+" t ON t."+d.fk+" = b.id AND t.locale = ?", locale).
		Joins("LEFT JOIN "+d.trans+" en ON en."+d.fk+" = b.id AND en.locale = ?", util.MainLocale)

	if d.parentCol != "" {
		pd := levels[d.parent]
		q = q.Joins("LEFT JOIN "+pd.trans+" pt ON pt."+pd.fk+" = b."+d.parentCol+" AND pt.locale = ?", util.MainLocale)
		cols += ", b." + d.parentCol + " AS parent_id, COALESCE(pt.name, '') AS parent_name"
	}
	return q, cols
}

func (s *GeoService) List(l Level, f ListFilter) ([]Place, int64, error) {
	d := levels[l]
	locale := util.NormalizeLocale(f.Locale)
	page, size := util.NormalizePage(f.Page, f.PageSize)

	filtered := func() (*gorm.DB, string) {
		q, cols := s.localized(locale, l)
		if d.parentCol != "" && f.ParentID > 0 {
			q = q.Where("b."+d.parentCol+" = ?", f.ParentID)
		}
		if search := strings.TrimSpace(f.Search); search != "" {
			q = q.Where("LOWER(COALESCE(t.name, en.name, '')) LIKE ?", "%"+strings.ToLower(search)+"%")
		}
		return q, cols
	}

	var total int64
	countQ, _ := filtered()
	if err := countQ.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []Place
	q, cols := filtered()
	err := q.Select(cols).
		Order("name ASC, b.id ASC").
		Offset((page - 1) * size).
		Limit(size).
		Scan(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *GeoService) Get(l Level, id uint) (*PlaceDetail, error) {
	d := levels[l]

	var places []Place
	q, cols := s.localized(util.MainLocale, l)
	if err := q.Select(cols).Where("b.id = ?", id).Scan(&places).Error; err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	out := &PlaceDetail{Place: places[0], Translations: []Translation{}}
	err := s.DB.Table(d.trans).
		Select("locale, name").
		Where(d.fk+" = ?", id).
		Order("locale ASC").
		Scan(&out.Translations).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func exists(tx *gorm.DB, l Level, id uint) (bool, error) {
	var n int64
	err := tx.Model(modelFor(l)).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (s *GeoService) checkParent(tx *gorm.DB, l Level, parentID uint) error {
	d := levels[l]
	if d.parentCol == "" {
		return nil
	}
	if parentID == 0 {
		return util.NewFieldError("parent_id", "parent is required")
	}
	ok, err := exists(tx, d.parent, parentID)
	if err != nil {
		return err
	}
	if !ok {
		return util.NewFieldError("parent_id", "parent does not exist")
	}
	return nil
}

func upsertTranslation(tx *gorm.DB, d levelDef, id uint, locale, name string) error {
	return tx.Table(d.trans).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: d.fk}, {Name: "locale"}},
			DoUpdates: clause.Assignments(map[string]any{"name": name}),
		}).
		Create(map[string]any{d.fk: id, "locale": locale, "name": name}).Error
}

func createPlace(tx *gorm.DB, l Level, parentID uint, code *string) (uint, error) {
	switch l {
	case LevelCountry:
		c := Country{Code: code}
		err := tx.Create(&c).Error
		if util.IsUniqueViolation(err) {
			return 0, util.NewFieldError("code", "country code already exists")
		}
		return c.ID, err
	case LevelState:
		st := State{CountryID: parentID}
		err := tx.Create(&st).Error
		return st.ID, err
	}
	city := City{StateID: parentID}
	err := tx.Create(&city).Error
	return city.ID, err
}

// Create inserts a place with its main (English) translation.
func (s *GeoService) Create(l Level, in PlaceInput) (*PlaceDetail, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, util.NewFieldError("name", "name is required")
	}

	var id uint
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.checkParent(tx, l, in.ParentID); err != nil {
			return err
		}
		var err error
		if id, err = createPlace(tx, l, in.ParentID, in.Code); err != nil {
			return err
		}
		return upsertTranslation(tx, levels[l], id, util.MainLocale, name)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(l, id)
}

// UpdateMain edits the English name and, below countries, may move the place
// to another parent.
func (s *GeoService) UpdateMain(l Level, id uint, in PlaceInput) (*PlaceDetail, error) {
	d := levels[l]
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, util.NewFieldError("name", "name is required")
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, l, id)
		if err != nil {
			return err
		}
		if !ok {
			return gorm.ErrRecordNotFound
		}

		updates := map[string]any{"updated_at": time.Now()}
		if d.parentCol != "" && in.ParentID > 0 {
			if err := s.checkParent(tx, l, in.ParentID); err != nil {
				return err
			}
			updates[d.parentCol] = in.ParentID
		}
		if l == LevelCountry && in.Code != nil {
			updates["code"] = in.Code
		}
		if err := tx.Model(modelFor(l)).Where("id = ?", id).Updates(updates).Error; err != nil {
			if util.IsUniqueViolation(err) {
				return util.NewFieldError("code", "country code already exists")
			}
			return err
		}
		return upsertTranslation(tx, d, id, util.MainLocale, name)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(l, id)
}

// SetTranslation adds or edits a secondary translation.
func (s *GeoService) SetTranslation(l Level, id uint, locale string, in TranslationInput) (*PlaceDetail, error) {
	locale = util.NormalizeLocale(locale)
	if locale == util.MainLocale {
		return nil, util.NewFieldError("locale", "edit the main translation on the place itself")
	}
	if len(locale) > 10 {
		return nil, util.NewFieldError("locale", "invalid locale")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, util.NewFieldError("name", "name is required")
	}

	ok, err := exists(s.DB, l, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if err := upsertTranslation(s.DB, levels[l], id, locale, name); err != nil {
		return nil, err
	}
	return s.Get(l, id)
}

func (s *GeoService) DeleteTranslation(l Level, id uint, locale string) error {
	d := levels[l]
	locale = util.NormalizeLocale(locale)
	if locale == util.MainLocale {
		return util.NewFieldError("locale", "the main translation cannot be deleted")
	}
	res := s.DB.Exec("DELETE FROM "+d.trans+" WHERE "+d.fk+" = ? AND locale = ?", id, locale)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a place; children and translations go with it.
func (s *GeoService) Delete(l Level, id uint) error {
	res := s.DB.Delete(modelFor(l), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *GeoService) BulkDelete(l Level, ids []uint) (int64, error) {
	ids = util.UniqueIDs(ids)
	if len(ids) == 0 {
		return 0, util.NewFieldError("ids", "no ids given")
	}
	res := s.DB.Where("id IN ?", ids).Delete(modelFor(l))
	return res.RowsAffected, res.Error
}
