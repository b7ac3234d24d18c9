package program

import (
	"encoding/json"
	"strings"
	"time"

	"academy-api/internal/util"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var monthNames = map[string]string{}

func init() {
	for m := time.January; m <= time.December; m++ {
		monthNames[strings.ToLower(m.String())] = m.String()
	}
}

type ProgramService struct {
	DB *gorm.DB
}

func normalizeProgram(in ProgramInput) (Program, error) {
	p := Program{
		Name:          strings.TrimSpace(in.Name),
		Description:   strings.TrimSpace(in.Description),
		Type:          strings.ToUpper(strings.TrimSpace(in.Type)),
		BranchID:      in.BranchID,
		SportID:       in.SportID,
		NumberOfSeats: in.NumberOfSeats,
		GenderID:      in.GenderID,
		StartAge:      in.StartAge,
		EndAge:        in.EndAge,
	}
	if p.Name == "" {
		return p, util.NewFieldError("name", "name is required")
	}
	if p.Type != TypeTeam && p.Type != TypePrivate {
		return p, util.NewFieldError("type", "type must be TEAM or PRIVATE")
	}
	if p.NumberOfSeats < 0 {
		return p, util.NewFieldError("number_of_seats", "number of seats cannot be negative")
	}
	if p.StartAge != nil && *p.StartAge < 0 {
		return p, util.NewFieldError("start_age", "age cannot be negative")
	}
	if p.StartAge != nil && p.EndAge != nil && *p.EndAge < *p.StartAge {
		return p, util.NewFieldError("end_age", "end age must not be below start age")
	}

	var err error
	if p.StartDate, err = util.ParseOptionalDay("start_date", in.StartDate); err != nil {
		return p, err
	}
	if p.EndDate, err = util.ParseOptionalDay("end_date", in.EndDate); err != nil {
		return p, err
	}
	if p.StartDate != nil && p.EndDate != nil && time.Time(*p.EndDate).Before(time.Time(*p.StartDate)) {
		return p, util.NewFieldError("end_date", "end date must not be before start date")
	}
	return p, nil
}

func (s *ProgramService) checkProgramRefs(tx *gorm.DB, academicID uint, p Program) error {
	if p.BranchID != nil {
		if err := util.CheckIDs(tx, "branches", "branch_id", []uint{*p.BranchID}, "academic_id = ?", academicID); err != nil {
			return err
		}
	}
	if p.SportID != nil {
		if err := util.CheckIDs(tx, "sports", "sport_id", []uint{*p.SportID}, ""); err != nil {
			return err
		}
	}
	if p.GenderID != nil {
		if err := util.CheckIDs(tx, "genders", "gender_id", []uint{*p.GenderID}, ""); err != nil {
			return err
		}
	}
	return nil
}

func (s *ProgramService) List(academicID uint, f ListFilter) ([]Program, int64, error) {
	page, size := util.NormalizePage(f.Page, f.PageSize)

	q := s.DB.Model(&Program{}).Where("academic_id = ?", academicID)
	if search := strings.TrimSpace(f.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", like, like)
	}
	if t := strings.ToUpper(strings.TrimSpace(f.Type)); t != "" {
		q = q.Where("type = ?", t)
	}
	if f.BranchID != 0 {
		q = q.Where("branch_id = ?", f.BranchID)
	}
	if f.SportID != 0 {
		q = q.Where("sport_id = ?", f.SportID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []Program
	err := q.Order("id DESC").Offset((page - 1) * size).Limit(size).Find(&out).Error
	return out, total, err
}

// Get returns the program with its packages, schedules and discounts.
func (s *ProgramService) Get(academicID, id uint) (*Program, error) {
	var p Program
	err := s.DB.
		Preload("Packages", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Packages.Schedules", func(db *gorm.DB) *gorm.DB { return db.Order("day ASC, from_time ASC") }).
		Preload("Discounts", func(db *gorm.DB) *gorm.DB { return db.Order("start_date ASC, id ASC") }).
		Where("academic_id = ?", academicID).
		First(&p, id).Error
	if err != nil {
		return nil, err
	}
	for i := range p.Discounts {
		if p.Discounts[i].PackageIDs, err = util.LinkedIDs(s.DB, "discount_packages", "discount_id", p.Discounts[i].ID, "package_id"); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

func (s *ProgramService) Create(academicID uint, in ProgramInput) (*Program, error) {
	p, err := normalizeProgram(in)
	if err != nil {
		return nil, err
	}
	p.AcademicID = academicID
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.checkProgramRefs(tx, academicID, p); err != nil {
			return err
		}
		return tx.Create(&p).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(academicID, p.ID)
}

func (s *ProgramService) Update(academicID, id uint, in ProgramInput) (*Program, error) {
	next, err := normalizeProgram(in)
	if err != nil {
		return nil, err
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var p Program
		if err := tx.Where("academic_id = ?", academicID).First(&p, id).Error; err != nil {
			return err
		}
		if err := s.checkProgramRefs(tx, academicID, next); err != nil {
			return err
		}
		next.ID = p.ID
		next.AcademicID = academicID
		return tx.Model(&p).
			Select("name", "description", "type", "branch_id", "sport_id", "start_date", "end_date",
				"number_of_seats", "gender_id", "start_age", "end_age").
			Updates(&next).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(academicID, id)
}

func (s *ProgramService) Delete(academicID, id uint) error {
	res := s.DB.Where("academic_id = ?", academicID).Delete(&Program{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *ProgramService) BulkDelete(academicID uint, ids []uint) (int64, error) {
	ids = util.UniqueIDs(ids)
	if len(ids) == 0 {
		return 0, util.NewFieldError("ids", "no ids given")
	}
	res := s.DB.Where("academic_id = ? AND id IN ?", academicID, ids).Delete(&Program{})
	return res.RowsAffected, res.Error
}

// ownedProgram loads a program of the tenant or returns ErrRecordNotFound.
func ownedProgram(tx *gorm.DB, academicID, programID uint) (*Program, error) {
	var p Program
	if err := tx.Where("academic_id = ?", academicID).First(&p, programID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ownedPackage loads a package whose program belongs to the tenant.
func ownedPackage(tx *gorm.DB, academicID, packageID uint) (*Package, error) {
	var pkg Package
	err := tx.
		Joins("JOIN programs ON programs.id = packages.program_id").
		Where("programs.academic_id = ?", academicID).
		First(&pkg, "packages.id = ?", packageID).Error
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

func normalizePackage(in PackageInput) (Package, []Schedule, error) {
	pkg := Package{
		Name:            strings.TrimSpace(in.Name),
		Price:           in.Price,
		EntryFees:       in.EntryFees,
		Capacity:        in.Capacity,
		SessionPerWeek:  in.SessionPerWeek,
		SessionDuration: in.SessionDuration,
	}
	if pkg.Name == "" {
		return pkg, nil, util.NewFieldError("name", "name is required")
	}
	if pkg.Price < 0 {
		return pkg, nil, util.NewFieldError("price", "price cannot be negative")
	}
	if pkg.EntryFees != nil && *pkg.EntryFees < 0 {
		return pkg, nil, util.NewFieldError("entry_fees", "entry fees cannot be negative")
	}
	if pkg.Capacity < 0 {
		return pkg, nil, util.NewFieldError("capacity", "capacity cannot be negative")
	}
	if pkg.SessionPerWeek == 0 {
		pkg.SessionPerWeek = 1
	}
	if pkg.SessionPerWeek < 1 || pkg.SessionPerWeek > 7 {
		return pkg, nil, util.NewFieldError("session_per_week", "sessions per week must be between 1 and 7")
	}
	if pkg.SessionDuration == 0 {
		pkg.SessionDuration = 60
	}
	if pkg.SessionDuration < 0 {
		return pkg, nil, util.NewFieldError("session_duration", "session duration cannot be negative")
	}

	var err error
	if pkg.EntryFeesStartDate, err = util.ParseOptionalDay("entry_fees_start_date", in.EntryFeesStartDate); err != nil {
		return pkg, nil, err
	}
	if pkg.EntryFeesEndDate, err = util.ParseOptionalDay("entry_fees_end_date", in.EntryFeesEndDate); err != nil {
		return pkg, nil, err
	}
	if pkg.EntryFeesStartDate != nil && pkg.EntryFeesEndDate != nil &&
		time.Time(*pkg.EntryFeesEndDate).Before(time.Time(*pkg.EntryFeesStartDate)) {
		return pkg, nil, util.NewFieldError("entry_fees_end_date", "end date must not be before start date")
	}

	months := []string{}
	seen := map[string]bool{}
	for _, m := range in.Months {
		name, ok := monthNames[strings.ToLower(strings.TrimSpace(m))]
		if !ok {
			return pkg, nil, util.NewFieldError("months", "unknown month "+m)
		}
		if !seen[name] {
			seen[name] = true
			months = append(months, name)
		}
	}
	bs, _ := json.Marshal(months)
	pkg.Months = datatypes.JSON(bs)

	schedules := make([]Schedule, 0, len(in.Schedules))
	for _, sc := range in.Schedules {
		if sc.Day < 0 || sc.Day > 6 {
			return pkg, nil, util.NewFieldError("schedules", "day must be between 0 and 6")
		}
		if err := util.ValidateTimeRange("schedules", sc.From, "schedules", sc.To); err != nil {
			return pkg, nil, err
		}
		schedules = append(schedules, Schedule{Day: sc.Day, From: strings.TrimSpace(sc.From), To: strings.TrimSpace(sc.To)})
	}
	return pkg, schedules, nil
}

func replaceSchedules(tx *gorm.DB, packageID uint, rows []Schedule) error {
	if err := tx.Where("package_id = ?", packageID).Delete(&Schedule{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		rows[i].PackageID = packageID
	}
	return tx.Create(&rows).Error
}

func (s *ProgramService) getPackage(id uint) (*Package, error) {
	var pkg Package
	err := s.DB.
		Preload("Schedules", func(db *gorm.DB) *gorm.DB { return db.Order("day ASC, from_time ASC") }).
		First(&pkg, id).Error
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (s *ProgramService) CreatePackage(academicID, programID uint, in PackageInput) (*Package, error) {
	pkg, schedules, err := normalizePackage(in)
	if err != nil {
		return nil, err
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := ownedProgram(tx, academicID, programID); err != nil {
			return err
		}
		pkg.ProgramID = programID
		if err := tx.Omit("Schedules").Create(&pkg).Error; err != nil {
			return err
		}
		return replaceSchedules(tx, pkg.ID, schedules)
	})
	if err != nil {
		return nil, err
	}
	return s.getPackage(pkg.ID)
}

// UpdatePackage replaces the package fields and its weekly schedule.
func (s *ProgramService) UpdatePackage(academicID, id uint, in PackageInput) (*Package, error) {
	next, schedules, err := normalizePackage(in)
	if err != nil {
		return nil, err
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		pkg, err := ownedPackage(tx, academicID, id)
		if err != nil {
			return err
		}
		next.ID = pkg.ID
		next.ProgramID = pkg.ProgramID
		if err := tx.Model(pkg).
			Select("name", "price", "entry_fees", "entry_fees_start_date", "entry_fees_end_date",
				"capacity", "session_per_week", "session_duration", "months").
			Updates(&next).Error; err != nil {
			return err
		}
		return replaceSchedules(tx, id, schedules)
	})
	if err != nil {
		return nil, err
	}
	return s.getPackage(id)
}

func (s *ProgramService) DeletePackage(academicID, id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := ownedPackage(tx, academicID, id); err != nil {
			return err
		}
		return tx.Delete(&Package{}, id).Error
	})
}

func normalizeDiscount(in DiscountInput) (Discount, error) {
	d := Discount{Type: strings.ToLower(strings.TrimSpace(in.Type)), Value: in.Value}
	if d.Type != DiscountFixed && d.Type != DiscountPercentage {
		return d, util.NewFieldError("type", "type must be fixed or percentage")
	}
	if d.Value <= 0 {
		return d, util.NewFieldError("value", "value must be positive")
	}
	if d.Type == DiscountPercentage && d.Value > 100 {
		return d, util.NewFieldError("value", "percentage cannot exceed 100")
	}
	var err error
	if d.StartDate, err = util.ParseDay("start_date", in.StartDate); err != nil {
		return d, err
	}
	if d.EndDate, err = util.ParseDay("end_date", in.EndDate); err != nil {
		return d, err
	}
	if time.Time(d.EndDate).Before(time.Time(d.StartDate)) {
		return d, util.NewFieldError("end_date", "end date must not be before start date")
	}
	return d, nil
}

func (s *ProgramService) getDiscount(id uint) (*Discount, error) {
	var d Discount
	if err := s.DB.First(&d, id).Error; err != nil {
		return nil, err
	}
	var err error
	d.PackageIDs, err = util.LinkedIDs(s.DB, "discount_packages", "discount_id", id, "package_id")
	return &d, err
}

func (s *ProgramService) CreateDiscount(academicID, programID uint, in DiscountInput) (*Discount, error) {
	d, err := normalizeDiscount(in)
	if err != nil {
		return nil, err
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := ownedProgram(tx, academicID, programID); err != nil {
			return err
		}
		if err := util.CheckIDs(tx, "packages", "package_ids", in.PackageIDs, "program_id = ?", programID); err != nil {
			return err
		}
		d.ProgramID = programID
		if err := tx.Omit("Packages").Create(&d).Error; err != nil {
			return err
		}
		return util.ReplaceLinks(tx, "discount_packages", "discount_id", d.ID, "package_id", in.PackageIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.getDiscount(d.ID)
}

func (s *ProgramService) UpdateDiscount(academicID, id uint, in DiscountInput) (*Discount, error) {
	next, err := normalizeDiscount(in)
	if err != nil {
		return nil, err
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var d Discount
		err := tx.Joins("JOIN programs ON programs.id = discounts.program_id").
			Where("programs.academic_id = ?", academicID).
			First(&d, "discounts.id = ?", id).Error
		if err != nil {
			return err
		}
		if err := util.CheckIDs(tx, "packages", "package_ids", in.PackageIDs, "program_id = ?", d.ProgramID); err != nil {
			return err
		}
		if err := tx.Model(&d).Select("type", "value", "start_date", "end_date").Updates(&next).Error; err != nil {
			return err
		}
		return util.ReplaceLinks(tx, "discount_packages", "discount_id", id, "package_id", in.PackageIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.getDiscount(id)
}

func (s *ProgramService) DeleteDiscount(academicID, id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var d Discount
		err := tx.Joins("JOIN programs ON programs.id = discounts.program_id").
			Where("programs.academic_id = ?", academicID).
			First(&d, "discounts.id = ?", id).Error
		if err != nil {
			return err
		}
		return tx.Delete(&Discount{}, id).Error
	})
}

// ActiveDiscount returns the best discount valid for pkg on day, or nil.
// Percentages are applied to price before comparing with fixed amounts.
func ActiveDiscount(tx *gorm.DB, pkg Package, price float64, day datatypes.Date) (*Discount, float64, error) {
	var ds []Discount
	err := tx.Where("program_id = ? AND start_date <= ? AND end_date >= ?", pkg.ProgramID, day, day).
		Order("id ASC").Find(&ds).Error
	if err != nil {
		return nil, 0, err
	}
	var best *Discount
	bestOff := 0.0
	for i := range ds {
		scope, err := util.LinkedIDs(tx, "discount_packages", "discount_id", ds[i].ID, "package_id")
		if err != nil {
			return nil, 0, err
		}
		if len(scope) > 0 && !containsID(scope, pkg.ID) {
			continue
		}
		off := ds[i].Value
		if ds[i].Type == DiscountPercentage {
			off = price * ds[i].Value / 100
		}
		if off > price {
			off = price
		}
		if off > bestOff {
			best, bestOff = &ds[i], off
		}
	}
	return best, bestOff, nil
}

func containsID(ids []uint, id uint) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
