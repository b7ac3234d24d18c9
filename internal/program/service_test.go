package program

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"academy-api/internal/academy"
	"academy-api/internal/auth"
	"academy-api/internal/branch"
	"academy-api/internal/catalog"
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
	models := []any{&auth.User{}, &auth.Profile{}}
	models = append(models, catalog.Models()...)
	models = append(models, academy.Models()...)
	models = append(models, branch.Models()...)
	models = append(models, Models()...)
	if err := db.AutoMigrate(models...); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		t.Cleanup(func() { _ = sqlDB.Close() })
	}
	return db
}

func seedAcademy(t *testing.T, db *gorm.DB, slug string) uint {
	t.Helper()
	a := academy.Academic{Slug: slug, Status: academy.StatusAccepted}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("seed academy: %v", err)
	}
	return a.ID
}

func seedBranch(t *testing.T, db *gorm.DB, academicID uint) uint {
	t.Helper()
	b, err := (&branch.BranchService{DB: db}).Create(academicID, branch.BranchInput{
		Translations: []util.TranslationInput{{Locale: "en", Name: "Main"}},
	})
	if err != nil {
		t.Fatalf("seed branch: %v", err)
	}
	return b.ID
}

func uptr(v uint) *uint { return &v }
func iptr(v int) *int   { return &v }

func teamProgram(name string) ProgramInput {
	return ProgramInput{Name: name, Type: "team", StartDate: "2025-01-01", EndDate: "2025-06-30", NumberOfSeats: 20}
}

func TestCreateProgram_NormalizesAndValidates(t *testing.T) {
	db := newTestDB(t)
	svc := &ProgramService{DB: db}
	aid := seedAcademy(t, db, "a")

	p, err := svc.Create(aid, teamProgram("  Juniors "))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Type != TypeTeam || p.Name != "Juniors" || p.StartDate == nil || util.DayString(*p.StartDate) != "2025-01-01" {
		t.Fatalf("unexpected program: %+v", p)
	}

	cases := []struct {
		name  string
		in    ProgramInput
		field string
	}{
		{"bad type", ProgramInput{Name: "x", Type: "GROUP"}, "type"},
		{"blank name", ProgramInput{Name: " ", Type: "TEAM"}, "name"},
		{"reversed season", ProgramInput{Name: "x", Type: "TEAM", StartDate: "2025-05-01", EndDate: "2025-04-01"}, "end_date"},
		{"bad date", ProgramInput{Name: "x", Type: "TEAM", StartDate: "01/05/2025"}, "start_date"},
		{"reversed ages", ProgramInput{Name: "x", Type: "TEAM", StartAge: iptr(12), EndAge: iptr(8)}, "end_age"},
		{"negative seats", ProgramInput{Name: "x", Type: "TEAM", NumberOfSeats: -1}, "number_of_seats"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(aid, tc.in)
			fe, ok := util.AsFieldError(err)
			if !ok || fe.Field != tc.field {
				t.Fatalf("expected field error on %s, got %v", tc.field, err)
			}
		})
	}
}

func TestProgramTypeCheckConstraint(t *testing.T) {
	db := newTestDB(t)
	aid := seedAcademy(t, db, "a")

	err := db.Create(&Program{AcademicID: aid, Name: "x", Type: "GROUP"}).Error
	if err == nil || !util.IsCheckViolation(err) {
		t.Fatalf("expected check violation, got %v", err)
	}
}

func TestCreateProgram_BranchMustBelongToTenant(t *testing.T) {
	db := newTestDB(t)
	svc := &ProgramService{DB: db}
	a := seedAcademy(t, db, "a")
	b := seedAcademy(t, db, "b")
	foreign := seedBranch(t, db, b)

	in := teamProgram("x")
	in.BranchID = uptr(foreign)
	_, err := svc.Create(a, in)
	if fe, ok := util.AsFieldError(err); !ok || fe.Field != "branch_id" {
		t.Fatalf("expected branch_id error, got %v", err)
	}

	in.BranchID = uptr(seedBranch(t, db, a))
	if _, err := svc.Create(a, in); err != nil {
		t.Fatalf("own branch: %v", err)
	}
}

func TestPackage_SchedulesReplaced(t *testing.T) {
	db := newTestDB(t)
	svc := &ProgramService{DB: db}
	aid := seedAcademy(t, db, "a")
	p, _ := svc.Create(aid, teamProgram("Juniors"))

	in := PackageInput{
		Name:     "Monthly",
		Price:    100,
		Capacity: 10,
		Months:   []string{"january", "February", "JANUARY"},
		Schedules: []ScheduleInput{
			{Day: 3, From: "18:00", To: "19:30"},
			{Day: 1, From: "17:00", To: "18:00"},
		},
	}
	pkg, err := svc.CreatePackage(aid, p.ID, in)
	if err != nil {
		t.Fatalf("create package: %v", err)
	}
	if len(pkg.Schedules) != 2 || pkg.Schedules[0].Day != 1 {
		t.Fatalf("unexpected schedules: %+v", pkg.Schedules)
	}
	if string(pkg.Months) != `["January","February"]` {
		t.Fatalf("months=%s", pkg.Months)
	}
	if pkg.SessionPerWeek != 1 || pkg.SessionDuration != 60 {
		t.Fatalf("defaults not applied: %+v", pkg)
	}

	in.Schedules = []ScheduleInput{{Day: 5, From: "09:00", To: "10:00"}}
	pkg, err = svc.UpdatePackage(aid, pkg.ID, in)
	if err != nil {
		t.Fatalf("update package: %v", err)
	}
	var n int64
	db.Model(&Schedule{}).Where("package_id = ?", pkg.ID).Count(&n)
	if n != 1 || pkg.Schedules[0].Day != 5 {
		t.Fatalf("schedules not replaced: %d %+v", n, pkg.Schedules)
	}
}

func TestPackage_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := &ProgramService{DB: db}
	aid := seedAcademy(t, db, "a")
	p, _ := svc.Create(aid, teamProgram("Juniors"))

	cases := []struct {
		name  string
		in    PackageInput
		field string
	}{
		{"from after to", PackageInput{Name: "x", Schedules: []ScheduleInput{{Day: 1, From: "19:00", To: "18:00"}}}, "schedules"},
		{"equal times", PackageInput{Name: "x", Schedules: []ScheduleInput{{Day: 1, From: "18:00", To: "18:00"}}}, "schedules"},
		{"bad day", PackageInput{Name: "x", Schedules: []ScheduleInput{{Day: 7, From: "18:00", To: "19:00"}}}, "schedules"},
		{"bad month", PackageInput{Name: "x", Months: []string{"Smarch"}}, "months"},
		{"negative price", PackageInput{Name: "x", Price: -1}, "price"},
		{"reversed fee window", PackageInput{Name: "x", EntryFeesStartDate: "2025-03-01", EntryFeesEndDate: "2025-02-01"}, "entry_fees_end_date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreatePackage(aid, p.ID, tc.in)
			fe, ok := util.AsFieldError(err)
			if !ok || fe.Field != tc.field {
				t.Fatalf("expected field error on %s, got %v", tc.field, err)
			}
		})
	}
}

func TestPackage_OtherTenantNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := &ProgramService{DB: db}
	a := seedAcademy(t, db, "a")
	b := seedAcademy(t, db, "b")
	p, _ := svc.Create(a, teamProgram("Juniors"))
	pkg, err := svc.CreatePackage(a, p.ID, PackageInput{Name: "Monthly"})
	if err != nil {
		t.Fatalf("create package: %v", err)
	}

	if _, err := svc.CreatePackage(b, p.ID, PackageInput{Name: "Other"}); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := svc.DeletePackage(b, pkg.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := svc.DeletePackage(a, pkg.ID); err != nil {
		t.Fatalf("delete package: %v", err)
	}
}

func TestDiscount_PackageSubsetAndActive(t *testing.T) {
	db := newTestDB(t)
	svc := &ProgramService{DB: db}
	aid := seedAcademy(t, db, "a")
	p, _ := svc.Create(aid, teamProgram("Juniors"))
	monthly, _ := svc.CreatePackage(aid, p.ID, PackageInput{Name: "Monthly", Price: 200})
	yearly, _ := svc.CreatePackage(aid, p.ID, PackageInput{Name: "Yearly", Price: 1000})
	other, _ := svc.Create(aid, teamProgram("Seniors"))
	foreignPkg, _ := svc.CreatePackage(aid, other.ID, PackageInput{Name: "Other"})

	_, err := svc.CreateDiscount(aid, p.ID, DiscountInput{Type: "fixed", Value: 10, StartDate: "2025-01-01", EndDate: "2025-01-31", PackageIDs: []uint{foreignPkg.ID}})
	if fe, ok := util.AsFieldError(err); !ok || fe.Field != "package_ids" {
		t.Fatalf("expected package_ids error, got %v", err)
	}
	if _, err := svc.CreateDiscount(aid, p.ID, DiscountInput{Type: "percentage", Value: 120, StartDate: "2025-01-01", EndDate: "2025-01-31"}); err == nil {
		t.Fatalf("expected percentage bound error")
	}

	d, err := svc.CreateDiscount(aid, p.ID, DiscountInput{Type: "percentage", Value: 10, StartDate: "2025-01-01", EndDate: "2025-01-31", PackageIDs: []uint{yearly.ID}})
	if err != nil {
		t.Fatalf("create discount: %v", err)
	}
	if len(d.PackageIDs) != 1 || d.PackageIDs[0] != yearly.ID {
		t.Fatalf("unexpected scope: %+v", d.PackageIDs)
	}
	if _, err := svc.CreateDiscount(aid, p.ID, DiscountInput{Type: "fixed", Value: 50, StartDate: "2025-01-10", EndDate: "2025-01-20"}); err != nil {
		t.Fatalf("create fixed discount: %v", err)
	}

	day, _ := util.ParseDay("day", "2025-01-15")
	best, off, err := ActiveDiscount(db, *yearly, yearly.Price, day)
	if err != nil || best == nil || best.Type != DiscountPercentage || off != 100 {
		t.Fatalf("yearly: %+v off=%v err=%v", best, off, err)
	}
	best, off, err = ActiveDiscount(db, *monthly, monthly.Price, day)
	if err != nil || best == nil || best.Type != DiscountFixed || off != 50 {
		t.Fatalf("monthly: %+v off=%v err=%v", best, off, err)
	}
	late, _ := util.ParseDay("day", "2025-02-01")
	if best, _, _ := ActiveDiscount(db, *monthly, monthly.Price, late); best != nil {
		t.Fatalf("expired discount applied: %+v", best)
	}

	// deleting the package drops it from the discount scope
	if err := svc.DeletePackage(aid, yearly.ID); err != nil {
		t.Fatalf("delete package: %v", err)
	}
	got, _ := svc.Get(aid, p.ID)
	for _, x := range got.Discounts {
		if x.ID == d.ID && len(x.PackageIDs) != 0 {
			t.Fatalf("scope row survived package delete: %+v", x.PackageIDs)
		}
	}
}

func TestDeleteProgram_CascadesAndBulk(t *testing.T) {
	db := newTestDB(t)
	svc := &ProgramService{DB: db}
	a := seedAcademy(t, db, "a")
	b := seedAcademy(t, db, "b")
	p1, _ := svc.Create(a, teamProgram("One"))
	p2, _ := svc.Create(a, teamProgram("Two"))
	pb, _ := svc.Create(b, teamProgram("Theirs"))
	_, _ = svc.CreatePackage(a, p1.ID, PackageInput{Name: "Monthly", Schedules: []ScheduleInput{{Day: 1, From: "10:00", To: "11:00"}}})

	if err := svc.Delete(b, p1.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("foreign delete: %v", err)
	}
	n, err := svc.BulkDelete(a, []uint{p1.ID, p2.ID, pb.ID, p1.ID})
	if err != nil || n != 2 {
		t.Fatalf("bulk delete: n=%d err=%v", n, err)
	}
	var pkgs, schedules int64
	db.Model(&Package{}).Count(&pkgs)
	db.Model(&Schedule{}).Count(&schedules)
	if pkgs != 0 || schedules != 0 {
		t.Fatalf("cascade failed: packages=%d schedules=%d", pkgs, schedules)
	}
	if _, err := svc.Get(b, pb.ID); err != nil {
		t.Fatalf("other tenant program must survive: %v", err)
	}
	if _, err := svc.BulkDelete(a, nil); err == nil {
		t.Fatalf("expected ids error")
	}
}

func TestListPrograms_Filters(t *testing.T) {
	db := newTestDB(t)
	svc := &ProgramService{DB: db}
	aid := seedAcademy(t, db, "a")
	_, _ = svc.Create(aid, teamProgram("Football juniors"))
	_, _ = svc.Create(aid, ProgramInput{Name: "Private tennis", Type: "PRIVATE"})

	items, total, err := svc.List(aid, ListFilter{Type: "private"})
	if err != nil || total != 1 || items[0].Name != "Private tennis" {
		t.Fatalf("type filter: %+v %d %v", items, total, err)
	}
	items, total, _ = svc.List(aid, ListFilter{Search: "JUNIOR"})
	if total != 1 || items[0].Type != TypeTeam {
		t.Fatalf("search: %+v %d", items, total)
	}
}
