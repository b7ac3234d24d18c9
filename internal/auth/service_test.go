package auth

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"academy-api/internal/util"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", "\\", "_", " ", "_", ":", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&User{}, &Profile{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	sqlDB, err := db.DB()
	if err == nil {
		t.Cleanup(func() { _ = sqlDB.Close() })
	}
	return db
}

type fakeProvisioner struct {
	nextID  uint
	err     error
	created []string
	owners  map[uint]uint
}

func (f *fakeProvisioner) CreatePendingAcademy(tx *gorm.DB, ownerID uint, name string) (uint, error) {
	if tx == nil {
		return 0, errors.New("nil tx")
	}
	if f.err != nil {
		return 0, f.err
	}
	f.created = append(f.created, name)
	if f.owners == nil {
		f.owners = map[uint]uint{}
	}
	f.owners[ownerID] = f.nextID
	return f.nextID, nil
}

func (f *fakeProvisioner) AcademyIDForOwner(ownerID uint) (uint, error) {
	if id, ok := f.owners[ownerID]; ok {
		return id, nil
	}
	return 0, gorm.ErrRecordNotFound
}

func (f *fakeProvisioner) AcademyExists(id uint) (bool, error) {
	for _, v := range f.owners {
		if v == id {
			return true, nil
		}
	}
	return false, nil
}

func TestAuthService_CreateUser_DefaultsRole(t *testing.T) {
	db := newTestDB(t)
	svc := &AuthService{DB: db}

	u, aid, err := svc.CreateUser(User{FirstName: "A", LastName: "B", Email: "a@b.com", Password: "x"}, "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if u.ID == 0 || u.Role != "user" || aid != 0 {
		t.Fatalf("unexpected user: %+v aid=%d", u, aid)
	}
}

func TestAuthService_CreateUser_DuplicateEmail_FieldError(t *testing.T) {
	db := newTestDB(t)
	svc := &AuthService{DB: db}

	if _, _, err := svc.CreateUser(User{FirstName: "A", LastName: "B", Email: "dup@b.com", Password: "x"}, ""); err != nil {
		t.Fatalf("seed: %v", err)
	}
	_, _, err := svc.CreateUser(User{FirstName: "C", LastName: "D", Email: "dup@b.com", Password: "y"}, "")
	fe, ok := util.AsFieldError(err)
	if !ok || fe.Field != "email" {
		t.Fatalf("expected email field error, got %v", err)
	}
}

func TestAuthService_CreateUser_Academic_ProvisionsAcademy(t *testing.T) {
	db := newTestDB(t)
	prov := &fakeProvisioner{nextID: 55}
	svc := &AuthService{DB: db, Academies: prov}

	u, aid, err := svc.CreateUser(User{FirstName: "A", LastName: "B", Email: "ac@b.com", Password: "x", Role: "academic"}, "Falcons")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if aid != 55 || len(prov.created) != 1 || prov.created[0] != "Falcons" {
		t.Fatalf("academy not provisioned: aid=%d created=%v", aid, prov.created)
	}

	got, err := svc.AcademicIDForUser(u)
	if err != nil || got != 55 {
		t.Fatalf("AcademicIDForUser=%d err=%v", got, err)
	}
}

func TestAuthService_CreateUser_Academic_RollsBackOnProvisionFailure(t *testing.T) {
	db := newTestDB(t)
	svc := &AuthService{DB: db, Academies: &fakeProvisioner{err: errors.New("slug taken")}}

	_, _, err := svc.CreateUser(User{FirstName: "A", LastName: "B", Email: "rb@b.com", Password: "x", Role: "academic"}, "Falcons")
	if err == nil {
		t.Fatalf("expected error")
	}

	var count int64
	db.Model(&User{}).Where("email = ?", "rb@b.com").Count(&count)
	if count != 0 {
		t.Fatalf("user should have been rolled back, found %d", count)
	}
}

func TestAuthService_CreateUser_Academic_RequiresName(t *testing.T) {
	svc := &AuthService{DB: newTestDB(t), Academies: &fakeProvisioner{}}
	_, _, err := svc.CreateUser(User{Email: "x@b.com", Role: "academic"}, "  ")
	if fe, ok := util.AsFieldError(err); !ok || fe.Field != "academy_name" {
		t.Fatalf("expected academy_name field error, got %v", err)
	}
}

func TestAuthService_CreateUser_RejectsAdminSignup(t *testing.T) {
	svc := &AuthService{DB: newTestDB(t)}
	_, _, err := svc.CreateUser(User{Email: "x@b.com", Role: "admin"}, "")
	if fe, ok := util.AsFieldError(err); !ok || fe.Field != "role" {
		t.Fatalf("expected role field error, got %v", err)
	}
}

func TestAuthService_RoleCheckConstraint(t *testing.T) {
	db := newTestDB(t)
	err := db.Create(&User{FirstName: "A", LastName: "B", Email: "r@b.com", Password: "x", Role: "superuser"}).Error
	if !util.IsCheckViolation(err) {
		t.Fatalf("expected check violation, got %v", err)
	}
}

func TestAuthService_GetUser_CaseInsensitiveLookup(t *testing.T) {
	db := newTestDB(t)
	svc := &AuthService{DB: db}
	if err := db.Create(&User{FirstName: "A", LastName: "B", Email: "a@b.com", Password: "x", Role: "user"}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	u, err := svc.GetUser("  A@B.com ")
	if err != nil || u.Email != "a@b.com" {
		t.Fatalf("GetUser: %+v %v", u, err)
	}
	if _, err := svc.GetUser("missing@b.com"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.GetUserByID(u.ID); err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
}

func TestAuthService_ListUsers_FilterAndSearch(t *testing.T) {
	db := newTestDB(t)
	svc := &AuthService{DB: db}
	seed := []User{
		{FirstName: "Sara", LastName: "K", Email: "sara@x.com", Password: "x", Role: "academic"},
		{FirstName: "Omar", LastName: "Z", Email: "omar@x.com", Password: "x", Role: "user"},
		{FirstName: "Saeed", LastName: "Q", Email: "saeed@x.com", Password: "x", Role: "user"},
	}
	if err := db.Create(&seed).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	users, total, err := svc.ListUsers(UserFilter{Role: "user"})
	if err != nil || total != 2 || len(users) != 2 {
		t.Fatalf("role filter: total=%d len=%d err=%v", total, len(users), err)
	}

	users, total, err = svc.ListUsers(UserFilter{Search: "SA"})
	if err != nil || total != 2 {
		t.Fatalf("search: total=%d err=%v", total, err)
	}
	for _, u := range users {
		if !strings.HasPrefix(u.FirstName, "Sa") {
			t.Fatalf("unexpected match %+v", u)
		}
	}
}

func TestAuthService_Profiles(t *testing.T) {
	db := newTestDB(t)
	svc := &AuthService{DB: db}
	owner := User{FirstName: "A", LastName: "B", Email: "p@b.com", Password: "x", Role: "user"}
	other := User{FirstName: "C", LastName: "D", Email: "q@b.com", Password: "x", Role: "user"}
	db.Create(&owner)
	db.Create(&other)

	bday := "2014-05-01"
	p, err := svc.CreateProfile(owner.ID, ProfileInput{Name: " Kid ", Birthday: &bday})
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	if p.Name != "Kid" || p.Birthday == nil || p.Birthday.Year() != 2014 {
		t.Fatalf("unexpected profile: %+v", p)
	}

	bad := "05/01/2014"
	if _, err := svc.CreateProfile(owner.ID, ProfileInput{Name: "X", Birthday: &bad}); err == nil {
		t.Fatalf("expected birthday error")
	}

	list, err := svc.ListProfiles(owner.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListProfiles: %v %v", list, err)
	}

	if err := svc.DeleteProfile(other.ID, p.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("other user's delete should be not found, got %v", err)
	}
	if err := svc.DeleteProfile(owner.ID, p.ID); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}
}

func TestAuthService_DeletingUserCascadesProfiles(t *testing.T) {
	db := newTestDB(t)
	svc := &AuthService{DB: db}
	u := User{FirstName: "A", LastName: "B", Email: "c@b.com", Password: "x", Role: "user"}
	db.Create(&u)
	if _, err := svc.CreateProfile(u.ID, ProfileInput{Name: "Kid"}); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	if err := db.Delete(&User{}, u.ID).Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}
	var n int64
	db.Model(&Profile{}).Count(&n)
	if n != 0 {
		t.Fatalf("expected profiles removed, found %d", n)
	}
}
