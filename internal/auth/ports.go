package auth

import (
	"academy-api/internal/logs"

	"gorm.io/gorm"
)

type AuthServicePort interface {
	CreateUser(user User, academyName string) (*User, uint, error)
	GetUser(email string) (*User, error)
	GetUserByID(id uint) (*User, error)
	ListUsers(f UserFilter) ([]User, int64, error)
	AcademicIDForUser(user *User) (uint, error)
	AcademyExists(id uint) (bool, error)

	CreateProfile(userID uint, in ProfileInput) (*Profile, error)
	ListProfiles(userID uint) ([]Profile, error)
	DeleteProfile(userID, profileID uint) error
}

type LogServicePort interface {
	Log(entry logs.SystemLog, payload any) error
}

// AcademyProvisioner creates and looks up the academy owned by an academic
// user. The academy package implements it.
type AcademyProvisioner interface {
	CreatePendingAcademy(tx *gorm.DB, ownerID uint, name string) (uint, error)
	AcademyIDForOwner(ownerID uint) (uint, error)
	AcademyExists(id uint) (bool, error)
}

var _ AuthServicePort = (*AuthService)(nil)
var _ LogServicePort = (*logs.LogService)(nil)
