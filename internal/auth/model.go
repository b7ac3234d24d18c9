package auth

import (
	"time"
)

type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName string    `gorm:"size:100;not null;column:firstname" json:"firstname"`
	LastName  string    `gorm:"size:100;not null;column:lastname" json:"lastname"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone     string    `gorm:"size:40" json:"phone,omitempty"`
	Password  string    `gorm:"not null" json:"-"`
	Role      string    `gorm:"size:20;not null;default:user;check:role IN ('admin','academic','user')" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile is an athlete a user books for (the user or a family member).
type Profile struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	User      *User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name      string     `gorm:"size:150;not null" json:"name"`
	Birthday  *time.Time `gorm:"type:date" json:"birthday,omitempty"`
	GenderID  *uint      `json:"gender_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type SignUpRequest struct {
	FirstName   string `json:"firstname" binding:"required"`
	LastName    string `json:"lastname" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	Phone       string `json:"phone"`
	Role        string `json:"role" binding:"omitempty,oneof=academic user"`
	AcademyName string `json:"academy_name"`
}

type LoginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"rememberMe"`
}

type ImpersonateRequest struct {
	AcademicID uint `json:"academic_id" binding:"required"`
}

type ProfileInput struct {
	Name     string  `json:"name" binding:"required"`
	Birthday *string `json:"birthday"`
	GenderID *uint   `json:"gender_id"`
}

type UserFilter struct {
	Role     string
	Search   string
	Page     int
	PageSize int
}

type LoginResponse struct {
	ID                     uint   `json:"id"`
	FirstName              string `json:"firstname"`
	LastName               string `json:"lastname"`
	Email                  string `json:"email"`
	Role                   string `json:"role"`
	AcademicID             uint   `json:"academic_id,omitempty"`
	ImpersonatedAcademicID uint   `json:"impersonated_academic_id,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (Profile) TableName() string {
	return "profiles"
}
