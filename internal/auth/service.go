package auth

import (
	"errors"
	"strings"

	"academy-api/config"
	"academy-api/internal/util"

	"gorm.io/gorm"
)

type AuthService struct {
	DB        *gorm.DB
	CFG       *config.Config
	Academies AcademyProvisioner
}

// CreateUser inserts the user. Academic sign-ups also get a pending academy
// in the same transaction; its id is returned (0 otherwise).
func (s *AuthService) CreateUser(user User, academyName string) (*User, uint, error) {
	if user.Role == "" {
		user.Role = "user"
	}
	if user.Role == "admin" {
		return nil, 0, util.NewFieldError("role", "cannot sign up as admin")
	}
	if user.Role == "academic" {
		if strings.TrimSpace(academyName) == "" {
			return nil, 0, util.NewFieldError("academy_name", "academy name is required")
		}
		if s.Academies == nil {
			return nil, 0, errors.New("academy provisioning is not configured")
		}
	}

	var academicID uint
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if user.Role != "academic" {
			return nil
		}
		id, err := s.Academies.CreatePendingAcademy(tx, user.ID, academyName)
		if err != nil {
			return err
		}
		academicID = id
		return nil
	})
	if err != nil {
		if util.IsUniqueViolation(err) {
			return nil, 0, util.NewFieldError("email", "An account with this email already exists. Please log in or use different details.")
		}
		return nil, 0, err
	}

	return &user, academicID, nil
}

func (s *AuthService) GetUser(email string) (*User, error) {
	var user User
	if err := s.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) GetUserByID(id uint) (*User, error) {
	var user User
	if err := s.DB.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) ListUsers(f UserFilter) ([]User, int64, error) {
	page, size := util.NormalizePage(f.Page, f.PageSize)

	q := s.DB.Model(&User{})
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if v := strings.TrimSpace(f.Search); v != "" {
		like := "%" + strings.ToLower(v) + "%"
		q = q.Where("LOWER(email) LIKE ? OR LOWER(firstname) LIKE ? OR LOWER(lastname) LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []User
	err := q.Order("id DESC").Limit(size).Offset((page - 1) * size).Find(&users).Error
	return users, total, err
}

// AcademicIDForUser returns the academy an academic user owns, or 0.
func (s *AuthService) AcademicIDForUser(user *User) (uint, error) {
	if user == nil || user.Role != "academic" || s.Academies == nil {
		return 0, nil
	}
	id, err := s.Academies.AcademyIDForOwner(user.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return id, err
}

func (s *AuthService) AcademyExists(id uint) (bool, error) {
	if s.Academies == nil {
		return false, nil
	}
	return s.Academies.AcademyExists(id)
}

func (s *AuthService) CreateProfile(userID uint, in ProfileInput) (*Profile, error) {
	p := Profile{
		UserID:   userID,
		Name:     strings.TrimSpace(in.Name),
		GenderID: in.GenderID,
	}
	if p.Name == "" {
		return nil, util.NewFieldError("name", "name is required")
	}
	if in.Birthday != nil && strings.TrimSpace(*in.Birthday) != "" {
		b, err := util.ParseDate("birthday", *in.Birthday)
		if err != nil {
			return nil, err
		}
		p.Birthday = &b
	}
	if err := s.DB.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *AuthService) ListProfiles(userID uint) ([]Profile, error) {
	var out []Profile
	err := s.DB.Where("user_id = ?", userID).Order("id").Find(&out).Error
	return out, err
}

func (s *AuthService) DeleteProfile(userID, profileID uint) error {
	res := s.DB.Where("id = ? AND user_id = ?", profileID, userID).Delete(&Profile{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
