package wishlist

import (
	"errors"
	"fmt"

	"academy-api/internal/academy"
	"academy-api/internal/util"

	"gorm.io/gorm"
)

type WishlistService struct {
	DB *gorm.DB
}

// Add saves an accepted academy for the user. Saving it twice is a conflict;
// the unique pair decides between concurrent requests.
func (s *WishlistService) Add(userID, academicID uint) (*Wishlist, error) {
	var a academy.Academic
	if err := s.DB.Select("id", "status").First(&a, academicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NewFieldError("academic_id", "academy not found")
		}
		return nil, err
	}
	if a.Status != academy.StatusAccepted {
		return nil, util.NewFieldError("academic_id", "academy is not listed")
	}

	w := Wishlist{UserID: userID, AcademicID: academicID}
	if err := s.DB.Create(&w).Error; err != nil {
		if util.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: academy already in wishlist", util.ErrConflict)
		}
		return nil, err
	}
	return &w, nil
}

func (s *WishlistService) Remove(userID, academicID uint) error {
	res := s.DB.Where("user_id = ? AND academic_id = ?", userID, academicID).Delete(&Wishlist{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns the user's saved academies, newest first, with the academy
// translated to f.Locale.
func (s *WishlistService) List(userID uint, f ListFilter) ([]Wishlist, int64, error) {
	page, size := util.NormalizePage(f.Page, f.PageSize)
	locale := util.NormalizeLocale(f.Locale)

	q := s.DB.Model(&Wishlist{}).Where("user_id = ?", userID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []Wishlist
	err := q.
		Preload("Academic").
		Preload("Academic.Translations", "locale IN ?", []string{locale, util.MainLocale}).
		Order("created_at DESC, id DESC").
		Offset((page - 1) * size).Limit(size).
		Find(&out).Error
	return out, total, err
}
