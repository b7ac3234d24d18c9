package wishlist

import (
	"time"

	"academy-api/internal/academy"
	"academy-api/internal/auth"
)

// Wishlist is a user's saved academy. A user saves an academy at most once.
type Wishlist struct {
	ID         uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	AcademicID uint              `gorm:"not null;uniqueIndex:idx_wishlists_pair" json:"academic_id"`
	Academic   *academy.Academic `gorm:"constraint:OnDelete:CASCADE" json:"academic,omitempty"`
	UserID     uint              `gorm:"not null;uniqueIndex:idx_wishlists_pair;index" json:"user_id"`
	User       *auth.User        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time         `json:"created_at"`
}

func Models() []any {
	return []any{&Wishlist{}}
}

type ListFilter struct {
	Locale   string `form:"locale"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}
