package branch

import (
	"time"

	"academy-api/internal/academy"
	"academy-api/internal/catalog"
	"academy-api/internal/util"
)

type Branch struct {
	ID           uint                `gorm:"primaryKey;autoIncrement" json:"id"`
	AcademicID   uint                `gorm:"not null;index" json:"academic_id"`
	Academic     *academy.Academic   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Latitude     *float64            `json:"latitude,omitempty"`
	Longitude    *float64            `json:"longitude,omitempty"`
	IsDefault    bool                `gorm:"not null;default:false" json:"is_default"`
	Rating       float64             `gorm:"not null;default:0" json:"rating"`
	URL          string              `gorm:"size:1024" json:"url"`
	Translations []BranchTranslation `gorm:"constraint:OnDelete:CASCADE" json:"translations,omitempty"`
	SportIDs     []uint              `gorm:"-" json:"sport_ids"`
	FacilityIDs  []uint              `gorm:"-" json:"facility_ids"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

type BranchTranslation struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	BranchID uint   `gorm:"not null;uniqueIndex:idx_branch_translations_parent_locale" json:"branch_id"`
	Locale   string `gorm:"size:10;not null;uniqueIndex:idx_branch_translations_parent_locale" json:"locale"`
	Name     string `gorm:"size:255;not null" json:"name"`
	Address  string `gorm:"size:512" json:"address"`
}

type BranchSport struct {
	ID       uint           `gorm:"primaryKey;autoIncrement"`
	BranchID uint           `gorm:"not null;uniqueIndex:idx_branch_sports_pair"`
	Branch   *Branch        `gorm:"constraint:OnDelete:CASCADE"`
	SportID  uint           `gorm:"not null;uniqueIndex:idx_branch_sports_pair"`
	Sport    *catalog.Sport `gorm:"constraint:OnDelete:CASCADE"`
}

type BranchFacility struct {
	ID         uint              `gorm:"primaryKey;autoIncrement"`
	BranchID   uint              `gorm:"not null;uniqueIndex:idx_branch_facilities_pair"`
	Branch     *Branch           `gorm:"constraint:OnDelete:CASCADE"`
	FacilityID uint              `gorm:"not null;uniqueIndex:idx_branch_facilities_pair"`
	Facility   *catalog.Facility `gorm:"constraint:OnDelete:CASCADE"`
}

func (Branch) TableName() string            { return "branches" }
func (BranchTranslation) TableName() string { return "branch_translations" }
func (BranchSport) TableName() string       { return "branch_sports" }
func (BranchFacility) TableName() string    { return "branch_facilities" }

func Models() []any {
	return []any{&Branch{}, &BranchTranslation{}, &BranchSport{}, &BranchFacility{}}
}

type BranchSummary struct {
	ID        uint     `json:"id"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Locale    string   `json:"locale"`
	IsDefault bool     `json:"is_default"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Rating    float64  `json:"rating"`
}

type ListFilter struct {
	Locale   string `form:"locale"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type BranchInput struct {
	Translations []util.TranslationInput `json:"translations" binding:"required"`
	Latitude     *float64                `json:"latitude"`
	Longitude    *float64                `json:"longitude"`
	Rating       float64                 `json:"rating"`
	URL          string                  `json:"url"`
	IsDefault    bool                    `json:"is_default"`
	SportIDs     []uint                  `json:"sport_ids"`
	FacilityIDs  []uint                  `json:"facility_ids"`
}
