package program

import (
	"time"

	"academy-api/internal/academy"
	"academy-api/internal/branch"
	"academy-api/internal/catalog"

	"gorm.io/datatypes"
)

const (
	TypeTeam    = "TEAM"
	TypePrivate = "PRIVATE"

	DiscountFixed      = "fixed"
	DiscountPercentage = "percentage"
)

type Program struct {
	ID            uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	AcademicID    uint              `gorm:"not null;index" json:"academic_id"`
	Academic      *academy.Academic `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	BranchID      *uint             `gorm:"index" json:"branch_id,omitempty"`
	Branch        *branch.Branch    `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	SportID       *uint             `gorm:"index" json:"sport_id,omitempty"`
	Sport         *catalog.Sport    `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Type          string            `gorm:"size:10;not null;check:type IN ('TEAM','PRIVATE')" json:"type"`
	Name          string            `gorm:"size:255;not null" json:"name"`
	Description   string            `gorm:"type:text" json:"description"`
	StartDate     *datatypes.Date   `json:"start_date,omitempty"`
	EndDate       *datatypes.Date   `json:"end_date,omitempty"`
	NumberOfSeats int               `gorm:"not null;default:0" json:"number_of_seats"`
	GenderID      *uint             `json:"gender_id,omitempty"`
	Gender        *catalog.Gender   `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	StartAge      *int              `json:"start_age,omitempty"`
	EndAge        *int              `json:"end_age,omitempty"`
	Packages      []Package         `gorm:"constraint:OnDelete:CASCADE" json:"packages,omitempty"`
	Discounts     []Discount        `gorm:"constraint:OnDelete:CASCADE" json:"discounts,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

type Package struct {
	ID                 uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	ProgramID          uint            `gorm:"not null;index" json:"program_id"`
	Name               string          `gorm:"size:255;not null" json:"name"`
	Price              float64         `gorm:"type:numeric(10,2);not null;default:0" json:"price"`
	EntryFees          *float64        `gorm:"type:numeric(10,2)" json:"entry_fees,omitempty"`
	EntryFeesStartDate *datatypes.Date `json:"entry_fees_start_date,omitempty"`
	EntryFeesEndDate   *datatypes.Date `json:"entry_fees_end_date,omitempty"`
	Capacity           int             `gorm:"not null;default:0" json:"capacity"`
	SessionPerWeek     int             `gorm:"not null;default:1" json:"session_per_week"`
	SessionDuration    int             `gorm:"not null;default:60" json:"session_duration"`
	Months             datatypes.JSON  `json:"months"`
	Schedules          []Schedule      `gorm:"constraint:OnDelete:CASCADE" json:"schedules,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// Schedule is a weekly slot; Day is 0 (Sunday) to 6, From/To are HH:MM.
type Schedule struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	PackageID uint   `gorm:"not null;index" json:"package_id"`
	Day       int    `gorm:"not null;check:day BETWEEN 0 AND 6" json:"day"`
	From      string `gorm:"size:5;not null;column:from_time" json:"from"`
	To        string `gorm:"size:5;not null;column:to_time" json:"to"`
}

type Discount struct {
	ID         uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	ProgramID  uint            `gorm:"not null;index" json:"program_id"`
	Type       string          `gorm:"size:20;not null;check:type IN ('fixed','percentage')" json:"type"`
	Value      float64         `gorm:"type:numeric(10,2);not null" json:"value"`
	StartDate  datatypes.Date  `gorm:"not null" json:"start_date"`
	EndDate    datatypes.Date  `gorm:"not null" json:"end_date"`
	Packages   []DiscountScope `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	PackageIDs []uint          `gorm:"-" json:"package_ids"`
}

// DiscountScope limits a discount to some packages of its program. A discount
// without scope rows applies to every package.
type DiscountScope struct {
	ID         uint     `gorm:"primaryKey;autoIncrement"`
	DiscountID uint     `gorm:"not null;uniqueIndex:idx_discount_packages_pair"`
	PackageID  uint     `gorm:"not null;uniqueIndex:idx_discount_packages_pair"`
	Package    *Package `gorm:"constraint:OnDelete:CASCADE"`
}

func (Program) TableName() string       { return "programs" }
func (Package) TableName() string       { return "packages" }
func (Schedule) TableName() string      { return "schedules" }
func (Discount) TableName() string      { return "discounts" }
func (DiscountScope) TableName() string { return "discount_packages" }

func Models() []any {
	return []any{&Program{}, &Package{}, &Schedule{}, &Discount{}, &DiscountScope{}}
}

type ListFilter struct {
	Search   string `form:"search"`
	Type     string `form:"type"`
	BranchID uint   `form:"branch_id"`
	SportID  uint   `form:"sport_id"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type ProgramInput struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	Type          string `json:"type" binding:"required"`
	BranchID      *uint  `json:"branch_id"`
	SportID       *uint  `json:"sport_id"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	NumberOfSeats int    `json:"number_of_seats"`
	GenderID      *uint  `json:"gender_id"`
	StartAge      *int   `json:"start_age"`
	EndAge        *int   `json:"end_age"`
}

type ScheduleInput struct {
	Day  int    `json:"day"`
	From string `json:"from"`
	To   string `json:"to"`
}

type PackageInput struct {
	Name               string          `json:"name" binding:"required"`
	Price              float64         `json:"price"`
	EntryFees          *float64        `json:"entry_fees"`
	EntryFeesStartDate string          `json:"entry_fees_start_date"`
	EntryFeesEndDate   string          `json:"entry_fees_end_date"`
	Capacity           int             `json:"capacity"`
	SessionPerWeek     int             `json:"session_per_week"`
	SessionDuration    int             `json:"session_duration"`
	Months             []string        `json:"months"`
	Schedules          []ScheduleInput `json:"schedules"`
}

type DiscountInput struct {
	Type       string  `json:"type" binding:"required"`
	Value      float64 `json:"value"`
	StartDate  string  `json:"start_date" binding:"required"`
	EndDate    string  `json:"end_date" binding:"required"`
	PackageIDs []uint  `json:"package_ids"`
}
