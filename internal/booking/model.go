package booking

import (
	"time"

	"academy-api/internal/academy"
	"academy-api/internal/auth"
	"academy-api/internal/catalog"
	"academy-api/internal/coach"
	"academy-api/internal/program"

	"gorm.io/datatypes"
)

const (
	StatusPending  = "pending"
	StatusSuccess  = "success"
	StatusRejected = "rejected"

	SessionPending   = "pending"
	SessionAccepted  = "accepted"
	SessionUpcoming  = "upcoming"
	SessionRejected  = "rejected"
	SessionCancelled = "cancelled"
)

// Booking reserves a package for a profile. Price fields are snapshots taken
// at creation. AssessmentDeductionID points at an earlier booking whose entry
// fee covers this one.
type Booking struct {
	ID                    uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	AcademicID            uint              `gorm:"not null;index" json:"academic_id"`
	Academic              *academy.Academic `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ProfileID             uint              `gorm:"not null;index" json:"profile_id"`
	Profile               *auth.Profile     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	PackageID             uint              `gorm:"not null;index" json:"package_id"`
	Package               *program.Package  `json:"-"`
	ProgramID             uint              `gorm:"not null;index" json:"program_id"`
	Program               *program.Program  `json:"-"`
	SportID               *uint             `gorm:"index" json:"sport_id,omitempty"`
	Sport                 *catalog.Sport    `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	CoachID               *uint             `gorm:"index" json:"coach_id,omitempty"`
	Coach                 *coach.Coach      `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Status                string            `gorm:"size:20;not null;default:pending;check:status IN ('pending','success','rejected')" json:"status"`
	PackagePrice          float64           `gorm:"type:numeric(10,2);not null" json:"package_price"`
	Discount              float64           `gorm:"type:numeric(10,2);not null;default:0" json:"discount"`
	Price                 float64           `gorm:"type:numeric(10,2);not null" json:"price"`
	EntryFees             float64           `gorm:"type:numeric(10,2);not null;default:0" json:"entry_fees"`
	EntryFeesPaid         bool              `gorm:"not null;default:false" json:"entry_fees_paid"`
	AssessmentDeductionID *uint             `gorm:"index" json:"assessment_deduction_id,omitempty"`
	AssessmentDeduction   *Booking          `gorm:"foreignKey:AssessmentDeductionID;constraint:OnDelete:SET NULL" json:"-"`
	Sessions              []BookingSession  `gorm:"constraint:OnDelete:CASCADE" json:"sessions,omitempty"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
}

type BookingSession struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingID uint           `gorm:"not null;index" json:"booking_id"`
	Date      datatypes.Date `gorm:"not null;index" json:"date"`
	From      string         `gorm:"size:5;not null;column:from_time" json:"from"`
	To        string         `gorm:"size:5;not null;column:to_time" json:"to"`
	Status    string         `gorm:"size:20;not null;default:pending;check:status IN ('pending','accepted','upcoming','rejected','cancelled')" json:"status"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// EntryFeeHistory records that a profile paid the entry fee of a sport for
// one program season.
type EntryFeeHistory struct {
	ID        uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	ProfileID uint             `gorm:"not null;uniqueIndex:idx_entry_fees_history_key" json:"profile_id"`
	Profile   *auth.Profile    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SportID   uint             `gorm:"not null;uniqueIndex:idx_entry_fees_history_key" json:"sport_id"`
	Sport     *catalog.Sport   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ProgramID uint             `gorm:"not null;uniqueIndex:idx_entry_fees_history_key" json:"program_id"`
	Program   *program.Program `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	BookingID *uint            `json:"booking_id,omitempty"`
	Booking   *Booking         `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Amount    float64          `gorm:"type:numeric(10,2);not null" json:"amount"`
	CreatedAt time.Time        `json:"created_at"`
}

func (Booking) TableName() string         { return "bookings" }
func (BookingSession) TableName() string  { return "booking_sessions" }
func (EntryFeeHistory) TableName() string { return "entry_fees_history" }

func Models() []any {
	return []any{&Booking{}, &BookingSession{}, &EntryFeeHistory{}}
}

type SessionInput struct {
	Date string `json:"date" binding:"required"`
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

type CreateInput struct {
	ProfileID             uint           `json:"profile_id" binding:"required"`
	PackageID             uint           `json:"package_id" binding:"required"`
	CoachID               *uint          `json:"coach_id"`
	AssessmentDeductionID *uint          `json:"assessment_deduction_id"`
	Sessions              []SessionInput `json:"sessions" binding:"required"`
}

type StatusInput struct {
	Status string `json:"status" binding:"required"`
}

type DeductionInput struct {
	AssessmentDeductionID *uint `json:"assessment_deduction_id"`
}

type ListFilter struct {
	Status    string `form:"status"`
	From      string `form:"from"`
	To        string `form:"to"`
	PackageID uint   `form:"package_id"`
	CoachID   uint   `form:"coach_id"`
	ProfileID uint   `form:"profile_id"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
}
