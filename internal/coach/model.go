package coach

import (
	"time"

	"academy-api/internal/academy"
	"academy-api/internal/catalog"
	"academy-api/internal/media"
	"academy-api/internal/program"

	"gorm.io/datatypes"
)

type Coach struct {
	ID                       uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	AcademicID               uint              `gorm:"not null;index" json:"academic_id"`
	Academic                 *academy.Academic `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name                     string            `gorm:"size:255;not null" json:"name"`
	Title                    string            `gorm:"size:255" json:"title"`
	Bio                      string            `gorm:"type:text" json:"bio"`
	GenderID                 *uint             `json:"gender_id,omitempty"`
	Gender                   *catalog.Gender   `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Image                    string            `gorm:"size:1024" json:"image"`
	DateOfBirth              *datatypes.Date   `json:"date_of_birth,omitempty"`
	PrivateSessionPercentage *float64          `gorm:"type:numeric(5,2)" json:"private_session_percentage,omitempty"`
	SportIDs                 []uint            `gorm:"-" json:"sport_ids"`
	SpokenLanguageIDs        []uint            `gorm:"-" json:"spoken_language_ids"`
	PackageIDs               []uint            `gorm:"-" json:"package_ids"`
	ProgramIDs               []uint            `gorm:"-" json:"program_ids"`
	CreatedAt                time.Time         `json:"created_at"`
	UpdatedAt                time.Time         `json:"updated_at"`
}

type CoachSport struct {
	ID      uint           `gorm:"primaryKey;autoIncrement"`
	CoachID uint           `gorm:"not null;uniqueIndex:idx_coach_sports_pair"`
	Coach   *Coach         `gorm:"constraint:OnDelete:CASCADE"`
	SportID uint           `gorm:"not null;uniqueIndex:idx_coach_sports_pair"`
	Sport   *catalog.Sport `gorm:"constraint:OnDelete:CASCADE"`
}

type CoachSpokenLanguage struct {
	ID               uint                    `gorm:"primaryKey;autoIncrement"`
	CoachID          uint                    `gorm:"not null;uniqueIndex:idx_coach_spoken_languages_pair"`
	Coach            *Coach                  `gorm:"constraint:OnDelete:CASCADE"`
	SpokenLanguageID uint                    `gorm:"not null;uniqueIndex:idx_coach_spoken_languages_pair"`
	SpokenLanguage   *catalog.SpokenLanguage `gorm:"constraint:OnDelete:CASCADE"`
}

type CoachPackage struct {
	ID        uint             `gorm:"primaryKey;autoIncrement"`
	CoachID   uint             `gorm:"not null;uniqueIndex:idx_coach_packages_pair"`
	Coach     *Coach           `gorm:"constraint:OnDelete:CASCADE"`
	PackageID uint             `gorm:"not null;uniqueIndex:idx_coach_packages_pair"`
	Package   *program.Package `gorm:"constraint:OnDelete:CASCADE"`
}

type CoachProgram struct {
	ID        uint             `gorm:"primaryKey;autoIncrement"`
	CoachID   uint             `gorm:"not null;uniqueIndex:idx_coach_programs_pair"`
	Coach     *Coach           `gorm:"constraint:OnDelete:CASCADE"`
	ProgramID uint             `gorm:"not null;uniqueIndex:idx_coach_programs_pair"`
	Program   *program.Program `gorm:"constraint:OnDelete:CASCADE"`
}

func (Coach) TableName() string               { return "coaches" }
func (CoachSport) TableName() string          { return "coach_sports" }
func (CoachSpokenLanguage) TableName() string { return "coach_spoken_languages" }
func (CoachPackage) TableName() string        { return "coach_packages" }
func (CoachProgram) TableName() string        { return "coach_programs" }

func Models() []any {
	return []any{&Coach{}, &CoachSport{}, &CoachSpokenLanguage{}, &CoachPackage{}, &CoachProgram{}}
}

type ListFilter struct {
	Search   string `form:"search"`
	SportID  uint   `form:"sport_id"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type CoachInput struct {
	Name                     string      `json:"name" binding:"required"`
	Title                    string      `json:"title"`
	Bio                      string      `json:"bio"`
	GenderID                 *uint       `json:"gender_id"`
	DateOfBirth              string      `json:"date_of_birth"`
	PrivateSessionPercentage *float64    `json:"private_session_percentage"`
	Image                    *media.Item `json:"image"`
	SportIDs                 []uint      `json:"sport_ids"`
	SpokenLanguageIDs        []uint      `json:"spoken_language_ids"`
	PackageIDs               []uint      `json:"package_ids"`
	ProgramIDs               []uint      `json:"program_ids"`
}
