package block

import (
	"time"

	"academy-api/internal/academy"
	"academy-api/internal/branch"
	"academy-api/internal/catalog"
	"academy-api/internal/coach"
	"academy-api/internal/program"

	"gorm.io/datatypes"
)

const (
	ScopeAll      = "all"
	ScopeSpecific = "specific"
)

// Block closes part of an academy's offering on one date between StartTime
// and EndTime (HH:MM). Each dimension is scoped to all entities or to the
// ones linked in its junction table.
type Block struct {
	ID           uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	AcademicID   uint              `gorm:"not null;index:idx_blocks_academic_date" json:"academic_id"`
	Academic     *academy.Academic `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Date         datatypes.Date    `gorm:"not null;index:idx_blocks_academic_date" json:"date"`
	StartTime    string            `gorm:"size:5;not null" json:"start_time"`
	EndTime      string            `gorm:"size:5;not null" json:"end_time"`
	Note         string            `gorm:"type:text" json:"note"`
	BranchScope  string            `gorm:"size:10;not null;default:all;check:branch_scope IN ('all','specific')" json:"branch_scope"`
	SportScope   string            `gorm:"size:10;not null;default:all;check:sport_scope IN ('all','specific')" json:"sport_scope"`
	PackageScope string            `gorm:"size:10;not null;default:all;check:package_scope IN ('all','specific')" json:"package_scope"`
	ProgramScope string            `gorm:"size:10;not null;default:all;check:program_scope IN ('all','specific')" json:"program_scope"`
	CoachScope   string            `gorm:"size:10;not null;default:all;check:coach_scope IN ('all','specific')" json:"coach_scope"`
	BranchIDs    []uint            `gorm:"-" json:"branch_ids"`
	SportIDs     []uint            `gorm:"-" json:"sport_ids"`
	PackageIDs   []uint            `gorm:"-" json:"package_ids"`
	ProgramIDs   []uint            `gorm:"-" json:"program_ids"`
	CoachIDs     []uint            `gorm:"-" json:"coach_ids"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

type BlockBranch struct {
	ID       uint           `gorm:"primaryKey;autoIncrement"`
	BlockID  uint           `gorm:"not null;uniqueIndex:idx_block_branches_pair"`
	Block    *Block         `gorm:"constraint:OnDelete:CASCADE"`
	BranchID uint           `gorm:"not null;uniqueIndex:idx_block_branches_pair"`
	Branch   *branch.Branch `gorm:"constraint:OnDelete:CASCADE"`
}

type BlockSport struct {
	ID      uint           `gorm:"primaryKey;autoIncrement"`
	BlockID uint           `gorm:"not null;uniqueIndex:idx_block_sports_pair"`
	Block   *Block         `gorm:"constraint:OnDelete:CASCADE"`
	SportID uint           `gorm:"not null;uniqueIndex:idx_block_sports_pair"`
	Sport   *catalog.Sport `gorm:"constraint:OnDelete:CASCADE"`
}

type BlockPackage struct {
	ID        uint             `gorm:"primaryKey;autoIncrement"`
	BlockID   uint             `gorm:"not null;uniqueIndex:idx_block_packages_pair"`
	Block     *Block           `gorm:"constraint:OnDelete:CASCADE"`
	PackageID uint             `gorm:"not null;uniqueIndex:idx_block_packages_pair"`
	Package   *program.Package `gorm:"constraint:OnDelete:CASCADE"`
}

type BlockProgram struct {
	ID        uint             `gorm:"primaryKey;autoIncrement"`
	BlockID   uint             `gorm:"not null;uniqueIndex:idx_block_programs_pair"`
	Block     *Block           `gorm:"constraint:OnDelete:CASCADE"`
	ProgramID uint             `gorm:"not null;uniqueIndex:idx_block_programs_pair"`
	Program   *program.Program `gorm:"constraint:OnDelete:CASCADE"`
}

type BlockCoach struct {
	ID      uint         `gorm:"primaryKey;autoIncrement"`
	BlockID uint         `gorm:"not null;uniqueIndex:idx_block_coaches_pair"`
	Block   *Block       `gorm:"constraint:OnDelete:CASCADE"`
	CoachID uint         `gorm:"not null;uniqueIndex:idx_block_coaches_pair"`
	Coach   *coach.Coach `gorm:"constraint:OnDelete:CASCADE"`
}

func (Block) TableName() string        { return "blocks" }
func (BlockBranch) TableName() string  { return "block_branches" }
func (BlockSport) TableName() string   { return "block_sports" }
func (BlockPackage) TableName() string { return "block_packages" }
func (BlockProgram) TableName() string { return "block_programs" }
func (BlockCoach) TableName() string   { return "block_coaches" }

func Models() []any {
	return []any{&Block{}, &BlockBranch{}, &BlockSport{}, &BlockPackage{}, &BlockProgram{}, &BlockCoach{}}
}

type ListFilter struct {
	From     string `form:"from"`
	To       string `form:"to"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type BlockInput struct {
	Date         string `json:"date" binding:"required"`
	StartTime    string `json:"start_time" binding:"required"`
	EndTime      string `json:"end_time" binding:"required"`
	Note         string `json:"note"`
	BranchScope  string `json:"branch_scope"`
	SportScope   string `json:"sport_scope"`
	PackageScope string `json:"package_scope"`
	ProgramScope string `json:"program_scope"`
	CoachScope   string `json:"coach_scope"`
	BranchIDs    []uint `json:"branch_ids"`
	SportIDs     []uint `json:"sport_ids"`
	PackageIDs   []uint `json:"package_ids"`
	ProgramIDs   []uint `json:"program_ids"`
	CoachIDs     []uint `json:"coach_ids"`
}

// CheckInput is a candidate session. Dimensions left nil are unknown and only
// match blocks scoped to all.
type CheckInput struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	BranchID  *uint  `json:"branch_id"`
	SportID   *uint  `json:"sport_id"`
	PackageID *uint  `json:"package_id"`
	ProgramID *uint  `json:"program_id"`
	CoachID   *uint  `json:"coach_id"`
}

type CheckResult struct {
	Blocked   bool   `json:"blocked"`
	BlockedBy []uint `json:"blocked_by"`
}
