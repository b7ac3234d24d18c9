package report

import "time"

type Operation string

const (
	OpEQ        Operation = "EQ"
	OpNEQ       Operation = "NEQ"
	OpCONTAINS  Operation = "CONTAINS"
	OpIN        Operation = "IN"
	OpBETWEEN   Operation = "BETWEEN"
	OpLAST7     Operation = "LAST_7"
	OpLAST30    Operation = "LAST_30"
	OpTHISMONTH Operation = "THIS_MONTH"
	OpLASTMONTH Operation = "LAST_MONTH"
	OpALLTIME   Operation = "ALL_TIME"
)

const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Clause is one filter of an export. All clauses are AND'ed.
type Clause struct {
	Field  string    `json:"field"`
	Op     Operation `json:"op"`
	Value  *string   `json:"value"`
	Values []string  `json:"values"`
	Start  *string   `json:"start"` // YYYY-MM-DD
	End    *string   `json:"end"`   // YYYY-MM-DD
}

type BookingExportRequest struct {
	Format  string   `json:"format"`
	Clauses []Clause `json:"clauses"`
}

type BlockExportRequest struct {
	Format string `form:"format"`
	From   string `form:"from" binding:"required"`
	To     string `form:"to" binding:"required"`
}

// File is a rendered export.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type bookingRow struct {
	ID            uint      `gorm:"column:id"`
	Academy       string    `gorm:"column:academy"`
	Profile       string    `gorm:"column:profile"`
	Program       string    `gorm:"column:program"`
	Package       string    `gorm:"column:package"`
	Coach         string    `gorm:"column:coach"`
	Status        string    `gorm:"column:status"`
	FirstSession  string    `gorm:"column:first_session"`
	Sessions      int64     `gorm:"column:sessions"`
	PackagePrice  float64   `gorm:"column:package_price"`
	Discount      float64   `gorm:"column:discount"`
	Price         float64   `gorm:"column:price"`
	EntryFees     float64   `gorm:"column:entry_fees"`
	EntryFeesPaid bool      `gorm:"column:entry_fees_paid"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

// table is the format independent shape every export renders from.
type table struct {
	sheet   string
	headers []string
	rows    [][]any
}
