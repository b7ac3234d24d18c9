package report

import (
	"fmt"
	"strings"
	"time"

	"academy-api/internal/block"
	"academy-api/internal/util"

	"gorm.io/gorm"
)

type ReportService struct {
	DB     *gorm.DB
	Blocks *block.BlockService
}

var bookingHeaders = []string{
	"booking_id", "academy", "profile", "program", "package", "coach", "status",
	"first_session", "sessions", "package_price", "discount", "price",
	"entry_fees", "entry_fees_paid", "created_at",
}

func (s *ReportService) bookingRows(clauses []Clause) ([]bookingRow, error) {
	q := s.DB.Table("bookings b").
		Select(`b.id, COALESCE(atr.name, a.slug) AS academy, p.name AS profile, pr.name AS program,
			pk.name AS package, COALESCE(c.name, '') AS coach, b.status,
			(SELECT MIN(bs.date) FROM booking_sessions bs WHERE bs.booking_id = b.id) AS first_session,
			(SELECT COUNT(*) FROM booking_sessions bs WHERE bs.booking_id = b.id) AS sessions,
			b.package_price, b.discount, b.price, b.entry_fees, b.entry_fees_paid, b.created_at`).
		Joins("JOIN academics a ON a.id = b.academic_id").
		Joins("LEFT JOIN academic_translations atr ON atr.academic_id = a.id AND atr.locale = ?", util.MainLocale).
		Joins("JOIN profiles p ON p.id = b.profile_id").
		Joins("JOIN programs pr ON pr.id = b.program_id").
		Joins("JOIN packages pk ON pk.id = b.package_id").
		Joins("LEFT JOIN coaches c ON c.id = b.coach_id")

	q, err := applyBookingFilters(q, clauses)
	if err != nil {
		return nil, err
	}
	var rows []bookingRow
	err = q.Order("b.id ASC").Scan(&rows).Error
	return rows, err
}

// ExportBookings renders every booking matching the clauses.
func (s *ReportService) ExportBookings(req BookingExportRequest) (*File, error) {
	format, err := normalizeFormat(req.Format)
	if err != nil {
		return nil, err
	}
	rows, err := s.bookingRows(req.Clauses)
	if err != nil {
		return nil, err
	}

	t := table{sheet: "Bookings", headers: bookingHeaders}
	for _, r := range rows {
		first := r.FirstSession
		if len(first) > len(util.DateLayout) {
			first = first[:len(util.DateLayout)]
		}
		t.rows = append(t.rows, []any{
			r.ID, r.Academy, r.Profile, r.Program, r.Package, r.Coach, r.Status,
			first, r.Sessions, r.PackagePrice, r.Discount, r.Price,
			r.EntryFees, r.EntryFeesPaid, r.CreatedAt,
		})
	}
	return render(t, format, "bookings-"+time.Now().UTC().Format("20060102-150405"))
}

// ExportAcademyBookings is ExportBookings restricted to one academy.
func (s *ReportService) ExportAcademyBookings(academicID uint, req BookingExportRequest) (*File, error) {
	id := fmt.Sprint(academicID)
	req.Clauses = append([]Clause{{Field: "academic_id", Op: OpEQ, Value: &id}}, req.Clauses...)
	return s.ExportBookings(req)
}

var blockHeaders = []string{
	"block_id", "date", "start_time", "end_time", "note",
	"branches", "sports", "packages", "programs", "coaches",
}

func scopeCell(scope string, ids []uint) string {
	if scope != block.ScopeSpecific {
		return "all"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ",")
}

// ExportBlocks renders the academy's blocks in [From, To]. A dimension scoped
// to all prints "all"; a specific one prints its ids.
func (s *ReportService) ExportBlocks(academicID uint, req BlockExportRequest) (*File, error) {
	format, err := normalizeFormat(req.Format)
	if err != nil {
		return nil, err
	}
	from, err := util.ParseDay("from", req.From)
	if err != nil {
		return nil, err
	}
	to, err := util.ParseDay("to", req.To)
	if err != nil {
		return nil, err
	}
	if time.Time(to).Before(time.Time(from)) {
		return nil, util.NewFieldError("to", "to must not be before from")
	}

	blocks, err := s.Blocks.Between(academicID, from, to)
	if err != nil {
		return nil, err
	}
	t := table{sheet: "Blocks", headers: blockHeaders}
	for _, b := range blocks {
		t.rows = append(t.rows, []any{
			b.ID, util.DayString(b.Date), b.StartTime, b.EndTime, b.Note,
			scopeCell(b.BranchScope, b.BranchIDs),
			scopeCell(b.SportScope, b.SportIDs),
			scopeCell(b.PackageScope, b.PackageIDs),
			scopeCell(b.ProgramScope, b.ProgramIDs),
			scopeCell(b.CoachScope, b.CoachIDs),
		})
	}
	return render(t, format, fmt.Sprintf("blocks-%s-%s", req.From, req.To))
}
