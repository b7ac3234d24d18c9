package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"academy-api/internal/academy"
	"academy-api/internal/block"
	"academy-api/internal/events"
	"academy-api/internal/program"
	"academy-api/internal/util"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingService struct {
	DB     *gorm.DB
	Blocks *block.BlockService
	Events events.Publisher
}

var sessionStatuses = map[string]bool{
	SessionPending: true, SessionAccepted: true, SessionUpcoming: true, SessionRejected: true, SessionCancelled: true,
}

// sessionNext lists the statuses a session may move to.
var sessionNext = map[string][]string{
	SessionPending:  {SessionAccepted, SessionUpcoming, SessionRejected, SessionCancelled},
	SessionAccepted: {SessionUpcoming, SessionRejected, SessionCancelled},
	SessionUpcoming: {SessionRejected, SessionCancelled},
}

func canMove(from, to string) bool {
	for _, s := range sessionNext[from] {
		if s == to {
			return true
		}
	}
	return false
}

// offering is the package being booked with the program fields the booking
// copies.
type offering struct {
	Package  program.Package
	Program  program.Program
	Academic academy.Academic
}

func loadOffering(tx *gorm.DB, packageID uint) (*offering, error) {
	var o offering
	if err := tx.First(&o.Package, packageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NewFieldError("package_id", "package not found")
		}
		return nil, err
	}
	if err := tx.First(&o.Program, o.Package.ProgramID).Error; err != nil {
		return nil, err
	}
	if err := tx.First(&o.Academic, o.Program.AcademicID).Error; err != nil {
		return nil, err
	}
	if o.Academic.Status != academy.StatusAccepted {
		return nil, util.NewFieldError("package_id", "academy is not accepting bookings")
	}
	return &o, nil
}

type parsedSession struct {
	day      time.Time
	from, to string
}

func parseSessions(in []SessionInput) ([]parsedSession, error) {
	if len(in) == 0 {
		return nil, util.NewFieldError("sessions", "at least one session is required")
	}
	out := make([]parsedSession, 0, len(in))
	seen := map[string]bool{}
	for _, s := range in {
		day, err := util.ParseDate("sessions", s.Date)
		if err != nil {
			return nil, err
		}
		if err := util.ValidateTimeRange("sessions", s.From, "sessions", s.To); err != nil {
			return nil, err
		}
		p := parsedSession{day: day, from: strings.TrimSpace(s.From), to: strings.TrimSpace(s.To)}
		key := day.Format(util.DateLayout) + " " + p.from
		if seen[key] {
			return nil, util.NewFieldError("sessions", "duplicate session "+key)
		}
		seen[key] = true
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].day.Equal(out[j].day) {
			return out[i].day.Before(out[j].day)
		}
		return out[i].from < out[j].from
	})
	return out, nil
}

// checkBlocks fails with a field error on the first session a block covers.
func (s *BookingService) checkBlocks(tx *gorm.DB, o *offering, coachID *uint, sessions []parsedSession) error {
	rules := map[string][]block.Rule{}
	for _, ps := range sessions {
		key := ps.day.Format(util.DateLayout)
		rs, ok := rules[key]
		if !ok {
			var err error
			if rs, err = s.Blocks.RulesOn(tx, o.Academic.ID, ps.day); err != nil {
				return err
			}
			rules[key] = rs
		}
		c, err := block.CandidateOf(block.CheckInput{
			Date:      key,
			StartTime: ps.from,
			EndTime:   ps.to,
			BranchID:  o.Program.BranchID,
			SportID:   o.Program.SportID,
			PackageID: &o.Package.ID,
			ProgramID: &o.Program.ID,
			CoachID:   coachID,
		})
		if err != nil {
			return err
		}
		if blocked, by := block.Resolve(rs, c); blocked {
			return util.NewFieldError("sessions", fmt.Sprintf("session on %s %s-%s is blocked (block %d)", key, ps.from, ps.to, by[0]))
		}
	}
	return nil
}

// entryFee returns the fee due for a booking starting on day: the package
// override inside its window, otherwise the academy fee.
func entryFee(o *offering, day time.Time) float64 {
	p := o.Package
	if p.EntryFees != nil {
		inWindow := (p.EntryFeesStartDate == nil || !day.Before(time.Time(*p.EntryFeesStartDate))) &&
			(p.EntryFeesEndDate == nil || !day.After(time.Time(*p.EntryFeesEndDate)))
		if inWindow {
			return *p.EntryFees
		}
	}
	return o.Academic.EntryFees
}

// seasonPayment returns the entry fee history row covering the booking's
// sport and program, or nil when the fee is still unpaid for that season.
func seasonPayment(tx *gorm.DB, b *Booking) (*EntryFeeHistory, error) {
	if b.SportID == nil {
		return nil, nil
	}
	var h EntryFeeHistory
	err := tx.Where("profile_id = ? AND sport_id = ? AND program_id = ?", b.ProfileID, *b.SportID, b.ProgramID).First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// checkDeduction validates that ref may cover the entry fee of b. A stored b
// needs a strictly older ref. The ref must be a confirmed booking of the same
// profile, sport and program whose season fee is recorded as paid.
func checkDeduction(tx *gorm.DB, ref uint, b *Booking) error {
	var prior Booking
	if err := tx.First(&prior, ref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.NewFieldError("assessment_deduction_id", "referenced booking not found")
		}
		return err
	}
	if b.ID != 0 && prior.ID >= b.ID {
		return util.NewFieldError("assessment_deduction_id", "referenced booking must be earlier")
	}
	if prior.ProfileID != b.ProfileID || prior.AcademicID != b.AcademicID {
		return util.NewFieldError("assessment_deduction_id", "referenced booking belongs to another profile or academy")
	}
	if b.SportID == nil || prior.SportID == nil || *prior.SportID != *b.SportID || prior.ProgramID != b.ProgramID {
		return util.NewFieldError("assessment_deduction_id", "referenced booking is for another sport or program")
	}
	if prior.Status != StatusSuccess || !prior.EntryFeesPaid {
		return util.NewFieldError("assessment_deduction_id", "referenced booking has no paid entry fee")
	}
	h, err := seasonPayment(tx, b)
	if err != nil {
		return err
	}
	if h == nil {
		return util.NewFieldError("assessment_deduction_id", "referenced booking has no paid entry fee")
	}
	if b.ID != 0 && h.BookingID != nil && *h.BookingID == b.ID {
		return util.NewFieldError("assessment_deduction_id", "booking already paid its entry fee")
	}
	return nil
}

// Create books a package for one of the user's profiles. Sessions covered by
// a block, a full package or an unknown coach fail with a field error.
func (s *BookingService) Create(ctx context.Context, userID uint, in CreateInput) (*Booking, error) {
	sessions, err := parseSessions(in.Sessions)
	if err != nil {
		return nil, err
	}

	var b Booking
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Table("profiles").Where("id = ? AND user_id = ?", in.ProfileID, userID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return util.NewFieldError("profile_id", "profile not found")
		}

		o, err := loadOffering(tx, in.PackageID)
		if err != nil {
			return err
		}
		if in.CoachID != nil {
			if err := util.CheckIDs(tx, "coaches", "coach_id", []uint{*in.CoachID}, "academic_id = ?", o.Academic.ID); err != nil {
				return err
			}
		}
		if err := s.checkBlocks(tx, o, in.CoachID, sessions); err != nil {
			return err
		}

		if o.Package.Capacity > 0 {
			var taken int64
			err := tx.Model(&Booking{}).
				Where("package_id = ? AND status IN ?", o.Package.ID, []string{StatusPending, StatusSuccess}).
				Count(&taken).Error
			if err != nil {
				return err
			}
			if taken >= int64(o.Package.Capacity) {
				return util.NewFieldError("package_id", "package is full")
			}
		}

		first := sessions[0].day
		_, off, err := program.ActiveDiscount(tx, o.Package, o.Package.Price, util.DayOf(first))
		if err != nil {
			return err
		}

		b = Booking{
			AcademicID:   o.Academic.ID,
			ProfileID:    in.ProfileID,
			PackageID:    o.Package.ID,
			ProgramID:    o.Program.ID,
			SportID:      o.Program.SportID,
			CoachID:      in.CoachID,
			Status:       StatusPending,
			PackagePrice: o.Package.Price,
			Discount:     off,
			Price:        o.Package.Price - off,
			EntryFees:    entryFee(o, first),
		}

		switch {
		case in.AssessmentDeductionID != nil:
			if err := checkDeduction(tx, *in.AssessmentDeductionID, &b); err != nil {
				return err
			}
			b.AssessmentDeductionID = in.AssessmentDeductionID
			b.EntryFees, b.EntryFeesPaid = 0, true
		case b.EntryFees == 0:
			b.EntryFeesPaid = true
		default:
			// programs without a sport have no season key and always charge
			h, err := seasonPayment(tx, &b)
			if err != nil {
				return err
			}
			if h != nil {
				b.AssessmentDeductionID = h.BookingID
				b.EntryFees, b.EntryFeesPaid = 0, true
			}
		}

		if err := tx.Omit("Sessions").Create(&b).Error; err != nil {
			return err
		}
		rows := make([]BookingSession, 0, len(sessions))
		for _, ps := range sessions {
			rows = append(rows, BookingSession{BookingID: b.ID, Date: util.DayOf(ps.day), From: ps.from, To: ps.to, Status: SessionPending})
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	out, err := s.get(s.DB.Where("id = ?", b.ID))
	if err != nil {
		return nil, err
	}
	events.Emit(ctx, s.Events, events.BookingCreated, out)
	return out, nil
}

func (s *BookingService) get(q *gorm.DB) (*Booking, error) {
	var b Booking
	err := q.Preload("Sessions", func(db *gorm.DB) *gorm.DB { return db.Order("date ASC, from_time ASC") }).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *BookingService) Get(academicID, id uint) (*Booking, error) {
	return s.get(s.DB.Where("id = ? AND academic_id = ?", id, academicID))
}

func (s *BookingService) filtered(q *gorm.DB, f ListFilter) (*gorm.DB, error) {
	if st := strings.ToLower(strings.TrimSpace(f.Status)); st != "" {
		q = q.Where("bookings.status = ?", st)
	}
	if f.PackageID != 0 {
		q = q.Where("bookings.package_id = ?", f.PackageID)
	}
	if f.CoachID != 0 {
		q = q.Where("bookings.coach_id = ?", f.CoachID)
	}
	if f.ProfileID != 0 {
		q = q.Where("bookings.profile_id = ?", f.ProfileID)
	}
	if strings.TrimSpace(f.From) != "" || strings.TrimSpace(f.To) != "" {
		sub := s.DB.Table("booking_sessions bs").Select("1").Where("bs.booking_id = bookings.id")
		if strings.TrimSpace(f.From) != "" {
			from, err := util.ParseDay("from", f.From)
			if err != nil {
				return nil, err
			}
			sub = sub.Where("bs.date >= ?", from)
		}
		if strings.TrimSpace(f.To) != "" {
			to, err := util.ParseDay("to", f.To)
			if err != nil {
				return nil, err
			}
			sub = sub.Where("bs.date <= ?", to)
		}
		q = q.Where("EXISTS (?)", sub)
	}
	return q, nil
}

func (s *BookingService) page(q *gorm.DB, f ListFilter) ([]Booking, int64, error) {
	page, size := util.NormalizePage(f.Page, f.PageSize)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []Booking
	err := q.Order("bookings.id DESC").Offset((page - 1) * size).Limit(size).Find(&out).Error
	return out, total, err
}

// List returns the academy's bookings. From and To filter on session dates.
func (s *BookingService) List(academicID uint, f ListFilter) ([]Booking, int64, error) {
	q, err := s.filtered(s.DB.Model(&Booking{}).Where("bookings.academic_id = ?", academicID), f)
	if err != nil {
		return nil, 0, err
	}
	return s.page(q, f)
}

// ListMine returns bookings of the user's profiles across academies.
func (s *BookingService) ListMine(userID uint, f ListFilter) ([]Booking, int64, error) {
	q := s.DB.Model(&Booking{}).
		Where("bookings.profile_id IN (?)", s.DB.Table("profiles").Select("id").Where("user_id = ?", userID))
	q, err := s.filtered(q, f)
	if err != nil {
		return nil, 0, err
	}
	return s.page(q, f)
}

// UpdateStatus moves a pending booking to success or rejected. Success
// records the entry fee payment; rejection rejects the open sessions.
func (s *BookingService) UpdateStatus(ctx context.Context, academicID, id uint, status string) (*Booking, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != StatusSuccess && status != StatusRejected {
		return nil, util.NewFieldError("status", "status must be success or rejected")
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var b Booking
		if err := tx.Where("academic_id = ?", academicID).First(&b, id).Error; err != nil {
			return err
		}
		if b.Status != StatusPending {
			return fmt.Errorf("%w: booking is already %s", util.ErrConflict, b.Status)
		}
		if err := tx.Model(&b).Update("status", status).Error; err != nil {
			return err
		}

		if status == StatusRejected {
			return tx.Model(&BookingSession{}).
				Where("booking_id = ? AND status IN ?", b.ID, []string{SessionPending, SessionAccepted, SessionUpcoming}).
				Update("status", SessionRejected).Error
		}
		if b.EntryFeesPaid {
			return nil
		}
		if b.SportID == nil {
			return tx.Model(&b).Update("entry_fees_paid", true).Error
		}
		h := EntryFeeHistory{ProfileID: b.ProfileID, SportID: *b.SportID, ProgramID: b.ProgramID, BookingID: &b.ID, Amount: b.EntryFees}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&h)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			return tx.Model(&b).Update("entry_fees_paid", true).Error
		}
		// another booking already paid this season
		paid, err := seasonPayment(tx, &b)
		if err != nil {
			return err
		}
		if paid == nil {
			return fmt.Errorf("entry fee history for booking %d vanished", b.ID)
		}
		updates := map[string]any{"entry_fees": 0, "entry_fees_paid": true}
		if paid.BookingID != nil && *paid.BookingID < b.ID {
			updates["assessment_deduction_id"] = *paid.BookingID
		}
		return tx.Model(&b).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	out, err := s.Get(academicID, id)
	if err != nil {
		return nil, err
	}
	key := events.BookingConfirmed
	if status == StatusRejected {
		key = events.BookingRejected
	}
	events.Emit(ctx, s.Events, key, out)
	return out, nil
}

// SetDeduction links a booking to an earlier booking whose entry fee covers
// it, or clears the link when ref is nil.
func (s *BookingService) SetDeduction(academicID, id uint, ref *uint) (*Booking, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var b Booking
		if err := tx.Where("academic_id = ?", academicID).First(&b, id).Error; err != nil {
			return err
		}
		if ref == nil {
			return clearDeduction(tx, &b)
		}
		if err := checkDeduction(tx, *ref, &b); err != nil {
			return err
		}
		return tx.Model(&b).Updates(map[string]any{
			"assessment_deduction_id": *ref,
			"entry_fees":              0,
			"entry_fees_paid":         true,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(academicID, id)
}

// clearDeduction drops the link and charges the entry fee again. It refuses
// while the season's recorded payment belongs to another booking.
func clearDeduction(tx *gorm.DB, b *Booking) error {
	if b.AssessmentDeductionID == nil {
		return nil
	}
	h, err := seasonPayment(tx, b)
	if err != nil {
		return err
	}
	if h != nil && (h.BookingID == nil || *h.BookingID != b.ID) {
		return util.NewFieldError("assessment_deduction_id", "entry fee of this season is already paid")
	}

	o, err := loadOffering(tx, b.PackageID)
	if err != nil {
		return err
	}
	var first BookingSession
	if err := tx.Where("booking_id = ?", b.ID).Order("date ASC").First(&first).Error; err != nil {
		return err
	}
	fee := entryFee(o, time.Time(first.Date))
	return tx.Model(b).Updates(map[string]any{
		"assessment_deduction_id": nil,
		"entry_fees":              fee,
		"entry_fees_paid":         fee == 0,
	}).Error
}

// UpdateSessionStatus applies one step of the session lifecycle.
func (s *BookingService) UpdateSessionStatus(ctx context.Context, academicID, sessionID uint, status string) (*BookingSession, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	var out BookingSession
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Joins("JOIN bookings ON bookings.id = booking_sessions.booking_id").
			Where("bookings.academic_id = ?", academicID).
			First(&out, "booking_sessions.id = ?", sessionID).Error
		if err != nil {
			return err
		}
		if !sessionStatuses[status] {
			return util.NewFieldError("status", "unknown session status")
		}
		if !canMove(out.Status, status) {
			return fmt.Errorf("%w: session cannot move from %s to %s", util.ErrConflict, out.Status, status)
		}
		out.Status = status
		return tx.Model(&BookingSession{}).Where("id = ?", out.ID).Update("status", status).Error
	})
	if err != nil {
		return nil, err
	}
	events.Emit(ctx, s.Events, events.SessionUpdated, out)
	return &out, nil
}

// SessionsBetween lists the academy's sessions in an inclusive date range,
// used by reports and calendars.
func (s *BookingService) SessionsBetween(academicID uint, from, to datatypes.Date) ([]BookingSession, error) {
	var out []BookingSession
	err := s.DB.
		Joins("JOIN bookings ON bookings.id = booking_sessions.booking_id").
		Where("bookings.academic_id = ? AND booking_sessions.date >= ? AND booking_sessions.date <= ?", academicID, from, to).
		Order("booking_sessions.date ASC, booking_sessions.from_time ASC").
		Find(&out).Error
	return out, err
}
