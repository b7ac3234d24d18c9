package report

import (
	"fmt"
	"strings"
	"time"

	"academy-api/internal/util"

	"gorm.io/gorm"
)

func clauseError(c Clause, msg string) error {
	return util.NewFieldError("clauses", c.Field+": "+msg)
}

// applyBookingFilters narrows q (bookings aliased as b) by the clauses.
// Unknown fields are rejected so a typo never exports everything.
func applyBookingFilters(q *gorm.DB, clauses []Clause) (*gorm.DB, error) {
	var err error
	for _, c := range clauses {
		c.Op = Operation(strings.ToUpper(strings.TrimSpace(string(c.Op))))
		switch c.Field {
		case "status":
			q, err = applyStringOp(q, "b.status", c)
		case "academy":
			q, err = applyStringOp(q, "COALESCE(atr.name, a.slug)", c)
		case "profile":
			q, err = applyStringOp(q, "p.name", c)
		case "academic_id":
			q, err = applyIntOp(q, "b.academic_id", c)
		case "package_id":
			q, err = applyIntOp(q, "b.package_id", c)
		case "program_id":
			q, err = applyIntOp(q, "b.program_id", c)
		case "coach_id":
			q, err = applyIntOp(q, "b.coach_id", c)
		case "entry_fees_paid":
			q, err = applyBoolOp(q, "b.entry_fees_paid", c)
		case "created_at":
			q, err = applyDateOp(q, "b.created_at", c)
		case "session_date":
			sub := q.Session(&gorm.Session{NewDB: true}).Table("booking_sessions bs").Select("1").Where("bs.booking_id = b.id")
			if sub, err = applyDateOp(sub, "bs.date", c); err == nil {
				q = q.Where("EXISTS (?)", sub)
			}
		default:
			return nil, clauseError(c, "unknown field")
		}
		if err != nil {
			return nil, err
		}
	}
	return q, nil
}

func applyStringOp(q *gorm.DB, col string, c Clause) (*gorm.DB, error) {
	switch c.Op {
	case OpEQ:
		if c.Value != nil {
			return q.Where(col+" = ?", *c.Value), nil
		}
	case OpNEQ:
		if c.Value != nil {
			return q.Where(col+" <> ?", *c.Value), nil
		}
	case OpCONTAINS:
		if c.Value != nil {
			return q.Where("LOWER("+col+") LIKE ?", "%"+strings.ToLower(*c.Value)+"%"), nil
		}
	case OpIN:
		if len(c.Values) > 0 {
			return q.Where(col+" IN ?", c.Values), nil
		}
	default:
		return nil, clauseError(c, "unsupported operation "+string(c.Op))
	}
	return nil, clauseError(c, "value is required")
}

func applyIntOp(q *gorm.DB, col string, c Clause) (*gorm.DB, error) {
	switch c.Op {
	case OpEQ:
		if c.Value != nil {
			ids, err := util.ParseIDList([]string{*c.Value})
			if err != nil || len(ids) != 1 {
				return nil, clauseError(c, "invalid id")
			}
			return q.Where(col+" = ?", ids[0]), nil
		}
	case OpIN:
		if len(c.Values) > 0 {
			ids, err := util.ParseIDList([]string{strings.Join(c.Values, ",")})
			if err != nil {
				return nil, clauseError(c, "invalid id")
			}
			return q.Where(col+" IN ?", ids), nil
		}
	default:
		return nil, clauseError(c, "unsupported operation "+string(c.Op))
	}
	return nil, clauseError(c, "value is required")
}

func applyBoolOp(q *gorm.DB, col string, c Clause) (*gorm.DB, error) {
	if c.Value == nil {
		return nil, clauseError(c, "value is required")
	}
	switch strings.ToLower(strings.TrimSpace(*c.Value)) {
	case "true":
		return q.Where(col+" = ?", true), nil
	case "false":
		return q.Where(col+" = ?", false), nil
	}
	return nil, clauseError(c, "value must be true or false")
}

// applyDateOp works in UTC: stored days are UTC midnights.
func applyDateOp(q *gorm.DB, col string, c Clause) (*gorm.DB, error) {
	return applyDateOpAt(q, col, c, time.Now().UTC())
}

func applyDateOpAt(q *gorm.DB, col string, c Clause, now time.Time) (*gorm.DB, error) {
	startOfDay := func(t time.Time) time.Time {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	switch c.Op {
	case OpALLTIME:
		return q, nil
	case OpLAST7:
		return q.Where(col+" >= ?", startOfDay(now.AddDate(0, 0, -7))), nil
	case OpLAST30:
		return q.Where(col+" >= ?", startOfDay(now.AddDate(0, 0, -30))), nil
	case OpTHISMONTH:
		y, m, _ := now.Date()
		return q.Where(col+" >= ?", time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)), nil
	case OpLASTMONTH:
		y, m, _ := now.Date()
		firstThis := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
		firstLast := firstThis.AddDate(0, -1, 0)
		return q.Where(col+" >= ? AND "+col+" < ?", firstLast, firstThis), nil
	case OpBETWEEN:
		if c.Start == nil || c.End == nil {
			return nil, clauseError(c, "BETWEEN requires start and end")
		}
		s, err := time.Parse(util.DateLayout, strings.TrimSpace(*c.Start))
		if err != nil {
			return nil, clauseError(c, "invalid start date")
		}
		e, err := time.Parse(util.DateLayout, strings.TrimSpace(*c.End))
		if err != nil {
			return nil, clauseError(c, "invalid end date")
		}
		if e.Before(s) {
			return nil, clauseError(c, "end is before start")
		}
		return q.Where(col+" >= ? AND "+col+" < ?", s, e.AddDate(0, 0, 1)), nil
	}
	return nil, clauseError(c, fmt.Sprintf("unsupported operation %q", c.Op))
}
