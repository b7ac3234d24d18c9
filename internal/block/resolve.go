package block

import (
	"academy-api/internal/util"
)

// Dimension is one scoped axis of a block.
type Dimension int

const (
	DimBranch Dimension = iota
	DimSport
	DimPackage
	DimProgram
	DimCoach
	numDimensions
)

type dimension struct {
	name      string
	scopeCol  string
	junction  string
	otherCol  string
	field     string
	refTable  string
	blockIDs  func(b *Block) *[]uint
	scope     func(b *Block) *string
	inputIDs  func(in BlockInput) []uint
	inputMode func(in BlockInput) string
	candidate func(in CheckInput) *uint
}

var dimensions = [numDimensions]dimension{
	DimBranch: {
		name: "branch", scopeCol: "branch_scope", junction: "block_branches", otherCol: "branch_id",
		field: "branch_ids", refTable: "branches",
		blockIDs:  func(b *Block) *[]uint { return &b.BranchIDs },
		scope:     func(b *Block) *string { return &b.BranchScope },
		inputIDs:  func(in BlockInput) []uint { return in.BranchIDs },
		inputMode: func(in BlockInput) string { return in.BranchScope },
		candidate: func(in CheckInput) *uint { return in.BranchID },
	},
	DimSport: {
		name: "sport", scopeCol: "sport_scope", junction: "block_sports", otherCol: "sport_id",
		field: "sport_ids", refTable: "sports",
		blockIDs:  func(b *Block) *[]uint { return &b.SportIDs },
		scope:     func(b *Block) *string { return &b.SportScope },
		inputIDs:  func(in BlockInput) []uint { return in.SportIDs },
		inputMode: func(in BlockInput) string { return in.SportScope },
		candidate: func(in CheckInput) *uint { return in.SportID },
	},
	DimPackage: {
		name: "package", scopeCol: "package_scope", junction: "block_packages", otherCol: "package_id",
		field: "package_ids", refTable: "packages",
		blockIDs:  func(b *Block) *[]uint { return &b.PackageIDs },
		scope:     func(b *Block) *string { return &b.PackageScope },
		inputIDs:  func(in BlockInput) []uint { return in.PackageIDs },
		inputMode: func(in BlockInput) string { return in.PackageScope },
		candidate: func(in CheckInput) *uint { return in.PackageID },
	},
	DimProgram: {
		name: "program", scopeCol: "program_scope", junction: "block_programs", otherCol: "program_id",
		field: "program_ids", refTable: "programs",
		blockIDs:  func(b *Block) *[]uint { return &b.ProgramIDs },
		scope:     func(b *Block) *string { return &b.ProgramScope },
		inputIDs:  func(in BlockInput) []uint { return in.ProgramIDs },
		inputMode: func(in BlockInput) string { return in.ProgramScope },
		candidate: func(in CheckInput) *uint { return in.ProgramID },
	},
	DimCoach: {
		name: "coach", scopeCol: "coach_scope", junction: "block_coaches", otherCol: "coach_id",
		field: "coach_ids", refTable: "coaches",
		blockIDs:  func(b *Block) *[]uint { return &b.CoachIDs },
		scope:     func(b *Block) *string { return &b.CoachScope },
		inputIDs:  func(in BlockInput) []uint { return in.CoachIDs },
		inputMode: func(in BlockInput) string { return in.CoachScope },
		candidate: func(in CheckInput) *uint { return in.CoachID },
	},
}

// Scope is the restriction of one dimension. A specific scope with no IDs
// matches nothing.
type Scope struct {
	Specific bool
	IDs      map[uint]struct{}
}

func (s Scope) matches(id *uint) bool {
	if !s.Specific {
		return true
	}
	if id == nil {
		return false
	}
	_, ok := s.IDs[*id]
	return ok
}

// Rule is a block reduced to what resolution needs. From and To are minutes
// since midnight.
type Rule struct {
	BlockID uint
	Date    string
	From    int
	To      int
	Scopes  [numDimensions]Scope
}

// Candidate is a session to test against rules. A nil id means the dimension
// is not known for the session.
type Candidate struct {
	Date string
	From int
	To   int
	IDs  [numDimensions]*uint
}

// RuleOf converts a block with loaded id sets into a Rule.
func RuleOf(b Block) (Rule, error) {
	from, err := util.ParseClock("start_time", b.StartTime)
	if err != nil {
		return Rule{}, err
	}
	to, err := util.ParseClock("end_time", b.EndTime)
	if err != nil {
		return Rule{}, err
	}
	r := Rule{BlockID: b.ID, Date: util.DayString(b.Date), From: from, To: to}
	for d := range dimensions {
		dim := dimensions[d]
		if *dim.scope(&b) != ScopeSpecific {
			continue
		}
		set := map[uint]struct{}{}
		for _, id := range *dim.blockIDs(&b) {
			set[id] = struct{}{}
		}
		r.Scopes[d] = Scope{Specific: true, IDs: set}
	}
	return r, nil
}

// CandidateOf parses a check request.
func CandidateOf(in CheckInput) (Candidate, error) {
	day, err := util.ParseDate("date", in.Date)
	if err != nil {
		return Candidate{}, err
	}
	if err := util.ValidateTimeRange("start_time", in.StartTime, "end_time", in.EndTime); err != nil {
		return Candidate{}, err
	}
	from, _ := util.ParseClock("start_time", in.StartTime)
	to, _ := util.ParseClock("end_time", in.EndTime)
	c := Candidate{Date: day.Format(util.DateLayout), From: from, To: to}
	for d := range dimensions {
		c.IDs[d] = dimensions[d].candidate(in)
	}
	return c, nil
}

// Overlaps reports whether the rule and the candidate share any minute on
// the same date. Touching ranges (10:00-11:00 and 11:00-12:00) do not overlap.
func (r Rule) Overlaps(c Candidate) bool {
	return r.Date == c.Date && r.From < c.To && c.From < r.To
}

// Applies reports whether every dimension of the rule matches the candidate.
func (r Rule) Applies(c Candidate) bool {
	for d := range r.Scopes {
		if !r.Scopes[d].matches(c.IDs[d]) {
			return false
		}
	}
	return true
}

// Resolve returns whether any rule blocks the candidate and the ids of the
// blocks that do, in rule order.
func Resolve(rules []Rule, c Candidate) (bool, []uint) {
	by := []uint{}
	for _, r := range rules {
		if r.Overlaps(c) && r.Applies(c) {
			by = append(by, r.BlockID)
		}
	}
	return len(by) > 0, by
}
