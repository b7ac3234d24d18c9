package block

import (
	"strings"
	"time"

	"academy-api/internal/util"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BlockService struct {
	DB *gorm.DB
}

// tenantScope restricts a dimension's referenced table to one academy.
func tenantScope(d Dimension) string {
	switch d {
	case DimBranch, DimProgram, DimCoach:
		return "academic_id = ?"
	case DimPackage:
		return "program_id IN (SELECT id FROM programs WHERE academic_id = ?)"
	}
	return ""
}

func normalizeScope(field, s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", ScopeAll:
		return ScopeAll, nil
	case ScopeSpecific:
		return ScopeSpecific, nil
	}
	return "", util.NewFieldError(field, "scope must be all or specific")
}

// normalize validates in and returns the block row plus the id set of each
// specific dimension. IDs sent for a dimension scoped to all are dropped.
func normalize(in BlockInput) (Block, [numDimensions][]uint, error) {
	var sets [numDimensions][]uint
	day, err := util.ParseDay("date", in.Date)
	if err != nil {
		return Block{}, sets, err
	}
	if err := util.ValidateTimeRange("start_time", in.StartTime, "end_time", in.EndTime); err != nil {
		return Block{}, sets, err
	}
	b := Block{
		Date:      day,
		StartTime: strings.TrimSpace(in.StartTime),
		EndTime:   strings.TrimSpace(in.EndTime),
		Note:      strings.TrimSpace(in.Note),
	}
	for d := range dimensions {
		dim := dimensions[d]
		mode, err := normalizeScope(dim.scopeCol, dim.inputMode(in))
		if err != nil {
			return Block{}, sets, err
		}
		*dim.scope(&b) = mode
		if mode == ScopeSpecific {
			sets[d] = util.UniqueIDs(dim.inputIDs(in))
		}
	}
	return b, sets, nil
}

func checkSets(tx *gorm.DB, academicID uint, sets [numDimensions][]uint) error {
	for d := range dimensions {
		dim := dimensions[d]
		scope := tenantScope(Dimension(d))
		var err error
		if scope == "" {
			err = util.CheckIDs(tx, dim.refTable, dim.field, sets[d], "")
		} else {
			err = util.CheckIDs(tx, dim.refTable, dim.field, sets[d], scope, academicID)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func saveSets(tx *gorm.DB, blockID uint, sets [numDimensions][]uint) error {
	for d := range dimensions {
		dim := dimensions[d]
		if err := util.ReplaceLinks(tx, dim.junction, "block_id", blockID, dim.otherCol, sets[d]); err != nil {
			return err
		}
	}
	return nil
}

type linkRow struct {
	BlockID uint
	OtherID uint
}

// loadSets fills the id sets of blocks with one query per dimension.
func loadSets(tx *gorm.DB, blocks []Block) error {
	if len(blocks) == 0 {
		return nil
	}
	index := make(map[uint]int, len(blocks))
	ids := make([]uint, 0, len(blocks))
	for i := range blocks {
		index[blocks[i].ID] = i
		ids = append(ids, blocks[i].ID)
		for d := range dimensions {
			*dimensions[d].blockIDs(&blocks[i]) = []uint{}
		}
	}
	for d := range dimensions {
		dim := dimensions[d]
		var rows []linkRow
		err := tx.Table(dim.junction).
			Select("block_id, "+dim.otherCol+" AS other_id").
			Where("block_id IN ?", ids).
			Order(dim.otherCol + " ASC").
			Scan(&rows).Error
		if err != nil {
			return err
		}
		for _, r := range rows {
			b := &blocks[index[r.BlockID]]
			*dim.blockIDs(b) = append(*dim.blockIDs(b), r.OtherID)
		}
	}
	return nil
}

func (s *BlockService) Get(academicID, id uint) (*Block, error) {
	var b Block
	if err := s.DB.Where("academic_id = ?", academicID).First(&b, id).Error; err != nil {
		return nil, err
	}
	blocks := []Block{b}
	if err := loadSets(s.DB, blocks); err != nil {
		return nil, err
	}
	return &blocks[0], nil
}

// List returns the academy's blocks ordered by date and start time. From and
// To are inclusive YYYY-MM-DD bounds.
func (s *BlockService) List(academicID uint, f ListFilter) ([]Block, int64, error) {
	page, size := util.NormalizePage(f.Page, f.PageSize)

	q := s.DB.Model(&Block{}).Where("academic_id = ?", academicID)
	if strings.TrimSpace(f.From) != "" {
		from, err := util.ParseDay("from", f.From)
		if err != nil {
			return nil, 0, err
		}
		q = q.Where("date >= ?", from)
	}
	if strings.TrimSpace(f.To) != "" {
		to, err := util.ParseDay("to", f.To)
		if err != nil {
			return nil, 0, err
		}
		q = q.Where("date <= ?", to)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []Block
	if err := q.Order("date ASC, start_time ASC, id ASC").Offset((page - 1) * size).Limit(size).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	if err := loadSets(s.DB, out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Between returns every block of the academy in the inclusive date range,
// with id sets loaded. Used by exports.
func (s *BlockService) Between(academicID uint, from, to datatypes.Date) ([]Block, error) {
	var out []Block
	err := s.DB.Where("academic_id = ? AND date >= ? AND date <= ?", academicID, from, to).
		Order("date ASC, start_time ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	if err := loadSets(s.DB, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BlockService) Create(academicID uint, in BlockInput) (*Block, error) {
	b, sets, err := normalize(in)
	if err != nil {
		return nil, err
	}
	b.AcademicID = academicID
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := checkSets(tx, academicID, sets); err != nil {
			return err
		}
		if err := tx.Create(&b).Error; err != nil {
			return err
		}
		return saveSets(tx, b.ID, sets)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(academicID, b.ID)
}

// Update rewrites the block and replaces every junction set.
func (s *BlockService) Update(academicID, id uint, in BlockInput) (*Block, error) {
	next, sets, err := normalize(in)
	if err != nil {
		return nil, err
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var cur Block
		if err := tx.Where("academic_id = ?", academicID).First(&cur, id).Error; err != nil {
			return err
		}
		if err := checkSets(tx, academicID, sets); err != nil {
			return err
		}
		next.ID, next.AcademicID = cur.ID, academicID
		if err := tx.Model(&cur).
			Select("date", "start_time", "end_time", "note",
				"branch_scope", "sport_scope", "package_scope", "program_scope", "coach_scope").
			Updates(&next).Error; err != nil {
			return err
		}
		return saveSets(tx, id, sets)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(academicID, id)
}

func (s *BlockService) Delete(academicID, id uint) error {
	res := s.DB.Where("academic_id = ?", academicID).Delete(&Block{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *BlockService) BulkDelete(academicID uint, ids []uint) (int64, error) {
	ids = util.UniqueIDs(ids)
	if len(ids) == 0 {
		return 0, util.NewFieldError("ids", "no ids given")
	}
	res := s.DB.Where("academic_id = ? AND id IN ?", academicID, ids).Delete(&Block{})
	return res.RowsAffected, res.Error
}

// RulesOn loads the academy's blocks for one date as rules.
func (s *BlockService) RulesOn(tx *gorm.DB, academicID uint, day time.Time) ([]Rule, error) {
	var blocks []Block
	err := tx.Where("academic_id = ? AND date = ?", academicID, util.DayOf(day)).
		Order("start_time ASC, id ASC").
		Find(&blocks).Error
	if err != nil {
		return nil, err
	}
	if err := loadSets(tx, blocks); err != nil {
		return nil, err
	}
	rules := make([]Rule, 0, len(blocks))
	for _, b := range blocks {
		r, err := RuleOf(b)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// Check resolves a candidate session against the academy's blocks.
func (s *BlockService) Check(academicID uint, in CheckInput) (*CheckResult, error) {
	c, err := CandidateOf(in)
	if err != nil {
		return nil, err
	}
	day, _ := time.Parse(util.DateLayout, c.Date)
	rules, err := s.RulesOn(s.DB, academicID, day)
	if err != nil {
		return nil, err
	}
	blocked, by := Resolve(rules, c)
	return &CheckResult{Blocked: blocked, BlockedBy: by}, nil
}
