package geo

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"academy-api/internal/util"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// readSheet returns the header row and data rows of the first sheet of an
// .xlsx upload, or of a .csv upload.
func readSheet(filename string, r io.Reader) ([]string, [][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(r); err != nil {
			return nil, nil, fmt.Errorf("failed to read excel file: %w", err)
		}
		f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
		if err != nil {
			return nil, nil, util.NewFieldError("file", "failed to parse excel file")
		}
		defer f.Close()

		rows, err := f.GetRows(f.GetSheetName(0))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read rows: %w", err)
		}
		if len(rows) < 1 {
			return nil, nil, util.NewFieldError("file", "excel file is empty")
		}
		return rows[0], rows[1:], nil

	case ".csv":
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		all, err := reader.ReadAll()
		if err != nil {
			return nil, nil, util.NewFieldError("file", "failed to read csv file")
		}
		if len(all) < 1 {
			return nil, nil, util.NewFieldError("file", "csv file is empty")
		}
		return all[0], all[1:], nil
	}
	return nil, nil, util.NewFieldError("file", "only .xlsx and .csv files are supported")
}

type importRow struct {
	line     int
	parentID uint
	names    map[string]string
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func cellRef(col, row int) string {
	ref, _ := excelize.CoordinatesToCellName(col+1, row)
	return ref
}

// Import bulk-creates states or cities from a sheet whose header carries
// parent_id, name_en and optional name_<locale> columns. Nothing is written
// unless every row is valid.
func (s *GeoService) Import(l Level, filename string, r io.Reader) (*ImportResult, error) {
	d := levels[l]
	if d.parentCol == "" {
		return nil, util.NewFieldError("level", "only states and cities can be imported")
	}

	headers, rows, err := readSheet(filename, r)
	if err != nil {
		return nil, err
	}

	parentCol, mainCol := -1, -1
	localeCols := map[int]string{}
	for i, h := range headers {
		h = strings.ToLower(strings.TrimSpace(h))
		switch {
		case h == "parent_id" || h == d.parentCol:
			parentCol = i
		case h == "name" || h == "name_"+util.MainLocale:
			mainCol = i
		case strings.HasPrefix(h, "name_"):
			if loc := strings.TrimPrefix(h, "name_"); loc != "" && len(loc) <= 10 {
				localeCols[i] = loc
			}
		}
	}
	if parentCol < 0 || mainCol < 0 {
		return nil, util.NewFieldError("file", "header must contain parent_id and name_en columns")
	}

	res := &ImportResult{}
	parsed := make([]importRow, 0, len(rows))
	parentIDs := []uint{}
	for i, row := range rows {
		line := i + 2
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}

		pid, err := strconv.ParseUint(cell(row, parentCol), 10, 64)
		if err != nil || pid == 0 {
			res.Errors = append(res.Errors, RowError{Row: line, Cell: cellRef(parentCol, line), Error: "invalid parent id"})
			continue
		}
		name := cell(row, mainCol)
		if name == "" {
			res.Errors = append(res.Errors, RowError{Row: line, Cell: cellRef(mainCol, line), Error: "name_en is required"})
			continue
		}

		ir := importRow{line: line, parentID: uint(pid), names: map[string]string{util.MainLocale: name}}
		for col, loc := range localeCols {
			if v := cell(row, col); v != "" {
				ir.names[loc] = v
			}
		}
		parsed = append(parsed, ir)
		parentIDs = append(parentIDs, uint(pid))
	}

	var known []uint
	if len(parentIDs) > 0 {
		if err := s.DB.Model(modelFor(d.parent)).Where("id IN ?", util.UniqueIDs(parentIDs)).Pluck("id", &known).Error; err != nil {
			return nil, err
		}
	}
	knownSet := map[uint]bool{}
	for _, id := range known {
		knownSet[id] = true
	}
	for _, ir := range parsed {
		if !knownSet[ir.parentID] {
			res.Errors = append(res.Errors, RowError{Row: ir.line, Cell: cellRef(parentCol, ir.line), Error: fmt.Sprintf("parent %d does not exist", ir.parentID)})
		}
	}

	if len(res.Errors) > 0 {
		return res, util.NewFieldError("file", fmt.Sprintf("%d invalid rows", len(res.Errors)))
	}
	if len(parsed) == 0 {
		return nil, util.NewFieldError("file", "no rows to import")
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for _, ir := range parsed {
			id, err := createPlace(tx, l, ir.parentID, nil)
			if err != nil {
				return err
			}
			for loc, name := range ir.names {
				if err := upsertTranslation(tx, d, id, loc, name); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Created = len(parsed)
	return res, nil
}
