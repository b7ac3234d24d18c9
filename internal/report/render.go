package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"academy-api/internal/util"

	"github.com/iancoleman/orderedmap"
	"github.com/xuri/excelize/v2"
)

func normalizeFormat(f string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(f)) {
	case "", "excel", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", util.NewFieldError("format", "format must be xlsx, csv or json")
}

func render(t table, format, baseName string) (*File, error) {
	var (
		data []byte
		err  error
		ct   string
	)
	switch format {
	case FormatCSV:
		data, err = buildCSV(t)
		ct = "text/csv"
	case FormatJSON:
		data, err = buildJSON(t)
		ct = "application/json"
	default:
		data, err = buildXLSX(t)
		ct = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if err != nil {
		return nil, err
	}
	return &File{Name: baseName + "." + format, ContentType: ct, Data: data}, nil
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case float64:
		return fmt.Sprintf("%.2f", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func buildCSV(t table) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(t.headers); err != nil {
		return nil, err
	}
	for _, r := range t.rows {
		rec := make([]string, len(r))
		for i, v := range r {
			rec[i] = cellString(v)
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// buildJSON renders one object per row with keys in column order.
func buildJSON(t table) ([]byte, error) {
	out := make([]*orderedmap.OrderedMap, 0, len(t.rows))
	for _, r := range t.rows {
		o := orderedmap.New()
		for i, h := range t.headers {
			v := r[i]
			if tm, ok := v.(time.Time); ok {
				v = tm.UTC().Format(time.RFC3339)
			}
			o.Set(h, v)
		}
		out = append(out, o)
	}
	return json.Marshal(out)
}

func buildXLSX(t table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E2E8F0"}},
	})
	if err != nil {
		return nil, err
	}

	sheet := safeSheetName(t.sheet)
	if sheet == "" {
		sheet = "Report"
	}
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return nil, err
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return nil, err
	}
	header := make([]any, 0, len(t.headers))
	for _, h := range t.headers {
		header = append(header, excelize.Cell{Value: h, StyleID: headerStyle})
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, err
	}
	for i, r := range t.rows {
		values := make([]any, len(r))
		for j, v := range r {
			if tm, ok := v.(time.Time); ok {
				v = tm.UTC().Format(time.RFC3339)
			}
			values[j] = v
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, values); err != nil {
			return nil, err
		}
	}
	if err := sw.Flush(); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func safeSheetName(name string) string {
	n := strings.TrimSpace(name)
	n = strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_").Replace(n)
	if len(n) > 31 {
		n = n[:31]
	}
	return n
}
