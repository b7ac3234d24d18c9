package util

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ParseIDList reads a comma separated id list from the first query value,
// e.g. ?ids=1,2,3. Blank parts are skipped; a non-numeric part is an error.
func ParseIDList(values []string) ([]uint, error) {
	if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
		return nil, nil
	}

	parts := strings.Split(values[0], ",")
	out := make([]uint, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil || n == 0 {
			return nil, &FieldError{Field: "ids", Message: "invalid id: " + p}
		}
		out = append(out, uint(n))
	}
	return out, nil
}

// UniqueIDs drops zero and duplicate ids, keeping first-seen order.
func UniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func NormalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	n := int(math.Ceil(float64(total) / float64(pageSize)))
	if n == 0 {
		return 1
	}
	return n
}

var slugStrip = regexp.MustCompile(`[^a-z0-9\-]+`)
var slugDashes = regexp.MustCompile(`-{2,}`)

// Slugify lowercases s and keeps [a-z0-9-], collapsing runs of dashes.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "-", "_", "-").Replace(s)
	s = slugStrip.ReplaceAllString(s, "")
	s = slugDashes.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "academy"
	}
	return s
}
