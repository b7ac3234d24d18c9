package util

import (
	"path"
	"regexp"
	"strings"
)

// ClampText trims s and cuts it to at most n runes.
func ClampText(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}

func ExtFromFilenameOrMime(filename, mime string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext != "" {
		return ext
	}
	switch strings.ToLower(mime) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	case "video/mp4":
		return ".mp4"
	default:
		return ".jpg"
	}
}

var sanitizeRe = regexp.MustCompile(`[^a-z0-9_\-]`)

// SanitizePart makes s safe to use as one segment of an object path.
func SanitizePart(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = sanitizeRe.ReplaceAllString(s, "")
	if s == "" {
		return "unknown"
	}
	return s
}
