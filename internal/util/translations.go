package util

import (
	"strings"
)

// MainLocale is the translation every entity must carry.
const MainLocale = "en"

type TranslationInput struct {
	Locale      string `json:"locale"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Address     string `json:"address,omitempty"`
}

// NormalizeTranslations trims every row, lowercases locales and rejects empty
// names or a locale given twice. With requireMain the "en" row must be present.
func NormalizeTranslations(in []TranslationInput, requireMain bool) ([]TranslationInput, error) {
	out := make([]TranslationInput, 0, len(in))
	seen := map[string]bool{}
	for _, t := range in {
		t.Locale = strings.ToLower(strings.TrimSpace(t.Locale))
		t.Name = strings.TrimSpace(t.Name)
		t.Description = strings.TrimSpace(t.Description)
		t.Address = strings.TrimSpace(t.Address)
		if t.Locale == "" || len(t.Locale) > 10 {
			return nil, NewFieldError("translations", "invalid locale")
		}
		if t.Name == "" {
			return nil, NewFieldError("translations", "name is required for locale "+t.Locale)
		}
		if seen[t.Locale] {
			return nil, NewFieldError("translations", "duplicate locale "+t.Locale)
		}
		seen[t.Locale] = true
		out = append(out, t)
	}
	if requireMain && !seen[MainLocale] {
		return nil, NewFieldError("translations", "an English (en) translation is required")
	}
	return out, nil
}

// NormalizeLocale returns the requested locale or MainLocale when blank.
func NormalizeLocale(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return MainLocale
	}
	return s
}
