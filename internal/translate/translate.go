package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"academy-api/internal/util"

	"google.golang.org/genai"
)

const maxTargets = 10

var ErrUnavailable = errors.New("translation suggestions are not configured")

// generateContent is swapped in tests.
var generateContent = func(ctx context.Context, client *genai.Client, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return client.Models.GenerateContent(ctx, model, contents, cfg)
}

type Suggestion struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type SuggestInput struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Source      string   `json:"source"`
	Targets     []string `json:"targets" binding:"required"`
}

// Suggester drafts translations of catalog and academy texts with Gemini.
// Results only pre-fill secondary translation rows; nothing is stored.
type Suggester struct {
	Client *genai.Client
	Model  string
}

func normalizeTargets(source string, targets []string) ([]string, error) {
	out := make([]string, 0, len(targets))
	seen := map[string]bool{source: true}
	for _, t := range targets {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || len(t) > 10 {
			return nil, util.NewFieldError("targets", "invalid locale")
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil, util.NewFieldError("targets", "at least one target locale other than the source is required")
	}
	if len(out) > maxTargets {
		return nil, util.NewFieldError("targets", fmt.Sprintf("at most %d target locales", maxTargets))
	}
	return out, nil
}

func prompt(in SuggestInput, source string, targets []string) string {
	var b strings.Builder
	b.WriteString("Translate the following sports academy text from locale \"" + source + "\" into each of these locales: ")
	b.WriteString(strings.Join(targets, ", "))
	b.WriteString(".\nReturn only a JSON object keyed by locale, each value an object with \"name\" and \"description\".")
	b.WriteString(" Keep proper nouns, keep it short and do not add content.\n\n")
	b.WriteString("name: " + in.Name + "\n")
	if in.Description != "" {
		b.WriteString("description: " + in.Description + "\n")
	}
	return b.String()
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				return part.Text
			}
		}
	}
	return ""
}

// parseSuggestions reads the model's JSON answer, tolerating a fenced code
// block around it, and keeps the requested locales only.
func parseSuggestions(text string, targets []string) (map[string]Suggestion, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var raw map[string]Suggestion
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &raw); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}
	lowered := make(map[string]Suggestion, len(raw))
	for k, v := range raw {
		lowered[strings.ToLower(strings.TrimSpace(k))] = v
	}

	out := make(map[string]Suggestion, len(targets))
	for _, t := range targets {
		s, ok := lowered[t]
		if !ok || strings.TrimSpace(s.Name) == "" {
			return nil, fmt.Errorf("no suggestion for locale %s", t)
		}
		s.Name = strings.TrimSpace(s.Name)
		s.Description = strings.TrimSpace(s.Description)
		out[t] = s
	}
	return out, nil
}

func (s *Suggester) Suggest(ctx context.Context, in SuggestInput) (map[string]Suggestion, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return nil, util.NewFieldError("name", "name is required")
	}
	source := util.NormalizeLocale(in.Source)
	targets, err := normalizeTargets(source, in.Targets)
	if err != nil {
		return nil, err
	}
	if s == nil || s.Client == nil {
		return nil, ErrUnavailable
	}

	model := s.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	resp, err := generateContent(ctx, s.Client, model, []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: prompt(in, source, targets)}}},
	}, &genai.GenerateContentConfig{ResponseMIMEType: "application/json"})
	if err != nil {
		return nil, fmt.Errorf("generation error: %w", err)
	}
	text := firstText(resp)
	if text == "" {
		return nil, fmt.Errorf("no response from Gemini")
	}
	return parseSuggestions(text, targets)
}
