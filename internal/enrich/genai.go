// Package enrich refreshes college statistics from Gemini and remembers the
// answers so a restart does not repeat the same lookups.
package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"admitcast/internal/college"

	"google.golang.org/genai"
)

// =============================================================================
// GEMINI COLLEGE LOOKUP
// =============================================================================

// ErrNoCredential is returned when no API key is configured.
var ErrNoCredential = errors.New("gemini api key not configured")

// DefaultModel is used when the config leaves the model empty.
const DefaultModel = "gemini-2.5-flash"

const promptTemplate = "Give me admission statistics for %s as JSON with fields: " +
	"acceptanceRate (number), medianGpa (number), satRange (two numbers), actRange (two numbers)"

// generator is the slice of the genai client the lookup needs.
type generator func(ctx context.Context, model, prompt string) (string, error)

// GenAILookup implements college.Lookup against the Gemini API.
type GenAILookup struct {
	model    string
	timeout  time.Duration
	generate generator
}

var _ college.Lookup = (*GenAILookup)(nil)

// NewGenAILookup creates a lookup. timeout bounds each call; zero disables it.
func NewGenAILookup(ctx context.Context, apiKey, model string, timeout time.Duration) (*GenAILookup, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNoCredential
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	gen := func(ctx context.Context, model, prompt string) (string, error) {
		resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		})
		if err != nil {
			return "", err
		}
		return resp.Text(), nil
	}

	return &GenAILookup{model: model, timeout: timeout, generate: gen}, nil
}

// Model returns the configured model name.
func (g *GenAILookup) Model() string { return g.model }

// Lookup asks Gemini for the statistics of the named college.
func (g *GenAILookup) Lookup(ctx context.Context, name string) (*college.Patch, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	text, err := g.generate(ctx, g.model, Prompt(name))
	if err != nil {
		return nil, fmt.Errorf("GenAI lookup for %s failed: %w", name, err)
	}
	return ParsePatch(text)
}

// Prompt returns the request text for a college.
func Prompt(name string) string {
	return fmt.Sprintf(promptTemplate, name)
}

// statsPayload mirrors the JSON shape requested in the prompt.
type statsPayload struct {
	AcceptanceRate *float64  `json:"acceptanceRate"`
	MedianGPA      *float64  `json:"medianGpa"`
	SATRange       []float64 `json:"satRange"`
	ACTRange       []float64 `json:"actRange"`
}

// ParsePatch decodes a model response into a patch. Markdown fences and
// surrounding prose are tolerated. Ranges without exactly two numbers are
// dropped rather than failing the whole patch.
func ParsePatch(text string) (*college.Patch, error) {
	raw := extractJSON(cleanJSONResponse(text))
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var payload statsPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse statistics: %w", err)
	}

	patch := &college.Patch{
		AcceptanceRate: payload.AcceptanceRate,
		MedianGPA:      payload.MedianGPA,
		SATRange:       toRange(payload.SATRange),
		ACTRange:       toRange(payload.ACTRange),
	}
	return patch, nil
}

func toRange(pair []float64) *college.Range {
	if len(pair) != 2 {
		return nil
	}
	return &college.Range{Low: pair[0], High: pair[1]}
}

// cleanJSONResponse removes markdown code fences from JSON response.
func cleanJSONResponse(resp string) string {
	resp = strings.TrimSpace(resp)
	resp = strings.TrimPrefix(resp, "```json")
	resp = strings.TrimPrefix(resp, "```")
	resp = strings.TrimSuffix(resp, "```")
	return strings.TrimSpace(resp)
}

// extractJSON returns the first balanced JSON object in text, or "".
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]

		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch ch {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
