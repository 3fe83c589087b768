package review

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const rootField = "(root)"

// acceptanceSchema is looser than the schema sent to the model: scores,
// counts and categories are repaired in the second phase instead of
// rejected.
var acceptanceSchema = map[string]any{
	"type":     "object",
	"required": []any{"executiveSummary", "actionItems", "sentimentTrend", "keywords"},
	"properties": map[string]any{
		"executiveSummary": map[string]any{
			"type":    "string",
			"pattern": `\S`,
		},
		"actionItems": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":       map[string]any{"type": "string"},
					"description": map[string]any{"type": "string"},
				},
			},
		},
		"sentimentTrend": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"score"},
				"properties": map[string]any{
					"id":      map[string]any{"type": "integer"},
					"score":   map[string]any{"type": "number"},
					"snippet": map[string]any{"type": "string"},
				},
			},
		},
		"keywords": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"word"},
				"properties": map[string]any{
					"word":     map[string]any{"type": "string"},
					"count":    map[string]any{"type": "integer"},
					"category": map[string]any{"type": "string"},
				},
			},
		},
	},
}

var acceptance = mustCompile(acceptanceSchema)

func mustCompile(doc map[string]any) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		panic(fmt.Sprintf("review: invalid acceptance schema: %v", err))
	}
	return s
}

type wireResult struct {
	ExecutiveSummary string        `json:"executiveSummary"`
	ActionItems      []ActionItem  `json:"actionItems"`
	SentimentTrend   []wirePoint   `json:"sentimentTrend"`
	Keywords         []wireKeyword `json:"keywords"`
}

type wirePoint struct {
	ID      *int    `json:"id"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet"`
}

type wireKeyword struct {
	Word     string `json:"word"`
	Count    int    `json:"count"`
	Category string `json:"category"`
}

// ValidateAnalysisResult checks a parsed JSON value against the analysis
// contract and returns the normalised result. Out-of-range scores are
// clamped to [-1, 1], negative counts to 0 and unknown keyword categories
// are coerced to complaint; each repair is reported as a Warning. Contract
// violations are returned as a *ShapeError.
func ValidateAnalysisResult(value any) (AnalysisResult, []Warning, error) {
	res, err := acceptance.Validate(gojsonschema.NewGoLoader(value))
	if err != nil {
		return AnalysisResult{}, nil, &ShapeError{Violations: []Violation{{Field: rootField, Message: err.Error()}}}
	}
	if !res.Valid() {
		return AnalysisResult{}, nil, &ShapeError{Violations: violations(res.Errors())}
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return AnalysisResult{}, nil, &ShapeError{Violations: []Violation{{Field: rootField, Message: err.Error()}}}
	}
	var w wireResult
	if err := json.Unmarshal(raw, &w); err != nil {
		return AnalysisResult{}, nil, &ShapeError{Violations: []Violation{{Field: rootField, Message: err.Error()}}}
	}
	out, warnings := normalise(w)
	return out, warnings, nil
}

func violations(errs []gojsonschema.ResultError) []Violation {
	out := make([]Violation, 0, len(errs))
	for _, e := range errs {
		field := e.Field()
		msg := e.Description()
		if e.Type() == "required" {
			if p, ok := e.Details()["property"].(string); ok {
				field = joinField(field, p)
				msg = "required field missing"
			}
		}
		out = append(out, Violation{Field: field, Message: msg})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

func joinField(parent, child string) string {
	if parent == "" || parent == rootField {
		return child
	}
	return parent + "." + child
}

func normalise(w wireResult) (AnalysisResult, []Warning) {
	var warnings []Warning
	out := AnalysisResult{
		ExecutiveSummary: w.ExecutiveSummary,
		ActionItems:      make([]ActionItem, 0, len(w.ActionItems)),
		SentimentTrend:   make([]SentimentPoint, 0, len(w.SentimentTrend)),
		Keywords:         make([]Keyword, 0, len(w.Keywords)),
	}
	out.ActionItems = append(out.ActionItems, w.ActionItems...)

	for i, p := range w.SentimentTrend {
		id := i + 1
		if p.ID != nil {
			id = *p.ID
		}
		score := clampScore(p.Score)
		if score != p.Score {
			warnings = append(warnings, Warning{
				Field:   fmt.Sprintf("sentimentTrend.%d.score", i),
				Message: fmt.Sprintf("score %g outside [-1, 1], clamped to %g", p.Score, score),
			})
		}
		out.SentimentTrend = append(out.SentimentTrend, SentimentPoint{ID: id, Score: score, Snippet: p.Snippet})
	}

	for i, k := range w.Keywords {
		count := k.Count
		if count < 0 {
			warnings = append(warnings, Warning{
				Field:   fmt.Sprintf("keywords.%d.count", i),
				Message: fmt.Sprintf("negative count %d clamped to 0", count),
			})
			count = 0
		}
		cat, ok := ParseCategory(k.Category)
		if !ok {
			warnings = append(warnings, Warning{
				Field:   fmt.Sprintf("keywords.%d.category", i),
				Message: fmt.Sprintf("category %q normalised to %s", k.Category, cat),
			})
		}
		out.Keywords = append(out.Keywords, Keyword{Word: k.Word, Count: count, Category: cat})
	}
	return out, warnings
}

func clampScore(s float64) float64 {
	return math.Max(-1, math.Min(1, s))
}

// ParseCategory maps a model-supplied category onto the enum. Unknown
// values fall back to complaint and report ok=false.
func ParseCategory(s string) (Category, bool) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryPraise:
		return CategoryPraise, s == string(CategoryPraise)
	case CategoryComplaint:
		return CategoryComplaint, s == string(CategoryComplaint)
	}
	return CategoryComplaint, false
}
