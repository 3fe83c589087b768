package prompt

import (
	"fmt"
	"unicode/utf8"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/bryanwahyu/sentimo/internal/domain/review"
)

// MaxInputChars bounds the review text sent to the model. Longer input is
// cut at this many characters, possibly mid-review, and the tail is lost.
const MaxInputChars = 100000

// GetSystemPrompt sets the analyst persona for structured analysis calls.
func GetSystemPrompt() string {
	return `You are a customer experience analyst. You read batches of customer reviews and respond with one JSON object that follows the provided schema exactly. Do not wrap the JSON in markdown and do not add commentary.`
}

// GetUserPrompt builds the analysis instruction around the review text.
func GetUserPrompt(reviews string) string {
	return fmt.Sprintf(`Analyze the following batch of customer reviews.
1. Generate a sentiment trend line over the sequence of reviews. Reviews rarely carry dates, so use their order in the text as the sequence.
2. Identify the most frequent keywords for complaints and praises.
3. Write a professional executive summary.
4. List exactly 3 specific, actionable areas for improvement.

Reviews:
%s`, reviews)
}

// BuildAnalysisRequest turns pasted review text into a model request.
func BuildAnalysisRequest(rawText string) review.Request {
	text, truncated := Truncate(rawText, MaxInputChars)
	return review.Request{
		Instruction: GetUserPrompt(text),
		Schema:      AnalysisSchema(),
		InputChars:  utf8.RuneCountInString(text),
		Truncated:   truncated,
	}
}

// Truncate cuts s to at most n characters without splitting a rune.
func Truncate(s string, n int) (string, bool) {
	if n < 0 {
		n = 0
	}
	if len(s) <= n {
		return s, false
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i], true
		}
		count++
	}
	return s, false
}

// AnalysisSchema is the output shape requested from the model.
func AnalysisSchema() *jsonschema.Definition {
	return &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"executiveSummary": {
				Type:        jsonschema.String,
				Description: "A comprehensive executive summary of the reviews, highlighting key findings.",
			},
			"actionItems": {
				Type:        jsonschema.Array,
				Description: "Top 3 actionable areas for improvement.",
				Items: &jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"title":       {Type: jsonschema.String},
						"description": {Type: jsonschema.String},
					},
					Required: []string{"title", "description"},
				},
			},
			"sentimentTrend": {
				Type:        jsonschema.Array,
				Description: "A chronological or sequential sentiment analysis of the reviews.",
				Items: &jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"id": {Type: jsonschema.Integer},
						"score": {
							Type:        jsonschema.Number,
							Description: "Sentiment score between -1 (negative) and 1 (positive).",
						},
						"snippet": {
							Type:        jsonschema.String,
							Description: "A short text snippet representative of this data point.",
						},
					},
					Required: []string{"id", "score", "snippet"},
				},
			},
			"keywords": {
				Type:        jsonschema.Array,
				Description: "Most frequent keywords categorized as praise or complaint.",
				Items: &jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"word":  {Type: jsonschema.String},
						"count": {Type: jsonschema.Integer},
						"category": {
							Type: jsonschema.String,
							Enum: []string{string(review.CategoryPraise), string(review.CategoryComplaint)},
						},
					},
					Required: []string{"word", "count", "category"},
				},
			},
		},
		Required: []string{"executiveSummary", "actionItems", "sentimentTrend", "keywords"},
	}
}
