package prompt

import (
	"encoding/json"
	"strings"

	"github.com/bryanwahyu/sentimo/internal/domain/review"
)

const (
	// MaxContextChars bounds the analysis context embedded in a chat session.
	MaxContextChars = 5000
	// MaxSnippetChars bounds the raw review excerpt in the chat context.
	MaxSnippetChars = 2000
)

// ChatSystemInstruction returns the assistant instruction, embedding at
// most MaxContextChars of contextSummary when it is not blank.
func ChatSystemInstruction(contextSummary string) string {
	var b strings.Builder
	b.WriteString("You are Sentimo's AI assistant. You help users understand customer sentiment data.\n")
	if strings.TrimSpace(contextSummary) != "" {
		excerpt, _ := Truncate(contextSummary, MaxContextChars)
		b.WriteString("Here is the context of the reviews currently being analyzed: ")
		b.WriteString(excerpt)
		b.WriteString("...\n")
	}
	b.WriteString("Answer questions about these reviews, sentiment analysis concepts, or general business advice.\n")
	b.WriteString("Be concise, professional, and helpful.")
	return b.String()
}

// BuildChatContext condenses an analysis into the text used to seed a chat session.
func BuildChatContext(result review.AnalysisResult, rawText string) string {
	keywords, err := json.Marshal(result.Keywords)
	if err != nil {
		keywords = []byte("[]")
	}
	snippet, _ := Truncate(rawText, MaxSnippetChars)

	parts := []string{
		"Executive Summary: " + result.ExecutiveSummary,
		"Key Trends: " + string(keywords),
		"Raw Reviews Snippet: " + snippet,
	}
	return strings.Join(parts, "\n\n")
}
