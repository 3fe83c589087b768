package review

// Category classifies a keyword as praise or complaint.
type Category string

const (
	CategoryPraise    Category = "praise"
	CategoryComplaint Category = "complaint"
)

// AnalysisResult is the structured answer produced by one analysis run.
// It is replaced wholesale by the next successful run.
type AnalysisResult struct {
	ExecutiveSummary string           `json:"executiveSummary"`
	ActionItems      []ActionItem     `json:"actionItems"`
	SentimentTrend   []SentimentPoint `json:"sentimentTrend"`
	Keywords         []Keyword        `json:"keywords"`
}

type ActionItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SentimentPoint is one sample of the trend line. ID is the position in
// the review sequence, not a timestamp.
type SentimentPoint struct {
	ID      int     `json:"id"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet"`
}

// Keyword entries may repeat; consumers must tolerate duplicates.
type Keyword struct {
	Word     string   `json:"word"`
	Count    int      `json:"count"`
	Category Category `json:"category"`
}

// Warning records a value that was repaired during validation.
type Warning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
