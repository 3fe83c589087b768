package review

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyInput is returned before any network call when the review text is blank.
	ErrEmptyInput = errors.New("review text is empty")

	// ErrAnalysisInProgress rejects a second analysis while one is pending.
	ErrAnalysisInProgress = errors.New("an analysis is already in progress")

	ErrModelResponseEmpty        = errors.New("model returned an empty response")
	ErrModelResponseMalformed    = errors.New("model response is not valid JSON")
	ErrModelResponseInvalidShape = errors.New("model response does not match the analysis contract")

	ErrTransport = errors.New("model transport failed")

	// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
	ErrQuotaExceeded = errors.New("ai quota exceeded")
)

// Violation names one field of the model response that broke the contract.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ShapeError lists every contract violation found in a model response.
type ShapeError struct {
	Violations []Violation
}

func (e *ShapeError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Message))
	}
	return fmt.Sprintf("%s: %s", ErrModelResponseInvalidShape, strings.Join(parts, "; "))
}

func (e *ShapeError) Is(target error) bool {
	return target == ErrModelResponseInvalidShape
}

// Fields returns the violated field paths in report order.
func (e *ShapeError) Fields() []string {
	out := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		out = append(out, v.Field)
	}
	return out
}

// TransportError wraps a failure talking to the model endpoint.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d): %v", ErrTransport, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", ErrTransport, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool {
	if target == ErrTransport {
		return true
	}
	return target == ErrQuotaExceeded && e.StatusCode == 429
}
