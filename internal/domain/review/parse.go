package review

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DecodeModelResponse parses the raw model body as a single JSON document.
// A surrounding markdown code fence is tolerated.
func DecodeModelResponse(body string) (any, error) {
	body = stripCodeFence(strings.TrimSpace(body))
	if body == "" {
		return nil, ErrModelResponseEmpty
	}

	dec := json.NewDecoder(strings.NewReader(body))
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelResponseMalformed, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after the JSON document", ErrModelResponseMalformed)
	}
	return v, nil
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
