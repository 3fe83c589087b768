package httpserver

import (
	"errors"
	"net/http"

	"github.com/bryanwahyu/sentimo/internal/domain/chat"
	"github.com/bryanwahyu/sentimo/internal/middleware"
)

type textRequest struct {
	Text string `json:"text"`
}

// POST /v1/analyses
// Body: {"text": "<reviews separated by --- or newlines>"}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body textRequest
	if err := middleware.DecodeJSON(req, &body); err != nil {
		return err
	}
	snap, err := r.dash.Analyze(req.Context(), body.Text)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, snap)
	return nil
}

// GET /v1/analyses/current
func (r *Router) handleCurrent(w http.ResponseWriter, req *http.Request) error {
	snap, ok := r.dash.Current()
	if !ok {
		return errNoAnalysis
	}
	writeJSON(w, http.StatusOK, snap)
	return nil
}

// GET /v1/chat/messages
func (r *Router) handleTranscript(w http.ResponseWriter, req *http.Request) error {
	writeJSON(w, http.StatusOK, map[string]any{"messages": r.dash.Transcript()})
	return nil
}

type askResponse struct {
	Reply chat.Message `json:"reply"`
	Error string       `json:"error,omitempty"`
}

// POST /v1/chat/messages
// Body: {"text": "<question>"}
// A failed send still answers 200 with the fallback reply and an error
// field so the widget keeps working.
func (r *Router) handleAsk(w http.ResponseWriter, req *http.Request) error {
	var body textRequest
	if err := middleware.DecodeJSON(req, &body); err != nil {
		return err
	}
	msg, err := r.dash.Ask(req.Context(), middleware.SanitizeString(body.Text))
	if err != nil {
		if errors.Is(err, chat.ErrSendFailed) && msg.ID != "" {
			writeJSON(w, http.StatusOK, askResponse{Reply: msg, Error: err.Error()})
			return nil
		}
		return err
	}
	writeJSON(w, http.StatusOK, askResponse{Reply: msg})
	return nil
}

// GET /v1/samples/reviews
func (r *Router) handleSample(w http.ResponseWriter, req *http.Request) error {
	writeJSON(w, http.StatusOK, map[string]string{"text": r.dash.SampleReviews()})
	return nil
}
