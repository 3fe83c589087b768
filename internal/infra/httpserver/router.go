package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/bryanwahyu/sentimo/internal/application/workspace"
	"github.com/bryanwahyu/sentimo/internal/domain/chat"
	"github.com/bryanwahyu/sentimo/internal/domain/review"
	"github.com/bryanwahyu/sentimo/internal/middleware"
)

// Dashboard is the state the HTTP surface reads and drives.
type Dashboard interface {
	Analyze(ctx context.Context, rawText string) (workspace.Snapshot, error)
	Current() (workspace.Snapshot, bool)
	Ask(ctx context.Context, text string) (chat.Message, error)
	Transcript() []chat.Message
	SampleReviews() string
}

type Options struct {
	AllowedOrigins []string
	HealthCheckers map[string]middleware.HealthChecker
}

type Router struct {
	dash Dashboard
	log  *zap.Logger
}

var errNoAnalysis = errors.New("no analysis has been run yet")

func NewRouter(dash Dashboard, log *zap.Logger, opts Options) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Router{dash: dash, log: log}
	mux := chi.NewRouter()

	mux.Use(chimw.RequestID)
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.Metrics)
	mux.Use(middleware.Logging(log))
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	mux.Get("/health", middleware.HealthHandler(opts.HealthCheckers))
	mux.Get("/health/live", middleware.LivenessHandler)
	mux.Get("/health/ready", middleware.ReadinessHandler)
	mux.Method(http.MethodGet, "/metrics", middleware.MetricsHandler())

	mux.Route("/v1", func(rt chi.Router) {
		rt.Post("/analyses", r.wrap(r.handleAnalyze))
		rt.Get("/analyses/current", r.wrap(r.handleCurrent))
		rt.Get("/chat/messages", r.wrap(r.handleTranscript))
		rt.Post("/chat/messages", r.wrap(r.handleAsk))
		rt.Get("/samples/reviews", r.wrap(r.handleSample))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

type errorBody struct {
	Error   string             `json:"error"`
	Message string             `json:"message"`
	Details []review.Violation `json:"details,omitempty"`
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		status, code := errorStatus(err)
		body := errorBody{Error: code, Message: err.Error()}
		var shape *review.ShapeError
		if errors.As(err, &shape) {
			body.Details = shape.Violations
		}
		if status >= http.StatusInternalServerError {
			r.log.Error("request failed", zap.String("path", req.URL.Path), zap.String("code", code), zap.Error(err))
		}
		writeJSON(w, status, body)
	}
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, middleware.ErrInvalidBody):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, review.ErrEmptyInput), errors.Is(err, chat.ErrEmptyMessage):
		return http.StatusBadRequest, "empty_input"
	case errors.Is(err, errNoAnalysis):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, review.ErrAnalysisInProgress):
		return http.StatusConflict, "analysis_in_progress"
	case errors.Is(err, review.ErrQuotaExceeded):
		return http.StatusTooManyRequests, "quota_exceeded"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "model_timeout"
	case errors.Is(err, review.ErrModelResponseEmpty):
		return http.StatusBadGateway, "model_response_empty"
	case errors.Is(err, review.ErrModelResponseMalformed):
		return http.StatusBadGateway, "model_response_malformed"
	case errors.Is(err, review.ErrModelResponseInvalidShape):
		return http.StatusBadGateway, "model_response_invalid_shape"
	case errors.Is(err, review.ErrTransport), errors.Is(err, chat.ErrSendFailed):
		return http.StatusBadGateway, "model_unavailable"
	}
	return http.StatusInternalServerError, "internal"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
