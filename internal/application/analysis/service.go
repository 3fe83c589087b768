// Package analysis runs one review batch through the model and validates
// the answer against the analysis contract.
package analysis

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/bryanwahyu/sentimo/internal/domain/review"
	"github.com/bryanwahyu/sentimo/internal/infra/ai/prompt"
	"github.com/bryanwahyu/sentimo/internal/metrics"
)

// Outcome is a validated analysis plus what was repaired or cut on the way.
type Outcome struct {
	Result    review.AnalysisResult `json:"result"`
	Warnings  []review.Warning      `json:"warnings,omitempty"`
	Truncated bool                  `json:"truncated"`
}

type Service struct {
	model    review.Model
	log      *zap.Logger
	timeout  time.Duration
	inflight *semaphore.Weighted
}

// NewService returns an analysis client. A timeout of 0 leaves deadlines to
// the caller's context.
func NewService(model review.Model, log *zap.Logger, timeout time.Duration) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		model:    model,
		log:      log.Named("analysis"),
		timeout:  timeout,
		inflight: semaphore.NewWeighted(1),
	}
}

// Analyze sends rawText to the model once. Only one call runs at a time;
// a concurrent call fails with review.ErrAnalysisInProgress. There are no
// retries and nothing is cached.
func (s *Service) Analyze(ctx context.Context, rawText string) (Outcome, error) {
	if strings.TrimSpace(rawText) == "" {
		metrics.AnalysisRequests.WithLabelValues("empty_input").Inc()
		return Outcome{}, review.ErrEmptyInput
	}
	if !s.inflight.TryAcquire(1) {
		metrics.AnalysisRequests.WithLabelValues("in_progress").Inc()
		return Outcome{}, review.ErrAnalysisInProgress
	}
	defer s.inflight.Release(1)

	req := prompt.BuildAnalysisRequest(rawText)
	log := s.log.With(zap.Int("input_chars", req.InputChars))
	if req.Truncated {
		metrics.AnalysisInputTruncated.Inc()
		log.Warn("review text truncated", zap.Int("max_chars", prompt.MaxInputChars))
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	body, err := s.model.GenerateJSON(ctx, req)
	if err != nil {
		if !errors.Is(err, review.ErrTransport) {
			err = &review.TransportError{Err: err}
		}
		s.observe("transport_error", start)
		log.Error("model call failed", zap.Error(err))
		return Outcome{}, err
	}

	value, err := review.DecodeModelResponse(body)
	if err != nil {
		outcome := "malformed"
		if errors.Is(err, review.ErrModelResponseEmpty) {
			outcome = "empty"
		}
		s.observe(outcome, start)
		log.Warn("unusable model response", zap.Error(err), zap.Int("body_bytes", len(body)))
		return Outcome{}, err
	}

	result, warnings, err := review.ValidateAnalysisResult(value)
	if err != nil {
		s.observe("invalid_shape", start)
		var shape *review.ShapeError
		if errors.As(err, &shape) {
			log.Warn("model response violates contract", zap.Strings("fields", shape.Fields()))
		}
		return Outcome{}, err
	}
	for _, w := range warnings {
		metrics.ContractRepairs.WithLabelValues(repairKind(w.Field)).Inc()
		log.Warn("model value repaired", zap.String("field", w.Field), zap.String("detail", w.Message))
	}

	s.observe("ok", start)
	log.Info("analysis complete",
		zap.Int("trend_points", len(result.SentimentTrend)),
		zap.Int("keywords", len(result.Keywords)),
		zap.Int("action_items", len(result.ActionItems)),
	)
	return Outcome{Result: result, Warnings: warnings, Truncated: req.Truncated}, nil
}

func (s *Service) observe(outcome string, start time.Time) {
	metrics.AnalysisRequests.WithLabelValues(outcome).Inc()
	metrics.AnalysisDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}

// repairKind is the last segment of a field path, e.g. "score".
func repairKind(field string) string {
	if i := strings.LastIndexByte(field, '.'); i >= 0 {
		return field[i+1:]
	}
	return field
}
