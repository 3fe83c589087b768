// Package chat adapts a stateless model endpoint into conversational
// sessions seeded with analysis context.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	domain "github.com/bryanwahyu/sentimo/internal/domain/chat"
	"github.com/bryanwahyu/sentimo/internal/infra/ai/prompt"
	"github.com/bryanwahyu/sentimo/internal/metrics"
)

type Service struct {
	model   domain.Model
	log     *zap.Logger
	timeout time.Duration
}

func NewService(model domain.Model, log *zap.Logger, timeout time.Duration) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{model: model, log: log.Named("chat"), timeout: timeout}
}

// CreateSession starts a conversation with no memory. A non-blank
// contextSummary is embedded, cut to prompt.MaxContextChars characters.
func (s *Service) CreateSession(contextSummary string) *Session {
	id := uuid.NewString()
	return &Session{
		id:      id,
		system:  prompt.ChatSystemInstruction(contextSummary),
		model:   s.model,
		log:     s.log.With(zap.String("session", id)),
		timeout: s.timeout,
		sends:   semaphore.NewWeighted(1),
	}
}

// Session holds the model-visible history of one conversation. Sends are
// queued so turns reach the model in call order.
type Session struct {
	id      string
	system  string
	model   domain.Model
	log     *zap.Logger
	timeout time.Duration
	sends   *semaphore.Weighted

	mu      sync.Mutex
	history []domain.Turn
}

func (s *Session) ID() string { return s.id }

func (s *Session) SystemInstruction() string { return s.system }

// History returns a copy of the turns the model has seen.
func (s *Session) History() []domain.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Turn, len(s.history))
	copy(out, s.history)
	return out
}

// Send forwards userText and returns the reply. Every failure, including
// cancellation while queued, is reported as domain.ErrSendFailed and leaves
// the history unchanged.
func (s *Session) Send(ctx context.Context, userText string) (string, error) {
	if strings.TrimSpace(userText) == "" {
		return "", domain.ErrEmptyMessage
	}
	if err := s.sends.Acquire(ctx, 1); err != nil {
		return "", s.fail(err)
	}
	defer s.sends.Release(1)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	user := domain.Turn{Role: domain.RoleUser, Text: userText}
	turns := append(s.History(), user)
	reply, err := s.model.Complete(ctx, s.system, turns)
	if err == nil && strings.TrimSpace(reply) == "" {
		err = errors.New("model returned an empty reply")
	}
	if err != nil {
		return "", s.fail(err)
	}

	s.mu.Lock()
	s.history = append(s.history, user, domain.Turn{Role: domain.RoleModel, Text: reply})
	s.mu.Unlock()

	metrics.ChatSends.WithLabelValues("ok").Inc()
	return reply, nil
}

func (s *Session) fail(cause error) error {
	metrics.ChatSends.WithLabelValues("failed").Inc()
	s.log.Error("chat send failed", zap.Error(cause))
	return fmt.Errorf("%w: %v", domain.ErrSendFailed, cause)
}
