// Package workspace holds the dashboard state: the current analysis and
// the assistant conversation grounded in it.
package workspace

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

	"github.com/bryanwahyu/sentimo/internal/application"
	"github.com/bryanwahyu/sentimo/internal/application/analysis"
	appchat "github.com/bryanwahyu/sentimo/internal/application/chat"
	"github.com/bryanwahyu/sentimo/internal/domain/chat"
	"github.com/bryanwahyu/sentimo/internal/domain/review"
	"github.com/bryanwahyu/sentimo/internal/infra/ai/prompt"
)

// Snapshot is one successful analysis as shown on the dashboard.
type Snapshot struct {
	ID        string                `json:"id"`
	Result    review.AnalysisResult `json:"result"`
	Warnings  []review.Warning      `json:"warnings,omitempty"`
	Truncated bool                  `json:"truncated"`
	CreatedAt time.Time             `json:"createdAt"`
}

type Analyzer interface {
	Analyze(ctx context.Context, rawText string) (analysis.Outcome, error)
}

type Workspace struct {
	analyzer Analyzer
	chats    *appchat.Service
	clock    application.Clock
	log      *zap.Logger

	// analyses covers analyze and store together; asks covers a whole
	// question and answer exchange.
	analyses *semaphore.Weighted
	asks     *semaphore.Weighted

	mu         sync.RWMutex
	current    *Snapshot
	session    *appchat.Session
	transcript *chat.Transcript
}

func New(analyzer Analyzer, chats *appchat.Service, clock application.Clock, log *zap.Logger) *Workspace {
	if clock == nil {
		clock = application.SystemClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Workspace{
		analyzer:   analyzer,
		chats:      chats,
		clock:      clock,
		log:        log.Named("workspace"),
		analyses:   semaphore.NewWeighted(1),
		asks:       semaphore.NewWeighted(1),
		session:    chats.CreateSession(""),
		transcript: chat.NewTranscript(clock.Now),
	}
}

// Analyze runs a new analysis. On success the snapshot replaces the
// current one and the assistant is re-seeded with it; the transcript is
// kept but the assistant's memory is not. On failure the current snapshot
// is left untouched. A call made while another is running fails with
// review.ErrAnalysisInProgress.
func (w *Workspace) Analyze(ctx context.Context, rawText string) (Snapshot, error) {
	if !w.analyses.TryAcquire(1) {
		return Snapshot{}, review.ErrAnalysisInProgress
	}
	defer w.analyses.Release(1)

	out, err := w.analyzer.Analyze(ctx, rawText)
	if err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{
		ID:        uuid.NewString(),
		Result:    out.Result,
		Warnings:  out.Warnings,
		Truncated: out.Truncated,
		CreatedAt: w.clock.Now(),
	}
	session := w.chats.CreateSession(prompt.BuildChatContext(out.Result, rawText))

	w.mu.Lock()
	w.current = &snap
	w.session = session
	w.mu.Unlock()

	w.log.Info("analysis stored", zap.String("snapshot", snap.ID), zap.String("session", session.ID()))
	return snap, nil
}

// Current returns the latest successful analysis.
func (w *Workspace) Current() (Snapshot, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.current == nil {
		return Snapshot{}, false
	}
	return *w.current, true
}

// Ask appends text to the transcript, sends it to the assistant and
// appends the reply. Concurrent asks are queued so every question is
// followed by its own answer. When the send fails the fallback reply is
// appended and returned together with the error so the conversation stays
// usable.
func (w *Workspace) Ask(ctx context.Context, text string) (chat.Message, error) {
	// blank input never reaches the transcript
	if strings.TrimSpace(text) == "" {
		return chat.Message{}, chat.ErrEmptyMessage
	}
	if err := w.asks.Acquire(ctx, 1); err != nil {
		return chat.Message{}, fmt.Errorf("%w: %v", chat.ErrSendFailed, err)
	}
	defer w.asks.Release(1)

	w.mu.RLock()
	session := w.session
	w.mu.RUnlock()

	w.transcript.Append(chat.RoleUser, text)

	reply, err := session.Send(ctx, text)
	if err != nil {
		if errors.Is(err, chat.ErrSendFailed) {
			return w.transcript.Append(chat.RoleModel, chat.FallbackText), err
		}
		return chat.Message{}, err
	}
	return w.transcript.Append(chat.RoleModel, reply), nil
}

// Transcript returns the visible conversation in order.
func (w *Workspace) Transcript() []chat.Message {
	return w.transcript.Messages()
}

// SampleReviews returns a demo batch for the input box.
func (w *Workspace) SampleReviews() string {
	return prompt.SampleReviews
}
