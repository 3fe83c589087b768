package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Transcript is the append-only message log shown to the user.
type Transcript struct {
	mu       sync.RWMutex
	now      func() time.Time
	messages []Message
}

// NewTranscript starts a transcript with the welcome message.
func NewTranscript(now func() time.Time) *Transcript {
	if now == nil {
		now = time.Now
	}
	t := &Transcript{now: now}
	t.messages = append(t.messages, Message{
		ID:        WelcomeID,
		Role:      RoleModel,
		Text:      WelcomeText,
		Timestamp: now(),
	})
	return t
}

// Append adds a message with a fresh id and returns it.
func (t *Transcript) Append(role Role, text string) Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	m := Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: t.now(),
	}
	t.messages = append(t.messages, m)
	return m
}

// Messages returns a copy of the log in append order.
func (t *Transcript) Messages() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}
