package chat

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one entry of the visible transcript.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Turn is one exchange unit in the model-visible conversation.
type Turn struct {
	Role Role
	Text string
}

const (
	WelcomeID   = "welcome"
	WelcomeText = "Hi! I can help you analyze these reviews or answer general questions. What would you like to know?"

	// FallbackText replaces the reply when a send fails.
	FallbackText = "I'm sorry, I encountered an error. Please try again."
)
