package chat

import "context"

// Model answers a conversation given a system instruction and prior turns.
// The last turn is the user's new message.
type Model interface {
	Complete(ctx context.Context, system string, turns []Turn) (string, error)
}
