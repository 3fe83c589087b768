package chat

import "errors"

var (
	// ErrSendFailed is the single failure signal of a chat send.
	ErrSendFailed   = errors.New("chat send failed")
	ErrEmptyMessage = errors.New("chat message is empty")
)
