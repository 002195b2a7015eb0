package driven

import "context"

// Messenger delivers replies to a chat platform.
type Messenger interface {
	// PostMessage sends text to channel. When threadTS is non-empty the
	// message is posted as a thread reply.
	PostMessage(ctx context.Context, channel, text, threadTS string) error
}
