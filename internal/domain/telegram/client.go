package telegram

import "context"

// Request describes one outbound message. Immutable once constructed.
type Request struct {
	ChatID      string
	ThreadID    string // omitted on the wire when empty or the default sentinel "1"
	Text        string
	ReplyMarkup map[string]any // optional inline keyboard payload
}

// Client defines the messaging-backend operations the application depends on.
// This decouples the application logic from the concrete HTTP transport.
type Client interface {
	// Send delivers a message, retrying rate-limited attempts with backoff.
	Send(ctx context.Context, req Request) error
	// SendWithID is Send plus capture of the backend-assigned message id.
	SendWithID(ctx context.Context, req Request) (string, error)
	// Edit replaces the text of an already delivered message in place.
	Edit(ctx context.Context, chatID, messageID, text, threadID string) error
	// History lists up to limit recent message ids on a thread, newest first.
	History(ctx context.Context, chatID, threadID string, limit int) ([]string, error)
	// MessageText fetches the current text of a single message.
	MessageText(ctx context.Context, chatID, messageID string) (string, error)
	// SendToThreads delivers the request to each thread independently.
	// A failure on one thread does not abort delivery to the rest.
	SendToThreads(ctx context.Context, req Request, threadIDs []string)
}
