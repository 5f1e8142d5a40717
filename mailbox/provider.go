package mailbox

import "context"

// Provider is the remote mailbox the pipeline reads from and replies through.
// Implementations report failures as errors; callers decide how to degrade.
type Provider interface {
	// ListUnread returns at most max ids of unread messages, newest first.
	ListUnread(ctx context.Context, max int) ([]string, error)
	// FetchDetail loads the headers and text body of one message.
	FetchDetail(ctx context.Context, id string) (*Message, error)
	// Send delivers a reply. The subject is prefixed with "Re:" unless it already is.
	Send(ctx context.Context, reply Reply) error
	// MarkRead clears the unread state of a message.
	MarkRead(ctx context.Context, id string) error
}
