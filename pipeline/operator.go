package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/bassamadnan/inboxpilot/mailbox"
	"github.com/bassamadnan/inboxpilot/responder"
)

// ErrOperatorStopped ends the current message unread and stops the Poller.
var ErrOperatorStopped = errors.New("operator stopped the session")

// Action is the operator's choice for a drafted reply.
type Action int

const (
	Send Action = iota + 1
	Discard
	Edit
	Skip
)

func (a Action) String() string {
	switch a {
	case Send:
		return "send"
	case Discard:
		return "discard"
	case Edit:
		return "edit"
	case Skip:
		return "skip"
	default:
		return "unknown"
	}
}

// Decision is one answer at the confirmation prompt. Text is only read for
// Edit.
type Decision struct {
	Action Action
	Text   string
}

// Review is what the operator is shown before deciding.
type Review struct {
	Message   mailbox.Message
	Sentiment responder.Sentiment
	Draft     string
	Edited    bool // Draft was replaced by the operator
}

// Operator is the human confirming each draft.
type Operator interface {
	Announce(msg mailbox.Message)
	Decide(ctx context.Context, review Review) (Decision, error)
	Outcome(res Result)
}

// CycleObserver is optionally implemented by an Operator that wants to show
// polling progress.
type CycleObserver interface {
	CycleStarted(found int)
	Waiting(d time.Duration)
}
