package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/bassamadnan/inboxpilot/mailbox"
	"github.com/bassamadnan/inboxpilot/responder"
)

// ErrNoReplyAddress is recorded when the sender header holds no usable
// address.
var ErrNoReplyAddress = errors.New("could not extract sender email address")

// Drafter classifies and drafts replies. *responder.Responder satisfies it.
type Drafter interface {
	AnalyzeSentiment(ctx context.Context, msg mailbox.Message) responder.Sentiment
	GenerateResponse(ctx context.Context, msg mailbox.Message) (string, error)
}

// Result is the outcome of one pipeline pass over a message.
type Result struct {
	MessageID  string
	State      State
	Trace      []State
	Rejection  responder.Rejection
	Sentiment  responder.Sentiment
	Draft      string
	Sent       bool
	MarkedRead bool
	Err        error
}

// Pipeline turns one inbound message into at most one reply.
type Pipeline struct {
	provider mailbox.Provider
	filter   *responder.Filter
	drafter  Drafter
	operator Operator
	logger   *logrus.Logger
}

// New wires a Pipeline.
func New(provider mailbox.Provider, filter *responder.Filter, drafter Drafter, operator Operator, logger *logrus.Logger) *Pipeline {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Pipeline{
		provider: provider,
		filter:   filter,
		drafter:  drafter,
		operator: operator,
		logger:   logger,
	}
}

// run carries the mutable state of one pass.
type run struct {
	msg    mailbox.Message
	state  State
	edited bool
	res    Result
}

// Process drives msg from Fetched to a terminal state. Cancelling ctx does
// not interrupt a message once started.
func (p *Pipeline) Process(ctx context.Context, msg mailbox.Message) Result {
	ctx = context.WithoutCancel(ctx)
	r := &run{
		msg:   msg,
		state: Fetched,
		res:   Result{MessageID: msg.ID, Trace: []State{Fetched}},
	}

	p.operator.Announce(msg)
	for !r.state.Terminal() {
		r.state = p.step(ctx, r)
		r.res.Trace = append(r.res.Trace, r.state)
	}
	r.res.State = r.state

	if r.state.MarksRead() {
		p.markRead(ctx, r)
	}

	p.logger.WithFields(logrus.Fields{
		"message_id":  msg.ID,
		"disposition": r.state.String(),
		"sentiment":   string(r.res.Sentiment),
		"marked_read": r.res.MarkedRead,
	}).Info("Message processed")

	p.operator.Outcome(r.res)
	return r.res
}

// step performs the work of r.state and returns the next state.
func (p *Pipeline) step(ctx context.Context, r *run) State {
	log := p.logger.WithField("message_id", r.msg.ID)

	switch r.state {
	case Fetched:
		if reason := p.filter.Reason(r.msg); reason != responder.Accepted {
			r.res.Rejection = reason
			log.WithField("reason", string(reason)).Info("Skipping automated/invalid email")
			return MarkedReadSkipped
		}
		return Classified

	case Classified:
		r.res.Sentiment = p.drafter.AnalyzeSentiment(ctx, r.msg)
		draft, err := p.drafter.GenerateResponse(ctx, r.msg)
		if err != nil {
			r.res.Err = err
		}
		r.res.Draft = draft
		return Drafted

	case Drafted:
		if r.res.Draft == "" {
			log.Warn("Failed to generate response")
			return MarkedReadSkipped
		}
		return AwaitingDecision

	case AwaitingDecision:
		decision, err := p.operator.Decide(ctx, Review{
			Message:   r.msg,
			Sentiment: r.res.Sentiment,
			Draft:     r.res.Draft,
			Edited:    r.edited,
		})
		if err != nil {
			r.res.Err = err
			log.WithError(err).Warn("No operator decision, leaving message unread")
			return SkippedUnread
		}
		switch decision.Action {
		case Send:
			return Sending
		case Discard:
			return MarkedReadSkipped
		case Skip:
			return SkippedUnread
		case Edit:
			if text := strings.TrimRight(decision.Text, "\r\n"); strings.TrimSpace(text) != "" {
				r.res.Draft = text
				r.edited = true
			}
			return AwaitingDecision
		default:
			return AwaitingDecision
		}

	case Sending:
		to, ok := mailbox.ExtractAddress(r.msg.Sender)
		if !ok {
			r.res.Err = ErrNoReplyAddress
			log.WithField("sender", r.msg.Sender).Error("Could not extract sender email address")
			return Undeliverable
		}
		if err := p.provider.Send(ctx, mailbox.ReplyTo(r.msg, to, r.res.Draft)); err != nil {
			r.res.Err = fmt.Errorf("sending reply: %w", err)
			log.WithError(err).Error("Failed to send response")
			return Failed
		}
		r.res.Sent = true
		log.WithField("to", to).Info("Response sent")
		return MarkedReadSent
	}

	// Unreachable for a well-formed machine; end the pass without side effects.
	r.res.Err = fmt.Errorf("no transition from %s", r.state)
	return Failed
}

func (p *Pipeline) markRead(ctx context.Context, r *run) {
	if err := p.provider.MarkRead(ctx, r.msg.ID); err != nil {
		p.logger.WithError(err).WithField("message_id", r.msg.ID).Error("Failed to mark message as read")
		r.res.Err = errors.Join(r.res.Err, fmt.Errorf("marking read: %w", err))
		return
	}
	r.res.MarkedRead = true
}
