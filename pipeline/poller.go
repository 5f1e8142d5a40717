package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bassamadnan/inboxpilot/journal"
	"github.com/bassamadnan/inboxpilot/mailbox"
)

// Recorder stores terminal dispositions. *journal.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, e journal.Entry) error
}

// Poller runs the pipeline over the unread set on a fixed interval.
type Poller struct {
	provider  mailbox.Provider
	pipeline  *Pipeline
	interval  time.Duration
	maxEmails int
	recorder  Recorder
	observer  CycleObserver
	logger    *logrus.Logger
}

// NewPoller creates a Poller that handles at most maxEmails messages every
// interval.
func NewPoller(provider mailbox.Provider, p *Pipeline, interval time.Duration, maxEmails int, logger *logrus.Logger) *Poller {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	poller := &Poller{
		provider:  provider,
		pipeline:  p,
		interval:  interval,
		maxEmails: maxEmails,
		logger:    logger,
	}
	if obs, ok := p.operator.(CycleObserver); ok {
		poller.observer = obs
	}
	return poller
}

// SetRecorder journals every Result. A nil recorder disables journaling.
func (p *Poller) SetRecorder(r Recorder) {
	p.recorder = r
}

// Run polls until ctx is cancelled or the operator stops the session. Both
// are a clean shutdown and return nil.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.WithFields(logrus.Fields{
		"interval":   p.interval.String(),
		"max_emails": p.maxEmails,
	}).Info("Polling started")

	for {
		if _, err := p.Cycle(ctx); errors.Is(err, ErrOperatorStopped) {
			p.logger.Info("Stopped by operator")
			return nil
		}
		if ctx.Err() != nil {
			p.logger.Info("Polling stopped")
			return nil
		}

		if p.observer != nil {
			p.observer.Waiting(p.interval)
		}
		timer := time.NewTimer(p.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			p.logger.Info("Polling stopped")
			return nil
		case <-timer.C:
		}
	}
}

// Cycle lists, fetches and processes one batch. Provider failures are logged
// and shrink the batch; the only error returned is ErrOperatorStopped.
func (p *Poller) Cycle(ctx context.Context) ([]Result, error) {
	cycleID := uuid.NewString()
	log := p.logger.WithField("cycle_id", cycleID)
	log.Info("Checking for unread emails...")

	ids, err := p.provider.ListUnread(ctx, p.maxEmails)
	if err != nil {
		log.WithError(err).Error("Failed to list unread emails")
		return nil, nil
	}
	if len(ids) == 0 {
		log.Info("No unread emails found")
		return nil, nil
	}
	if p.observer != nil {
		p.observer.CycleStarted(len(ids))
	}

	var results []Result
	for _, id := range ids {
		if ctx.Err() != nil {
			log.Info("Cancelled, leaving the rest of the batch for the next run")
			break
		}

		msg, err := p.provider.FetchDetail(ctx, id)
		if err != nil || msg == nil {
			log.WithError(err).WithField("message_id", id).Error("Failed to fetch email")
			continue
		}
		if msg.ID == "" {
			msg.ID = id
		}

		res := p.process(ctx, *msg)
		results = append(results, res)
		p.record(ctx, cycleID, *msg, res)

		if errors.Is(res.Err, ErrOperatorStopped) {
			return results, res.Err
		}
	}
	return results, nil
}

// process runs one message, containing any panic to that message.
func (p *Poller) process(ctx context.Context, msg mailbox.Message) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.WithField("message_id", msg.ID).Errorf("Error processing email: %v", r)
			res = Result{
				MessageID: msg.ID,
				State:     Failed,
				Trace:     []State{Fetched, Failed},
				Err:       fmt.Errorf("panic while processing %s: %v", msg.ID, r),
			}
		}
	}()
	return p.pipeline.Process(ctx, msg)
}

func (p *Poller) record(ctx context.Context, cycleID string, msg mailbox.Message, res Result) {
	if p.recorder == nil {
		return
	}
	entry := journal.Entry{
		RunID:       cycleID,
		MessageID:   msg.ID,
		ThreadID:    msg.ThreadID,
		Sender:      msg.Sender,
		Subject:     msg.Subject,
		Sentiment:   string(res.Sentiment),
		Disposition: res.State.String(),
		Draft:       res.Draft,
	}
	if res.Err != nil {
		entry.Error = res.Err.Error()
	}
	if err := p.recorder.Record(context.WithoutCancel(ctx), entry); err != nil {
		p.logger.WithError(err).WithField("message_id", msg.ID).Warn("Failed to journal result")
	}
}
