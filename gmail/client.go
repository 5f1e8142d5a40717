package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/bassamadnan/inboxpilot/mailbox"
)

const (
	user        = "me"
	unreadQuery = "is:unread"
	unreadLabel = "UNREAD"
)

// Provider is a mailbox.Provider backed by the Gmail REST API.
type Provider struct {
	srv    *gmail.Service
	from   string
	cb     *gobreaker.CircuitBreaker
	logger *logrus.Logger
}

// NewProvider authorizes with auth and connects to Gmail. address is used as
// the From of every reply.
func NewProvider(ctx context.Context, auth Authenticator, address string, logger *logrus.Logger) (*Provider, error) {
	httpClient, err := auth.HTTPClient(ctx)
	if err != nil {
		return nil, err
	}
	return NewProviderWithOptions(ctx, address, logger, option.WithHTTPClient(httpClient))
}

// NewProviderWithOptions builds a Provider from raw client options.
func NewProviderWithOptions(ctx context.Context, address string, logger *logrus.Logger, opts ...option.ClientOption) (*Provider, error) {
	srv, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Provider{
		srv:    srv,
		from:   address,
		cb:     newBreaker(logger),
		logger: logger,
	}, nil
}

func newBreaker(logger *logrus.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "gmail-api",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Client errors say nothing about Gmail's health.
		IsSuccessful: func(err error) bool {
			var apiErr *googleapi.Error
			if errors.As(err, &apiErr) {
				return apiErr.Code >= 400 && apiErr.Code < 500 && apiErr.Code != http.StatusTooManyRequests
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})
}

// call runs fn through the circuit breaker.
func (p *Provider) call(op string, fn func() error) error {
	_, err := p.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if err != nil {
		p.logger.WithError(err).WithFields(logrus.Fields{
			"op":    op,
			"state": p.cb.State().String(),
		}).Error("Gmail call failed")
		return fmt.Errorf("gmail %s: %w", op, err)
	}
	return nil
}

// ListUnread returns up to max unread message ids, newest first.
func (p *Provider) ListUnread(ctx context.Context, max int) ([]string, error) {
	var ids []string
	err := p.call("list", func() error {
		resp, err := p.srv.Users.Messages.List(user).
			Q(unreadQuery).
			MaxResults(int64(max)).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		for _, m := range resp.Messages {
			ids = append(ids, m.Id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.logger.WithField("count", len(ids)).Info("Found unread emails")
	return ids, nil
}

// FetchDetail loads one message in full format.
func (p *Provider) FetchDetail(ctx context.Context, id string) (*mailbox.Message, error) {
	var msg mailbox.Message
	err := p.call("get", func() error {
		full, err := p.srv.Users.Messages.Get(user, id).Format("full").Context(ctx).Do()
		if err != nil {
			return err
		}
		msg = parseMessage(full)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if msg.ID == "" {
		msg.ID = id
	}
	return &msg, nil
}

// Send delivers reply in the original message's thread.
func (p *Provider) Send(ctx context.Context, reply mailbox.Reply) error {
	raw, err := mailbox.BuildReply(p.from, reply)
	if err != nil {
		return err
	}
	out := &gmail.Message{
		Raw:      base64.URLEncoding.EncodeToString(raw),
		ThreadId: reply.ThreadID,
	}
	err = p.call("send", func() error {
		_, err := p.srv.Users.Messages.Send(user, out).Context(ctx).Do()
		return err
	})
	if err != nil {
		return err
	}
	p.logger.WithFields(logrus.Fields{
		"to":          reply.To,
		"in_reply_to": reply.InReplyTo,
	}).Info("Email sent")
	return nil
}

// MarkRead removes the UNREAD label.
func (p *Provider) MarkRead(ctx context.Context, id string) error {
	return p.call("modify", func() error {
		_, err := p.srv.Users.Messages.Modify(user, id, &gmail.ModifyMessageRequest{
			RemoveLabelIds: []string{unreadLabel},
		}).Context(ctx).Do()
		return err
	})
}
