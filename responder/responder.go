package responder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/bassamadnan/inboxpilot/config"
	"github.com/bassamadnan/inboxpilot/mailbox"
)

// ErrEmptyDraft is returned when the generator answers with nothing usable.
var ErrEmptyDraft = errors.New("generator returned an empty draft")

// Generator turns a prompt into text. *llm.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Options shape the reply prompt.
type Options struct {
	Language string
	MaxWords int
}

// OptionsFrom reads reply options from cfg.
func OptionsFrom(cfg config.Config) Options {
	return Options{Language: cfg.Generator.ReplyLanguage, MaxWords: cfg.Generator.MaxWords}
}

// Responder classifies messages and drafts replies through a Generator.
type Responder struct {
	gen    Generator
	opts   Options
	logger *logrus.Logger
}

// New creates a Responder. Zero options fall back to the defaults.
func New(gen Generator, opts Options, logger *logrus.Logger) *Responder {
	if opts.Language == "" {
		opts.Language = config.DefaultReplyLanguage
	}
	if opts.MaxWords <= 0 {
		opts.MaxWords = config.DefaultReplyMaxWords
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Responder{gen: gen, opts: opts, logger: logger}
}

// AnalyzeSentiment labels the tone of msg. Failures yield Neutral.
func (r *Responder) AnalyzeSentiment(ctx context.Context, msg mailbox.Message) Sentiment {
	answer, err := r.gen.Generate(ctx, sentimentPrompt(msg))
	if err != nil {
		r.logger.WithError(err).WithField("message_id", msg.ID).Error("Error analyzing sentiment")
		return Neutral
	}
	return ParseSentiment(answer)
}

// GenerateResponse drafts a reply to msg. The draft is trimmed; an empty
// draft is reported as ErrEmptyDraft.
func (r *Responder) GenerateResponse(ctx context.Context, msg mailbox.Message) (string, error) {
	text, err := r.gen.Generate(ctx, replyPrompt(msg, r.opts))
	if err != nil {
		r.logger.WithError(err).WithField("message_id", msg.ID).Error("Error generating reply")
		return "", fmt.Errorf("generating reply: %w", err)
	}

	draft := strings.TrimSpace(text)
	if draft == "" {
		r.logger.WithField("message_id", msg.ID).Warn("Empty response from generator")
		return "", ErrEmptyDraft
	}

	r.logger.WithFields(logrus.Fields{
		"message_id": msg.ID,
		"sender":     msg.Sender,
	}).Info("Reply drafted")
	return draft, nil
}
