package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/sirupsen/logrus"

	"github.com/bassamadnan/inboxpilot/config"
)

// ErrEmptyResponse is returned when the service answers without any choice.
var ErrEmptyResponse = errors.New("no completion returned")

// Client talks to an OpenAI-compatible chat completions endpoint, Gemini's
// by default.
type Client struct {
	client      openai.Client
	model       string
	temperature float64
	logger      *logrus.Logger
}

// Option customizes a Client.
type Option func(*clientOptions)

type clientOptions struct {
	requestOptions []option.RequestOption
	temperature    float64
}

// WithHTTPClient routes requests through hc.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) {
		o.requestOptions = append(o.requestOptions, option.WithHTTPClient(hc))
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(o *clientOptions) { o.temperature = t }
}

// NewClient builds a Client from the generator settings. Retries are
// disabled; a failed call is reported to the caller as is.
func NewClient(cfg config.GeneratorConfig, logger *logrus.Logger, opts ...Option) *Client {
	o := clientOptions{temperature: 0.7}
	for _, opt := range opts {
		opt(&o)
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = config.DefaultGeneratorTimeout * time.Second
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = config.DefaultModel
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	requestOptions := append([]option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	}, o.requestOptions...)

	return &Client{
		client:      openai.NewClient(requestOptions...),
		model:       model,
		temperature: o.temperature,
		logger:      logger,
	}
}

// Generate sends prompt as a single user message and returns the first
// choice's text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(prompt),
					},
				},
			},
		},
		Model:       shared.ChatModel(c.model),
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion with %s: %w", c.model, err)
	}
	if len(completion.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	c.logger.WithFields(logrus.Fields{
		"model":    c.model,
		"duration": time.Since(start).String(),
	}).Debug("Completion received")
	return completion.Choices[0].Message.Content, nil
}
