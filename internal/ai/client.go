// Package ai generates study material (flashcards, quizzes, formulas,
// exercises) from chapter content through an OpenAI-compatible chat
// completion API.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Sentinel errors, checked with errors.Is.
var (
	// ErrNotConfigured means no API key has been provided.
	ErrNotConfigured = errors.New("ai: api key not configured")
	// ErrInvalidOutput means the model replied but the reply could not
	// be turned into usable material. Retrying will not help.
	ErrInvalidOutput = errors.New("ai: invalid model output")
)

// RetryPolicy bounds the retry loop around transient API failures.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Factor      float64
}

// Config holds the generation client settings.
type Config struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
	Retry     RetryPolicy
}

// Client talks to the text-generation API.
type Client struct {
	api *openai.Client
	cfg Config
}

// NewClient creates a generation client. A client without an API key is
// usable for construction; its calls fail with ErrNotConfigured.
func NewClient(cfg Config) *Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &Client{
		api: openai.NewClientWithConfig(clientConfig),
		cfg: cfg,
	}
}

// complete sends one prompt and returns the model's reply, retrying
// transient failures with exponential backoff.
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrNotConfigured
	}

	var reply string
	err := c.doWithRetry(ctx, func(ctx context.Context) error {
		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:     c.cfg.Model,
			MaxTokens: c.cfg.MaxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("%w: empty completion", ErrInvalidOutput)
		}
		reply = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", err
	}
	return reply, nil
}

// doWithRetry runs fn up to MaxAttempts times, sleeping BaseDelay scaled
// by Factor between attempts. Only transient API errors are retried.
func (c *Client) doWithRetry(ctx context.Context, fn func(context.Context) error) error {
	delay := c.cfg.Retry.BaseDelay
	var lastErr error

	for attempt := 1; attempt <= c.cfg.Retry.MaxAttempts; attempt++ {
		attemptCtx := ctx
		var cancel context.CancelFunc
		if c.cfg.Timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		}
		err := fn(attemptCtx)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			return nil
		}
		lastErr = err

		if !retryable(err) || attempt == c.cfg.Retry.MaxAttempts {
			break
		}

		slog.Warn("generation request failed, retrying",
			"attempt", attempt,
			"delay", delay,
			"error", err,
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay = time.Duration(float64(delay) * c.cfg.Retry.Factor)
	}
	return lastErr
}

// retryable reports whether the API error is worth another attempt:
// rate limiting and server-side failures are, everything else is not.
func retryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}
	return false
}
