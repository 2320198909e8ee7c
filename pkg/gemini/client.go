// Package gemini provides a client for Google's Gemini API with a fallback
// model chain, exponential backoff, and error classification.
package gemini

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// backoffCap bounds the inter-attempt delay.
const backoffCap = 30 * time.Second

// Config holds the generation policy for a Client.
type Config struct {
	// APIKey authenticates against the Gemini API backend.
	APIKey string

	// Model is the primary model identifier.
	Model string

	// FallbackModels are tried in order after each retryable failure.
	FallbackModels []string

	// MaxRetries bounds the total number of attempts.
	MaxRetries int

	// SystemInstruction frames every request.
	SystemInstruction string
}

// Client submits prompts to Gemini. Attempt state lives entirely inside one
// Generate call, so a Client is safe to reuse across runs.
type Client struct {
	logger *slog.Logger
	config Config

	// call and sleep are swappable for tests so retry policy can be exercised
	// without real I/O.
	call  func(ctx context.Context, model, prompt string) (string, error)
	sleep func(ctx context.Context, d time.Duration) error
}

// Result is the outcome of a successful generation.
type Result struct {
	// Text is the generated text, trimmed.
	Text string

	// ModelUsed is the model that produced Text. When the primary model fails
	// over, this is the fallback that finally answered.
	ModelUsed string
}

// NewClient creates a generation client. MaxRetries defaults to 3.
func NewClient(logger *slog.Logger, config Config) *Client {
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}
	c := &Client{
		logger: logger,
		config: config,
		sleep:  sleepContext,
	}
	c.call = c.callSDK
	return c
}

// Generate submits the prompt, falling back across the configured model chain
// with exponential backoff. Terminal outcomes: a Result, *RateLimitError (no
// further retries regardless of remaining attempts), *ExhaustedError, or
// *EmptyResponseError.
func (c *Client) Generate(ctx context.Context, prompt string) (*Result, error) {
	model := c.config.Model
	attempt := 0

	for {
		c.logger.Info("generating content",
			"attempt", attempt+1,
			"max_retries", c.config.MaxRetries,
			"model", model)

		text, err := c.call(ctx, model, prompt)
		if err == nil {
			trimmed := strings.TrimSpace(text)
			if trimmed == "" {
				return nil, &EmptyResponseError{Raw: text}
			}
			return &Result{Text: trimmed, ModelUsed: model}, nil
		}

		if classify(err) == failureRateLimited {
			c.logger.Error("request quota exhausted, giving up", "model", model, "error", err)
			return nil, &RateLimitError{Err: err}
		}

		attempt++
		if attempt >= c.config.MaxRetries {
			c.logger.Error("all generation attempts failed",
				"attempts", c.config.MaxRetries, "error", err)
			return nil, &ExhaustedError{Attempts: c.config.MaxRetries, Err: err}
		}

		if attempt-1 < len(c.config.FallbackModels) {
			model = c.config.FallbackModels[attempt-1]
			c.logger.Warn("switching to fallback model", "model", model)
		}

		delay := backoffDelay(attempt)
		c.logger.Warn("generation attempt failed, backing off",
			"attempt", attempt, "delay", delay, "error", err)
		if sleepErr := c.sleep(ctx, delay); sleepErr != nil {
			return nil, sleepErr
		}
	}
}

// backoffDelay returns min(2^attempt, 30) seconds.
func backoffDelay(attempt int) time.Duration {
	if attempt > 4 {
		return backoffCap
	}
	return time.Duration(1<<uint(attempt)) * time.Second
}

// sleepContext blocks for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
