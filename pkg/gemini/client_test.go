package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubClient returns a Client whose call hook is replaced and whose sleeps are
// recorded instead of slept.
func stubClient(cfg Config, call func(ctx context.Context, model, prompt string) (string, error)) (*Client, *[]time.Duration) {
	c := NewClient(discardLogger(), cfg)
	c.call = call
	var delays []time.Duration
	c.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	return c, &delays
}

func TestGenerateFirstTry(t *testing.T) {
	c, delays := stubClient(Config{Model: "primary", MaxRetries: 3}, func(_ context.Context, model, prompt string) (string, error) {
		if prompt != "who is u/alice?" {
			t.Errorf("prompt = %q", prompt)
		}
		return "  a persona  \n", nil
	})

	result, err := c.Generate(context.Background(), "who is u/alice?")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.Text != "a persona" {
		t.Errorf("Text = %q, want trimmed %q", result.Text, "a persona")
	}
	if result.ModelUsed != "primary" {
		t.Errorf("ModelUsed = %q, want primary", result.ModelUsed)
	}
	if len(*delays) != 0 {
		t.Errorf("slept %v on a clean first attempt", *delays)
	}
}

func TestGenerateFallbackChainExhausted(t *testing.T) {
	var models []string
	c, delays := stubClient(Config{
		Model:          "primary",
		FallbackModels: []string{"fallback-a", "fallback-b"},
		MaxRetries:     3,
	}, func(_ context.Context, model, _ string) (string, error) {
		models = append(models, model)
		return "", fmt.Errorf("model %s unavailable", model)
	})

	_, err := c.Generate(context.Background(), "prompt")

	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("Generate() error = %T (%v), want *ExhaustedError", err, err)
	}
	if exhausted.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", exhausted.Attempts)
	}
	if !strings.Contains(exhausted.Error(), "fallback-b unavailable") {
		t.Errorf("error %q should cite the last failure", exhausted.Error())
	}

	wantModels := []string{"primary", "fallback-a", "fallback-b"}
	if len(models) != len(wantModels) {
		t.Fatalf("models tried = %v, want %v", models, wantModels)
	}
	for i, m := range models {
		if m != wantModels[i] {
			t.Errorf("attempt %d used %q, want %q", i+1, m, wantModels[i])
		}
	}

	wantDelays := []time.Duration{2 * time.Second, 4 * time.Second}
	if len(*delays) != len(wantDelays) {
		t.Fatalf("delays = %v, want %v", *delays, wantDelays)
	}
	for i, d := range *delays {
		if d != wantDelays[i] {
			t.Errorf("delay[%d] = %v, want %v", i, d, wantDelays[i])
		}
	}
}

func TestGenerateSucceedsOnFallback(t *testing.T) {
	calls := 0
	c, _ := stubClient(Config{
		Model:          "primary",
		FallbackModels: []string{"fallback-a"},
		MaxRetries:     3,
	}, func(_ context.Context, model, _ string) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("internal error")
		}
		return "recovered", nil
	})

	result, err := c.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.ModelUsed != "fallback-a" {
		t.Errorf("ModelUsed = %q, want the fallback that answered", result.ModelUsed)
	}
}

func TestGenerateRateLimitedStopsImmediately(t *testing.T) {
	for _, trigger := range []string{
		"googleapi: Error 429: Resource has been exhausted",
		"quota exceeded for this project",
	} {
		t.Run(trigger, func(t *testing.T) {
			calls := 0
			c, delays := stubClient(Config{
				Model:          "primary",
				FallbackModels: []string{"fallback-a"},
				MaxRetries:     3,
			}, func(context.Context, string, string) (string, error) {
				calls++
				return "", errors.New(trigger)
			})

			_, err := c.Generate(context.Background(), "prompt")

			var rateLimited *RateLimitError
			if !errors.As(err, &rateLimited) {
				t.Fatalf("Generate() error = %T (%v), want *RateLimitError", err, err)
			}
			if calls != 1 {
				t.Errorf("made %d calls, want 1: quota errors must not be retried", calls)
			}
			if len(*delays) != 0 {
				t.Errorf("slept %v, want no backoff on quota exhaustion", *delays)
			}
			if !strings.Contains(err.Error(), "rate-limits") {
				t.Errorf("error %q should point at the rate limit docs", err.Error())
			}
		})
	}
}

func TestGenerateEmptyResponse(t *testing.T) {
	raw := "  \n\t "
	c, _ := stubClient(Config{Model: "primary"}, func(context.Context, string, string) (string, error) {
		return raw, nil
	})

	_, err := c.Generate(context.Background(), "prompt")

	var empty *EmptyResponseError
	if !errors.As(err, &empty) {
		t.Fatalf("Generate() error = %T (%v), want *EmptyResponseError", err, err)
	}
	if empty.Raw != raw {
		t.Errorf("Raw = %q, want the untrimmed response %q", empty.Raw, raw)
	}
}

func TestGenerateExhaustsWithoutFallbacks(t *testing.T) {
	var models []string
	c, _ := stubClient(Config{Model: "only", MaxRetries: 2}, func(_ context.Context, model, _ string) (string, error) {
		models = append(models, model)
		return "", errors.New("boom")
	})

	_, err := c.Generate(context.Background(), "prompt")

	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("Generate() error = %T, want *ExhaustedError", err)
	}
	// With no fallbacks the same model carries every attempt.
	if len(models) != 2 || models[0] != "only" || models[1] != "only" {
		t.Errorf("models tried = %v, want [only only]", models)
	}
}

func TestGenerateCancelledDuringBackoff(t *testing.T) {
	c := NewClient(discardLogger(), Config{Model: "primary", MaxRetries: 3})
	c.call = func(context.Context, string, string) (string, error) {
		return "", errors.New("transient")
	}
	c.sleep = func(ctx context.Context, _ time.Duration) error {
		return context.Canceled
	}

	_, err := c.Generate(context.Background(), "prompt")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Generate() error = %v, want context.Canceled", err)
	}
}

func TestBackoffDelay(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{9, 30 * time.Second},
	}
	for _, tt := range tests {
		if got := backoffDelay(tt.attempt); got != tt.want {
			t.Errorf("backoffDelay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  string
		want failureKind
	}{
		{"googleapi: Error 429: too many requests", failureRateLimited},
		{"Quota exceeded", failureRateLimited},
		{"QUOTA limit reached", failureRateLimited},
		{"connection reset by peer", failureTransient},
		{"googleapi: Error 500: internal error", failureTransient},
		{"deadline exceeded", failureTransient},
	}
	for _, tt := range tests {
		if got := classify(errors.New(tt.err)); got != tt.want {
			t.Errorf("classify(%q) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestNewClientDefaultsMaxRetries(t *testing.T) {
	c := NewClient(discardLogger(), Config{Model: "m"})
	if c.config.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want default 3", c.config.MaxRetries)
	}
}
