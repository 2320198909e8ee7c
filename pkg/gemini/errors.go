package gemini

import (
	"fmt"
	"strings"
)

// failureKind is the classification of a raw generation error.
type failureKind int

const (
	// failureTransient covers every error we are willing to retry with backoff
	// and model fallback.
	failureTransient failureKind = iota

	// failureRateLimited means the request quota is exhausted. Retrying burns
	// quota for nothing, so this terminates the run immediately.
	failureRateLimited
)

// classify maps a raw API error onto a failure kind. The policy is substring
// based because the SDK surfaces quota errors as text; keeping it in one
// function makes it a testable, swappable unit.
func classify(err error) failureKind {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "429") || strings.Contains(msg, "quota") {
		return failureRateLimited
	}
	return failureTransient
}

// RateLimitError reports request-quota exhaustion. It is fatal: no fallback
// model or backoff can help until the quota resets.
type RateLimitError struct {
	Err error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded: you've reached the request quota for your tier; "+
		"try again tomorrow or consider upgrading at https://ai.google.dev/gemini-api/docs/rate-limits (%v)", e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// ExhaustedError reports that every attempt failed. It names the last error.
type ExhaustedError struct {
	Err      error
	Attempts int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("generation failed after %d attempts, last error: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

// EmptyResponseError means the model answered with no usable text. The raw
// response is preserved rather than discarded.
type EmptyResponseError struct {
	Raw string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("model returned an empty response (raw: %q)", e.Raw)
}
