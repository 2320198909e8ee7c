package reddit

import (
	"errors"
	"fmt"
)

// Sentinel errors for account resolution. None of these are retryable: the
// pagination retry policy applies only to item fetching, never to the lookup.
var (
	// ErrAccountNotFound means the requested account does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountForbidden means the profile is private or access was denied.
	ErrAccountForbidden = errors.New("account access forbidden")

	// ErrAuthenticationFailed means our own API credentials were rejected.
	ErrAuthenticationFailed = errors.New("authentication failed")
)

// apiError carries the HTTP status and response body of a failed API call so
// callers can classify it. The raw body is preserved for diagnosis.
type apiError struct {
	StatusCode int
	Body       string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("reddit API returned status %d: %s", e.StatusCode, e.Body)
}

// classifyResolutionError maps a raw lookup failure onto the fixed taxonomy.
// Anything that is not a recognized status is wrapped generically; every branch
// keeps the underlying error text.
func classifyResolutionError(username string, err error) error {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 404:
			return fmt.Errorf("u/%s: %w: the profile does not exist: %s", username, ErrAccountNotFound, apiErr.Body)
		case 403:
			return fmt.Errorf("u/%s: %w: the profile may be private or you may be rate limited: %s", username, ErrAccountForbidden, apiErr.Body)
		case 401:
			return fmt.Errorf("%w: check your Reddit API credentials: %s", ErrAuthenticationFailed, apiErr.Body)
		}
	}
	return fmt.Errorf("resolving u/%s: %w", username, err)
}
