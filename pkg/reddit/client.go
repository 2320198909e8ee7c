// Package reddit implements a rate-limited, read-only Reddit API client for
// collecting a single account's public activity.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/codeGROOVE-dev/retry"
)

const (
	defaultAPIBase  = "https://oauth.reddit.com"
	defaultAuthBase = "https://www.reddit.com/api/v1/access_token"
	permalinkBase   = "https://reddit.com"
)

// Credentials holds the app-only OAuth credentials. Reddit rejects requests
// without a descriptive User-Agent, so all three fields are required.
type Credentials struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
}

// Client is a read-only Reddit API client. All outbound calls go through a
// Pacer, so a single Client never exceeds the configured request spacing.
type Client struct {
	logger     *slog.Logger
	httpClient *http.Client
	cachedDo   func(context.Context, *http.Request) (*http.Response, error)
	pacer      *Pacer
	creds      Credentials

	apiBase  string
	authBase string

	sleep func(context.Context, time.Duration) error

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a Reddit API client. httpClient may be nil for a default
// 30s-timeout client; cachedDo may be nil to send GETs straight to httpClient.
func NewClient(logger *slog.Logger, httpClient *http.Client, creds Credentials, cachedDo func(context.Context, *http.Request) (*http.Response, error)) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		logger:     logger,
		httpClient: httpClient,
		cachedDo:   cachedDo,
		pacer:      NewPacer(DefaultRequestInterval),
		creds:      creds,
		apiBase:    defaultAPIBase,
		authBase:   defaultAuthBase,
		sleep:      sleepContext,
	}
}

// canonicalUsername strips "u/" and "/u/" markers and surrounding whitespace.
func canonicalUsername(username string) string {
	name := strings.TrimSpace(username)
	name = strings.TrimPrefix(name, "/u/")
	name = strings.TrimPrefix(name, "u/")
	return strings.TrimSpace(name)
}

// Resolve looks up an account and returns its profile snapshot. Lookup
// failures are classified (not found, forbidden, bad credentials) and are
// never retried here; retries apply only to item fetching.
func (c *Client) Resolve(ctx context.Context, username string) (*AccountProfile, error) {
	name := canonicalUsername(username)
	if name == "" {
		return nil, fmt.Errorf("username is empty")
	}

	body, err := c.get(ctx, "/user/"+url.PathEscape(name)+"/about", nil)
	if err != nil {
		return nil, classifyResolutionError(name, err)
	}

	var about aboutResponse
	if err := json.Unmarshal(body, &about); err != nil {
		return nil, fmt.Errorf("decoding profile for u/%s: %w", name, err)
	}

	profile := &AccountProfile{
		Username:         name,
		CreatedUTC:       about.Data.CreatedUTC,
		CommentKarma:     about.Data.CommentKarma,
		LinkKarma:        about.Data.LinkKarma,
		HasVerifiedEmail: about.Data.HasVerifiedEmail,
		IsGold:           about.Data.IsGold,
		IsMod:            about.Data.IsMod,
		IsEmployee:       about.Data.IsEmployee,
	}
	if about.Data.Name != "" {
		profile.Username = about.Data.Name
	}

	c.logger.Info("resolved account",
		"username", profile.Username,
		"comment_karma", profile.CommentKarma,
		"link_karma", profile.LinkKarma)
	return profile, nil
}

// authenticate obtains an app-only OAuth token, reusing a cached token until
// it expires. Token fetch is the one place transport-level retries live; the
// fetch session has its own attempt policy.
func (c *Client) authenticate(ctx context.Context) (string, error) {
	c.mu.Lock()
	token, expiry := c.accessToken, c.tokenExpiry
	c.mu.Unlock()
	if token != "" && time.Now().Before(expiry) {
		return token, nil
	}

	c.logger.Info("authenticating with Reddit API")

	var authResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
		TokenType   string `json:"token_type"`
	}

	err := retry.Do(
		func() error {
			form := url.Values{}
			form.Set("grant_type", "client_credentials")

			req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authBase, strings.NewReader(form.Encode()))
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("creating auth request: %w", err))
			}
			req.SetBasicAuth(c.creds.ClientID, c.creds.ClientSecret)
			req.Header.Set("User-Agent", c.creds.UserAgent)
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := resp.Body.Close(); closeErr != nil {
					c.logger.Debug("failed to close auth response body", "error", closeErr)
				}
			}()

			body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
			if readErr != nil {
				return fmt.Errorf("reading auth response: %w", readErr)
			}
			if resp.StatusCode != http.StatusOK {
				err := fmt.Errorf("auth request failed with status %d: %s", resp.StatusCode, string(body))
				// Bad credentials won't improve with retries.
				if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
					return retry.Unrecoverable(err)
				}
				return err
			}
			if err := json.Unmarshal(body, &authResp); err != nil {
				return fmt.Errorf("decoding auth response: %w", err)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(4),
		retry.Delay(time.Second),
		retry.MaxDelay(30*time.Second),
		retry.DelayType(retry.FullJitterBackoffDelay),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("retrying Reddit auth", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}

	c.mu.Lock()
	c.accessToken = authResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(authResp.ExpiresIn) * time.Second)
	c.mu.Unlock()

	c.logger.Info("authenticated with Reddit API", "expires_in_sec", authResp.ExpiresIn)
	return authResp.AccessToken, nil
}

// get performs a single paced, authenticated GET and returns the response
// body. Non-200 responses come back as an *apiError with the body preserved.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	token, err := c.authenticate(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.pacer.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	endpoint := c.apiBase + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.creds.UserAgent)
	req.Header.Set("Accept", "application/json")

	var resp *http.Response
	if c.cachedDo != nil {
		resp, err = c.cachedDo(ctx, req)
	} else {
		resp, err = c.httpClient.Do(req)
	}
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("failed to close response body", "error", closeErr)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &apiError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
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
