package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"time"
)

const (
	// maxFetchAttempts bounds how many pages a fetch session may request.
	maxFetchAttempts = 5

	// maxPageSize is Reddit's listing cap per request.
	maxPageSize = 100

	// fetchBackoffUnit scales the linear inter-attempt delay: 5s, 10s, 15s, ...
	// Deliberately distinct from the generation client's exponential policy.
	fetchBackoffUnit = 5 * time.Second
)

// fetchSession tracks one paginated collection run. It terminates when the
// requested limit is reached or the attempt ceiling is exhausted; transient
// page failures degrade to whatever was collected, they never fail the run.
type fetchSession struct {
	limit    int
	attempts int
}

// pageSize over-fetches to compensate for filtered-out items.
func (s *fetchSession) pageSize() int {
	size := 2 * s.limit
	if size > maxPageSize {
		size = maxPageSize
	}
	return size
}

func (s *fetchSession) done(collected int) bool {
	return collected >= s.limit || s.attempts >= maxFetchAttempts
}

// backoff returns the linear delay before the next attempt.
func (s *fetchSession) backoff() time.Duration {
	return time.Duration(s.attempts) * fetchBackoffUnit
}

// FetchComments collects up to limit usable comments for an account, newest
// first. The returned slice never exceeds limit. The error is non-nil only
// when the context is cancelled; fetch failures degrade to partial results.
func (c *Client) FetchComments(ctx context.Context, username string, limit int) ([]Comment, error) {
	if limit <= 0 {
		return nil, nil
	}

	session := &fetchSession{limit: limit}
	var comments []Comment

	for {
		session.attempts++
		body, err := c.listingPage(ctx, username, "comments", session.pageSize())
		switch {
		case isContextErr(err):
			return comments, err
		case err != nil:
			c.logger.Warn("comment page fetch failed",
				"username", username, "attempt", session.attempts, "error", err)
		default:
			// Each attempt requests a fresh page, so rebuild rather than
			// append: the new page supersedes any earlier partial parse.
			comments = comments[:0]
			for _, child := range body.Data.Children {
				var d commentData
				if err := json.Unmarshal(child.Data, &d); err != nil {
					c.logger.Warn("skipping malformed comment", "error", err)
					continue
				}
				if !Usable(d.Body) {
					continue
				}
				comments = append(comments, Comment{
					ID:          d.ID,
					Body:        d.Body,
					Subreddit:   d.Subreddit,
					Score:       d.Score,
					CreatedUTC:  d.CreatedUTC,
					Permalink:   permalinkBase + d.Permalink,
					IsSubmitter: d.IsSubmitter,
				})
				if len(comments) >= limit {
					break
				}
			}
		}

		if session.done(len(comments)) {
			break
		}
		delay := session.backoff()
		c.logger.Info("retrying comment fetch",
			"username", username,
			"collected", len(comments), "wanted", limit,
			"attempt", session.attempts, "delay", delay)
		if err := c.sleep(ctx, delay); err != nil {
			return comments, err
		}
	}

	if len(comments) > limit {
		comments = comments[:limit]
	}
	c.logger.Info("fetched comments", "username", username, "count", len(comments), "limit", limit)
	return comments, nil
}

// FetchPosts collects up to limit usable posts for an account, newest first.
// Same session policy as FetchComments; posts are filtered on their title.
func (c *Client) FetchPosts(ctx context.Context, username string, limit int) ([]Post, error) {
	if limit <= 0 {
		return nil, nil
	}

	session := &fetchSession{limit: limit}
	var posts []Post

	for {
		session.attempts++
		body, err := c.listingPage(ctx, username, "submitted", session.pageSize())
		switch {
		case isContextErr(err):
			return posts, err
		case err != nil:
			c.logger.Warn("post page fetch failed",
				"username", username, "attempt", session.attempts, "error", err)
		default:
			posts = posts[:0]
			for _, child := range body.Data.Children {
				var d postData
				if err := json.Unmarshal(child.Data, &d); err != nil {
					c.logger.Warn("skipping malformed post", "error", err)
					continue
				}
				if !Usable(d.Title) {
					continue
				}
				posts = append(posts, Post{
					ID:          d.ID,
					Title:       d.Title,
					SelfText:    d.SelfText,
					Subreddit:   d.Subreddit,
					Score:       d.Score,
					NumComments: d.NumComments,
					CreatedUTC:  d.CreatedUTC,
					Permalink:   permalinkBase + d.Permalink,
					URL:         d.URL,
				})
				if len(posts) >= limit {
					break
				}
			}
		}

		if session.done(len(posts)) {
			break
		}
		delay := session.backoff()
		c.logger.Info("retrying post fetch",
			"username", username,
			"collected", len(posts), "wanted", limit,
			"attempt", session.attempts, "delay", delay)
		if err := c.sleep(ctx, delay); err != nil {
			return posts, err
		}
	}

	if len(posts) > limit {
		posts = posts[:limit]
	}
	c.logger.Info("fetched posts", "username", username, "count", len(posts), "limit", limit)
	return posts, nil
}

// isContextErr reports whether err stems from cancellation rather than the
// platform; cancellation aborts the session instead of counting as a retry.
func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// listingPage requests one newest-first page of the account's activity feed.
func (c *Client) listingPage(ctx context.Context, username, feed string, pageSize int) (*listingResponse, error) {
	query := url.Values{
		"limit": {strconv.Itoa(pageSize)},
		"sort":  {"new"},
	}
	raw, err := c.get(ctx, "/user/"+url.PathEscape(username)+"/"+feed, query)
	if err != nil {
		return nil, err
	}
	var listing listingResponse
	if err := json.Unmarshal(raw, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}
