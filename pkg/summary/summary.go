// Package summary renders an account's filtered activity into a bounded text
// block suitable for inclusion in a model prompt.
package summary

import (
	"fmt"
	"strings"
	"time"

	"github.com/Divyaprakash17/persona-generator/pkg/reddit"
)

const (
	// How many items make it into the prompt, newest first.
	maxComments = 15
	maxPosts    = 10

	// Per-item excerpt budgets, in bytes.
	commentExcerptLen = 300
	postExcerptLen    = 200

	dateLayout = "02/01/2006"
)

// FormatForPrompt renders the profile header and the most recent activity.
// Items whose text was filtered away upstream are skipped silently here too,
// so a sentinel body can never leak into the prompt.
func FormatForPrompt(profile reddit.AccountProfile, comments []reddit.Comment, posts []reddit.Post) string {
	var out []string

	out = append(out, fmt.Sprintf("USER: u/%s", profile.Username))
	if profile.CreatedUTC > 0 {
		created := time.Unix(int64(profile.CreatedUTC), 0).UTC()
		out = append(out, fmt.Sprintf("Account created: %s (%s)",
			created.Format(dateLayout), relativeAge(created, time.Now().UTC())))
	}
	out = append(out, fmt.Sprintf("Karma: %d comment, %d post", profile.CommentKarma, profile.LinkKarma))
	out = append(out, "")

	if len(comments) > 0 {
		out = append(out, "=== RECENT COMMENTS ===", "")
		for _, comment := range firstN(comments, maxComments) {
			body := strings.TrimSpace(comment.Body)
			if body == "" {
				continue
			}
			out = append(out,
				fmt.Sprintf("--- Comment in r/%s on %s ---", subredditOrUnknown(comment.Subreddit), itemDate(comment.CreatedUTC)),
				fmt.Sprintf("%q", Truncate(body, commentExcerptLen)),
				"")
		}
	}

	if len(posts) > 0 {
		out = append(out, "=== RECENT POSTS ===", "")
		for _, post := range firstN(posts, maxPosts) {
			title := strings.TrimSpace(post.Title)
			body := strings.TrimSpace(post.SelfText)
			if title == "" && body == "" {
				continue
			}
			out = append(out, fmt.Sprintf("--- Post in r/%s on %s ---", subredditOrUnknown(post.Subreddit), itemDate(post.CreatedUTC)))
			if title != "" {
				out = append(out, fmt.Sprintf("Title: %q", title))
			}
			if body != "" {
				out = append(out, fmt.Sprintf("Content: %q", Truncate(body, postExcerptLen)))
			}
			out = append(out, "")
		}
	}

	return strings.Join(out, "\n")
}

// Truncate cuts text to at most maxLen bytes at a word boundary, appending an
// ellipsis marker. When no space falls within the limit the cut is exact.
func Truncate(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	cut := text[:maxLen]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func itemDate(createdUTC float64) string {
	if createdUTC <= 0 {
		return "Unknown date"
	}
	return time.Unix(int64(createdUTC), 0).UTC().Format(dateLayout)
}

func subredditOrUnknown(name string) string {
	if name == "" {
		return "unknown"
	}
	return name
}

// relativeAge phrases how long ago t was, using the largest sensible unit.
func relativeAge(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff >= 24*time.Hour:
		return fmt.Sprintf("%d days ago", int(diff.Hours()/24))
	case diff >= time.Hour:
		return fmt.Sprintf("%d hours ago", int(diff.Hours()))
	case diff >= time.Minute:
		return fmt.Sprintf("%d minutes ago", int(diff.Minutes()))
	default:
		return fmt.Sprintf("%d seconds ago", int(diff.Seconds()))
	}
}
