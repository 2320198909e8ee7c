package reddit

import "strings"

// Bodies Reddit substitutes for moderator-removed and author-deleted content.
const (
	removedSentinel = "[removed]"
	deletedSentinel = "[deleted]"
)

// Usable reports whether an item's primary text carries analyzable content.
// Missing, blank, removed, and deleted text is rejected; everything else passes.
func Usable(text string) bool {
	trimmed := strings.TrimSpace(text)
	return trimmed != "" && trimmed != removedSentinel && trimmed != deletedSentinel
}
