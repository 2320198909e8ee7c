package persona

import (
	"fmt"
	"strings"
	"time"
)

// renderDocument frames the persona text with a banner and a metadata block
// reporting model used, ISO 8601 timestamp, and item counts.
func renderDocument(p *Persona) string {
	var sb strings.Builder

	sb.WriteString("REDDIT USER PERSONA\n")
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")
	sb.WriteString(p.Text)
	sb.WriteString("\n\n")
	sb.WriteString(strings.Repeat("-", 50) + "\n\n")
	sb.WriteString("ANALYSIS METADATA\n\n")
	fmt.Fprintf(&sb, "Generated using %s\n\n", p.Metadata.ModelUsed)
	fmt.Fprintf(&sb, "Generated at: %s\n\n", p.Metadata.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&sb, "Comments analyzed: %d\n\n", p.Metadata.CommentsAnalyzed)
	fmt.Fprintf(&sb, "Posts analyzed: %d\n", p.Metadata.PostsAnalyzed)

	return sb.String()
}
