package persona

import (
	"strings"
	"testing"
	"time"

	"github.com/Divyaprakash17/persona-generator/pkg/reddit"
)

func TestRenderDocument(t *testing.T) {
	generatedAt := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	p := &Persona{
		Profile: reddit.AccountProfile{Username: "alice"},
		Text:    "🧑‍💻 Occupation:\n- Software engineer",
		Metadata: Metadata{
			GeneratedAt:      generatedAt,
			ModelUsed:        "gemini-1.5-flash",
			CommentsAnalyzed: 42,
			PostsAnalyzed:    7,
		},
	}

	doc := renderDocument(p)

	if !strings.HasPrefix(doc, "REDDIT USER PERSONA\n"+strings.Repeat("=", 50)) {
		t.Errorf("document missing banner:\n%s", doc[:80])
	}
	for _, want := range []string{
		"🧑‍💻 Occupation:",
		"ANALYSIS METADATA",
		"Generated using gemini-1.5-flash",
		"Generated at: 2025-03-10T14:30:00Z",
		"Comments analyzed: 42",
		"Posts analyzed: 7",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}

	// The persona body comes before the metadata footer.
	if strings.Index(doc, "Occupation") > strings.Index(doc, "ANALYSIS METADATA") {
		t.Error("persona text rendered after the metadata footer")
	}
}
