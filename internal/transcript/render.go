package transcript

import (
	"fmt"
	"strings"

	"transcript-studio/internal/timecode"
)

// Render serializes a paragraph sequence into the canonical text form:
// paragraphs joined by one blank line, each prefixed with a
// "[MM:SS - MM:SS] " time tag when both times are known and a
// "[Speaker N]: " tag when the speaker is known (N is 1-based for display).
// This string is the contract surface for editing, AI rewriting,
// persistence, and export; Parse is its inverse.
func Render(paragraphs []Paragraph) string {
	parts := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		parts = append(parts, renderParagraph(p))
	}
	return strings.Join(parts, "\n\n")
}

func renderParagraph(p Paragraph) string {
	var b strings.Builder
	if p.Timed() {
		fmt.Fprintf(&b, "[%s - %s] ", timecode.Encode(*p.Start), timecode.Encode(*p.End))
	}
	if p.Speaker >= 0 {
		fmt.Fprintf(&b, "[Speaker %d]: ", p.Speaker+1)
	}
	b.WriteString(p.Text)
	return strings.TrimRight(b.String(), " ")
}
