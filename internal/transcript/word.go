// Package transcript implements the paragraph/metadata reconciliation engine:
// segmenting a timed word stream into paragraphs, rendering paragraphs to the
// canonical tagged text form, parsing that form back after free-form edits,
// and keeping both views consistent across every mutation path.
package transcript

import "github.com/google/uuid"

// SpeakerUnknown marks a paragraph or word without speaker attribution.
const SpeakerUnknown = -1

// Word is one recognized token as returned by a transcription provider.
// Text carries provider punctuation. Immutable once received.
type Word struct {
	Text       string  `json:"text"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Speaker    int     `json:"speaker"`
	Confidence float64 `json:"confidence"`
}

// ProviderParagraph is a provider-supplied grouping hint. Paragraphs are
// non-overlapping and time-ordered. Used only to pick boundaries.
type ProviderParagraph struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker int     `json:"speaker"`
}

// Paragraph is the unit of editing and export. Start/End are nil when no
// timing is known (e.g. a manually inserted paragraph). Speaker is
// SpeakerUnknown when no attribution is known. ID is opaque and stable
// across edits; it is not part of the serialized contract.
type Paragraph struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Start   *float64 `json:"start"`
	End     *float64 `json:"end"`
	Speaker int      `json:"speaker"`
}

// Timed reports whether the paragraph carries a full time range.
func (p Paragraph) Timed() bool {
	return p.Start != nil && p.End != nil
}

func newParagraphID() string {
	return uuid.NewString()
}

func timePtr(v float64) *float64 {
	return &v
}
