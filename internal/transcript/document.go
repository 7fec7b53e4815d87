package transcript

import (
	"sync"
)

// TextStore persists the canonical text of a session. Every mutation
// overwrites the previous value under the session key (last-write-wins).
type TextStore interface {
	SaveText(sessionID, text string)
}

// Document owns the paragraph sequence for one editing session and mediates
// every mutation entry point, guaranteeing the text view and the structured
// view never diverge. Thread-safe: mutations are serialized by a mutex
// because each one reads then rewrites the whole sequence.
//
// State transitions:
//
//	UNINITIALIZED → INITIALIZED → EDITED
//	                    ↑            │
//	                    └── ResetToOriginal() (discards all edits)
//
// Rules:
//   - UNINITIALIZED: only Initialize is legal
//   - INITIALIZED: any mutation moves to EDITED
//   - EDITED: sticky; further mutations stay in EDITED
type Document struct {
	mu        sync.Mutex
	sessionID string
	state     State
	store     TextStore

	paragraphs []Paragraph
	canonical  string

	// Original provider output, kept verbatim so ResetToOriginal can
	// re-run segmentation from scratch.
	origWords      []Word
	origParagraphs []ProviderParagraph
	origFallback   string
}

// NewDocument creates a document in UNINITIALIZED state. store may be nil
// when persistence is not wanted (tests, one-shot pipelines).
func NewDocument(sessionID string, store TextStore) *Document {
	return &Document{
		sessionID: sessionID,
		state:     StateUninitialized,
		store:     store,
	}
}

// SessionID returns the owning session's identifier.
func (d *Document) SessionID() string {
	return d.sessionID
}

// State returns the current lifecycle state.
func (d *Document) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// CanonicalText returns the current canonical text. It is regenerated on
// every mutation and is the single source of truth handed to consumers.
func (d *Document) CanonicalText() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.canonical
}

// Paragraphs returns a copy of the current paragraph sequence.
func (d *Document) Paragraphs() []Paragraph {
	d.mu.Lock()
	defer d.mu.Unlock()
	return copyParagraphs(d.paragraphs)
}

// Words returns a copy of the original provider word stream. Empty when
// the provider delivered no word timings. Edits never touch this stream;
// it keeps serving timestamp search after the text has been rewritten.
func (d *Document) Words() []Word {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Word, len(d.origWords))
	copy(out, d.origWords)
	return out
}

// Initialize populates the document from provider output, running the
// segmenter. The provider output is retained for ResetToOriginal.
func (d *Document) Initialize(words []Word, providerParagraphs []ProviderParagraph, fallbackText string) (string, []Paragraph, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != StateUninitialized {
		return "", nil, ErrAlreadyInitialized
	}

	d.origWords = words
	d.origParagraphs = providerParagraphs
	d.origFallback = fallbackText

	d.paragraphs = normalizeNonEmpty(Segment(words, providerParagraphs, fallbackText))
	d.state = StateInitialized
	d.commit()
	return d.canonical, copyParagraphs(d.paragraphs), nil
}

// EditParagraphText replaces one paragraph's text in place, preserving its
// time range and speaker.
func (d *Document) EditParagraphText(id, newText string) (string, []Paragraph, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StateUninitialized {
		return "", nil, ErrUninitialized
	}
	idx := d.indexOf(id)
	if idx < 0 {
		return "", nil, ErrParagraphNotFound
	}

	d.paragraphs[idx].Text = newText
	d.state = StateEdited
	d.commit()
	return d.canonical, copyParagraphs(d.paragraphs), nil
}

// InsertParagraphAfter inserts an empty, untimed, unattributed paragraph
// immediately after the given one.
func (d *Document) InsertParagraphAfter(id string) (string, []Paragraph, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StateUninitialized {
		return "", nil, ErrUninitialized
	}
	idx := d.indexOf(id)
	if idx < 0 {
		return "", nil, ErrParagraphNotFound
	}

	inserted := Paragraph{ID: newParagraphID(), Speaker: SpeakerUnknown}
	d.paragraphs = append(d.paragraphs[:idx+1], append([]Paragraph{inserted}, d.paragraphs[idx+1:]...)...)
	d.state = StateEdited
	d.commit()
	return d.canonical, copyParagraphs(d.paragraphs), nil
}

// DeleteParagraph removes the paragraph, unless it is the only one, in which
// case its text is cleared instead. A document always contains at least one
// paragraph.
func (d *Document) DeleteParagraph(id string) (string, []Paragraph, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StateUninitialized {
		return "", nil, ErrUninitialized
	}
	idx := d.indexOf(id)
	if idx < 0 {
		return "", nil, ErrParagraphNotFound
	}

	if len(d.paragraphs) == 1 {
		d.paragraphs[0].Text = ""
	} else {
		d.paragraphs = append(d.paragraphs[:idx], d.paragraphs[idx+1:]...)
	}
	d.state = StateEdited
	d.commit()
	return d.canonical, copyParagraphs(d.paragraphs), nil
}

// ApplyExternalRewrite replaces the paragraph sequence wholesale with the
// parse of text returned by the rewrite collaborator. Tags the collaborator
// dropped degrade silently per the parser's contract.
func (d *Document) ApplyExternalRewrite(canonicalText string) (string, []Paragraph, error) {
	return d.replaceFromText(canonicalText)
}

// RestoreFromPersistedText replaces the paragraph sequence with the parse of
// previously persisted canonical text, used when resuming a session.
func (d *Document) RestoreFromPersistedText(canonicalText string) (string, []Paragraph, error) {
	return d.replaceFromText(canonicalText)
}

func (d *Document) replaceFromText(text string) (string, []Paragraph, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StateUninitialized {
		return "", nil, ErrUninitialized
	}

	d.paragraphs = Parse(text)
	d.state = StateEdited
	d.commit()
	return d.canonical, copyParagraphs(d.paragraphs), nil
}

// ResetToOriginal discards all edits and recomputes paragraphs from the
// originally stored provider output, returning the document to INITIALIZED.
func (d *Document) ResetToOriginal() (string, []Paragraph, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StateUninitialized {
		return "", nil, ErrUninitialized
	}
	if len(d.origWords) == 0 && len(d.origParagraphs) == 0 && d.origFallback == "" {
		return "", nil, ErrNoOriginalAvailable
	}

	d.paragraphs = normalizeNonEmpty(Segment(d.origWords, d.origParagraphs, d.origFallback))
	d.state = StateInitialized
	d.commit()
	return d.canonical, copyParagraphs(d.paragraphs), nil
}

// commit regenerates the canonical text and persists it. Callers must hold
// d.mu.
func (d *Document) commit() {
	d.canonical = Render(d.paragraphs)
	if d.store != nil {
		d.store.SaveText(d.sessionID, d.canonical)
	}
}

func (d *Document) indexOf(id string) int {
	for i := range d.paragraphs {
		if d.paragraphs[i].ID == id {
			return i
		}
	}
	return -1
}

// normalizeNonEmpty upholds the "a document always has at least one
// paragraph" invariant for empty segmenter output.
func normalizeNonEmpty(ps []Paragraph) []Paragraph {
	if len(ps) == 0 {
		return []Paragraph{{ID: newParagraphID(), Speaker: SpeakerUnknown}}
	}
	return ps
}

func copyParagraphs(ps []Paragraph) []Paragraph {
	out := make([]Paragraph, len(ps))
	copy(out, ps)
	return out
}
