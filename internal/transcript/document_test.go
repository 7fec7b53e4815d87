package transcript

import (
	"strings"
	"sync"
	"testing"
)

type recordingStore struct {
	mu    sync.Mutex
	saves []string
}

func (s *recordingStore) SaveText(sessionID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves = append(s.saves, text)
}

func (s *recordingStore) last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.saves) == 0 {
		return ""
	}
	return s.saves[len(s.saves)-1]
}

func initializedDoc(t *testing.T, store TextStore) *Document {
	t.Helper()
	doc := NewDocument("sess-1", store)
	words := []Word{
		{Text: "Hello", Start: 0, End: 0.5, Speaker: 0},
		{Text: "world.", Start: 0.5, End: 1.0, Speaker: 0},
		{Text: "Hi", Start: 3.0, End: 3.3, Speaker: 1},
	}
	if _, _, err := doc.Initialize(words, nil, ""); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return doc
}

func TestDocument_InitialState(t *testing.T) {
	doc := NewDocument("sess-1", nil)

	if doc.State() != StateUninitialized {
		t.Errorf("expected StateUninitialized, got %v", doc.State())
	}
	if _, _, err := doc.EditParagraphText("x", "y"); err != ErrUninitialized {
		t.Errorf("expected ErrUninitialized, got %v", err)
	}
	if _, _, err := doc.ApplyExternalRewrite("text"); err != ErrUninitialized {
		t.Errorf("expected ErrUninitialized, got %v", err)
	}
	if _, _, err := doc.ResetToOriginal(); err != ErrUninitialized {
		t.Errorf("expected ErrUninitialized, got %v", err)
	}
}

func TestDocument_Initialize(t *testing.T) {
	doc := initializedDoc(t, nil)

	if doc.State() != StateInitialized {
		t.Errorf("expected StateInitialized, got %v", doc.State())
	}
	ps := doc.Paragraphs()
	if len(ps) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(ps))
	}
	if !strings.Contains(doc.CanonicalText(), "[Speaker 1]: Hello world.") {
		t.Errorf("unexpected canonical text: %q", doc.CanonicalText())
	}

	if _, _, err := doc.Initialize(nil, nil, "again"); err != ErrAlreadyInitialized {
		t.Errorf("expected ErrAlreadyInitialized, got %v", err)
	}
}

func TestDocument_EditParagraphText(t *testing.T) {
	store := &recordingStore{}
	doc := initializedDoc(t, store)
	ps := doc.Paragraphs()

	text, updated, err := doc.EditParagraphText(ps[0].ID, "Hello edited world.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.State() != StateEdited {
		t.Errorf("expected StateEdited, got %v", doc.State())
	}
	if updated[0].Text != "Hello edited world." {
		t.Errorf("text not replaced: %q", updated[0].Text)
	}
	// Time and speaker survive a text edit.
	if updated[0].Speaker != ps[0].Speaker || *updated[0].Start != *ps[0].Start {
		t.Error("time/speaker must be preserved by a text edit")
	}
	// The same ID survives the edit.
	if updated[0].ID != ps[0].ID {
		t.Error("paragraph ID must be stable across edits")
	}
	// Mutation persisted the fresh canonical text.
	if store.last() != text {
		t.Error("store must hold the freshly rendered canonical text")
	}

	if _, _, err := doc.EditParagraphText("missing", "x"); err != ErrParagraphNotFound {
		t.Errorf("expected ErrParagraphNotFound, got %v", err)
	}
}

func TestDocument_InsertParagraphAfter(t *testing.T) {
	doc := initializedDoc(t, nil)
	ps := doc.Paragraphs()

	_, updated, err := doc.InsertParagraphAfter(ps[0].ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d", len(updated))
	}
	inserted := updated[1]
	if inserted.Text != "" || inserted.Start != nil || inserted.End != nil || inserted.Speaker != SpeakerUnknown {
		t.Errorf("inserted paragraph must be empty and untimed: %+v", inserted)
	}
	if updated[2].ID != ps[1].ID {
		t.Error("following paragraphs must keep their order and IDs")
	}
}

func TestDocument_DeleteParagraph(t *testing.T) {
	doc := initializedDoc(t, nil)
	ps := doc.Paragraphs()

	_, updated, err := doc.DeleteParagraph(ps[0].ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated) != 1 {
		t.Fatalf("expected 1 paragraph, got %d", len(updated))
	}
	if updated[0].ID != ps[1].ID {
		t.Error("wrong paragraph removed")
	}
}

func TestDocument_DeleteLastParagraph_ClearsInstead(t *testing.T) {
	doc := NewDocument("sess-1", nil)
	if _, _, err := doc.Initialize(nil, nil, "only paragraph"); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	ps := doc.Paragraphs()
	if len(ps) != 1 {
		t.Fatalf("expected 1 paragraph, got %d", len(ps))
	}

	_, updated, err := doc.DeleteParagraph(ps[0].ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated) != 1 {
		t.Fatalf("expected 1 paragraph after deleting the last one, got %d", len(updated))
	}
	if updated[0].Text != "" {
		t.Errorf("expected cleared text, got %q", updated[0].Text)
	}
}

func TestDocument_ApplyExternalRewrite(t *testing.T) {
	store := &recordingStore{}
	doc := initializedDoc(t, store)

	rewritten := "[00:00 - 00:01] [Speaker 1]: Hello, corrected world.\n\n[00:03 - 00:03] [Speaker 2]: Hi."
	text, updated, err := doc.ApplyExternalRewrite(rewritten)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(updated))
	}
	if updated[0].Text != "Hello, corrected world." {
		t.Errorf("unexpected text: %q", updated[0].Text)
	}
	if updated[0].Speaker != 0 || updated[1].Speaker != 1 {
		t.Error("speaker tags must survive the rewrite round trip")
	}
	if text != doc.CanonicalText() {
		t.Error("returned text must equal current canonical text")
	}
	if store.last() != text {
		t.Error("rewrite must persist the new canonical text")
	}
}

func TestDocument_RestoreFromPersistedText(t *testing.T) {
	doc := initializedDoc(t, nil)

	_, updated, err := doc.RestoreFromPersistedText("[00:10 - 00:20] [Speaker 1]: restored")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated) != 1 || updated[0].Text != "restored" {
		t.Errorf("unexpected paragraphs: %+v", updated)
	}
	if doc.State() != StateEdited {
		t.Errorf("expected StateEdited, got %v", doc.State())
	}
}

func TestDocument_ResetToOriginal(t *testing.T) {
	doc := initializedDoc(t, nil)
	ps := doc.Paragraphs()
	original := doc.CanonicalText()

	if _, _, err := doc.EditParagraphText(ps[0].ID, "mangled"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if doc.CanonicalText() == original {
		t.Fatal("edit should have changed canonical text")
	}

	text, _, err := doc.ResetToOriginal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != original {
		t.Errorf("reset must reproduce the original segmentation output:\ngot  %q\nwant %q", text, original)
	}
	if doc.State() != StateInitialized {
		t.Errorf("expected StateInitialized after reset, got %v", doc.State())
	}
}

func TestDocument_EditedIsSticky(t *testing.T) {
	doc := initializedDoc(t, nil)
	ps := doc.Paragraphs()

	if _, _, err := doc.EditParagraphText(ps[0].ID, "a"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := doc.InsertParagraphAfter(ps[0].ID); err != nil {
		t.Fatal(err)
	}
	if doc.State() != StateEdited {
		t.Errorf("expected StateEdited to stick, got %v", doc.State())
	}
}

func TestDocument_LastWriteWinsInStore(t *testing.T) {
	store := &recordingStore{}
	doc := initializedDoc(t, store)
	ps := doc.Paragraphs()

	doc.EditParagraphText(ps[0].ID, "one")
	doc.EditParagraphText(ps[0].ID, "two")

	if !strings.Contains(store.last(), "two") {
		t.Errorf("store must hold the latest mutation, got %q", store.last())
	}
}

func TestDocument_ConcurrentMutations(t *testing.T) {
	doc := initializedDoc(t, &recordingStore{})
	ps := doc.Paragraphs()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc.EditParagraphText(ps[0].ID, "concurrent")
			doc.CanonicalText()
		}()
	}
	wg.Wait()

	if doc.Paragraphs()[0].Text != "concurrent" {
		t.Error("unexpected text after concurrent edits")
	}
}
