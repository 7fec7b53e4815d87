package transcript

import "testing"

func searchWords() []Word {
	return []Word{
		{Text: "Hello", Start: 0.0, End: 0.4, Speaker: 0},
		{Text: "and", Start: 0.5, End: 0.7, Speaker: 0},
		{Text: "welcome", Start: 0.8, End: 1.2, Speaker: 0},
		{Text: "to", Start: 1.3, End: 1.4, Speaker: 0},
		{Text: "the", Start: 1.5, End: 1.6, Speaker: 0},
		{Text: "show.", Start: 1.7, End: 2.0, Speaker: 0},
		{Text: "Thanks", Start: 2.5, End: 2.8, Speaker: 1},
		{Text: "for", Start: 2.9, End: 3.0, Speaker: 1},
		{Text: "having", Start: 3.1, End: 3.4, Speaker: 1},
		{Text: "me.", Start: 3.5, End: 3.8, Speaker: 1},
	}
}

func TestSearch_SingleWord(t *testing.T) {
	got := Search(searchWords(), "welcome")

	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	if got[0].Word != "welcome" {
		t.Errorf("unexpected word %q", got[0].Word)
	}
	if got[0].Start != 0.8 || got[0].End != 1.2 {
		t.Errorf("unexpected time range %v-%v", got[0].Start, got[0].End)
	}
}

func TestSearch_IgnoresCaseAndPunctuation(t *testing.T) {
	// "show." in the stream matches the query "Show".
	got := Search(searchWords(), "Show")

	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	if got[0].Word != "show." {
		t.Errorf("match should carry the original token, got %q", got[0].Word)
	}
	if got[0].Start != 1.7 {
		t.Errorf("unexpected start %v", got[0].Start)
	}
}

func TestSearch_Phrase(t *testing.T) {
	got := Search(searchWords(), "thanks for having")

	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	if got[0].Word != "thanks for having" {
		t.Errorf("unexpected word %q", got[0].Word)
	}
	// Phrase spans from the first word's start to the last word's end.
	if got[0].Start != 2.5 || got[0].End != 3.4 {
		t.Errorf("unexpected time range %v-%v", got[0].Start, got[0].End)
	}
}

func TestSearch_ContextWindow(t *testing.T) {
	got := Search(searchWords(), "welcome")

	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	// Index 2 with radius 5 clamps to the stream start and reaches index 7.
	want := "Hello and welcome to the show. Thanks for"
	if got[0].Context != want {
		t.Errorf("context = %q, want %q", got[0].Context, want)
	}
}

func TestSearch_MultipleMatches(t *testing.T) {
	words := []Word{
		{Text: "go", Start: 0, End: 0.2},
		{Text: "stop", Start: 0.3, End: 0.5},
		{Text: "go", Start: 0.6, End: 0.8},
	}

	got := Search(words, "go")
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].Start != 0 || got[1].Start != 0.6 {
		t.Errorf("unexpected starts %v, %v", got[0].Start, got[1].Start)
	}
}

func TestSearch_NoResults(t *testing.T) {
	tests := []struct {
		name  string
		words []Word
		query string
	}{
		{"no match", searchWords(), "absent"},
		{"phrase broken mid-way", searchWords(), "thanks for nothing"},
		{"phrase past stream end", searchWords(), "having me again"},
		{"blank query", searchWords(), "   "},
		{"empty query", searchWords(), ""},
		{"no words", nil, "welcome"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Search(tt.words, tt.query); got != nil {
				t.Errorf("expected nil, got %v", got)
			}
		})
	}
}

func TestDocumentWords_SurviveEdits(t *testing.T) {
	doc := NewDocument("s1", nil)
	words := searchWords()
	if _, _, err := doc.Initialize(words, nil, ""); err != nil {
		t.Fatal(err)
	}

	ps := doc.Paragraphs()
	if _, _, err := doc.EditParagraphText(ps[0].ID, "rewritten"); err != nil {
		t.Fatal(err)
	}

	got := doc.Words()
	if len(got) != len(words) {
		t.Fatalf("expected %d words after edit, got %d", len(words), len(got))
	}
	if got[2].Text != "welcome" || got[2].Start != 0.8 {
		t.Errorf("word stream changed: %+v", got[2])
	}
}
