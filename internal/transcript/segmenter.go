package transcript

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// pauseThreshold is the silence gap, in seconds, that forces a paragraph
// break in the heuristic segmenter.
const pauseThreshold = 1.0

// noSpaceBefore lists leading characters that glue a word to its
// predecessor without a separating space.
var noSpaceBefore = map[byte]bool{
	',': true, '.': true, '!': true, '?': true,
	':': true, ';': true, ')': true, ']': true,
}

// Segment groups a word stream into paragraphs. Provider-supplied paragraph
// boundaries are trusted when present; otherwise a pause/punctuation
// heuristic is applied. When no words are available at all, fallbackText
// becomes a single untimed paragraph. Output preserves input time order.
func Segment(words []Word, providerParagraphs []ProviderParagraph, fallbackText string) []Paragraph {
	switch {
	case len(providerParagraphs) > 0 && len(words) > 0:
		return segmentByProvider(words, providerParagraphs)
	case len(words) > 0:
		return segmentByHeuristic(words)
	case fallbackText != "":
		return []Paragraph{{
			ID:      newParagraphID(),
			Text:    fallbackText,
			Speaker: SpeakerUnknown,
		}}
	default:
		return nil
	}
}

// segmentByProvider selects the words inside each provider boundary, groups
// them by speaker in order of first appearance with a newline between runs,
// and reports the speaker who contributed the most words as the paragraph's
// speaker.
func segmentByProvider(words []Word, pps []ProviderParagraph) []Paragraph {
	out := make([]Paragraph, 0, len(pps))

	for _, pp := range pps {
		var selected []Word
		for _, w := range words {
			if w.Start >= pp.Start && w.End <= pp.End {
				selected = append(selected, w)
			}
		}

		var speakerOrder []int
		runs := make(map[int][]Word)
		for _, w := range selected {
			if _, seen := runs[w.Speaker]; !seen {
				speakerOrder = append(speakerOrder, w.Speaker)
			}
			runs[w.Speaker] = append(runs[w.Speaker], w)
		}

		var b strings.Builder
		primary := SpeakerUnknown
		maxWords := 0
		for i, sp := range speakerOrder {
			if i > 0 {
				// Speaker runs inside one paragraph stay on separate lines.
				b.WriteByte('\n')
			}
			b.WriteString(joinWords(runs[sp]))
			if len(runs[sp]) > maxWords {
				maxWords = len(runs[sp])
				primary = sp
			}
		}

		out = append(out, Paragraph{
			ID:      newParagraphID(),
			Text:    strings.TrimSpace(b.String()),
			Start:   timePtr(pp.Start),
			End:     timePtr(pp.End),
			Speaker: primary,
		})
	}

	return out
}

// segmentByHeuristic breaks the word stream on sentence-terminal punctuation
// followed by a capitalized word, or on pauses longer than pauseThreshold.
func segmentByHeuristic(words []Word) []Paragraph {
	var groups [][]Word
	current := []Word{words[0]}

	for i := 1; i < len(words); i++ {
		prev := words[i-1]
		cur := words[i]

		sentenceBreak := endsSentence(prev.Text) && startsCapitalized(cur.Text)
		longPause := cur.Start-prev.End > pauseThreshold

		if sentenceBreak || longPause {
			groups = append(groups, current)
			current = nil
		}
		current = append(current, cur)
	}
	groups = append(groups, current)

	out := make([]Paragraph, 0, len(groups))
	for _, g := range groups {
		out = append(out, Paragraph{
			ID:      newParagraphID(),
			Text:    joinWords(g),
			Start:   timePtr(g[0].Start),
			End:     timePtr(g[len(g)-1].End),
			Speaker: primarySpeaker(g),
		})
	}
	return out
}

// joinWords concatenates word texts with single spaces, except that a word
// beginning with closing punctuation attaches directly to its predecessor.
func joinWords(words []Word) string {
	var b strings.Builder
	for i, w := range words {
		if i > 0 && !(len(w.Text) > 0 && noSpaceBefore[w.Text[0]]) {
			b.WriteByte(' ')
		}
		b.WriteString(w.Text)
	}
	return b.String()
}

// primarySpeaker returns the most frequent speaker in the group, ties broken
// by first encounter.
func primarySpeaker(words []Word) int {
	counts := make(map[int]int)
	var order []int
	for _, w := range words {
		if _, seen := counts[w.Speaker]; !seen {
			order = append(order, w.Speaker)
		}
		counts[w.Speaker]++
	}

	primary := SpeakerUnknown
	max := 0
	for _, sp := range order {
		if counts[sp] > max {
			max = counts[sp]
			primary = sp
		}
	}
	return primary
}

func endsSentence(text string) bool {
	if text == "" {
		return false
	}
	switch text[len(text)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}

func startsCapitalized(text string) bool {
	if utf8.RuneCountInString(text) <= 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text)
	return unicode.IsUpper(r)
}
