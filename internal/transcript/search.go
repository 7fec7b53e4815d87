package transcript

import (
	"strings"
	"unicode"
)

// contextRadius is how many words of surrounding context a search match
// carries on each side.
const contextRadius = 5

// SearchMatch is one hit in the word stream: the matched text, its time
// range and the surrounding context.
type SearchMatch struct {
	Word    string  `json:"word"`
	Start   float64 `json:"startTime"`
	End     float64 `json:"endTime"`
	Context string  `json:"context"`
}

// Search scans a timed word stream for an exact word or a multi-word
// phrase, case-insensitive and ignoring surrounding punctuation. A phrase
// match spans from the first word's start to the last word's end. Returns
// nil when the query is blank or nothing matches.
func Search(words []Word, query string) []SearchMatch {
	terms := strings.Fields(strings.ToLower(query))
	if len(words) == 0 || len(terms) == 0 {
		return nil
	}

	var out []SearchMatch
	for i := range words {
		if len(terms) == 1 {
			if bareWord(words[i].Text) != terms[0] {
				continue
			}
			lo, hi := contextWindow(i, i, len(words))
			out = append(out, SearchMatch{
				Word:    words[i].Text,
				Start:   words[i].Start,
				End:     words[i].End,
				Context: joinWords(words[lo : hi+1]),
			})
			continue
		}

		if !phraseAt(words, i, terms) {
			continue
		}
		last := i + len(terms) - 1
		lo, hi := contextWindow(i, last, len(words))
		out = append(out, SearchMatch{
			Word:    strings.Join(terms, " "),
			Start:   words[i].Start,
			End:     words[last].End,
			Context: joinWords(words[lo : hi+1]),
		})
	}
	return out
}

func phraseAt(words []Word, i int, terms []string) bool {
	if i+len(terms) > len(words) {
		return false
	}
	for j, term := range terms {
		if bareWord(words[i+j].Text) != term {
			return false
		}
	}
	return true
}

func contextWindow(first, last, n int) (lo, hi int) {
	lo = max(0, first-contextRadius)
	hi = min(n-1, last+contextRadius)
	return lo, hi
}

// bareWord lowercases a token and strips surrounding punctuation so that
// "show." matches the query "show".
func bareWord(text string) string {
	return strings.ToLower(strings.TrimFunc(text, unicode.IsPunct))
}
