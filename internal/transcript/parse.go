package transcript

import (
	"regexp"
	"strconv"
	"strings"

	"transcript-studio/internal/timecode"
)

var (
	blankLineRe = regexp.MustCompile(`\n\s*\n`)

	// Accepts what Render produces plus minor human-typo variation: the two
	// times may be separated by a dash with arbitrary spacing or by plain
	// whitespace, and the speaker number may have variable padding.
	timeTagRe    = regexp.MustCompile(`^\s*\[(\d{2}:\d{2})(?:\s*-\s*|\s+)(\d{2}:\d{2})\]`)
	speakerTagRe = regexp.MustCompile(`\[Speaker\s+(\d+)\]\s*:`)
)

// Parse splits canonical text on blank-line boundaries and extracts the
// leading time tag and speaker tag from each chunk, producing structured
// paragraphs with fresh IDs. Chunks without tags degrade to untimed,
// unattributed paragraphs; Parse never fails. Empty input normalizes to a
// single empty paragraph so a document is never structurally empty.
func Parse(text string) []Paragraph {
	if strings.TrimSpace(text) == "" {
		return []Paragraph{{ID: newParagraphID(), Speaker: SpeakerUnknown}}
	}

	chunks := blankLineRe.Split(text, -1)
	out := make([]Paragraph, 0, len(chunks))
	for _, chunk := range chunks {
		out = append(out, parseChunk(chunk))
	}
	return out
}

func parseChunk(chunk string) Paragraph {
	p := Paragraph{ID: newParagraphID(), Speaker: SpeakerUnknown}
	rest := chunk

	if m := timeTagRe.FindStringSubmatch(rest); m != nil {
		start, errStart := timecode.Decode(m[1])
		end, errEnd := timecode.Decode(m[2])
		// A malformed time inside a structurally valid tag degrades to an
		// untimed paragraph rather than surfacing an error.
		if errStart == nil && errEnd == nil {
			p.Start = timePtr(start)
			p.End = timePtr(end)
		}
		rest = strings.Replace(rest, m[0], "", 1)
	}

	if m := speakerTagRe.FindStringSubmatch(rest); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 {
			p.Speaker = n - 1 // display numbering is 1-based
		}
		rest = strings.Replace(rest, m[0], "", 1)
	}

	p.Text = strings.TrimSpace(rest)
	return p
}

// CountTags reports how many time tags and speaker tags appear in canonical
// text. Used to audit whether a rewrite collaborator preserved metadata.
func CountTags(text string) (timeTags, speakerTags int) {
	for _, chunk := range blankLineRe.Split(text, -1) {
		if timeTagRe.MatchString(chunk) {
			timeTags++
		}
	}
	speakerTags = len(speakerTagRe.FindAllString(text, -1))
	return timeTags, speakerTags
}
