// Package rewrite cleans up transcript text with a Gemini model while
// preserving the inline time and speaker tags verbatim.
package rewrite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

const rewritePrompt = `You are an editor cleaning up a speech-to-text transcript.

Rules:
- Fix punctuation, capitalization and obvious recognition mistakes
- Remove filler words and stutters, keep the meaning intact
- The text contains tags of the form [MM:SS - MM:SS] and [Speaker N]:
  Keep every tag EXACTLY as written, character for character. Never add,
  remove, merge or renumber tags
- Keep the paragraph structure: paragraphs are separated by blank lines
- Answer in the same language as the transcript

Return ONLY a JSON object with two fields:
{"text": "<the cleaned transcript with all tags preserved>", "summary": "<a short summary of the content, a few sentences>"}

Transcript:
---
%s
---`

var (
	// ErrNoKeys is returned when the rewriter has no API keys configured.
	ErrNoKeys = errors.New("rewrite: no API keys configured")

	// ErrEmptyText is returned when there is nothing to rewrite.
	ErrEmptyText = errors.New("rewrite: empty text")

	// ErrBadResponse is returned when no JSON object can be extracted
	// from the model output.
	ErrBadResponse = errors.New("rewrite: unparsable model response")
)

// Result is the outcome of a rewrite call.
type Result struct {
	Text    string `json:"text"`
	Summary string `json:"summary"`
}

// Rewriter calls Gemini to polish transcript text. Multiple API keys may
// be configured; the rewriter rotates to the next key on quota errors.
// Safe for concurrent use: the key cursor is shared across requests and
// guarded by mu.
type Rewriter struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int
	model      string
}

// New creates a Rewriter. Rotation order follows the key slice order.
func New(apiKeys []string, model string) (*Rewriter, error) {
	keys := make([]string, 0, len(apiKeys))
	for _, k := range apiKeys {
		if strings.TrimSpace(k) != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil, ErrNoKeys
	}
	return &Rewriter{apiKeys: keys, model: model}, nil
}

// Rewrite sends the transcript to Gemini and parses the JSON reply.
// Rotates API keys on 429 / quota errors.
func (r *Rewriter) Rewrite(ctx context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	prompt := fmt.Sprintf(rewritePrompt, text)

	attempts := len(r.apiKeys)
	var lastErr error

	for range attempts {
		key, keyIdx := r.activeKey()

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			r.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, r.model, genai.Text(prompt), nil)
		if err != nil {
			errMsg := err.Error()
			if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
				log.Warn().Int("key", keyIdx+1).Msg("Rewrite key rate limited, rotating")
				r.rotateKey()
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("generate content: %w", err)
		}

		raw := collectText(result)
		if raw == "" {
			return nil, errors.New("rewrite: empty response from model")
		}

		return parseModelOutput(raw)
	}

	return nil, fmt.Errorf("all API keys exhausted: %w", lastErr)
}

// activeKey returns the current key and its index under the lock.
func (r *Rewriter) activeKey() (string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.apiKeys[r.currentKey], r.currentKey
}

func (r *Rewriter) rotateKey() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.currentKey = (r.currentKey + 1) % len(r.apiKeys)
}

func collectText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}
	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	return text
}

var (
	jsonFenceRe = regexp.MustCompile("(?s)```json\\s*(.*?)```")
	fenceRe     = regexp.MustCompile("(?s)```\\s*(.*?)```")
	objectRe    = regexp.MustCompile(`(?s)\{.*\}`)
)

// parseModelOutput extracts the {text, summary} object from a model reply.
// Models wrap JSON in markdown fences often enough that a fallback chain
// is needed: raw JSON, then a json fence, then any fence, then the first
// brace-delimited object in the reply.
func parseModelOutput(raw string) (*Result, error) {
	candidates := []string{strings.TrimSpace(raw)}

	if m := jsonFenceRe.FindStringSubmatch(raw); m != nil {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	if m := fenceRe.FindStringSubmatch(raw); m != nil {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	if m := objectRe.FindString(raw); m != "" {
		candidates = append(candidates, m)
	}

	for _, c := range candidates {
		var res Result
		if err := json.Unmarshal([]byte(c), &res); err == nil && res.Text != "" {
			return &res, nil
		}
	}

	return nil, ErrBadResponse
}
