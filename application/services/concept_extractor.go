package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/danja/semem-go/application/ports"
	"go.uber.org/zap"
)

// conceptExtractionPrompt is the fixed instruction sent to the chat
// provider (§4.B). Model output is expected to contain a JSON array of
// concept strings, possibly preceded by prose.
const conceptExtractionPrompt = "Extract the key concepts (people, places, organizations, topics) mentioned in the following text. " +
	"Respond with a JSON array of short concept strings and nothing else.\n\nText:\n"

// ConceptExtractor parses LLM output into a clean list of concept strings
// (§4.B).
type ConceptExtractor struct {
	chat   ports.ChatProvider
	logger *zap.Logger
}

// NewConceptExtractor binds the chat provider used to extract concepts.
func NewConceptExtractor(chat ports.ChatProvider, logger *zap.Logger) *ConceptExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConceptExtractor{chat: chat, logger: logger}
}

// Extract implements extract(text) -> [string]. It never returns an error:
// malformed output yields an empty slice plus a logged warning (§4.B, §7
// class 4 parse errors).
func (e *ConceptExtractor) Extract(ctx context.Context, text string) []string {
	response, err := e.chat.GenerateResponse(ctx, conceptExtractionPrompt+text, nil)
	if err != nil {
		e.logger.Warn("concept extraction chat call failed", zap.Error(err))
		return []string{}
	}

	raw := salvageJSONArray(response)
	if raw == nil {
		e.logger.Warn("concept extractor could not locate a JSON array in model output", zap.String("response", truncate(response, 200)))
		return []string{}
	}

	return normalize(raw)
}

// salvageJSONArray finds the first top-level JSON array in s, tolerating
// leading prose such as "[JSON] [\"a\",\"b\"]" or "Here are the concepts:
// [...]" (§4.B). Returns nil if no array parses.
func salvageJSONArray(s string) []string {
	start := strings.IndexByte(s, '[')
	for start != -1 {
		depth := 0
		for i := start; i < len(s); i++ {
			switch s[i] {
			case '[':
				depth++
			case ']':
				depth--
				if depth == 0 {
					candidate := s[start : i+1]
					var values []string
					if err := json.Unmarshal([]byte(candidate), &values); err == nil {
						return values
					}
					goto nextStart
				}
			}
		}
	nextStart:
		next := strings.IndexByte(s[start+1:], '[')
		if next == -1 {
			break
		}
		start = start + 1 + next
	}
	return nil
}

// normalize trims, lower-cases, deduplicates, and filters concepts to
// length >= 2 (§4.B).
func normalize(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, c := range raw {
		n := strings.ToLower(strings.TrimSpace(c))
		if len(n) < 2 || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
