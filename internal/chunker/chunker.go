// Package chunker splits raw document text into bounded-length,
// sentence-aligned segments for embedding and retrieval.
package chunker

import (
	"regexp"
	"strings"
)

// DefaultMaxLen is the default chunk size limit in characters.
const DefaultMaxLen = 1000

// Sentence boundary: terminal punctuation followed by whitespace.
var sentenceSplitter = regexp.MustCompile(`([.!?])\s+`)

// Chunk splits text into chunks of at most maxLen characters, built
// from whole sentences. Sentences are accumulated greedily; a chunk is
// flushed when appending the next sentence would exceed maxLen. A
// single sentence longer than maxLen is emitted verbatim as one
// oversized chunk rather than split mid-word. Empty input yields nil.
//
// The function is pure: no I/O, deterministic output.
func Chunk(text string, maxLen int) []string {
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}

	text = strings.ReplaceAll(text, "\r", "")

	var parts []string
	var buf string
	for _, s := range splitSentences(text) {
		candidate := strings.TrimSpace(buf + " " + s)
		if len(candidate) > maxLen {
			if buf != "" {
				parts = append(parts, strings.TrimSpace(buf))
			}
			buf = s
		} else {
			buf = candidate
		}
	}
	if trimmed := strings.TrimSpace(buf); trimmed != "" {
		parts = append(parts, trimmed)
	}
	return parts
}

// splitSentences cuts text at sentence-ending punctuation followed by
// whitespace, keeping the punctuation with the preceding sentence.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for _, loc := range sentenceSplitter.FindAllStringSubmatchIndex(text, -1) {
		// loc[3] is the end of the punctuation group
		sentences = append(sentences, text[start:loc[3]])
		start = loc[1]
	}
	if start < len(text) {
		sentences = append(sentences, text[start:])
	}
	return sentences
}
