package usecases

import "strings"

// DefaultChunkSize is the number of words per chunk when none is configured.
const DefaultChunkSize = 250

// SplitText splits text into consecutive windows of chunkSize whitespace-
// delimited words, each joined back with single spaces. The last window may
// be shorter. Windows never overlap and sentence boundaries are ignored;
// splitting mid-sentence is an accepted tradeoff for speed and determinism.
func SplitText(text string, chunkSize int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	words := strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	var chunks []string
	for start := 0; start < len(words); start += chunkSize {
		end := start + chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunk := strings.Join(words[start:end], " ")
		// Fields never yields empty tokens, but the join must not emit
		// an empty segment either.
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		chunks = append(chunks, chunk)
	}

	return chunks
}
