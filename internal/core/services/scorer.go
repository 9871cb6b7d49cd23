package services

import "strings"

// minTokenLength is the shortest query token that carries signal.
// Tokens at or below this length are stopword-ish noise ("a", "is", "to").
const minTokenLength = 2

// TokenizeQuestion lowercases the question, splits it on whitespace and
// drops tokens too short to carry signal. A question made entirely of
// short tokens yields an empty slice, which scores 0 against every chunk.
func TokenizeQuestion(question string) []string {
	fields := strings.Fields(strings.ToLower(question))

	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if len(field) > minTokenLength {
			tokens = append(tokens, field)
		}
	}
	return tokens
}

// ScoreChunk computes the keyword relevance of a chunk against the
// tokenized question: the sum of case-insensitive substring occurrences
// of each token, divided by the token count. Normalising by token count
// keeps scores comparable across questions of different lengths.
//
// Matching is substring-based, so a token matches inside longer words
// ("fox" matches "foxes"). A score of 0 means no token appears anywhere
// in the chunk.
func ScoreChunk(content string, tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}

	lower := strings.ToLower(content)

	total := 0
	for _, token := range tokens {
		total += strings.Count(lower, token)
	}

	return float64(total) / float64(len(tokens))
}
