package transform

import "unicode/utf8"

const (
	charsPerToken = 4
	trimMarker    = "\n\n[...content trimmed to token limit...]"
)

// EstimateTokens approximates the token count as one token per four
// characters.
func EstimateTokens(text string) int {
	return utf8.RuneCountInString(text) / charsPerToken
}

// TrimToTokens cuts text to budget*4 characters and appends a marker when
// the estimate exceeds budget. No summarisation is attempted.
func TrimToTokens(text string, budget int) string {
	if EstimateTokens(text) <= budget {
		return text
	}
	return truncateRunes(text, max(budget, 0)*charsPerToken) + trimMarker
}
