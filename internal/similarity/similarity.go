// Package similarity grades free-text answers against an expected phrase.
package similarity

import "strings"

const (
	// PassThreshold is the minimum score counted as a correct answer.
	PassThreshold = 0.7

	// PartialThreshold is the minimum score counted as a near miss.
	PartialThreshold = 0.4
)

// Score returns the Jaccard similarity of the whitespace-delimited word sets
// of candidate and reference, after trimming and lowercasing. Either side
// being empty scores 0.
func Score(candidate, reference string) float64 {
	a := wordSet(candidate)
	b := wordSet(reference)
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

func wordSet(s string) map[string]struct{} {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil
	}
	words := strings.Fields(s)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
