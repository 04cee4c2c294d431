package quiz

// Segment is one aligned phrase pair produced by a translation.
type Segment struct {
	Original        string `json:"original"`
	Translated      string `json:"translated"`
	Transliteration string `json:"transliteration,omitempty"`
}

// Eligible reports whether the segment can be quizzed: both sides must be
// non-empty. Whitespace counts as content.
func (s Segment) Eligible() bool {
	return s.Original != "" && s.Translated != ""
}

// FilterEligible returns the eligible segments in their original order.
func FilterEligible(segments []Segment) []Segment {
	out := make([]Segment, 0, len(segments))
	for _, s := range segments {
		if s.Eligible() {
			out = append(out, s)
		}
	}
	return out
}
