package similarity

// Tier is the feedback band a score falls into.
type Tier int

const (
	TierFail Tier = iota
	TierPartial
	TierStrong
)

// Classify maps a score to its feedback tier.
func Classify(score float64) Tier {
	switch {
	case score >= PassThreshold:
		return TierStrong
	case score >= PartialThreshold:
		return TierPartial
	default:
		return TierFail
	}
}

// Passed reports whether the tier counts as a correct answer.
func (t Tier) Passed() bool {
	return t == TierStrong
}

// Message returns the fixed user-facing feedback line for the tier.
func (t Tier) Message() string {
	switch t {
	case TierStrong:
		return "🎉 Woohoo! Nailed it!"
	case TierPartial:
		return "🤔 Almost... try again!"
	default:
		return "😓 Nope! Give it another shot."
	}
}

func (t Tier) String() string {
	switch t {
	case TierStrong:
		return "strong"
	case TierPartial:
		return "partial"
	default:
		return "fail"
	}
}
