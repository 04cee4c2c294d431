package quiz

import "errors"

// Soft errors returned alongside an unchanged (or reset) snapshot. None of
// them indicate a broken session; presenters may ignore them.
var (
	// ErrNoEligibleSegments means Initialize found nothing to quiz on.
	ErrNoEligibleSegments = errors.New("quiz: no eligible segments")

	// ErrInvalidTransition means the event does not apply to the current state.
	ErrInvalidTransition = errors.New("quiz: invalid transition")

	// ErrEmptyAnswer means a free-text submission was blank.
	ErrEmptyAnswer = errors.New("quiz: empty answer")

	// ErrSessionClosed is returned by Session.Dispatch after Close.
	ErrSessionClosed = errors.New("quiz: session closed")
)
