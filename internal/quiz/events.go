package quiz

// Event is an input to the state machine.
type Event interface {
	event()
}

// Initialize loads a new segment list and starts a fresh run.
type Initialize struct {
	Segments []Segment
}

// SubmitAnswer records a multiple-choice selection.
type SubmitAnswer struct {
	Choice string
}

// Advance moves past an answered multiple-choice question.
type Advance struct{}

// Retry reshuffles the current segments and starts over.
type Retry struct{}

// ToggleHint shows or hides the transliteration hint.
type ToggleHint struct{}

// Tick is one second of countdown for the given timer generation.
type Tick struct {
	Generation uint64
}

// TimerExpire forces the current timed question to time out.
type TimerExpire struct {
	Generation uint64
}

// SubmitFreeText grades a typed answer in timed mode.
type SubmitFreeText struct {
	Text string
}

// SetInput updates the free-text input buffer.
type SetInput struct {
	Text string
}

// Previous steps back one question in timed mode.
type Previous struct{}

// SetDirection switches between forward and reverse prompting.
type SetDirection struct {
	Direction Direction
}

func (Initialize) event()     {}
func (SubmitAnswer) event()   {}
func (Advance) event()        {}
func (Retry) event()          {}
func (ToggleHint) event()     {}
func (Tick) event()           {}
func (TimerExpire) event()    {}
func (SubmitFreeText) event() {}
func (SetInput) event()       {}
func (Previous) event()       {}
func (SetDirection) event()   {}
