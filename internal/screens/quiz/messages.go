package quiz

// tickMsg is one second of countdown for a timer generation.
type tickMsg struct {
	gen uint64
}
