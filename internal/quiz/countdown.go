package quiz

import (
	"context"
	"time"
)

// Countdown fires once per interval for a single timer generation until
// stopped. Stop does not wait for an in-flight fire, so it is safe to call
// while holding locks that fire itself needs.
type Countdown struct {
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
}

// StartCountdown launches a ticker goroutine calling fire(gen) every interval.
func StartCountdown(parent context.Context, interval time.Duration, gen uint64, fire func(uint64)) *Countdown {
	ctx, cancel := context.WithCancel(parent)
	c := &Countdown{gen: gen, cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(c.done)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				// A tick may race with Stop; the generation check in
				// the machine drops it.
				if ctx.Err() != nil {
					return
				}
				fire(gen)
			}
		}
	}()

	return c
}

// Generation returns the timer generation this countdown serves.
func (c *Countdown) Generation() uint64 {
	return c.gen
}

// Stop cancels the countdown.
func (c *Countdown) Stop() {
	c.cancel()
}

// Done is closed once the ticker goroutine has exited.
func (c *Countdown) Done() <-chan struct{} {
	return c.done
}
