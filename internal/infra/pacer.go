// Package infra provides shared infrastructure components for the Confluence uploader.
package infra

import (
	"context"
	"fmt"
	"time"
)

// DefaultPaceDelay is the pause inserted after each mutating page operation.
const DefaultPaceDelay = 300 * time.Millisecond

// Pacer inserts a fixed delay between remote operations so a batch run does
// not overwhelm the content service. The delay never adapts to responses.
type Pacer struct {
	delay time.Duration
	waits int
}

// NewPacer creates a pacer with the given delay. A zero or negative delay
// turns Wait into a context check.
func NewPacer(delay time.Duration) *Pacer {
	if delay < 0 {
		delay = 0
	}
	return &Pacer{delay: delay}
}

// Delay returns the configured pause. A nil Pacer has none.
func (p *Pacer) Delay() time.Duration {
	if p == nil {
		return 0
	}
	return p.delay
}

// Waits returns how many times Wait has been called.
func (p *Pacer) Waits() int {
	if p == nil {
		return 0
	}
	return p.waits
}

// Wait blocks for the configured delay or until ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	p.waits++
	if p.delay == 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context canceled while pacing: %w", ctx.Err())
	}
}
