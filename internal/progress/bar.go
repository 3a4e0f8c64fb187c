// Package progress renders terminal progress bars for the worker binaries.
package progress

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Bar is a visual progress indicator with percentage, step messages and an
// estimated completion time. Safe for concurrent updates.
type Bar struct {
	total            int64
	current          int64
	width            int
	mu               sync.Mutex
	lastUpdate       time.Time
	message          string
	stepMessage      string
	stepStart        time.Time
	overallStart     time.Time
	overallDurations []time.Duration
}

// NewBar creates a progress bar with a total value to track progress against,
// a width in characters for the visual bar, and a message describing the
// overall operation.
func NewBar(total int64, width int, message string) *Bar {
	now := time.Now()

	return &Bar{
		total:        total,
		width:        width,
		lastUpdate:   now,
		message:      message,
		stepStart:    now,
		overallStart: now,
	}
}

// Increment adds to the current progress value, capping at the total.
func (b *Bar) Increment(n int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = min(b.current+n, b.total)
}

// SetTotal updates the total value that represents 100% progress.
func (b *Bar) SetTotal(total int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.total = total
}

// SetCurrent directly sets the current progress value, capping at total.
func (b *Bar) SetCurrent(current int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = min(current, b.total)
}

// SetMessage updates the overall operation description.
func (b *Bar) SetMessage(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.message = message
}

// SetStepMessage updates the current step description, moves progress to the
// given value and resets the step timer.
func (b *Bar) SetStepMessage(message string, progress int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stepMessage = message
	b.stepStart = time.Now()
	b.current = min(progress, b.total)
}

// String generates the visual progress bar with percentage complete, current
// step message and duration, overall duration and ETA. Updates are
// rate-limited to 100ms to prevent screen flicker.
func (b *Bar) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if time.Since(b.lastUpdate) < 100*time.Millisecond {
		return ""
	}

	b.lastUpdate = time.Now()

	percent := float64(b.current) / float64(b.total)
	filled := int(percent * float64(b.width))
	bar := strings.Repeat("=", filled) + strings.Repeat("-", b.width-filled)

	stepDuration := time.Since(b.stepStart).Round(time.Second)
	overallDuration := time.Since(b.overallStart).Round(time.Second)

	return fmt.Sprintf("\r%s [%s] %.1f%% | %s (%s) | Overall: %s (ETA: %s)",
		b.message, bar, percent*100, b.stepMessage, stepDuration,
		overallDuration, b.calculateETA())
}

// calculateETA estimates completion time from previous iteration durations.
// Returns "0s" if no duration history is available.
func (b *Bar) calculateETA() string {
	if len(b.overallDurations) == 0 {
		return "0s"
	}

	var totalDuration time.Duration
	for _, duration := range b.overallDurations {
		totalDuration += duration
	}

	eta := totalDuration / time.Duration(len(b.overallDurations))

	return eta.Round(time.Second).String()
}

// Reset prepares the bar for a new iteration by storing the previous
// iteration's duration and resetting progress counters and timers. A rolling
// window of past durations feeds the ETA calculation.
func (b *Bar) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.overallDurations) >= 10 {
		b.overallDurations = b.overallDurations[1:]
	}

	b.overallDurations = append(b.overallDurations, time.Since(b.overallStart))

	now := time.Now()
	b.current = 0
	b.lastUpdate = now
	b.stepMessage = ""
	b.stepStart = now
	b.overallStart = now
}
