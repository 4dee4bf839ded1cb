package fx

import (
	"fmt"
	"math"
	"time"
)

// DefaultFrameRate is the frame rate used for both preview and export.
const DefaultFrameRate = 30

const (
	minFrameRate = 1
	maxFrameRate = 100
)

// Limits on settings that lengthen the loop.  MaxFrames bounds every
// derived timeline.
const (
	MaxFrames  = 6000
	MinSpeed   = 0.01
	MaxPhaseMs = 60000
)

// BounceFrames is the length of the stamp bounce phase.  Preview and export
// use the same value so their output matches.
const BounceFrames = 8

// Timeline describes one loop of an animation.
type Timeline struct {
	Frames  int
	DelayMs int
}

// Delay returns the time each frame is displayed.
func (t Timeline) Delay() time.Duration {
	return time.Duration(t.DelayMs) * time.Millisecond
}

// Duration returns the length of one loop.
func (t Timeline) Duration() time.Duration {
	return time.Duration(t.Frames) * t.Delay()
}

// DeriveTimeline computes the loop length and frame delay for s at the given
// frame rate.  The result depends only on its arguments.
func DeriveTimeline(s Settings, rate int) (Timeline, error) {
	e, err := lookup(s)
	if err != nil {
		return Timeline{}, err
	}
	if rate < minFrameRate || rate > maxFrameRate {
		return Timeline{}, fmt.Errorf("%w: %d not in [%d, %d]", ErrFrameRate, rate, minFrameRate, maxFrameRate)
	}
	if err := s.Validate(); err != nil {
		return Timeline{}, err
	}
	frames := max(1, e.frames(s, rate))
	if frames > MaxFrames {
		return Timeline{}, fmt.Errorf("%w: %d frames exceed %d", ErrInvalidSettings, frames, MaxFrames)
	}
	return Timeline{Frames: frames, DelayMs: 1000 / rate}, nil
}

// cycleFrames is the loop length of the periodic effects.  One cycle lasts
// 2/speed seconds.
func cycleFrames(speed float64, rate int) int {
	return max(1, int(math.Round(float64(rate)*2/speed)))
}

// msFrames converts a duration in milliseconds to whole frames, rounding down.
func msFrames(ms float64, rate int) int {
	return int(math.Floor(ms * float64(rate) / 1000))
}

// StampPhases holds the frame counts of each phase of the stamp effect.
type StampPhases struct {
	Empty   int
	Descent int
	Bounce  int
	Hold    int
}

// Total returns the number of frames in one stamp cycle.
func (p StampPhases) Total() int {
	return p.Empty + p.Descent + p.Bounce + p.Hold
}

// PhasesOf returns the phase lengths of the stamp effect at the given frame
// rate.
func PhasesOf(s StampSettings, rate int) StampPhases {
	return StampPhases{
		Empty:   max(0, s.EmptyFrames),
		Descent: max(1, msFrames(s.DurationMs, rate)),
		Bounce:  BounceFrames,
		Hold:    max(0, msFrames(s.HoldMs, rate)),
	}
}
