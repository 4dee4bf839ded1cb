package fx

import (
	"errors"
	"fmt"
)

// Frame locates a frame within the loop of an animation.
type Frame struct {
	Index    int
	Timeline Timeline
	Rate     int
}

// Progress returns Index/Frames, the fraction of the loop elapsed at the
// start of the frame.
func (f Frame) Progress() float64 {
	if f.Timeline.Frames <= 0 {
		return 0
	}
	return float64(f.Index) / float64(f.Timeline.Frames)
}

type effect struct {
	defaults func() Settings
	frames   func(s Settings, rate int) int
	render   func(c *Canvas, src *Image, s Settings, f Frame)
}

// register adapts the typed functions of one effect into a registry entry.
func register[S Settings](defaults S, frames func(S, int) int, render func(*Canvas, *Image, S, Frame)) effect {
	return effect{
		defaults: func() Settings { return defaults },
		frames:   func(s Settings, rate int) int { return frames(s.(S), rate) },
		render:   func(c *Canvas, src *Image, s Settings, f Frame) { render(c, src, s.(S), f) },
	}
}

var registry = map[Kind]effect{
	KindRotate: register(RotateSettings{
		Direction:  RotateRight,
		Speed:      1,
		Background: BackgroundTransparent,
		Color:      RGB{},
	}, func(s RotateSettings, rate int) int { return cycleFrames(s.Speed, rate) }, renderRotate),

	KindStamp: register(StampSettings{
		Angle:        15,
		EmptyFrames:  5,
		HoldMs:       500,
		InitialScale: 2.5,
		BounceScale:  1.15,
		DurationMs:   400,
	}, func(s StampSettings, rate int) int { return PhasesOf(s, rate).Total() }, renderStamp),

	KindShake: register(ShakeSettings{
		Direction: ShakeHorizontal,
		Intensity: 10,
		Speed:     1,
		Frequency: 8,
	}, func(s ShakeSettings, rate int) int { return cycleFrames(s.Speed, rate) }, renderShake),

	KindGlow: register(GlowSettings{
		Mode:       GlowBrightness,
		Speed:      1,
		Intensity:  1.5,
		Color:      RGB{R: 0xff, G: 0xff},
		MinOpacity: 0.3,
		MaxOpacity: 1,
	}, func(s GlowSettings, rate int) int { return cycleFrames(s.Speed, rate) }, renderGlow),

	KindWave: register(WaveSettings{
		Type:       WaveHorizontal,
		Amplitude:  10,
		Count:      3,
		Speed:      1,
		Distortion: 0.5,
		Slice:      2,
	}, func(s WaveSettings, rate int) int { return cycleFrames(s.Speed, rate) }, renderWave),
}

// Defaults returns the default settings of an effect.
func Defaults(k Kind) (Settings, error) {
	e, ok := registry[k]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, k)
	}
	return e.defaults(), nil
}

func lookup(s Settings) (effect, error) {
	if s == nil {
		return effect{}, fmt.Errorf("%w: no settings", ErrInvalidSettings)
	}
	e, ok := registry[s.Kind()]
	if !ok {
		return effect{}, fmt.Errorf("%w %q", ErrUnknownKind, s.Kind())
	}
	return e, nil
}

// Render paints frame index of the effect described by s onto c.  The caller
// clears the canvas beforehand.  The index is expected to lie in the loop
// returned by DeriveTimeline; renderers do not reduce it.
func Render(c *Canvas, src *Image, s Settings, index, rate int) error {
	if c == nil {
		return errors.New("fx: nil canvas")
	}
	if src == nil {
		return ErrNoImage
	}
	e, err := lookup(s)
	if err != nil {
		return err
	}
	tl, err := DeriveTimeline(s, rate)
	if err != nil {
		return err
	}
	e.render(c, src, s, Frame{Index: index, Timeline: tl, Rate: rate})
	return nil
}
