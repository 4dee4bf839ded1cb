package fx

import (
	"fmt"
	"strings"
)

// Kind identifies an effect.
type Kind string

const (
	KindRotate Kind = "rotate"
	KindStamp  Kind = "stamp"
	KindShake  Kind = "shake"
	KindGlow   Kind = "glow"
	KindWave   Kind = "wave"
)

// Kinds returns every supported effect kind in canonical order.
func Kinds() []Kind {
	return []Kind{KindRotate, KindStamp, KindShake, KindGlow, KindWave}
}

// ParseKind parses an effect name, ignoring case.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := registry[k]; !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Next returns the kind that follows k in canonical order, wrapping around.
func (k Kind) Next() Kind {
	kinds := Kinds()
	for i, other := range kinds {
		if other == k {
			return kinds[(i+1)%len(kinds)]
		}
	}
	return kinds[0]
}

// Settings holds the parameters of exactly one effect.  The dynamic type of a
// Settings value determines its Kind, so a settings value can never be paired
// with the wrong effect.  The set of implementations is closed.
type Settings interface {
	Kind() Kind
	// Validate returns an error wrapping ErrInvalidSettings if a parameter is
	// out of range.
	Validate() error
	// Transparent reports whether the effect leaves the background of the
	// canvas transparent.
	Transparent() bool

	settings()
}

type RotateDirection string

const (
	RotateLeft  RotateDirection = "left"
	RotateRight RotateDirection = "right"
	RotateUp    RotateDirection = "up"
	RotateDown  RotateDirection = "down"
)

type Background string

const (
	BackgroundTransparent Background = "transparent"
	BackgroundCustom      Background = "custom"
)

type RotateSettings struct {
	Direction  RotateDirection `yaml:"direction"`
	Speed      float64         `yaml:"speed"`
	Background Background      `yaml:"background"`
	Color      RGB             `yaml:"color"`
}

func (RotateSettings) Kind() Kind { return KindRotate }
func (RotateSettings) settings()  {}

func (s RotateSettings) Transparent() bool {
	return s.Background != BackgroundCustom
}

func (s RotateSettings) Validate() error {
	switch s.Direction {
	case RotateLeft, RotateRight, RotateUp, RotateDown:
	default:
		return invalid("rotate direction %q", s.Direction)
	}
	if !(s.Speed >= MinSpeed) {
		return invalid("rotate speed %v below %v", s.Speed, MinSpeed)
	}
	switch s.Background {
	case BackgroundTransparent, BackgroundCustom:
	default:
		return invalid("rotate background %q", s.Background)
	}
	return nil
}

type StampSettings struct {
	Angle        float64 `yaml:"angle"`
	EmptyFrames  int     `yaml:"empty_frames"`
	HoldMs       float64 `yaml:"hold_ms"`
	InitialScale float64 `yaml:"initial_scale"`
	BounceScale  float64 `yaml:"bounce_scale"`
	DurationMs   float64 `yaml:"duration_ms"`
}

func (StampSettings) Kind() Kind        { return KindStamp }
func (StampSettings) Transparent() bool { return true }
func (StampSettings) settings()         {}

func (s StampSettings) Validate() error {
	switch {
	case s.Angle < -45 || s.Angle > 45:
		return invalid("stamp angle %v outside [-45, 45]", s.Angle)
	case s.EmptyFrames < 0 || s.EmptyFrames > MaxFrames:
		return invalid("stamp empty frames %d outside [0, %d]", s.EmptyFrames, MaxFrames)
	case !(s.HoldMs >= 0 && s.HoldMs <= MaxPhaseMs):
		return invalid("stamp hold %vms outside [0, %v]", s.HoldMs, MaxPhaseMs)
	case !(s.InitialScale > 1):
		return invalid("stamp initial scale must exceed 1, got %v", s.InitialScale)
	case !(s.BounceScale > 1):
		return invalid("stamp bounce scale must exceed 1, got %v", s.BounceScale)
	case !(s.DurationMs > 0 && s.DurationMs <= MaxPhaseMs):
		return invalid("stamp duration %vms outside (0, %v]", s.DurationMs, MaxPhaseMs)
	}
	return nil
}

type ShakeDirection string

const (
	ShakeHorizontal ShakeDirection = "horizontal"
	ShakeVertical   ShakeDirection = "vertical"
	ShakeBoth       ShakeDirection = "both"
)

type ShakeSettings struct {
	Direction ShakeDirection `yaml:"direction"`
	Intensity float64        `yaml:"intensity"`
	Speed     float64        `yaml:"speed"`
	Frequency float64        `yaml:"frequency"`
}

func (ShakeSettings) Kind() Kind        { return KindShake }
func (ShakeSettings) Transparent() bool { return true }
func (ShakeSettings) settings()         {}

func (s ShakeSettings) Validate() error {
	switch s.Direction {
	case ShakeHorizontal, ShakeVertical, ShakeBoth:
	default:
		return invalid("shake direction %q", s.Direction)
	}
	switch {
	case s.Intensity < 0:
		return invalid("shake intensity must not be negative")
	case !(s.Speed >= MinSpeed):
		return invalid("shake speed %v below %v", s.Speed, MinSpeed)
	case !(s.Frequency > 0):
		return invalid("shake frequency must be positive, got %v", s.Frequency)
	}
	return nil
}

type GlowMode string

const (
	GlowBrightness GlowMode = "brightness"
	GlowRainbow    GlowMode = "rainbow"
	GlowPulse      GlowMode = "pulse"
)

type GlowSettings struct {
	Mode       GlowMode `yaml:"mode"`
	Speed      float64  `yaml:"speed"`
	Intensity  float64  `yaml:"intensity"`
	Color      RGB      `yaml:"color"`
	MinOpacity float64  `yaml:"min_opacity"`
	MaxOpacity float64  `yaml:"max_opacity"`
}

func (GlowSettings) Kind() Kind        { return KindGlow }
func (GlowSettings) Transparent() bool { return true }
func (GlowSettings) settings()         {}

func (s GlowSettings) Validate() error {
	switch s.Mode {
	case GlowBrightness, GlowRainbow, GlowPulse:
	default:
		return invalid("glow mode %q", s.Mode)
	}
	switch {
	case !(s.Speed >= MinSpeed):
		return invalid("glow speed %v below %v", s.Speed, MinSpeed)
	case s.Intensity < 0:
		return invalid("glow intensity must not be negative")
	case s.MinOpacity < 0 || s.MinOpacity > 1:
		return invalid("glow min opacity %v outside [0, 1]", s.MinOpacity)
	case s.MaxOpacity < 0 || s.MaxOpacity > 1:
		return invalid("glow max opacity %v outside [0, 1]", s.MaxOpacity)
	case s.MinOpacity > s.MaxOpacity:
		return invalid("glow min opacity exceeds max opacity")
	}
	return nil
}

type WaveType string

const (
	WaveHorizontal WaveType = "horizontal"
	WaveVertical   WaveType = "vertical"
	WaveCircular   WaveType = "circular"
)

type WaveSettings struct {
	Type       WaveType `yaml:"type"`
	Amplitude  float64  `yaml:"amplitude"`
	Count      float64  `yaml:"count"`
	Speed      float64  `yaml:"speed"`
	Distortion float64  `yaml:"distortion"`
	// Slice is the thickness in pixels of the strips the image is cut into.
	// Circular waves use square cells twice this size.
	Slice int `yaml:"slice"`
}

func (WaveSettings) Kind() Kind        { return KindWave }
func (WaveSettings) Transparent() bool { return true }
func (WaveSettings) settings()         {}

func (s WaveSettings) Validate() error {
	switch s.Type {
	case WaveHorizontal, WaveVertical, WaveCircular:
	default:
		return invalid("wave type %q", s.Type)
	}
	switch {
	case s.Amplitude < 0:
		return invalid("wave amplitude must not be negative")
	case !(s.Count > 0):
		return invalid("wave count must be positive, got %v", s.Count)
	case !(s.Speed >= MinSpeed):
		return invalid("wave speed %v below %v", s.Speed, MinSpeed)
	case s.Distortion < 0 || s.Distortion > 1:
		return invalid("wave distortion %v outside [0, 1]", s.Distortion)
	case s.Slice < 1:
		return invalid("wave slice must be at least 1 pixel")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidSettings}, args...)...)
}
