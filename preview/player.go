// Package preview plays effects continuously on a Surface such as an ANSI
// terminal.
package preview

import (
	"context"
	"image"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bmatsuo/img2anim/fx"
)

const DefaultMaxSize = 600

// Surface displays rendered frames.
type Surface interface {
	Present(image.Image) error
}

// Player renders frames of the current effect on a Surface at the frame rate
// of the effect timeline.  Changing the image, effect or settings restarts
// the animation from its first frame.
//
// The methods of a Player may be called concurrently with Run.
type Player struct {
	surface Surface
	rate    int
	maxSize int
	square  bool
	logger  *log.Logger

	mu       sync.Mutex
	src      *fx.Image
	settings fx.Settings
	canvas   *fx.Canvas
	frame    uint64
	playing  bool
	restart  bool
	wake     chan struct{}
}

// Option configures a Player.
type Option func(*Player)

func WithFrameRate(rate int) Option {
	return func(p *Player) { p.rate = rate }
}

// WithMaxSize bounds the longer side of the canvas.
func WithMaxSize(n int) Option {
	return func(p *Player) {
		if n > 0 {
			p.maxSize = n
		}
	}
}

func WithSquare(square bool) Option {
	return func(p *Player) { p.square = square }
}

func WithLogger(logger *log.Logger) Option {
	return func(p *Player) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPlayer returns a playing Player with no scene.
func NewPlayer(surface Surface, opts ...Option) *Player {
	p := &Player{
		surface: surface,
		rate:    fx.DefaultFrameRate,
		maxSize: DefaultMaxSize,
		logger:  log.New(io.Discard),
		playing: true,
		wake:    make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetScene replaces the image and the settings.
func (p *Player) SetScene(src *fx.Image, s fx.Settings) error {
	if src == nil {
		return fx.ErrNoImage
	}
	tl, err := fx.DeriveTimeline(s, p.rate)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.src = src
	p.canvas = fx.NewCanvas(fx.CanvasSize(src.Width(), src.Height(), p.maxSize, p.square))
	p.setSettings(s, tl)
	return nil
}

// SetSettings replaces the settings, keeping the image.
func (p *Player) SetSettings(s fx.Settings) error {
	tl, err := fx.DeriveTimeline(s, p.rate)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setSettings(s, tl)
	return nil
}

// SetKind switches to the default settings of effect k.
func (p *Player) SetKind(k fx.Kind) error {
	s, err := fx.Defaults(k)
	if err != nil {
		return err
	}
	return p.SetSettings(s)
}

func (p *Player) setSettings(s fx.Settings, tl fx.Timeline) {
	p.settings = s
	p.frame = 0
	p.restart = true
	p.logger.Debug("scene changed", "effect", s.Kind(), "frames", tl.Frames, "delay_ms", tl.DelayMs)
	p.notify()
}

// Settings returns the current settings, or nil before the first scene.
func (p *Player) Settings() fx.Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings
}

// Pause stops advancing frames.  The frame counter is kept so Resume
// continues where the animation stopped.
func (p *Player) Pause() {
	p.setPlaying(false)
}

func (p *Player) Resume() {
	p.setPlaying(true)
}

// Toggle pauses a playing Player and resumes a paused one.  It returns
// whether the Player is playing afterwards.
func (p *Player) Toggle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.switchPlaying(!p.playing)
	return p.playing
}

func (p *Player) setPlaying(playing bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.switchPlaying(playing)
}

func (p *Player) switchPlaying(playing bool) {
	if p.playing == playing {
		return
	}
	p.playing = playing
	if playing {
		p.logger.Debug("resumed", "frame", p.frame)
	} else {
		p.logger.Debug("paused", "frame", p.frame)
	}
	p.notify()
}

func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Frame returns the number of frames shown since the last scene change.
func (p *Player) Frame() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frame
}

// Timeline returns the timeline of the current settings.
func (p *Player) Timeline() (fx.Timeline, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.timeline()
}

func (p *Player) timeline() (fx.Timeline, error) {
	if p.settings == nil {
		return fx.Timeline{}, fx.ErrNoImage
	}
	return fx.DeriveTimeline(p.settings, p.rate)
}

// Step renders and presents the next frame, whether or not the Player is
// paused.
func (p *Player) Step() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.src == nil || p.settings == nil {
		return fx.ErrNoImage
	}
	tl, err := p.timeline()
	if err != nil {
		return err
	}
	index := int(p.frame % uint64(tl.Frames))
	p.canvas.Reset()
	if err := fx.Render(p.canvas, p.src, p.settings, index, p.rate); err != nil {
		return err
	}
	if err := p.surface.Present(p.canvas.Image()); err != nil {
		return err
	}
	p.frame++
	return nil
}

func (p *Player) notify() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// state returns what Run needs to schedule the next frame and clears the
// restart flag.
func (p *Player) state() (delay time.Duration, playing, restart bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if tl, err := p.timeline(); err == nil {
		delay = tl.Delay()
	}
	playing, restart = p.playing, p.restart
	p.restart = false
	return delay, playing && p.src != nil && delay > 0, restart
}

// Run presents frames until ctx is done.  A scene change presents its first
// frame immediately and restarts the frame clock.  Run returns nil when ctx
// is done or the error of a frame that failed.
func (p *Player) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Hour)
	ticker.Stop()
	defer ticker.Stop()
	var tick <-chan time.Time

	schedule := func() error {
		delay, playing, restart := p.state()
		if !playing {
			ticker.Stop()
			tick = nil
			return nil
		}
		ticker.Reset(delay)
		tick = ticker.C
		if restart {
			return p.Step()
		}
		return nil
	}
	if err := schedule(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-p.wake:
			if err := schedule(); err != nil {
				return err
			}
		case <-tick:
			if err := p.Step(); err != nil {
				return err
			}
		}
	}
}
