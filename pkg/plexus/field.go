package plexus

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/lao-tseu-is-alive/go-plexus/pkg/geometry"
	"github.com/tochemey/goakt/v3/log"
)

var ErrNoSurface = errors.New("plexus: drawing surface is required")

// Field owns the points, the configuration and the shared tick.
// A Field is not safe for concurrent use: one goroutine (usually a
// FieldActor) must own it.
type Field struct {
	surface Surface
	cfg     Config
	opt     Optimized
	points  []*Point

	rng    *rand.Rand
	logger log.Logger

	now    time.Duration
	closed bool
}

type options struct {
	cfg       Config
	overrides map[string]any
	rng       *rand.Rand
	logger    log.Logger
}

type Option func(*options)

// WithConfig replaces the default configuration as the base for overrides.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithOverrides merges a partial configuration over the base one.
func WithOverrides(overrides map[string]any) Option {
	return func(o *options) { o.overrides = overrides }
}

// WithRand sets the random source used for spawning, delays and targets.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithSeed is WithRand with a PCG source seeded from seed.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New creates a field drawing on surface, fits the surface to its container
// when it supports it, and spawns the point grid.
func New(surface Surface, opts ...Option) (*Field, error) {
	if surface == nil {
		return nil, ErrNoSurface
	}
	o := options{
		cfg:    *DefaultConfig(),
		logger: log.DiscardLogger,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	cfg, err := o.cfg.Merge(o.overrides)
	if err != nil {
		return nil, err
	}
	f := &Field{
		surface: surface,
		rng:     o.rng,
		logger:  o.logger,
	}
	if err := f.SetConfig(cfg); err != nil {
		return nil, err
	}

	if fitter, ok := surface.(Fitter); ok {
		fitter.Fit()
	}
	f.Spawn()
	return f, nil
}

// Configure merges overrides over the current configuration and refreshes
// the optimized view. On error the field keeps its previous configuration.
func (f *Field) Configure(overrides map[string]any) error {
	cfg, err := f.cfg.Merge(overrides)
	if err != nil {
		return err
	}
	if err := f.SetConfig(cfg); err != nil {
		return err
	}
	f.logger.Debugf("plexus reconfigured: %d keys, line colour %s", len(overrides), f.opt.LineColorCSS)
	return nil
}

// SetConfig replaces the whole configuration.
func (f *Field) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	opt, err := cfg.Optimize()
	if err != nil {
		return err
	}
	f.cfg = cfg
	f.opt = opt
	return nil
}

func (f *Field) Config() Config       { return f.cfg }
func (f *Field) Optimized() Optimized { return f.opt }

// Points returns the field's points in collection order. The slice is shared.
func (f *Field) Points() []*Point { return f.points }

// Now is the field clock: the sum of every Step duration so far.
func (f *Field) Now() time.Duration { return f.now }

func (f *Field) Closed() bool { return f.closed }

// Spawn lays points on a grid of PointsStartDistance covering the surface,
// each jittered by up to PointsStartNoise on both axes.
func (f *Field) Spawn() {
	w, h := f.surface.Size()
	spacing := f.cfg.PointsStartDistance

	for i := 0; float64(i)*spacing <= w; i++ {
		x := float64(i) * spacing
		for j := 0; float64(j)*spacing <= h; j++ {
			y := float64(j) * spacing
			pos := geometry.Vector2D{
				X: x + float64(geometry.RandomInt(f.rng, 0, f.cfg.PointsStartNoise)),
				Y: y + float64(geometry.RandomInt(f.rng, 0, f.cfg.PointsStartNoise)),
			}
			f.points = append(f.points, newPoint(f, pos))
		}
	}
	f.logger.Infof("plexus spawned %d points on %.0fx%.0f", len(f.points), w, h)
}

// Respawn discards every point and spawns a fresh grid at the current
// surface size.
func (f *Field) Respawn() {
	if f.closed {
		return
	}
	for _, p := range f.points {
		p.stop()
	}
	f.points = nil
	if fitter, ok := f.surface.(Fitter); ok {
		fitter.Fit()
	}
	f.Spawn()
}

// Tick advances the field by one tick interval.
func (f *Field) Tick() {
	f.Step(f.cfg.TickInterval())
}

// Step advances the field clock by dt, fires due per-point timers, clears the
// surface when enabled and updates every point in collection order.
func (f *Field) Step(dt time.Duration) {
	if f.closed {
		return
	}
	f.now += dt
	for _, p := range f.points {
		p.runTimers(f.now)
	}
	if f.cfg.EnableClear {
		f.surface.Clear()
	}
	for _, p := range f.points {
		p.update()
	}
}

// Close cancels every point timer. Later Step and Tick calls do nothing.
func (f *Field) Close() {
	if f.closed {
		return
	}
	f.closed = true
	for _, p := range f.points {
		p.stop()
	}
	f.logger.Infof("plexus closed after %s with %d points", f.now, len(f.points))
}

// Stats is a summary of the field used by front ends and logging.
type Stats struct {
	Points int
	Active int
	Edges  int // directed: an edge known by both endpoints counts twice
	Clock  time.Duration
}

func (f *Field) Stats() Stats {
	s := Stats{Points: len(f.points), Clock: f.now}
	for _, p := range f.points {
		if p.active {
			s.Active++
		}
		s.Edges += len(p.neighbours)
	}
	return s
}

func (s Stats) String() string {
	return fmt.Sprintf("points=%d active=%d edges=%d clock=%s", s.Points, s.Active, s.Edges, s.Clock)
}

// targetBounds is the surface rectangle grown by TargetsBoundsOffset.
func (f *Field) targetBounds() (lo, hi geometry.Vector2D) {
	w, h := f.surface.Size()
	m := f.cfg.TargetsBoundsOffset
	return geometry.Vector2D{X: -m, Y: -m}, geometry.Vector2D{X: w + m, Y: h + m}
}

// randomTargetNear draws a target within PointsTargetRange of pos that lies
// inside targetBounds. After maxTargetAttempts rejections the last candidate
// is clamped into the bounds.
func (f *Field) randomTargetNear(pos geometry.Vector2D) geometry.Vector2D {
	lo, hi := f.targetBounds()
	var candidate geometry.Vector2D
	for range maxTargetAttempts {
		candidate = geometry.RandomInRadius(f.rng, pos, f.cfg.PointsTargetRange)
		if candidate.X >= lo.X && candidate.Y >= lo.Y && candidate.X <= hi.X && candidate.Y <= hi.Y {
			return candidate
		}
	}
	return candidate.Clamp(lo, hi)
}
