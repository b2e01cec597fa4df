package plexus

import (
	"slices"
	"time"

	"github.com/lao-tseu-is-alive/go-plexus/pkg/geometry"
)

const (
	maxStartDelayMs = 500
	minPeriodMs     = 500
	maxPeriodMs     = 1190

	// maxTargetAttempts bounds the rejection sampling in ensureTarget.
	maxTargetAttempts = 64
)

// Point is a single node of the plexus. It wanders toward a random target,
// keeps a list of nearby points to link with, and draws itself.
type Point struct {
	field *Field

	position  geometry.Vector2D
	target    geometry.Vector2D
	hasTarget bool
	direction geometry.Vector2D

	// neighbours look into field.points; they are not owned.
	neighbours []*Point
	active     bool

	// per-point timers, in field clock time
	period         time.Duration
	activateAt     time.Duration
	nextNeighbours time.Duration
	nextDirection  time.Duration
	stopped        bool
}

func newPoint(f *Field, position geometry.Vector2D) *Point {
	delay := geometry.RandomInt(f.rng, 0, maxStartDelayMs)
	period := geometry.RandomInt(f.rng, minPeriodMs, maxPeriodMs)
	return &Point{
		field:      f,
		position:   position,
		period:     time.Duration(period) * time.Millisecond,
		activateAt: f.now + time.Duration(delay)*time.Millisecond,
	}
}

func (p *Point) Position() geometry.Vector2D { return p.position }

// Target returns the current wander target, if one was drawn yet.
func (p *Point) Target() (geometry.Vector2D, bool) { return p.target, p.hasTarget }

func (p *Point) Direction() geometry.Vector2D { return p.direction }

func (p *Point) Active() bool { return p.active }

// Period is the shared interval of the neighbour and direction timers.
func (p *Point) Period() time.Duration { return p.period }

// Neighbours returns a copy of the points this one currently links to.
func (p *Point) Neighbours() []*Point {
	return slices.Clone(p.neighbours)
}

// runTimers fires whatever per-point timer fell due at now.
func (p *Point) runTimers(now time.Duration) {
	if p.stopped {
		return
	}
	if !p.active {
		if now < p.activateAt {
			return
		}
		p.activate()
	}
	if p.nextNeighbours <= now {
		p.refreshNeighbours()
		p.nextNeighbours = nextDue(p.nextNeighbours, p.period, now)
	}
	if p.nextDirection <= now {
		p.setDirection()
		p.nextDirection = nextDue(p.nextDirection, p.period, now)
	}
}

func (p *Point) activate() {
	p.active = true
	p.nextNeighbours = p.activateAt + p.period
	p.nextDirection = p.activateAt + p.period
}

func (p *Point) stop() {
	p.stopped = true
	p.active = false
}

// nextDue returns the first due time after now on the grid due + k*period.
// Missed periods are skipped instead of replayed.
func nextDue(due, period, now time.Duration) time.Duration {
	if period <= 0 {
		return now + time.Millisecond
	}
	return due + period*((now-due)/period+1)
}

// update runs one field tick for this point.
func (p *Point) update() {
	if !p.active {
		return
	}
	p.ensureTarget()
	p.move()
	p.drawNeighbourLines()
	p.draw()
}

// ensureTarget draws a new target when there is none or the current one is reached.
func (p *Point) ensureTarget() {
	if p.hasTarget && geometry.DistanceSquared(p.position, p.target) < p.field.opt.TargetToleranceSq {
		p.hasTarget = false
	}
	if p.hasTarget {
		return
	}
	p.target = p.field.randomTargetNear(p.position)
	p.hasTarget = true
}

// setDirection points the movement vector at the target with the configured speed.
func (p *Point) setDirection() {
	if !p.hasTarget {
		p.direction = geometry.Zero()
		return
	}
	to := geometry.VectorTo(p.position, p.target)
	if to.IsZero() {
		p.direction = geometry.Zero()
		return
	}
	p.direction = to.Normalize().Mul(p.field.cfg.PointsSpeed)
}

func (p *Point) move() {
	p.setDirection()
	p.position = p.position.Add(p.direction)
}

// refreshNeighbours drops neighbours that drifted out of line distance, then
// scans the whole field for points that came in range.
func (p *Point) refreshNeighbours() {
	limit := p.field.opt.LineDistanceSq

	kept := p.neighbours[:0]
	for _, n := range p.neighbours {
		if geometry.DistanceSquared(p.position, n.position) <= limit {
			kept = append(kept, n)
		}
	}
	clear(p.neighbours[len(kept):])
	p.neighbours = kept

	for _, other := range p.field.points {
		if other == p || slices.Contains(p.neighbours, other) {
			continue
		}
		if geometry.DistanceSquared(p.position, other.position) <= limit {
			p.neighbours = append(p.neighbours, other)
		}
	}
}

// drawNeighbourLines draws one segment per neighbour. The other endpoint
// draws the same edge again from its side.
func (p *Point) drawNeighbourLines() {
	s := p.field.surface
	width := p.field.cfg.LineSize
	clr := p.field.opt.LineColor
	for _, n := range p.neighbours {
		s.StrokeLine(p.position, n.position, width, clr)
	}
}

func (p *Point) draw() {
	p.field.surface.FillCircle(p.position, p.field.cfg.PointsRadius, p.field.opt.PointColor)
}
