package plexus

import (
	"math"
	"slices"
	"testing"
	"time"

	"github.com/lao-tseu-is-alive/go-plexus/pkg/geometry"
)

func TestPoint_EnsureTarget(t *testing.T) {
	const (
		width  = 300.0
		height = 200.0
		margin = 10.0
	)
	f, _ := newTestField(t, width, height, map[string]any{
		KeyTargetsBoundsOffset: margin,
		KeyPointsTargetRange:   150,
	})
	inBounds := func(v geometry.Vector2D) bool {
		return v.X >= -margin && v.Y >= -margin && v.X <= width+margin && v.Y <= height+margin
	}

	t.Run("WithinBounds", func(t *testing.T) {
		for round := 0; round < 20; round++ {
			for _, p := range f.Points() {
				p.hasTarget = false
				p.ensureTarget()
				target, ok := p.Target()
				if !ok {
					t.Fatal("ensureTarget left no target")
				}
				if !inBounds(target) {
					t.Fatalf("target %v outside [-%v, %v] x [-%v, %v]", target, margin, width+margin, margin, height+margin)
				}
			}
		}
	})

	t.Run("PointFarOutside", func(t *testing.T) {
		p := f.Points()[0]
		p.position = geometry.Vector2D{X: 10_000, Y: -10_000}
		p.hasTarget = false
		p.ensureTarget()
		if target, _ := p.Target(); !inBounds(target) {
			t.Fatalf("fallback target %v outside bounds", target)
		}
	})

	t.Run("KeepsTargetUntilReached", func(t *testing.T) {
		p := f.Points()[1]
		p.position = geometry.Vector2D{X: 50, Y: 50}
		p.target = geometry.Vector2D{X: 100, Y: 50}
		p.hasTarget = true
		p.ensureTarget()
		if target, _ := p.Target(); !target.Eq(geometry.Vector2D{X: 100, Y: 50}) {
			t.Errorf("target replaced while still far: %v", target)
		}

		// within pointsTargetOffset (5): a new target is drawn
		p.position = geometry.Vector2D{X: 98, Y: 50}
		p.target = geometry.Vector2D{X: 100, Y: 50}
		changed := false
		for range 10 {
			p.target = geometry.Vector2D{X: 100, Y: 50}
			p.hasTarget = true
			p.ensureTarget()
			if target, _ := p.Target(); !target.Eq(geometry.Vector2D{X: 100, Y: 50}) {
				changed = true
				break
			}
		}
		if !changed {
			t.Error("target never replaced once reached")
		}
	})
}

func TestPoint_Move(t *testing.T) {
	f, _ := newTestField(t, 200, 200, map[string]any{KeyPointsSpeed: 2.0})
	p := f.Points()[0]

	t.Run("StepsTowardTargetAtSpeed", func(t *testing.T) {
		p.position = geometry.Vector2D{X: 0, Y: 0}
		p.target = geometry.Vector2D{X: 30, Y: 40}
		p.hasTarget = true
		before := p.position
		p.move()
		moved := geometry.Distance(before, p.position)
		if math.Abs(moved-2) > 1e-9 {
			t.Errorf("moved %v; want 2", moved)
		}
		if !p.Direction().Eq(geometry.Vector2D{X: 1.2, Y: 1.6}) {
			t.Errorf("direction = %v; want (1.2, 1.6)", p.Direction())
		}
		if geometry.Distance(p.position, p.target) >= geometry.Distance(before, p.target) {
			t.Error("move did not approach the target")
		}
	})

	t.Run("ZeroDisplacement", func(t *testing.T) {
		p.position = geometry.Vector2D{X: 20, Y: 20}
		p.target = geometry.Vector2D{X: 20, Y: 20}
		p.hasTarget = true
		p.move()
		pos := p.Position()
		if math.IsNaN(pos.X) || math.IsNaN(pos.Y) {
			t.Fatalf("position became NaN: %v", pos)
		}
		if !pos.Eq(geometry.Vector2D{X: 20, Y: 20}) {
			t.Errorf("position = %v; want unchanged (20, 20)", pos)
		}
		if !p.Direction().IsZero() {
			t.Errorf("direction = %v; want zero", p.Direction())
		}
	})

	t.Run("NoTarget", func(t *testing.T) {
		p.hasTarget = false
		p.setDirection()
		if !p.Direction().IsZero() {
			t.Errorf("direction without target = %v; want zero", p.Direction())
		}
	})
}

func TestPoint_RefreshNeighbours(t *testing.T) {
	f, _ := newTestField(t, 600, 400, map[string]any{
		KeyPointsStartDistance: 40.0,
		KeyPointsStartNoise:    60,
		KeyLineDistance:        70.0,
	})
	limit := f.Optimized().LineDistanceSq

	check := func(t *testing.T) {
		t.Helper()
		for _, p := range f.Points() {
			p.refreshNeighbours()
			ns := p.Neighbours()
			if slices.Contains(ns, p) {
				t.Fatal("point lists itself as a neighbour")
			}
			for _, n := range ns {
				if d := geometry.DistanceSquared(p.Position(), n.Position()); d > limit {
					t.Fatalf("neighbour at squared distance %v > %v", d, limit)
				}
			}
			for _, other := range f.Points() {
				if other == p {
					continue
				}
				if geometry.DistanceSquared(p.Position(), other.Position()) <= limit && !slices.Contains(ns, other) {
					t.Fatal("point in range missing from neighbours")
				}
			}
			seen := map[*Point]bool{}
			for _, n := range ns {
				if seen[n] {
					t.Fatal("neighbour listed twice")
				}
				seen[n] = true
			}
		}
	}

	t.Run("Initial", check)

	t.Run("AfterMovement", func(t *testing.T) {
		activateAll(f)
		for range 200 {
			f.Tick()
		}
		check(t)
	})

	t.Run("PrunesDepartedNeighbour", func(t *testing.T) {
		p := f.Points()[0]
		p.refreshNeighbours()
		if len(p.neighbours) == 0 {
			t.Skip("no neighbour to move away")
		}
		gone := p.neighbours[0]
		gone.position = p.position.Add(geometry.Vector2D{X: 5000, Y: 5000})
		p.refreshNeighbours()
		if slices.Contains(p.neighbours, gone) {
			t.Error("departed neighbour still listed")
		}
	})
}

func TestPoint_Timers(t *testing.T) {
	f, _ := newTestField(t, 300, 300, map[string]any{KeyPointsStartNoise: 0})
	p := f.Points()[0]
	start := p.activateAt

	p.runTimers(start - time.Millisecond)
	if start > 0 && p.Active() {
		t.Fatal("active before the start delay elapsed")
	}
	p.runTimers(start)
	if !p.Active() {
		t.Fatal("not active once the start delay elapsed")
	}
	if len(p.neighbours) != 0 {
		t.Fatal("neighbours computed before the first period")
	}

	p.runTimers(start + p.Period())
	if len(p.neighbours) == 0 {
		t.Error("neighbour timer did not fire after one period")
	}
	if p.nextNeighbours <= start+p.Period() || p.nextDirection <= start+p.Period() {
		t.Errorf("timers not rearmed: next=%v/%v", p.nextNeighbours, p.nextDirection)
	}

	// a long gap fires once and skips to the next slot after now
	late := start + 10*p.Period() + time.Millisecond
	p.runTimers(late)
	if p.nextNeighbours <= late || p.nextNeighbours > late+p.Period() {
		t.Errorf("nextNeighbours = %v; want within (%v, %v]", p.nextNeighbours, late, late+p.Period())
	}
}

func TestNextDue(t *testing.T) {
	tests := []struct {
		due, period, now, want time.Duration
	}{
		{100, 50, 100, 150},
		{100, 50, 149, 150},
		{100, 50, 150, 200},
		{100, 50, 420, 450},
	}
	for _, tt := range tests {
		if got := nextDue(tt.due, tt.period, tt.now); got != tt.want {
			t.Errorf("nextDue(%v, %v, %v) = %v; want %v", tt.due, tt.period, tt.now, got, tt.want)
		}
	}
}
