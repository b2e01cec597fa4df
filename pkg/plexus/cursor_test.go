package plexus

import (
	"testing"

	"github.com/lao-tseu-is-alive/go-plexus/pkg/geometry"
)

func TestCursor_States(t *testing.T) {
	f, _ := newTestField(t, 100, 100, nil)
	c := NewCursor(f)

	if c.State() != Released {
		t.Fatalf("initial state = %v; want released", c.State())
	}
	c.Press()
	if c.State() != Pressed {
		t.Errorf("after Press state = %v; want pressed", c.State())
	}
	c.Leave()
	if c.State() != Released {
		t.Errorf("after Leave state = %v; want released", c.State())
	}
	c.Press()
	c.Release()
	if c.State() != Released {
		t.Errorf("after Release state = %v; want released", c.State())
	}
}

func TestCursor_Apply(t *testing.T) {
	pointer := geometry.Vector2D{X: 100, Y: 100}

	tests := []struct {
		name    string
		press   bool
		start   geometry.Vector2D
		closer  bool
		unmoved bool
	}{
		{name: "ReleasedPushesAway", start: geometry.Vector2D{X: 130, Y: 80}, closer: false},
		{name: "PressedPullsIn", press: true, start: geometry.Vector2D{X: 130, Y: 80}, closer: true},
		{name: "PressedNoOvershoot", press: true, start: geometry.Vector2D{X: 100.1, Y: 100}, closer: true},
		{name: "OutOfRange", start: geometry.Vector2D{X: 400, Y: 400}, unmoved: true},
		{name: "OnPointer", start: pointer, unmoved: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := newTestField(t, 200, 200, map[string]any{
				KeyCursorRadius:      50.0,
				KeyCursorPointsSpeed: 0.5,
			})
			p := f.Points()[0]
			p.position = tt.start

			c := NewCursor(f)
			if tt.press {
				c.Press()
			}
			before := geometry.DistanceSquared(pointer, p.Position())
			c.Move(pointer)
			after := geometry.DistanceSquared(pointer, p.Position())

			switch {
			case tt.unmoved:
				if !p.Position().Eq(tt.start) {
					t.Errorf("point moved to %v; want unchanged", p.Position())
				}
			case tt.closer:
				if !(after < before) {
					t.Errorf("squared distance %v -> %v; want strictly closer", before, after)
				}
			default:
				if !(after > before) {
					t.Errorf("squared distance %v -> %v; want strictly farther", before, after)
				}
			}
		})
	}
}

func TestCursor_Disabled(t *testing.T) {
	f, _ := newTestField(t, 200, 200, map[string]any{KeyCursorActive: false})
	p := f.Points()[0]
	p.position = geometry.Vector2D{X: 10, Y: 10}

	c := NewCursor(f)
	c.Move(geometry.Vector2D{X: 12, Y: 12})
	if !p.Position().Eq(geometry.Vector2D{X: 10, Y: 10}) {
		t.Errorf("disabled cursor moved point to %v", p.Position())
	}
	if !c.Position().Eq(geometry.Vector2D{X: 12, Y: 12}) {
		t.Errorf("Position = %v; want (12, 12)", c.Position())
	}

	// live reconfiguration switches it back on
	if err := f.Configure(map[string]any{KeyCursorActive: true}); err != nil {
		t.Fatal(err)
	}
	c.Apply()
	if p.Position().Eq(geometry.Vector2D{X: 10, Y: 10}) {
		t.Error("re-enabled cursor did not move the point")
	}
}

func TestCursor_LeavesTargetsAlone(t *testing.T) {
	f, _ := newTestField(t, 200, 200, nil)
	p := f.Points()[0]
	p.position = geometry.Vector2D{X: 50, Y: 50}
	p.target = geometry.Vector2D{X: 70, Y: 70}
	p.hasTarget = true
	p.direction = geometry.Vector2D{X: 0.3, Y: 0.4}

	NewCursor(f).Move(geometry.Vector2D{X: 60, Y: 40})

	if target, _ := p.Target(); !target.Eq(geometry.Vector2D{X: 70, Y: 70}) {
		t.Errorf("target changed to %v", target)
	}
	if !p.Direction().Eq(geometry.Vector2D{X: 0.3, Y: 0.4}) {
		t.Errorf("direction changed to %v", p.Direction())
	}
}
