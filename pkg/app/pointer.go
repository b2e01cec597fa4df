package app

import (
	"github.com/lao-tseu-is-alive/go-plexus/pkg/plexus"
)

type pointerEvent struct {
	kind plexus.PointerEventKind
	x, y float64
}

// pointerTracker turns per-frame mouse polling into the field's pointer events.
type pointerTracker struct {
	inside     bool
	pressed    bool
	lastX      float64
	lastY      float64
	hasLastPos bool
}

// update compares the current mouse sample with the previous frame. inside is
// false while the mouse is off the field (outside the window or over the panel).
func (t *pointerTracker) update(x, y float64, inside, down bool) []pointerEvent {
	var events []pointerEvent

	if !inside {
		if t.inside {
			events = append(events, pointerEvent{kind: plexus.PointerLeave, x: x, y: y})
		}
		t.inside = false
		t.pressed = false
		t.hasLastPos = false
		return events
	}
	t.inside = true

	switch {
	case down && !t.pressed:
		events = append(events, pointerEvent{kind: plexus.PointerPress, x: x, y: y})
	case !down && t.pressed:
		events = append(events, pointerEvent{kind: plexus.PointerRelease, x: x, y: y})
	}
	t.pressed = down

	if !t.hasLastPos || x != t.lastX || y != t.lastY {
		events = append(events, pointerEvent{kind: plexus.PointerMove, x: x, y: y})
		t.lastX, t.lastY = x, y
		t.hasLastPos = true
	}
	return events
}
