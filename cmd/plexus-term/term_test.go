package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-plexus/pkg/plexus"
	golog "github.com/tochemey/goakt/v3/log"
)

func newTestApp(t *testing.T) *termApp {
	t.Helper()
	return newTestAppWithLogger(t, golog.DiscardLogger)
}

func newTestAppWithLogger(t *testing.T, logger golog.Logger) *termApp {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(60, 20)

	a, err := newTermApp(screen, logger, 10, 20, plexus.WithSeed(4))
	if err != nil {
		t.Fatalf("newTermApp() error = %v", err)
	}
	return a
}

func TestTermApp_Keys(t *testing.T) {
	a := newTestApp(t)

	a.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModNone))
	if a.field.Config().EnableClear {
		t.Error("'c' did not turn clearing off")
	}

	a.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone))
	now := a.field.Now()
	a.tick()
	if a.field.Now() != now {
		t.Error("field advanced while paused")
	}
	a.handleEvent(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone))
	a.tick()
	if a.field.Now() == now {
		t.Error("field did not advance after resuming")
	}

	first := a.field.Points()[0]
	a.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone))
	if a.field.Points()[0] == first {
		t.Error("'r' did not respawn")
	}

	if a.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Error("'q' did not quit")
	}
	if a.handleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("Escape did not quit")
	}
}

func TestTermApp_Mouse(t *testing.T) {
	a := newTestApp(t)

	a.handleEvent(tcell.NewEventMouse(3, 2, tcell.ButtonNone, tcell.ModNone))
	if pos := a.cursor.Position(); pos.X != 35 || pos.Y != 50 {
		t.Errorf("cursor at %v; want the centre of cell (3, 2) = (35, 50)", pos)
	}
	if a.cursor.State() != plexus.Released {
		t.Error("cursor pressed without a button")
	}

	a.handleEvent(tcell.NewEventMouse(3, 2, tcell.Button1, tcell.ModNone))
	if a.cursor.State() != plexus.Pressed {
		t.Error("button 1 did not press the cursor")
	}
	a.handleEvent(tcell.NewEventMouse(4, 2, tcell.ButtonNone, tcell.ModNone))
	if a.cursor.State() != plexus.Released {
		t.Error("releasing button 1 did not release the cursor")
	}

	a.handleEvent(tcell.NewEventMouse(4, 2, tcell.Button1, tcell.ModNone))
	a.handleEvent(tcell.NewEventFocus(false))
	if a.cursor.State() != plexus.Released {
		t.Error("losing focus did not release the cursor")
	}
}

func TestTermApp_TickDrawsAndCloses(t *testing.T) {
	a := newTestApp(t)
	for range 30 {
		a.tick()
	}
	if s := a.field.Stats(); s.Active != s.Points {
		t.Errorf("Stats = %s; want all points active after 900ms", s)
	}
	a.close()
	if !a.field.Closed() {
		t.Error("close did not close the field")
	}
	now := a.field.Now()
	a.tick()
	if a.field.Now() != now {
		t.Error("tick advanced a closed field")
	}
}

func TestTermApp_ConfigureLogsRejection(t *testing.T) {
	var buf bytes.Buffer
	a := newTestAppWithLogger(t, golog.New(golog.WarningLevel, &buf))
	before := a.field.Config()

	a.configure(map[string]any{plexus.KeyLineDistance: "NaN"})
	if a.field.Config() != before {
		t.Error("rejected overrides changed the configuration")
	}
	if !strings.Contains(buf.String(), "invalid configuration value") {
		t.Errorf("log = %q; want the rejection logged", buf.String())
	}

	buf.Reset()
	a.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModNone))
	if buf.Len() != 0 {
		t.Errorf("log = %q; want nothing for an accepted toggle", buf.String())
	}
}

func TestPollEvents(t *testing.T) {
	tests := []struct {
		name      string
		finalised bool
		setup     func(screen tcell.SimulationScreen, done chan struct{})
	}{
		{
			name: "StopsWhenDoneWithPendingEvent",
			setup: func(screen tcell.SimulationScreen, done chan struct{}) {
				screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
				close(done)
			},
		},
		{
			name:      "StopsWhenScreenFinalised",
			finalised: true,
			setup: func(screen tcell.SimulationScreen, done chan struct{}) {
				screen.Fini()
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screen := tcell.NewSimulationScreen("")
			if err := screen.Init(); err != nil {
				t.Fatal(err)
			}
			// unbuffered and never read: a send can only finish through done
			events := make(chan tcell.Event)
			done := make(chan struct{})
			exited := make(chan struct{})
			go func() {
				pollEvents(screen, events, done)
				close(exited)
			}()

			tt.setup(screen, done)
			select {
			case <-exited:
			case <-time.After(2 * time.Second):
				t.Fatal("pollEvents did not return")
			}
			if !tt.finalised {
				screen.Fini()
			}
		})
	}
}
