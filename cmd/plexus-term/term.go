package main

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-plexus/pkg/plexus"
	"github.com/lao-tseu-is-alive/go-plexus/pkg/render"
	golog "github.com/tochemey/goakt/v3/log"
)

// termApp owns the field, its cursor and the terminal surface. Everything runs
// on the event loop goroutine.
type termApp struct {
	screen  tcell.Screen
	term    *render.Terminal
	field   *plexus.Field
	cursor  *plexus.Cursor
	logger  golog.Logger
	pressed bool
	paused  bool
}

func newTermApp(screen tcell.Screen, logger golog.Logger, cellWidth, cellHeight float64, opts ...plexus.Option) (*termApp, error) {
	term := render.NewTerminal(screen, cellWidth, cellHeight)
	field, err := plexus.New(term, append([]plexus.Option{plexus.WithLogger(logger)}, opts...)...)
	if err != nil {
		return nil, err
	}
	return &termApp{
		screen: screen,
		term:   term,
		field:  field,
		cursor: plexus.NewCursor(field),
		logger: logger,
	}, nil
}

func (a *termApp) tick() {
	if a.paused || a.field.Closed() {
		return
	}
	a.field.Tick()
	a.term.Show()
}

// handleEvent applies one terminal event and reports whether to keep running.
func (a *termApp) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune:
			return a.handleRune(ev.Rune())
		}

	case *tcell.EventMouse:
		col, row := ev.Position()
		a.cursor.Move(a.term.PixelAt(col, row))
		down := ev.Buttons()&tcell.Button1 != 0
		switch {
		case down && !a.pressed:
			a.cursor.Press()
		case !down && a.pressed:
			a.cursor.Release()
		}
		a.pressed = down

	case *tcell.EventFocus:
		if !ev.Focused {
			a.cursor.Leave()
			a.pressed = false
		}

	case *tcell.EventResize:
		a.screen.Sync()
		a.screen.Clear()
		a.field.Respawn() // refits the terminal surface first
	}
	return true
}

func (a *termApp) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case 'r':
		a.screen.Clear()
		a.field.Respawn()
	case 'c':
		a.configure(map[string]any{plexus.KeyEnableClear: !a.field.Config().EnableClear})
	case 'p', ' ':
		a.paused = !a.paused
	}
	return true
}

// configure applies overrides, keeping the current configuration when they
// are rejected.
func (a *termApp) configure(overrides map[string]any) {
	if err := a.field.Configure(overrides); err != nil {
		a.logger.Warnf("plexus: %v", err)
	}
}

func (a *termApp) close() {
	a.field.Close()
}
