package render

import (
	"image/color"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-plexus/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-plexus/pkg/plexus"
)

func newTestTerminal(t *testing.T, cols, rows int) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(cols, rows)
	return NewTerminal(screen, 10, 20), screen
}

func runeAt(s tcell.Screen, col, row int) rune {
	r, _, _, _ := s.GetContent(col, row)
	return r
}

func TestTerminal_Size(t *testing.T) {
	term, screen := newTestTerminal(t, 40, 10)
	if w, h := term.Size(); w != 400 || h != 200 {
		t.Errorf("Size = %v x %v; want 400 x 200", w, h)
	}

	screen.SetSize(20, 5)
	term.Fit()
	if w, h := term.Size(); w != 200 || h != 100 {
		t.Errorf("Size after Fit = %v x %v; want 200 x 100", w, h)
	}

	if got := term.PixelAt(2, 3); !got.Eq(geometry.Vector2D{X: 25, Y: 70}) {
		t.Errorf("PixelAt(2, 3) = %v; want (25, 70)", got)
	}

	def := NewTerminal(screen, 0, -1)
	if def.cellWidth != DefaultCellWidth || def.cellHeight != DefaultCellHeight {
		t.Errorf("cell size = %v x %v; want defaults", def.cellWidth, def.cellHeight)
	}
}

func TestTerminal_StrokeLine(t *testing.T) {
	term, screen := newTestTerminal(t, 20, 10)

	// row 1, cols 0..9
	term.StrokeLine(geometry.Vector2D{X: 5, Y: 25}, geometry.Vector2D{X: 95, Y: 25}, 1, color.White)
	for col := 0; col <= 9; col++ {
		if got := runeAt(screen, col, 1); got != '─' {
			t.Fatalf("cell (%d, 1) = %q; want '─'", col, got)
		}
	}
	if got := runeAt(screen, 10, 1); got == '─' {
		t.Error("line drawn past its end")
	}

	// clipped: no panic, visible part drawn
	term.StrokeLine(geometry.Vector2D{X: -500, Y: 105}, geometry.Vector2D{X: 15, Y: 105}, 1, color.White)
	if got := runeAt(screen, 1, 5); got != '─' {
		t.Errorf("clipped line cell (1, 5) = %q; want '─'", got)
	}

	term.Clear()
	if got := runeAt(screen, 3, 1); got == '─' {
		t.Error("Clear left the line on screen")
	}
}

func TestTerminal_FillCircle(t *testing.T) {
	term, screen := newTestTerminal(t, 20, 10)

	term.FillCircle(geometry.Vector2D{X: 52, Y: 48}, 3, color.White)
	if got := runeAt(screen, 5, 2); got != pointRune {
		t.Errorf("centre cell = %q; want %q", got, pointRune)
	}
	if got := runeAt(screen, 6, 2); got == pointRune {
		t.Error("small circle spilled into the next cell")
	}

	// partially off screen
	term.FillCircle(geometry.Vector2D{X: -1, Y: -1}, 30, color.White)
	if got := runeAt(screen, 0, 0); got != pointRune {
		t.Errorf("cell (0, 0) = %q; want %q", got, pointRune)
	}
}

func TestTerminal_ReplaysField(t *testing.T) {
	term, screen := newTestTerminal(t, 30, 10)

	display := plexus.NewDisplayList(term.Size())
	f, err := plexus.New(display, plexus.WithSeed(2))
	if err != nil {
		t.Fatal(err)
	}
	f.Step(600 * time.Millisecond)
	f.Tick()
	plexus.Replay(term, display.Take())

	drawn := 0
	for row := 0; row < 10; row++ {
		for col := 0; col < 30; col++ {
			if r := runeAt(screen, col, row); r != ' ' && r != 0 {
				drawn++
			}
		}
	}
	if drawn == 0 {
		t.Error("replaying a field frame drew nothing")
	}
}

func TestTerminalColor(t *testing.T) {
	tests := []struct {
		name string
		in   color.Color
		want tcell.Color
	}{
		{"Opaque", color.NRGBA{R: 255, G: 128, B: 0, A: 255}, tcell.NewRGBColor(255, 128, 0)},
		{"FifthAlpha", color.NRGBA{R: 255, G: 255, B: 255, A: 51}, tcell.NewRGBColor(51, 51, 51)},
		{"Transparent", color.NRGBA{R: 255, G: 255, B: 255, A: 0}, tcell.NewRGBColor(0, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := terminalColor(tt.in); got != tt.want {
				t.Errorf("terminalColor(%v) = %v; want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLineRune(t *testing.T) {
	o := geometry.Vector2D{}
	tests := []struct {
		to   geometry.Vector2D
		want rune
	}{
		{geometry.Vector2D{X: 10}, '─'},
		{geometry.Vector2D{X: -10}, '─'},
		{geometry.Vector2D{Y: 10}, '│'},
		{geometry.Vector2D{X: 10, Y: 10}, '╲'},
		{geometry.Vector2D{X: -10, Y: -10}, '╲'},
		{geometry.Vector2D{X: 10, Y: -10}, '╱'},
		{o, '·'},
	}
	for _, tt := range tests {
		if got := lineRune(o, tt.to, 1); got != tt.want {
			t.Errorf("lineRune(%v) = %q; want %q", tt.to, got, tt.want)
		}
	}
}
