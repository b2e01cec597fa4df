package render

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-plexus/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-plexus/pkg/plexus"
)

const (
	DefaultCellWidth  = 8.0
	DefaultCellHeight = 16.0

	pointRune = '●'
)

// Terminal is a plexus.Surface drawing on a tcell screen. Every cell stands for
// a cellWidth x cellHeight block of field pixels, so the field keeps its usual
// distances and the terminal shows a coarse view of it.
type Terminal struct {
	screen                tcell.Screen
	cellWidth, cellHeight float64
	cols, rows            int
}

var (
	_ plexus.Surface = (*Terminal)(nil)
	_ plexus.Fitter  = (*Terminal)(nil)
)

// NewTerminal wraps an initialised screen. Non-positive cell sizes fall back
// to DefaultCellWidth and DefaultCellHeight.
func NewTerminal(screen tcell.Screen, cellWidth, cellHeight float64) *Terminal {
	if cellWidth <= 0 {
		cellWidth = DefaultCellWidth
	}
	if cellHeight <= 0 {
		cellHeight = DefaultCellHeight
	}
	t := &Terminal{screen: screen, cellWidth: cellWidth, cellHeight: cellHeight}
	t.Fit()
	return t
}

// Fit picks up the current terminal size.
func (t *Terminal) Fit() {
	t.cols, t.rows = t.screen.Size()
}

func (t *Terminal) Size() (float64, float64) {
	return float64(t.cols) * t.cellWidth, float64(t.rows) * t.cellHeight
}

// PixelAt maps a cell to the field coordinates of its centre, e.g. for mouse events.
func (t *Terminal) PixelAt(col, row int) geometry.Vector2D {
	return geometry.Vector2D{
		X: (float64(col) + 0.5) * t.cellWidth,
		Y: (float64(row) + 0.5) * t.cellHeight,
	}
}

func (t *Terminal) cellOf(v geometry.Vector2D) (int, int) {
	return int(math.Floor(v.X / t.cellWidth)), int(math.Floor(v.Y / t.cellHeight))
}

func (t *Terminal) Show() { t.screen.Show() }

func (t *Terminal) Clear() {
	t.screen.Clear()
}

// StrokeLine rasterises the segment over the cells with Bresenham's algorithm.
// The width is ignored, a cell is already wider than any stroke.
func (t *Terminal) StrokeLine(from, to geometry.Vector2D, _ float64, clr color.Color) {
	style := tcell.StyleDefault.Foreground(terminalColor(clr))
	r := lineRune(from, to, t.cellWidth/t.cellHeight)

	x0, y0 := t.cellOf(from)
	x1, y1 := t.cellOf(to)
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		t.set(x0, y0, r, style)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// FillCircle marks the centre cell and every cell whose centre lies in the circle.
func (t *Terminal) FillCircle(center geometry.Vector2D, radius float64, clr color.Color) {
	style := tcell.StyleDefault.Foreground(terminalColor(clr))
	cx, cy := t.cellOf(center)
	t.set(cx, cy, pointRune, style)

	rc := int(math.Ceil(radius/t.cellWidth)) + 1
	rr := int(math.Ceil(radius/t.cellHeight)) + 1
	rsq := radius * radius
	for row := cy - rr; row <= cy+rr; row++ {
		for col := cx - rc; col <= cx+rc; col++ {
			if geometry.DistanceSquared(t.PixelAt(col, row), center) <= rsq {
				t.set(col, row, pointRune, style)
			}
		}
	}
}

func (t *Terminal) set(col, row int, r rune, style tcell.Style) {
	if col < 0 || row < 0 || col >= t.cols || row >= t.rows {
		return
	}
	t.screen.SetContent(col, row, r, nil, style)
}

// terminalColor flattens a translucent colour onto the black terminal background.
func terminalColor(clr color.Color) tcell.Color {
	c := color.NRGBAModel.Convert(clr).(color.NRGBA)
	a := int32(c.A)
	return tcell.NewRGBColor(int32(c.R)*a/255, int32(c.G)*a/255, int32(c.B)*a/255)
}

// lineRune picks a glyph following the on-screen slope of the segment.
// aspect is the cell width over the cell height.
func lineRune(from, to geometry.Vector2D, aspect float64) rune {
	d := to.Sub(from)
	if d.IsZero() {
		return '·'
	}
	// slope in cells, so a 45° glyph matches a diagonal of cells
	angle := math.Atan2(d.Y*aspect, d.X) * 180 / math.Pi
	if angle < 0 {
		angle += 180
	}
	switch {
	case angle < 22.5 || angle >= 157.5:
		return '─'
	case angle < 67.5:
		return '╲'
	case angle < 112.5:
		return '│'
	default:
		return '╱'
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
