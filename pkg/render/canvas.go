package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-plexus/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-plexus/pkg/plexus"
)

// Canvas is a plexus.Surface backed by an offscreen ebiten image.
// Clear makes it transparent so the Game can composite it over its background,
// and with clearing disabled the strokes accumulate into trails.
type Canvas struct {
	image *ebiten.Image
}

var _ plexus.Surface = (*Canvas)(nil)

func NewCanvas(width, height int) *Canvas {
	return &Canvas{image: ebiten.NewImage(max(width, 1), max(height, 1))}
}

// Image returns the backing image, to be drawn onto the screen.
func (c *Canvas) Image() *ebiten.Image { return c.image }

func (c *Canvas) Size() (float64, float64) {
	b := c.image.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (c *Canvas) Clear() {
	c.image.Clear()
}

func (c *Canvas) StrokeLine(from, to geometry.Vector2D, width float64, clr color.Color) {
	vector.StrokeLine(c.image,
		float32(from.X), float32(from.Y),
		float32(to.X), float32(to.Y),
		float32(width), clr, true)
}

func (c *Canvas) FillCircle(center geometry.Vector2D, radius float64, clr color.Color) {
	vector.FillCircle(c.image,
		float32(center.X), float32(center.Y),
		float32(radius), clr, true)
}
