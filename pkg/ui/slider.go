package ui

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Slider is a horizontal value picker
type Slider struct {
	Label    string
	Value    float64
	Min, Max float64
	Step     float64 // Snap increment, 0 for continuous
	X, Y     float64
	W, H     float64
}

// NewSlider creates a new slider instance
func NewSlider(x, y, width float64, label string, min, max, value float64) *Slider {
	s := &Slider{
		Label: label,
		Min:   min,
		Max:   max,
		X:     x,
		Y:     y,
		W:     width,
		H:     14, // Default height
	}
	s.SetValue(value)
	return s
}

// SetValue clamps and snaps v before storing it
func (s *Slider) SetValue(v float64) {
	if s.Step > 0 {
		v = s.Min + math.Round((v-s.Min)/s.Step)*s.Step
	}
	s.Value = math.Max(s.Min, math.Min(s.Max, v))
}

// Update checks for mouse interaction
func (s *Slider) Update() {
	mx, my := ebiten.CursorPosition()
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		return
	}
	if s.Contains(float64(mx), float64(my)) {
		s.SetValueAt(float64(mx))
	}
}

// Contains reports whether (x, y) is over the slider track
func (s *Slider) Contains(x, y float64) bool {
	return x >= s.X && x <= s.X+s.W && y >= s.Y && y <= s.Y+s.H
}

// SetValueAt sets the value from a horizontal screen position on the track
func (s *Slider) SetValueAt(x float64) {
	if s.W <= 0 {
		return
	}
	p := (x - s.X) / s.W
	s.SetValue(s.Min + p*(s.Max-s.Min))
}

// Draw renders the slider
func (s *Slider) Draw(screen *ebiten.Image) {
	// Background (Dark Gray)
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)

	// Value Bar (Light Gray)
	ratio := 0.0
	if s.Max > s.Min {
		ratio = (s.Value - s.Min) / (s.Max - s.Min)
	}
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*ratio), float32(s.H), color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)
}
