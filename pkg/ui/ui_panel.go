package ui

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// UIWidget is an interface for all UI widgets
type UIWidget interface {
	Update()
	Draw(screen *ebiten.Image)
	GetHeight() float64
}

// SliderWrapper wraps Slider to implement UIWidget
type SliderWrapper struct {
	*Slider
}

func (s *SliderWrapper) GetHeight() float64 {
	return s.H + 25 // Slider height + label space
}

// CheckboxWrapper wraps Checkbox to implement UIWidget
type CheckboxWrapper struct {
	*Checkbox
}

func (c *CheckboxWrapper) GetHeight() float64 {
	return c.Size + 20 // Checkbox size + label space
}

// ButtonWrapper wraps Button to implement UIWidget
type ButtonWrapper struct {
	*Button
}

func (b *ButtonWrapper) GetHeight() float64 {
	return b.Height + 20
}

// UIPanel manages a collection of UI widgets in a scrollable panel
type UIPanel struct {
	Title         string
	X, Y          float64 // Panel position
	Width, Height float64 // Panel dimensions
	Widgets       []UIWidget
	Labels        []string // Labels for widgets
	ScrollOffset  float64  // Current scroll position
	Visible       bool

	// Styling
	BGColor     color.RGBA
	BorderColor color.RGBA
	TextColor   color.RGBA

	// Section headers
	sections []PanelSection
}

// PanelSection represents a titled group of widgets in the panel
type PanelSection struct {
	Title      string
	StartIndex int // Widget index where this section starts
	EndIndex   int // Widget index where this section ends (exclusive)
}

// NewUIPanel creates a new, visible UI panel
func NewUIPanel(title string, x, y, width, height float64) *UIPanel {
	return &UIPanel{
		Title:       title,
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		Widgets:     make([]UIWidget, 0),
		Labels:      make([]string, 0),
		Visible:     true,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
		TextColor:   color.RGBA{R: 220, G: 220, B: 220, A: 255},
		sections:    make([]PanelSection, 0),
	}
}

// AddSection adds a section header
func (p *UIPanel) AddSection(title string) {
	p.sections = append(p.sections, PanelSection{
		Title:      title,
		StartIndex: len(p.Widgets),
		EndIndex:   len(p.Widgets),
	})
}

// EndSection closes the current section
func (p *UIPanel) EndSection() {
	if len(p.sections) > 0 {
		p.sections[len(p.sections)-1].EndIndex = len(p.Widgets)
	}
}

// AddSlider adds a slider widget to the panel
func (p *UIPanel) AddSlider(label string, min, max, value float64) *Slider {
	yOffset := p.calculateNextYOffset()

	slider := NewSlider(
		p.X+10,         // X position with margin
		p.Y+yOffset+20, // Y position
		p.Width-20,     // Width with margins
		label,
		min, max, value,
	)

	p.Widgets = append(p.Widgets, &SliderWrapper{slider})
	p.Labels = append(p.Labels, label)

	return slider
}

// AddCheckbox adds a checkbox widget to the panel
func (p *UIPanel) AddCheckbox(label string, value bool) *Checkbox {
	yOffset := p.calculateNextYOffset()

	checkbox := NewCheckbox(
		p.X+10,
		p.Y+yOffset+20,
		label,
		value,
	)

	p.Widgets = append(p.Widgets, &CheckboxWrapper{checkbox})
	p.Labels = append(p.Labels, label)

	return checkbox
}

// AddButton adds a full-width button to the panel
func (p *UIPanel) AddButton(label string, onClick func()) *Button {
	yOffset := p.calculateNextYOffset()

	button := NewButton(p.X+10, p.Y+yOffset+20, p.Width-20, 22, label, onClick)

	p.Widgets = append(p.Widgets, &ButtonWrapper{button})
	p.Labels = append(p.Labels, "")

	return button
}

// calculateNextYOffset calculates the Y offset for the next widget
func (p *UIPanel) calculateNextYOffset() float64 {
	offset := float64(len(p.sections)) * 25

	for _, widget := range p.Widgets {
		offset += widget.GetHeight()
	}

	return offset
}

// Contains reports whether (x, y) lies over the visible panel
func (p *UIPanel) Contains(x, y float64) bool {
	return p.Visible && x >= p.X && x <= p.X+p.Width && y >= p.Y && y <= p.Y+p.Height
}

// Toggle shows or hides the panel
func (p *UIPanel) Toggle() {
	p.Visible = !p.Visible
}

// Update handles input for all widgets
func (p *UIPanel) Update() {
	if !p.Visible {
		return
	}

	_, dy := ebiten.Wheel()
	if dy != 0 {
		p.Scroll(dy)
	}

	for _, widget := range p.Widgets {
		widget.Update()
	}
}

// Scroll moves the content by one wheel delta, clamped to the content height
func (p *UIPanel) Scroll(dy float64) {
	p.ScrollOffset -= dy * 20

	maxScroll := max(p.calculateTotalHeight()-p.Height+40, 0)
	p.ScrollOffset = min(max(p.ScrollOffset, 0), maxScroll)
}

// Draw renders the panel and all widgets
func (p *UIPanel) Draw(screen *ebiten.Image) {
	if !p.Visible {
		return
	}

	vector.FillRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		p.BGColor, true)

	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		2, p.BorderColor, true)

	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+10), int(p.Y+5))

	// Draw widgets with clipping and scrolling
	currentY := p.Y + 30 - p.ScrollOffset

	for _, section := range p.sections {
		if currentY >= p.Y-25 && currentY <= p.Y+p.Height {
			sectionBG := color.RGBA{R: 60, G: 60, B: 70, A: 255}
			vector.FillRect(screen,
				float32(p.X+5), float32(currentY),
				float32(p.Width-10), 20,
				sectionBG, true)
			ebitenutil.DebugPrintAt(screen, section.Title,
				int(p.X+10), int(currentY+5))
		}
		currentY += 25

		for i := section.StartIndex; i < section.EndIndex && i < len(p.Widgets); i++ {
			widget := p.Widgets[i]

			if currentY >= p.Y+25 && currentY+widget.GetHeight() <= p.Y+p.Height {
				if label := widgetLabel(widget, p.Labels[i]); label != "" {
					ebitenutil.DebugPrintAt(screen, label, int(p.X+10), int(currentY))
				}
				p.adjustWidgetPosition(widget, currentY+15)
				widget.Draw(screen)
			} else {
				// Park hidden widgets off screen so they ignore clicks
				p.adjustWidgetPosition(widget, -1000)
			}

			currentY += widget.GetHeight()
		}
	}
}

// widgetLabel appends the current value to slider labels
func widgetLabel(widget UIWidget, label string) string {
	if sw, ok := widget.(*SliderWrapper); ok && label != "" {
		return fmt.Sprintf("%s: %s", label, formatValue(sw.Value, sw.Step))
	}
	if _, ok := widget.(*ButtonWrapper); ok {
		return ""
	}
	return label
}

func formatValue(v, step float64) string {
	if step >= 1 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// adjustWidgetPosition moves a widget to its scrolled position for rendering
func (p *UIPanel) adjustWidgetPosition(widget UIWidget, newY float64) {
	switch w := widget.(type) {
	case *SliderWrapper:
		w.Y = newY
	case *CheckboxWrapper:
		w.Y = newY
	case *ButtonWrapper:
		w.Y = newY
	}
}

// calculateTotalHeight calculates the total content height
func (p *UIPanel) calculateTotalHeight() float64 {
	height := 30.0 // Title space

	height += float64(len(p.sections)) * 25

	for _, widget := range p.Widgets {
		height += widget.GetHeight()
	}

	return height
}
