package plexus

import (
	"image/color"

	"github.com/lao-tseu-is-alive/go-plexus/pkg/geometry"
)

// Surface is the 2D immediate-mode drawing context the field renders into.
type Surface interface {
	Size() (width, height float64)
	Clear()
	StrokeLine(from, to geometry.Vector2D, width float64, clr color.Color)
	FillCircle(center geometry.Vector2D, radius float64, clr color.Color)
}

// Fitter is implemented by surfaces that can resize themselves to their container.
type Fitter interface {
	Fit()
}

type CommandKind uint8

const (
	CommandClear CommandKind = iota
	CommandLine
	CommandCircle
)

// Command is one recorded drawing call.
// Lines use From, To and Width; circles use From as centre and Width as radius.
type Command struct {
	Kind  CommandKind
	From  geometry.Vector2D
	To    geometry.Vector2D
	Width float64
	Color color.NRGBA
}

// DisplayList is a Surface that records drawing calls so they can be replayed
// on another goroutine, e.g. by the ebiten Draw loop.
type DisplayList struct {
	width, height float64
	commands      []Command
}

func NewDisplayList(width, height float64) *DisplayList {
	return &DisplayList{width: width, height: height}
}

func (d *DisplayList) Size() (float64, float64) { return d.width, d.height }

// Clear records a clear and drops everything recorded before it, since a
// replay would paint over it anyway.
func (d *DisplayList) Clear() {
	d.commands = append(d.commands[:0], Command{Kind: CommandClear})
}

func (d *DisplayList) StrokeLine(from, to geometry.Vector2D, width float64, clr color.Color) {
	d.commands = append(d.commands, Command{
		Kind:  CommandLine,
		From:  from,
		To:    to,
		Width: width,
		Color: toNRGBA(clr),
	})
}

func (d *DisplayList) FillCircle(center geometry.Vector2D, radius float64, clr color.Color) {
	d.commands = append(d.commands, Command{
		Kind:  CommandCircle,
		From:  center,
		Width: radius,
		Color: toNRGBA(clr),
	})
}

// Take returns a copy of the recorded calls and resets the list.
func (d *DisplayList) Take() []Command {
	out := make([]Command, len(d.commands))
	copy(out, d.commands)
	d.Reset()
	return out
}

// Reset empties the list but keeps its capacity.
func (d *DisplayList) Reset() {
	d.commands = d.commands[:0]
}

// Replay issues every command of cmds on dst, in order.
func Replay(dst Surface, cmds []Command) {
	for _, c := range cmds {
		switch c.Kind {
		case CommandClear:
			dst.Clear()
		case CommandLine:
			dst.StrokeLine(c.From, c.To, c.Width, c.Color)
		case CommandCircle:
			dst.FillCircle(c.From, c.Width, c.Color)
		}
	}
}

func toNRGBA(clr color.Color) color.NRGBA {
	if c, ok := clr.(color.NRGBA); ok {
		return c
	}
	return color.NRGBAModel.Convert(clr).(color.NRGBA)
}
