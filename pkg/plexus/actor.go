package plexus

import (
	"errors"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

var errUnhandled = errors.New("plexus: unhandled message")

// FieldActor owns a Field and serialises every mutation of it (ticks, pointer
// events, reconfiguration) through its mailbox. The field draws into a
// DisplayList; after each tick the recorded commands are pushed to the UI as
// a Frame.
type FieldActor struct {
	field   *Field
	cursor  *Cursor
	display *DisplayList
	frames  chan<- *Frame

	// --- Rate stats ---
	tickCount    int
	eventCount   int
	droppedCount int
	lastLogTime  time.Time
}

var _ actor.Actor = (*FieldActor)(nil)

// NewFieldActor builds the field on a width x height display list. frames may
// be nil when nobody renders.
func NewFieldActor(width, height float64, frames chan<- *Frame, opts ...Option) (*FieldActor, error) {
	display := NewDisplayList(width, height)
	field, err := New(display, opts...)
	if err != nil {
		return nil, err
	}
	return &FieldActor{
		field:       field,
		cursor:      NewCursor(field),
		display:     display,
		frames:      frames,
		lastLogTime: time.Now(),
	}, nil
}

func (a *FieldActor) Field() *Field { return a.field }

func (a *FieldActor) PreStart(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("plexus field ready: %s", a.field.Stats())
	return nil
}

func (a *FieldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Info("plexus field started")
	default:
		err := a.handle(msg)
		switch {
		case errors.Is(err, errUnhandled):
			ctx.Unhandled()
		case err != nil:
			ctx.Logger().Warnf("plexus: %v", err)
		}
	}
	a.logRates(ctx.Logger())
}

func (a *FieldActor) PostStop(ctx *actor.Context) error {
	a.field.Close()
	ctx.ActorSystem().Logger().Info("plexus field is shutdown...")
	return nil
}

// handle applies one message to the field.
func (a *FieldActor) handle(msg proto.Message) error {
	switch msg := msg.(type) {
	case *durationpb.Duration:
		dt := msg.AsDuration()
		if dt <= 0 {
			dt = a.field.cfg.TickInterval()
		}
		a.tickCount++
		a.field.Step(dt)
		a.publish()

	case *structpb.Struct:
		a.eventCount++
		return a.field.Configure(msg.AsMap())

	case *structpb.ListValue:
		kind, pos, err := parsePointerMessage(msg)
		if err != nil {
			return err
		}
		a.eventCount++
		switch kind {
		case PointerMove:
			a.cursor.Move(pos)
		case PointerPress:
			a.cursor.Press()
		case PointerRelease:
			a.cursor.Release()
		case PointerLeave:
			a.cursor.Leave()
		}

	case *emptypb.Empty:
		a.eventCount++
		a.display.Clear()
		a.field.Respawn()

	default:
		return errUnhandled
	}
	return nil
}

func (a *FieldActor) publish() {
	if a.frames == nil {
		a.display.Reset()
		return
	}
	frame := &Frame{
		Commands: a.display.Take(),
		Stats:    a.field.Stats(),
	}
	select {
	case a.frames <- frame:
	default:
		// UI busy, skip frame
		a.droppedCount++
	}
}

func (a *FieldActor) logRates(logger log.Logger) {
	if time.Since(a.lastLogTime) < time.Second {
		return
	}
	logger.Debugf("📊 TICKS: %d/sec | events: %d | dropped frames: %d | %s",
		a.tickCount, a.eventCount, a.droppedCount, a.field.Stats())
	a.tickCount = 0
	a.eventCount = 0
	a.droppedCount = 0
	a.lastLogTime = time.Now()
}
