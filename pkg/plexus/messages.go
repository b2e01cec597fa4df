package plexus

import (
	"fmt"
	"time"

	"github.com/lao-tseu-is-alive/go-plexus/pkg/geometry"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// FieldActor messages are protobuf well-known types:
//
//	*durationpb.Duration  tick: advance the field by the duration (<= 0 means one tick interval)
//	*structpb.Struct      reconfigure: configuration keys and values, as Config.Merge takes them
//	*structpb.ListValue   pointer event: [kind, x, y]
//	*emptypb.Empty        respawn the point grid

type PointerEventKind string

const (
	PointerMove    PointerEventKind = "move"
	PointerPress   PointerEventKind = "press"
	PointerRelease PointerEventKind = "release"
	PointerLeave   PointerEventKind = "leave"
)

// Frame is published by the FieldActor after every tick.
type Frame struct {
	Commands []Command
	Stats    Stats
}

func NewTickMessage(dt time.Duration) *durationpb.Duration {
	return durationpb.New(dt)
}

func NewReconfigureMessage(values map[string]any) (*structpb.Struct, error) {
	return structpb.NewStruct(values)
}

func NewPointerMessage(kind PointerEventKind, x, y float64) *structpb.ListValue {
	return &structpb.ListValue{Values: []*structpb.Value{
		structpb.NewStringValue(string(kind)),
		structpb.NewNumberValue(x),
		structpb.NewNumberValue(y),
	}}
}

func NewRespawnMessage() *emptypb.Empty {
	return &emptypb.Empty{}
}

func parsePointerMessage(msg *structpb.ListValue) (PointerEventKind, geometry.Vector2D, error) {
	values := msg.GetValues()
	if len(values) != 3 {
		return "", geometry.Vector2D{}, fmt.Errorf("pointer event wants [kind, x, y], got %d values", len(values))
	}
	kind := PointerEventKind(values[0].GetStringValue())
	switch kind {
	case PointerMove, PointerPress, PointerRelease, PointerLeave:
	default:
		return "", geometry.Vector2D{}, fmt.Errorf("unknown pointer event %q", kind)
	}
	pos := geometry.Vector2D{X: values[1].GetNumberValue(), Y: values[2].GetNumberValue()}
	return kind, pos, nil
}
