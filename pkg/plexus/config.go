package plexus

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed plexus.schema.json
var defaultSchema string

var (
	ErrUnknownKey    = errors.New("plexus: unknown configuration key")
	ErrInvalidValue  = errors.New("plexus: invalid configuration value")
	ErrInvalidConfig = errors.New("plexus: invalid configuration")
)

// MaxRandomRange bounds the integer spans drawn at random
// (pointsStartNoise and pointsTargetRange).
const MaxRandomRange = 1 << 20

// Configuration keys accepted by Config.Set, Config.Merge and the UI binder.
const (
	KeyPointsStartDistance = "pointsStartDistance"
	KeyPointsStartNoise    = "pointsStartNoise"
	KeyPointsSpeed         = "pointsSpeed"
	KeyPointsRadius        = "pointsRadius"
	KeyPointsColor         = "pointsColor"
	KeyPointsTargetRange   = "pointsTargetRange"
	KeyPointsTargetOffset  = "pointsTargetOffset"
	KeyLineSize            = "lineSize"
	KeyLineColorR          = "lineColor.r"
	KeyLineColorG          = "lineColor.g"
	KeyLineColorB          = "lineColor.b"
	KeyLineColorA          = "lineColor.a"
	KeyLineDistance        = "lineDistance"
	KeyTargetsBoundsOffset = "targetsBoundsOffset"
	KeyCursorRadius        = "cursorRadius"
	KeyEnableClear         = "enableClear"
	KeyTickIntervalMs      = "tickIntervalMs"
	KeyCursorActive        = "cursor.active"
	KeyCursorPointsSpeed   = "cursor.pointsSpeed"
)

// RGBA is the line colour: 8-bit channels and a [0, 1] alpha.
type RGBA struct {
	R uint8   `json:"r"`
	G uint8   `json:"g"`
	B uint8   `json:"b"`
	A float64 `json:"a"`
}

// CursorConfig drives the pointer force.
type CursorConfig struct {
	Active      bool    `json:"active"`
	PointsSpeed float64 `json:"pointsSpeed"` // push per pointer-move event
}

type Config struct {
	// Points
	PointsStartDistance float64 `json:"pointsStartDistance"` // grid spacing at spawn
	PointsStartNoise    int     `json:"pointsStartNoise"`    // max random offset added at spawn
	PointsSpeed         float64 `json:"pointsSpeed"`
	PointsRadius        float64 `json:"pointsRadius"`
	PointsColor         string  `json:"pointsColor"`
	PointsTargetRange   int     `json:"pointsTargetRange"`  // wander target drawn within this range
	PointsTargetOffset  float64 `json:"pointsTargetOffset"` // "close enough" to the target

	// Lines
	LineSize     float64 `json:"lineSize"`
	LineColor    RGBA    `json:"lineColor"`
	LineDistance float64 `json:"lineDistance"`

	// Bounds and pointer
	TargetsBoundsOffset float64 `json:"targetsBoundsOffset"` // targets may fall this far outside the surface
	CursorRadius        float64 `json:"cursorRadius"`
	EnableClear         bool    `json:"enableClear"`

	TickIntervalMs int          `json:"tickIntervalMs"`
	Cursor         CursorConfig `json:"cursor"`
}

func DefaultConfig() *Config {
	return &Config{
		PointsStartDistance: 90,
		PointsStartNoise:    100,
		PointsSpeed:         0.5,
		PointsRadius:        1,
		PointsColor:         "#ffffff",
		PointsTargetRange:   100,
		PointsTargetOffset:  5,
		LineSize:            3,
		LineColor:           RGBA{R: 255, G: 255, B: 255, A: 0.2},
		LineDistance:        100,
		TargetsBoundsOffset: 200,
		CursorRadius:        200,
		EnableClear:         true,
		TickIntervalMs:      30,
		Cursor: CursorConfig{
			Active:      true,
			PointsSpeed: 0.5,
		},
	}
}

// TickInterval is the fixed period of the shared field tick.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

// Validate rejects values that would stall spawning or produce NaN geometry.
func (c Config) Validate() error {
	var problems []string
	for _, f := range []struct {
		key   string
		value float64
	}{
		{KeyPointsStartDistance, c.PointsStartDistance},
		{KeyPointsSpeed, c.PointsSpeed},
		{KeyPointsRadius, c.PointsRadius},
		{KeyPointsTargetOffset, c.PointsTargetOffset},
		{KeyLineSize, c.LineSize},
		{KeyLineColorA, c.LineColor.A},
		{KeyLineDistance, c.LineDistance},
		{KeyTargetsBoundsOffset, c.TargetsBoundsOffset},
		{KeyCursorRadius, c.CursorRadius},
		{KeyCursorPointsSpeed, c.Cursor.PointsSpeed},
	} {
		if !finite(f.value) {
			problems = append(problems, f.key+" must be finite")
		}
	}
	if !(c.PointsStartDistance > 0) {
		problems = append(problems, "pointsStartDistance must be > 0")
	}
	if c.PointsStartNoise < 0 || c.PointsStartNoise > MaxRandomRange {
		problems = append(problems, fmt.Sprintf("pointsStartNoise must be within [0, %d]", MaxRandomRange))
	}
	if c.PointsSpeed < 0 {
		problems = append(problems, "pointsSpeed must be >= 0")
	}
	if c.PointsRadius < 0 {
		problems = append(problems, "pointsRadius must be >= 0")
	}
	if c.PointsTargetRange < 0 || c.PointsTargetRange > MaxRandomRange {
		problems = append(problems, fmt.Sprintf("pointsTargetRange must be within [0, %d]", MaxRandomRange))
	}
	if c.PointsTargetOffset < 0 {
		problems = append(problems, "pointsTargetOffset must be >= 0")
	}
	if c.LineSize < 0 {
		problems = append(problems, "lineSize must be >= 0")
	}
	if c.LineColor.A < 0 || c.LineColor.A > 1 {
		problems = append(problems, "lineColor.a must be within [0, 1]")
	}
	if c.LineDistance < 0 {
		problems = append(problems, "lineDistance must be >= 0")
	}
	if c.TargetsBoundsOffset < 0 {
		problems = append(problems, "targetsBoundsOffset must be >= 0")
	}
	if c.CursorRadius < 0 {
		problems = append(problems, "cursorRadius must be >= 0")
	}
	if c.TickIntervalMs <= 0 {
		problems = append(problems, "tickIntervalMs must be > 0")
	}
	if c.Cursor.PointsSpeed < 0 {
		problems = append(problems, "cursor.pointsSpeed must be >= 0")
	}
	if _, err := colorful.Hex(c.PointsColor); err != nil {
		problems = append(problems, fmt.Sprintf("pointsColor %q is not a #rrggbb colour", c.PointsColor))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Merge returns a copy of c with overrides applied. Keys absent from
// overrides keep their current value. Nested maps ("lineColor", "cursor")
// are flattened to dotted keys. c itself is never modified.
func (c Config) Merge(overrides map[string]any) (Config, error) {
	merged := c
	for key, value := range overrides {
		if err := merged.Set(key, value); err != nil {
			return c, err
		}
	}
	if err := merged.Validate(); err != nil {
		return c, err
	}
	return merged, nil
}

// Set writes one configuration key. Values may come from JSON (float64,
// bool, string), protobuf Struct maps or UI widgets, and string values are
// parsed the way a form input would deliver them.
func (c *Config) Set(key string, value any) error {
	if nested, ok := value.(map[string]any); ok {
		for sub, v := range nested {
			if err := c.Set(key+"."+sub, v); err != nil {
				return err
			}
		}
		return nil
	}

	var err error
	switch key {
	case KeyPointsStartDistance:
		c.PointsStartDistance, err = toFloat(value)
	case KeyPointsStartNoise:
		c.PointsStartNoise, err = toInt(value)
	case KeyPointsSpeed:
		c.PointsSpeed, err = toFloat(value)
	case KeyPointsRadius:
		c.PointsRadius, err = toFloat(value)
	case KeyPointsColor:
		s, ok := value.(string)
		if !ok {
			err = fmt.Errorf("want a colour string, got %T", value)
			break
		}
		c.PointsColor = s
	case KeyPointsTargetRange:
		c.PointsTargetRange, err = toInt(value)
	case KeyPointsTargetOffset:
		c.PointsTargetOffset, err = toFloat(value)
	case KeyLineSize:
		c.LineSize, err = toFloat(value)
	case KeyLineColorR:
		c.LineColor.R, err = toChannel(value)
	case KeyLineColorG:
		c.LineColor.G, err = toChannel(value)
	case KeyLineColorB:
		c.LineColor.B, err = toChannel(value)
	case KeyLineColorA:
		c.LineColor.A, err = toFloat(value)
	case KeyLineDistance:
		c.LineDistance, err = toFloat(value)
	case KeyTargetsBoundsOffset:
		c.TargetsBoundsOffset, err = toFloat(value)
	case KeyCursorRadius:
		c.CursorRadius, err = toFloat(value)
	case KeyEnableClear:
		c.EnableClear, err = toBool(value)
	case KeyTickIntervalMs:
		c.TickIntervalMs, err = toInt(value)
	case KeyCursorActive:
		c.Cursor.Active, err = toBool(value)
	case KeyCursorPointsSpeed:
		c.Cursor.PointsSpeed, err = toFloat(value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidValue, key, err)
	}
	return nil
}

// Optimized is derived from a Config for use in hot loops: thresholds are
// pre-squared and colours pre-parsed. It is a pure cache of the Config it
// came from.
type Optimized struct {
	LineDistanceSq    float64
	TargetRangeSq     float64
	TargetToleranceSq float64
	CursorRadiusSq    float64
	LineColorCSS      string
	LineColor         color.NRGBA
	PointColor        color.NRGBA
}

// Optimize computes the derived view of c.
func (c Config) Optimize() (Optimized, error) {
	pc, err := colorful.Hex(c.PointsColor)
	if err != nil {
		return Optimized{}, fmt.Errorf("%w: pointsColor: %v", ErrInvalidValue, err)
	}
	r, g, b := pc.RGB255()
	alpha := math.Max(0, math.Min(1, c.LineColor.A))
	target := float64(c.PointsTargetRange)

	return Optimized{
		LineDistanceSq:    c.LineDistance * c.LineDistance,
		TargetRangeSq:     target * target,
		TargetToleranceSq: c.PointsTargetOffset * c.PointsTargetOffset,
		CursorRadiusSq:    c.CursorRadius * c.CursorRadius,
		LineColorCSS: fmt.Sprintf("rgba(%d, %d, %d, %s)",
			c.LineColor.R, c.LineColor.G, c.LineColor.B,
			strconv.FormatFloat(c.LineColor.A, 'f', -1, 64)),
		LineColor: color.NRGBA{
			R: c.LineColor.R,
			G: c.LineColor.G,
			B: c.LineColor.B,
			A: uint8(math.Round(alpha * 255)),
		},
		PointColor: color.NRGBA{R: r, G: g, B: b, A: 255},
	}, nil
}

// LoadConfig loads configuration from a JSON file and validates it against the schema.
// An empty schemaFile uses the schema embedded in this package. Keys missing
// from the file keep their DefaultConfig value.
func LoadConfig(configFile string, schemaFile string) (*Config, error) {
	// 1. Compile Schema
	var (
		sch *jsonschema.Schema
		err error
	)
	if schemaFile == "" {
		sch, err = jsonschema.CompileString("plexus.schema.json", defaultSchema)
	} else {
		sch, err = jsonschema.Compile(schemaFile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	// 2. Read Config File
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	// 3. Validate
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// 4. Unmarshal over the defaults
	cfg := DefaultConfig()
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// toFloat accepts any finite number. strconv parses "NaN" and "Inf", so
// string input is checked like the rest.
func toFloat(value any) (float64, error) {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint8:
		f = float64(v)
	case json.Number:
		var err error
		if f, err = v.Float64(); err != nil {
			return 0, err
		}
	case string:
		var err error
		if f, err = strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("want a number, got %T", value)
	}
	if !finite(f) {
		return 0, fmt.Errorf("want a finite number, got %v", f)
	}
	return f, nil
}

func toInt(value any) (int, error) {
	f, err := toFloat(value)
	if err != nil {
		return 0, err
	}
	if math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("%v is out of range", f)
	}
	return int(math.Round(f)), nil
}

func toChannel(value any) (uint8, error) {
	n, err := toInt(value)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > 255 {
		return 0, fmt.Errorf("colour channel %d outside [0, 255]", n)
	}
	return uint8(n), nil
}

func toBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case float64:
		return v != 0, nil
	case int:
		return v != 0, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "on", "checked":
			return true, nil
		case "off", "":
			return false, nil
		}
		return strconv.ParseBool(v)
	default:
		return false, fmt.Errorf("want a boolean, got %T", value)
	}
}
