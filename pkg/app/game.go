package app

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/lao-tseu-is-alive/go-plexus/pkg/plexus"
	"github.com/lao-tseu-is-alive/go-plexus/pkg/render"
	"github.com/lao-tseu-is-alive/go-plexus/pkg/ui"
	"github.com/tochemey/goakt/v3/actor"
	"google.golang.org/protobuf/proto"
)

var background = color.RGBA{R: 10, G: 10, B: 20, A: 255}

// Game is the ebiten front end. The field lives in a FieldActor; the game only
// sends it messages and replays the frames it publishes.
type Game struct {
	ctx      context.Context
	System   actor.ActorSystem
	fieldPID *actor.PID
	frames   chan *plexus.Frame

	width, height int
	canvas        *render.Canvas
	lastStats     plexus.Stats
	tickInterval  time.Duration
	pointer       pointerTracker

	// UI Controls
	panel     *ui.UIPanel
	controls  *ui.Controls
	showStats bool

	// Timing instrumentation
	updateAvg float64 // Rolling average in ms
	drawAvg   float64 // Rolling average in ms
}

// NewGame spawns the field actor on system and builds the control panel.
func NewGame(ctx context.Context, system actor.ActorSystem, cfg plexus.Config, width, height int, showStats bool, opts ...plexus.Option) (*Game, error) {
	frames := make(chan *plexus.Frame, 10) // Buffer to avoid blocking

	opts = append([]plexus.Option{plexus.WithConfig(cfg), plexus.WithLogger(system.Logger())}, opts...)
	fieldActor, err := plexus.NewFieldActor(float64(width), float64(height), frames, opts...)
	if err != nil {
		return nil, err
	}
	fieldPID, err := system.Spawn(ctx, "plexus", fieldActor)
	if err != nil {
		return nil, fmt.Errorf("spawn plexus field: %w", err)
	}

	g := &Game{
		ctx:          ctx,
		System:       system,
		fieldPID:     fieldPID,
		frames:       frames,
		width:        width,
		height:       height,
		canvas:       render.NewCanvas(width, height),
		tickInterval: cfg.TickInterval(),
		showStats:    showStats,
	}
	g.buildPanel(cfg)
	ebiten.SetTPS(tps(g.tickInterval))
	return g, nil
}

func (g *Game) buildPanel(cfg plexus.Config) {
	panel := ui.NewUIPanel("Plexus (Tab to hide)", 10, 10, 260, float64(g.height)-20)
	c := ui.NewControls()

	panel.AddSection("Points")
	c.BindSlider(plexus.KeyPointsStartDistance, panel.AddSlider("Start Distance (respawn)", 20, 300, cfg.PointsStartDistance), false)
	c.BindSlider(plexus.KeyPointsStartNoise, panel.AddSlider("Start Noise (respawn)", 0, 300, float64(cfg.PointsStartNoise)), true)
	c.BindSlider(plexus.KeyPointsSpeed, panel.AddSlider("Speed", 0, 5, cfg.PointsSpeed), false)
	c.BindSlider(plexus.KeyPointsRadius, panel.AddSlider("Radius", 0, 10, cfg.PointsRadius), false)
	c.BindSlider(plexus.KeyPointsTargetRange, panel.AddSlider("Target Range", 0, 400, float64(cfg.PointsTargetRange)), true)
	c.BindSlider(plexus.KeyPointsTargetOffset, panel.AddSlider("Target Offset", 1, 50, cfg.PointsTargetOffset), false)
	panel.EndSection()

	panel.AddSection("Lines")
	c.BindSlider(plexus.KeyLineDistance, panel.AddSlider("Line Distance", 0, 300, cfg.LineDistance), false)
	c.BindSlider(plexus.KeyLineSize, panel.AddSlider("Line Size", 0, 10, cfg.LineSize), false)
	c.BindSlider(plexus.KeyLineColorR, panel.AddSlider("Red", 0, 255, float64(cfg.LineColor.R)), true)
	c.BindSlider(plexus.KeyLineColorG, panel.AddSlider("Green", 0, 255, float64(cfg.LineColor.G)), true)
	c.BindSlider(plexus.KeyLineColorB, panel.AddSlider("Blue", 0, 255, float64(cfg.LineColor.B)), true)
	c.BindSlider(plexus.KeyLineColorA, panel.AddSlider("Alpha", 0, 1, cfg.LineColor.A), false)
	panel.EndSection()

	panel.AddSection("Pointer & Bounds")
	c.BindCheckbox(plexus.KeyCursorActive, panel.AddCheckbox("Pointer Force", cfg.Cursor.Active))
	c.BindSlider(plexus.KeyCursorRadius, panel.AddSlider("Pointer Radius", 0, 500, cfg.CursorRadius), false)
	c.BindSlider(plexus.KeyCursorPointsSpeed, panel.AddSlider("Pointer Speed", 0, 5, cfg.Cursor.PointsSpeed), false)
	c.BindSlider(plexus.KeyTargetsBoundsOffset, panel.AddSlider("Bounds Offset", 0, 400, cfg.TargetsBoundsOffset), false)
	panel.EndSection()

	panel.AddSection("Animation")
	c.BindCheckbox(plexus.KeyEnableClear, panel.AddCheckbox("Clear Each Tick", cfg.EnableClear))
	c.BindSlider(plexus.KeyTickIntervalMs, panel.AddSlider("Tick (ms)", 10, 100, float64(cfg.TickIntervalMs)), true)
	panel.EndSection()

	panel.AddButton("Respawn", func() {
		g.tell(plexus.NewRespawnMessage())
	})

	c.Poll() // record starting values
	g.panel = panel
	g.controls = c
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		// Rolling average (exponential moving average)
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.panel.Toggle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.showStats = !g.showStats
	}

	// 1. Update UI Panel and forward edits
	g.panel.Update()
	if values, changed := g.controls.Poll(); changed {
		g.reconfigure(values)
	}

	// 2. Pointer events, unless the mouse is over the panel
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	inside := mx >= 0 && my >= 0 && mx < g.width && my < g.height && !g.panel.Contains(x, y)
	for _, ev := range g.pointer.update(x, y, inside, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)) {
		g.tell(plexus.NewPointerMessage(ev.kind, ev.x, ev.y))
	}

	// 3. Replay every pending frame so trails survive when clearing is off
Loop:
	for {
		select {
		case frame := <-g.frames:
			plexus.Replay(g.canvas, frame.Commands)
			g.lastStats = frame.Stats
		default:
			break Loop
		}
	}

	// 4. Trigger Simulation Step
	g.tell(plexus.NewTickMessage(g.tickInterval))
	return nil
}

func (g *Game) reconfigure(values map[string]any) {
	msg, err := plexus.NewReconfigureMessage(values)
	if err != nil {
		g.System.Logger().Warnf("plexus: bad control values: %v", err)
		return
	}
	g.tell(msg)

	if ms, ok := values[plexus.KeyTickIntervalMs].(int); ok && ms > 0 {
		g.tickInterval = time.Duration(ms) * time.Millisecond
		ebiten.SetTPS(tps(g.tickInterval))
	}
}

func (g *Game) tell(msg proto.Message) {
	if err := actor.Tell(g.ctx, g.fieldPID, msg); err != nil {
		g.System.Logger().Warnf("plexus: tell field: %v", err)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	screen.Fill(background)
	screen.DrawImage(g.canvas.Image(), nil)

	g.panel.Draw(screen)

	if g.showStats {
		msg := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\n\nUpdate: %.2fms\nDraw:   %.2fms\n\n%d points\n%d active\n%d edges",
			ebiten.ActualFPS(),
			ebiten.ActualTPS(),
			g.updateAvg,
			g.drawAvg,
			g.lastStats.Points,
			g.lastStats.Active,
			g.lastStats.Edges)
		ebitenutil.DebugPrintAt(screen, msg, g.width-150, 10)
	}
}

func (g *Game) Layout(_, _ int) (int, int) { return g.width, g.height }

func tps(tick time.Duration) int {
	return max(int(time.Second/tick), 1)
}
