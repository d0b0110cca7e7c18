package gui

import (
	"context"
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/aerosim/internal/config"
	"github.com/san-kum/aerosim/internal/control"
	"github.com/san-kum/aerosim/internal/dynamo"
	"github.com/san-kum/aerosim/internal/experiment"
	"github.com/san-kum/aerosim/internal/logging"
	"github.com/san-kum/aerosim/internal/sim"
)

const (
	screenWidth  = 1280
	screenHeight = 800
	hudHeight    = 90
	maxTelemetry = 300
	maxTrail     = 120
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColField   = rl.NewColor(58, 74, 102, 255)
	ColFloor   = rl.NewColor(136, 136, 153, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColAccent  = rl.NewColor(0, 204, 255, 255)
	ColWind    = rl.NewColor(255, 136, 102, 255)
)

// App owns the window loop. The selected body takes keyboard input through
// a manual controller layered over its configured one.
type App struct {
	Cfg       *config.Config
	Registry  *experiment.Registry
	Log       *logging.Logger
	Exp       *experiment.Experiment
	Manual    *control.Manual
	Frame     sim.Frame
	Time      float64
	Running   bool
	Selected  int
	Wind      float64
	Trails    map[dynamo.Handle][]dynamo.Vec2
	Telemetry []float64
	Err       error
	view      view
}

func initWindow() {
	rl.InitWindow(screenWidth, screenHeight, "aerosim")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func NewApp(cfg *config.Config, registry *experiment.Registry, log *logging.Logger) (*App, error) {
	if registry == nil {
		registry = experiment.NewRegistry()
	}
	if log == nil {
		log = logging.Nop()
	}
	a := &App{
		Cfg:      cfg.Clone(),
		Registry: registry,
		Log:      log,
		Manual:   control.NewManual(),
		Running:  true,
		view:     fit(cfg.World.Width, cfg.World.Height, screenWidth, screenHeight-hudHeight),
	}
	if err := a.reset(); err != nil {
		return nil, err
	}
	return a, nil
}

// Run opens a window on cfg and blocks until it is closed.
func Run(cfg *config.Config, registry *experiment.Registry, log *logging.Logger) error {
	initWindow()
	defer rl.CloseWindow()
	a, err := NewApp(cfg, registry, log)
	if err != nil {
		return err
	}
	a.RunLoop()
	return a.Err
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) {
			return
		}
		a.Update()
		a.Draw()
	}
}

func (a *App) reset() error {
	exp, err := experiment.Build(a.Cfg.Clone(), a.Registry, a.Log)
	if err != nil {
		return err
	}
	a.Exp = exp
	a.Time = 0
	a.Err = nil
	a.Manual.Release()
	a.Selected = min(a.Selected, len(exp.Handles())-1)
	a.Trails = make(map[dynamo.Handle][]dynamo.Vec2)
	a.Telemetry = a.Telemetry[:0]
	a.Frame = exp.GetSimulator().Frame(0)
	a.attach()
	return nil
}

func (a *App) attach() {
	h := a.Exp.Handles()[a.Selected]
	a.Exp.GetSimulator().SetController(h, control.Sum{a.Exp.Controller(h), a.Manual})
}

func (a *App) selectNext() {
	h := a.Exp.Handles()[a.Selected]
	a.Exp.GetSimulator().SetController(h, a.Exp.Controller(h))
	a.Manual.Release()
	a.Selected = (a.Selected + 1) % len(a.Exp.Handles())
	a.attach()
}

// Update reads the keyboard and advances the sim by one fixed step.
func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		if err := a.reset(); err != nil {
			a.Err = err
		}
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		a.selectNext()
	}

	wind := 0.0
	if rl.IsKeyDown(rl.KeyA) || rl.IsKeyDown(rl.KeyLeft) {
		wind--
	}
	if rl.IsKeyDown(rl.KeyD) || rl.IsKeyDown(rl.KeyRight) {
		wind++
	}
	a.Manual.Wind(wind)
	a.Wind = wind
	if rl.IsKeyPressed(rl.KeyW) || rl.IsKeyPressed(rl.KeyUp) {
		a.Manual.Tilt(1)
	}
	if rl.IsKeyPressed(rl.KeyS) || rl.IsKeyPressed(rl.KeyDown) {
		a.Manual.Tilt(-1)
	}

	if a.Running && a.Err == nil {
		a.step()
	}
}

func (a *App) step() {
	sc := a.Exp.SimConfig()
	frame, err := a.Exp.GetSimulator().Tick(context.Background(), a.Time, sc.Dt, sc.Parallel)
	if err != nil {
		a.Err = err
		a.Log.Error(context.Background(), "step failed", err, "t", a.Time)
		return
	}
	a.Time = frame.Time
	a.Frame = frame

	energy := 0.0
	for _, s := range frame.Bodies {
		trail := append(a.Trails[s.Handle], s.Position)
		if len(trail) > maxTrail {
			trail = trail[1:]
		}
		a.Trails[s.Handle] = trail
		energy += a.Exp.World().Energy(s)
	}
	a.Telemetry = append(a.Telemetry, energy)
	if len(a.Telemetry) > maxTelemetry {
		a.Telemetry = a.Telemetry[1:]
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)
	a.drawField()
	a.drawBodies()
	a.DrawHUD()
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	y := int32(screenHeight - hudHeight + 12)
	rl.DrawText("aerosim", 20, y, 24, ColSelect)
	rl.DrawText(fmt.Sprintf(":: %s / %s", a.Cfg.Controller, a.Cfg.Integrator), 140, y+6, 16, ColText)

	status, col := "RUNNING", ColSelect
	switch {
	case a.Err != nil:
		status, col = "HALTED", rl.Red
	case !a.Running:
		status, col = "PAUSED", ColTextDim
	}
	rl.DrawText(status, screenWidth-120, y, 16, col)

	h := a.Exp.Handles()[a.Selected]
	if b, ok := a.Frame.Body(h); ok {
		rl.DrawText(fmt.Sprintf("t %.2fs  body %d/%d  pos %.2f,%.2f  vel %.2f,%.2f  aoa %.1f deg  ground %v",
			a.Time, a.Selected+1, len(a.Exp.Handles()), b.Position[0], b.Position[1],
			b.Velocity[0], b.Velocity[1], b.AngleOfAttack*180/math.Pi, b.OnGround), 20, y+32, 16, ColText)
	}
	a.DrawTelemetry(screenWidth-440, int(y)+28, 300, 40)
	rl.DrawText("[A/D] WIND  [W/S] AOA  [TAB] BODY  [SPACE] PAUSE  [R] RESET  [Q] QUIT", 20, y+56, 14, ColTextDim)
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), screenWidth-80, y+56, 14, ColTextDim)
	if a.Err != nil {
		rl.DrawText(a.Err.Error(), 20, 20, 16, rl.Red)
	}
}

// DrawTelemetry plots total mechanical energy as a line strip.
func (a *App) DrawTelemetry(x, y, width, height int) {
	if len(a.Telemetry) < 2 {
		return
	}
	lo, hi := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, v := range a.Telemetry {
		px := float32(x) + float32(i)/float32(len(a.Telemetry))*float32(width)
		py := float32(y+height) - float32((v-lo)/(hi-lo))*float32(height)
		points[i] = rl.NewVector2(px, py)
	}
	rl.DrawLineStrip(points, ColAccent)
	rl.DrawText(fmt.Sprintf("E %.1f J", a.Telemetry[len(a.Telemetry)-1]), int32(x+width+10), int32(y+height-14), 14, ColText)
}
