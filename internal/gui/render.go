package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/aerosim/internal/dynamo"
)

// view maps world meters to screen pixels with a uniform scale, centering
// the field in the available area.
type view struct {
	scale            float64
	offsetX, offsetY float64
	width, height    float64
}

func fit(worldW, worldH float64, screenW, screenH int) view {
	const margin = 20
	sx := (float64(screenW) - 2*margin) / worldW
	sy := (float64(screenH) - 2*margin) / worldH
	s := math.Min(sx, sy)
	return view{
		scale:   s,
		offsetX: (float64(screenW) - worldW*s) / 2,
		offsetY: (float64(screenH) - worldH*s) / 2,
		width:   worldW,
		height:  worldH,
	}
}

func (v view) toScreen(p dynamo.Vec2) rl.Vector2 {
	return rl.NewVector2(float32(v.offsetX+p[0]*v.scale), float32(v.offsetY+p[1]*v.scale))
}

func (a *App) drawField() {
	v := a.view
	rl.DrawRectangleLinesEx(rl.NewRectangle(float32(v.offsetX), float32(v.offsetY),
		float32(v.width*v.scale), float32(v.height*v.scale)), 2, ColField)
	floorL := v.toScreen(dynamo.Vec2{0, v.height})
	floorR := v.toScreen(dynamo.Vec2{v.width, v.height})
	rl.DrawLineEx(floorL, floorR, 4, ColFloor)
}

func (a *App) drawBodies() {
	v := a.view
	for _, trail := range a.Trails {
		for _, p := range trail {
			rl.DrawPixelV(v.toScreen(p), ColTextDim)
		}
	}

	sel := a.Exp.Handles()[a.Selected]
	for _, b := range a.Frame.Bodies {
		c := v.toScreen(b.Position)
		r := float32(b.Radius * v.scale)
		col := ColText
		if b.Handle == sel {
			col = ColSelect
			// nose line: positive angle of attack points up on screen
			l := float64(r) * 2
			tip := rl.NewVector2(c.X+float32(l*math.Cos(b.AngleOfAttack)), c.Y-float32(l*math.Sin(b.AngleOfAttack)))
			rl.DrawLineEx(c, tip, 2, ColAccent)
			if a.Wind != 0 {
				a.drawWind(c, r)
			}
		}
		rl.DrawCircleV(c, r, col)
		if b.Contacts.Has(dynamo.Bounced) {
			rl.DrawCircleLines(int32(c.X), int32(c.Y), r+4, ColWind)
		}
	}
}

// drawWind draws an arrow from the windward side toward the body.
func (a *App) drawWind(c rl.Vector2, r float32) {
	dir := float32(a.Wind)
	start := rl.NewVector2(c.X-dir*(r+40), c.Y)
	end := rl.NewVector2(c.X-dir*(r+8), c.Y)
	rl.DrawLineEx(start, end, 2, ColWind)
	rl.DrawTriangle(end, rl.NewVector2(end.X-dir*8, end.Y-5*dir), rl.NewVector2(end.X-dir*8, end.Y+5*dir), ColWind)
}
