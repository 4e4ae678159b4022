package view

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/vivarium/sim"
)

var (
	backgroundColor = rl.Color{R: 18, G: 22, B: 28, A: 255}
	worldColor      = rl.Color{R: 26, G: 32, B: 40, A: 255}
	borderColor     = rl.Color{R: 60, G: 72, B: 86, A: 255}
	creatureOutline = rl.Color{R: 235, G: 235, B: 235, A: 160}
)

// Renderer draws every object as a filled circle. Creatures also get an
// outline and a line showing their heading.
type Renderer struct {
	camera *Camera
	worldW float64
	worldH float64
}

// NewRenderer creates a renderer for a world of the given size.
func NewRenderer(worldW, worldH float64) *Renderer {
	return &Renderer{
		camera: NewCamera(worldW, worldH, worldW, worldH),
		worldW: worldW,
		worldH: worldH,
	}
}

// Resize updates the screen size the world is drawn into.
func (r *Renderer) Resize(screenW, screenH int32) {
	r.camera.Resize(float64(screenW), float64(screenH))
}

// Camera returns the renderer's camera for pan and zoom control.
func (r *Renderer) Camera() *Camera { return r.camera }

// Viewport returns the current world-to-screen mapping.
func (r *Renderer) Viewport() Viewport { return r.camera.Viewport() }

// Draw renders env. It must be called between rl.BeginDrawing and
// rl.EndDrawing.
func (r *Renderer) Draw(env *sim.Environment) {
	rl.ClearBackground(backgroundColor)

	v := r.camera.Viewport()
	rl.DrawRectangle(
		int32(v.OffsetX), int32(v.OffsetY),
		int32(r.worldW*v.Scale), int32(r.worldH*v.Scale),
		worldColor,
	)
	rl.DrawRectangleLines(
		int32(v.OffsetX), int32(v.OffsetY),
		int32(r.worldW*v.Scale), int32(r.worldH*v.Scale),
		borderColor,
	)

	for _, o := range env.Objects() {
		c := o.Core()
		if !r.camera.IsVisible(c.Location.X, c.Location.Y, c.Radius()) {
			continue
		}
		center := v.ToScreen(c.Location)
		radius := float32(c.Radius() * v.Scale)
		if radius < 1 {
			radius = 1
		}

		rl.DrawCircleV(center, radius, ToRLColor(c.Color))

		if o.Class() == sim.ClassCreature {
			rl.DrawCircleLinesV(center, radius, creatureOutline)
			tip := headingTip(center, c.Vector.HeadingRadians(), float64(radius)*1.6)
			rl.DrawLineV(center, tip, creatureOutline)
		}
	}
}
