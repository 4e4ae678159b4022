package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/vivarium/sim"
	"github.com/pthm-cable/vivarium/view"
)

// Update handles input and advances the simulation for one rendered frame.
// Requires an open raylib window.
func (g *Game) Update() {
	g.perfCollector.RecordFrame()
	g.handleInput()

	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step()
	}
}

// Draw renders the environment and the HUD. Control input from the HUD is
// applied immediately and takes effect on the next Update.
func (g *Game) Draw() {
	if g.headless {
		return
	}
	if !g.sized {
		g.renderer.Resize(int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()))
		g.sized = true
	}

	rl.BeginDrawing()
	g.renderer.Draw(g.env)

	in := g.hud.Draw(g.hudData())
	if in.TogglePause {
		g.paused = !g.paused
	}
	if in.Step && g.paused {
		g.Step()
	}
	g.setSpeed(in.Speed)

	rl.EndDrawing()
}

func (g *Game) hudData() view.HUDData {
	objects := g.env.Objects()
	creatures := 0
	for _, o := range objects {
		if o.Class() == sim.ClassCreature {
			creatures++
		}
	}
	viewers := 0
	if g.broadcaster != nil {
		viewers = g.broadcaster.Clients()
	}
	return view.HUDData{
		Title:      "Vivarium",
		Tick:       g.env.Tick(),
		Population: len(objects),
		Creatures:  creatures,
		Speed:      g.stepsPerUpdate,
		FPS:        rl.GetFPS(),
		Viewers:    viewers,
		Paused:     g.paused,
	}
}
