package game

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes keyboard input.
func (g *Game) handleInput() {
	if rl.IsWindowResized() {
		g.renderer.Resize(int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()))
	}

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		g.setSpeed(g.stepsPerUpdate - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		g.setSpeed(g.stepsPerUpdate + 1)
	}

	if rl.IsKeyPressed(rl.KeyS) && g.snapshotDir != "" {
		g.saveSnapshot(nil)
	}

	g.handleCameraInput()
}

const panSpeed = 8 // screen pixels per frame

// handleCameraInput maps the mouse wheel to zoom and arrow keys to pan.
func (g *Game) handleCameraInput() {
	cam := g.renderer.Camera()

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		cam.ZoomBy(1 + 0.1*float64(wheel))
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyRight) {
		cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		cam.Pan(0, -panSpeed)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		cam.Pan(0, panSpeed)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		cam.Reset()
	}
}

func (g *Game) setSpeed(steps int) {
	g.stepsPerUpdate = max(1, min(maxStepsPerUpdate, steps))
}
