package view

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds what the heads-up display shows.
type HUDData struct {
	Title      string
	Tick       uint64
	Population int
	Creatures  int
	Speed      int
	FPS        int32
	Viewers    int
	Paused     bool
}

// HUDInput reports what the user did with the HUD controls this frame.
type HUDInput struct {
	TogglePause bool
	Step        bool
	Speed       int
}

// HUD draws status text and the pause/step/speed controls.
type HUD struct {
	MaxSpeed int
}

// NewHUD creates a HUD whose speed slider goes up to maxSpeed.
func NewHUD(maxSpeed int) *HUD {
	return &HUD{MaxSpeed: max(1, maxSpeed)}
}

// Draw renders the HUD and returns the control input.
func (h *HUD) Draw(data HUDData) HUDInput {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)
	rl.DrawText(statusLine(data), 10, 35, 16, rl.LightGray)

	if data.Paused {
		rl.DrawText("PAUSED", 10, 55, 16, rl.Yellow)
	}

	in := HUDInput{Speed: data.Speed}
	in.TogglePause = gui.Button(rl.Rectangle{X: 10, Y: 80, Width: 80, Height: 24}, pauseLabel(data.Paused))
	in.Step = gui.Button(rl.Rectangle{X: 96, Y: 80, Width: 80, Height: 24}, "Step")

	speed := gui.SliderBar(
		rl.Rectangle{X: 60, Y: 112, Width: 116, Height: 18},
		"Speed", fmt.Sprintf("%dx", data.Speed),
		float32(data.Speed), 1, float32(h.MaxSpeed),
	)
	in.Speed = int(speed + 0.5)

	return in
}

func statusLine(data HUDData) string {
	return fmt.Sprintf("Tick: %d | Objects: %d | Creatures: %d | Speed: %dx | FPS: %d | Viewers: %d",
		data.Tick, data.Population, data.Creatures, data.Speed, data.FPS, data.Viewers)
}

func pauseLabel(paused bool) string {
	if paused {
		return "Resume"
	}
	return "Pause"
}
