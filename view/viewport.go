// Package view draws an environment with raylib. Nothing here is imported by
// the kernel; the host calls Draw once per frame.
package view

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/vivarium/components"
)

// Viewport maps world coordinates onto a screen rectangle, preserving the
// aspect ratio and centering the world inside the rectangle.
type Viewport struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// FitViewport returns the viewport that fits a worldW x worldH world into a
// screenW x screenH area.
func FitViewport(worldW, worldH, screenW, screenH float64) Viewport {
	if worldW <= 0 || worldH <= 0 {
		return Viewport{Scale: 1}
	}
	scale := math.Min(screenW/worldW, screenH/worldH)
	return Viewport{
		Scale:   scale,
		OffsetX: (screenW - worldW*scale) / 2,
		OffsetY: (screenH - worldH*scale) / 2,
	}
}

// ToScreen converts a world location to screen pixels.
func (v Viewport) ToScreen(l components.Location) rl.Vector2 {
	return rl.Vector2{
		X: float32(l.X*v.Scale + v.OffsetX),
		Y: float32(l.Y*v.Scale + v.OffsetY),
	}
}

// ToWorld converts screen pixels back to a world location.
func (v Viewport) ToWorld(p rl.Vector2) components.Location {
	return components.Location{
		X: (float64(p.X) - v.OffsetX) / v.Scale,
		Y: (float64(p.Y) - v.OffsetY) / v.Scale,
	}
}

// ToRLColor converts a unit-range color to an opaque raylib color.
func ToRLColor(c components.Color) rl.Color {
	r, g, b := c.RGB()
	return rl.Color{R: channel(r), G: channel(g), B: channel(b), A: 255}
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// headingTip returns the end point of a heading marker of the given length
// starting at center. Headings follow screen convention (y grows downward).
func headingTip(center rl.Vector2, headingRad, length float64) rl.Vector2 {
	return rl.Vector2{
		X: center.X + float32(math.Cos(headingRad)*length),
		Y: center.Y + float32(math.Sin(headingRad)*length),
	}
}
