package view

import (
	"math"
	"testing"

	"github.com/pthm-cable/vivarium/components"
)

func TestNewCamera(t *testing.T) {
	cam := NewCamera(800, 600, 1000, 500)

	if cam.X != 500 || cam.Y != 250 {
		t.Errorf("expected camera at (500, 250), got (%v, %v)", cam.X, cam.Y)
	}

	// At zoom 1 the camera view equals the fitted view.
	got := cam.Viewport()
	want := FitViewport(1000, 500, 800, 600)
	if math.Abs(got.Scale-want.Scale) > 1e-9 || math.Abs(got.OffsetX-want.OffsetX) > 1e-9 || math.Abs(got.OffsetY-want.OffsetY) > 1e-9 {
		t.Errorf("Viewport = %+v, want %+v", got, want)
	}
}

func TestCamera_CenterMapsToScreenCenter(t *testing.T) {
	cam := NewCamera(800, 600, 1000, 500)
	cam.SetZoom(3)
	cam.X, cam.Y = 100, 400

	p := cam.Viewport().ToScreen(components.Location{X: 100, Y: 400})
	if math.Abs(float64(p.X)-400) > 0.01 || math.Abs(float64(p.Y)-300) > 0.01 {
		t.Errorf("expected screen center (400, 300), got (%v, %v)", p.X, p.Y)
	}
}

func TestCamera_Zoom(t *testing.T) {
	cam := NewCamera(800, 600, 800, 600)

	cam.ZoomBy(2)
	if cam.Zoom != 2 {
		t.Errorf("Zoom = %v, want 2", cam.Zoom)
	}
	cam.SetZoom(100)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("Zoom = %v, want max %v", cam.Zoom, cam.MaxZoom)
	}
	cam.SetZoom(0.1)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("Zoom = %v, want min %v", cam.Zoom, cam.MinZoom)
	}
}

func TestCamera_PanStaysInWorld(t *testing.T) {
	cam := NewCamera(800, 600, 800, 600)
	cam.SetZoom(2)

	cam.Pan(100, -50)
	if cam.X != 450 || cam.Y != 275 {
		t.Errorf("after pan camera at (%v, %v), want (450, 275)", cam.X, cam.Y)
	}

	cam.Pan(1e6, 1e6)
	if cam.X != 800 || cam.Y != 600 {
		t.Errorf("camera at (%v, %v), want clamped to (800, 600)", cam.X, cam.Y)
	}

	cam.Reset()
	if cam.X != 400 || cam.Y != 300 || cam.Zoom != 1 {
		t.Errorf("after Reset camera = %+v", cam)
	}
}

func TestCamera_IsVisible(t *testing.T) {
	cam := NewCamera(800, 600, 800, 600)
	cam.SetZoom(4)
	// Visible area is 200x150 centered on (400, 300).

	tests := []struct {
		name    string
		x, y, r float64
		want    bool
	}{
		{"center", 400, 300, 1, true},
		{"outside", 100, 100, 5, false},
		{"overlapping edge", 295, 300, 10, true},
		{"just outside edge", 280, 300, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cam.IsVisible(tt.x, tt.y, tt.r); got != tt.want {
				t.Errorf("IsVisible(%v, %v, %v) = %v, want %v", tt.x, tt.y, tt.r, got, tt.want)
			}
		})
	}
}
