package view

// Camera controls which part of the world is on screen. Zoom is relative to
// the fitted view: at zoom 1 the whole world is visible. The world is
// bounded, so the center is kept inside it.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float64

	Zoom float64

	ScreenW, ScreenH float64
	WorldW, WorldH   float64

	MinZoom, MaxZoom float64
}

// NewCamera creates a camera centered on the world with the whole world in view.
func NewCamera(screenW, screenH, worldW, worldH float64) *Camera {
	return &Camera{
		X:       worldW / 2,
		Y:       worldH / 2,
		Zoom:    1,
		ScreenW: screenW,
		ScreenH: screenH,
		WorldW:  worldW,
		WorldH:  worldH,
		MinZoom: 1,
		MaxZoom: 8,
	}
}

// Viewport returns the world-to-screen mapping for the camera's position and zoom.
func (c *Camera) Viewport() Viewport {
	fit := FitViewport(c.WorldW, c.WorldH, c.ScreenW, c.ScreenH)
	scale := fit.Scale * c.Zoom
	return Viewport{
		Scale:   scale,
		OffsetX: c.ScreenW/2 - c.X*scale,
		OffsetY: c.ScreenH/2 - c.Y*scale,
	}
}

// Resize updates the screen dimensions.
func (c *Camera) Resize(screenW, screenH float64) {
	c.ScreenW = screenW
	c.ScreenH = screenH
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float64) {
	scale := c.Viewport().Scale
	c.X = clamp(c.X+dx/scale, 0, c.WorldW)
	c.Y = clamp(c.Y+dy/scale, 0, c.WorldH)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = 1
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float64) {
	scale := c.Viewport().Scale
	halfW := c.ScreenW / (2 * scale)
	halfH := c.ScreenH / (2 * scale)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

// IsVisible reports whether a circle at (x, y) could be on screen.
func (c *Camera) IsVisible(x, y, radius float64) bool {
	minX, minY, maxX, maxY := c.VisibleWorldBounds()
	return x+radius >= minX && x-radius <= maxX && y+radius >= minY && y-radius <= maxY
}

func clamp(x, lo, hi float64) float64 {
	return max(lo, min(hi, x))
}
