package components

// Color is an RGB color whose channels saturate into [0, 1] on every write.
type Color struct {
	red, green, blue float64
}

// NewColor creates a color, clamping each channel.
func NewColor(r, g, b float64) Color {
	var c Color
	c.SetRed(r)
	c.SetGreen(g)
	c.SetBlue(b)
	return c
}

func (c Color) Red() float64   { return c.red }
func (c Color) Green() float64 { return c.green }
func (c Color) Blue() float64  { return c.blue }

func (c *Color) SetRed(v float64)   { c.red = clamp01(v) }
func (c *Color) SetGreen(v float64) { c.green = clamp01(v) }
func (c *Color) SetBlue(v float64)  { c.blue = clamp01(v) }

// Add returns the channel-wise sum, clamped.
func (c Color) Add(o Color) Color {
	return NewColor(c.red+o.red, c.green+o.green, c.blue+o.blue)
}

// Blend moves each channel towards o by the fraction t.
func (c Color) Blend(o Color, t float64) Color {
	return NewColor(
		c.red+(o.red-c.red)*t,
		c.green+(o.green-c.green)*t,
		c.blue+(o.blue-c.blue)*t,
	)
}

// RGB returns the three channels.
func (c Color) RGB() (r, g, b float64) {
	return c.red, c.green, c.blue
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
