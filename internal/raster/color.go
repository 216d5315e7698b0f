package raster

// Color is a linear RGB color with float channels nominally in [0,1].
// Channels are never clamped here; overshoot is resolved at output.
type Color struct {
	R, G, B float64
}

// Common colors.
var (
	Black = Color{0, 0, 0}
	White = Color{1, 1, 1}
	Red   = Color{1, 0, 0}
)

// Scale returns c with every channel multiplied by s.
func (c Color) Scale(s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s}
}

// Add returns the component-wise sum of c and o.
func (c Color) Add(o Color) Color {
	return Color{c.R + o.R, c.G + o.G, c.B + o.B}
}

// Lerp returns c*t + o*(1-t). With t as coverage this is the
// "source over" blend of c onto o.
func (c Color) Lerp(o Color, t float64) Color {
	return c.Scale(t).Add(o.Scale(1 - t))
}
