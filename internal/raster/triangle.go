package raster

import "tri-raster/internal/mathutil"

// Triangle is a flat-shaded triangle in normalized buffer space.
// Vertices must be supplied clockwise (Y down); this is not checked and
// other windings silently produce empty or wrong coverage.
type Triangle struct {
	A, B, C mathutil.Vec2
	Color   Color
}

// Contains reports whether p lies strictly inside t.
//
// Each edge is evaluated as a line y = k*x + d. The point must lie below
// edge A→B and above edges B→C and C→A. Any vertical edge makes the test
// fail for every point, so such triangles never rasterize.
func (t *Triangle) Contains(p mathutil.Vec2) bool {
	if h, ok := slopeHeightAt(t.A, t.B, p.X); !ok || h >= p.Y {
		return false
	}
	if h, ok := slopeHeightAt(t.B, t.C, p.X); !ok || h <= p.Y {
		return false
	}
	if h, ok := slopeHeightAt(t.C, t.A, p.X); !ok || h <= p.Y {
		return false
	}
	return true
}

// slopeHeightAt returns the y value of the line through p1 and p2 at x.
// ok is false when the line is vertical.
func slopeHeightAt(p1, p2 mathutil.Vec2, x float64) (float64, bool) {
	dx := p2.X - p1.X
	if dx == 0 {
		return 0, false
	}
	k := (p2.Y - p1.Y) / dx
	d := p1.Y - k*p1.X
	return k*x + d, true
}
