package mathutil

// Vec2 is a 2-component point in normalized buffer space (value type).
// X grows to the right and Y grows downward, both over [0,1) across the
// buffer.
type Vec2 struct {
	X, Y float64
}

func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

// Cross returns the z component of the 3D cross product of a and b.
func (a Vec2) Cross(b Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}
