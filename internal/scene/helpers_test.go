package scene

import "tri-raster/internal/mathutil"

func v(x, y float64) mathutil.Vec2 { return mathutil.Vec2{X: x, Y: y} }
