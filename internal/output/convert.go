package output

import (
	"image"
	"math"

	"tri-raster/internal/raster"
)

// ToNRGBA converts a float framebuffer into an opaque 8-bit image.
// Each channel becomes floor(255*v) after clamping v to [0,1]; NaN maps to 0.
func ToNRGBA(fb *raster.FrameBuffer) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for row := 0; row < fb.Height; row++ {
		off := row * img.Stride
		for col := 0; col < fb.Width; col++ {
			c := fb.At(row, col)
			i := off + col*4
			img.Pix[i] = toByte(c.R)
			img.Pix[i+1] = toByte(c.G)
			img.Pix[i+2] = toByte(c.B)
			img.Pix[i+3] = 255
		}
	}
	return img
}

func toByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Floor(255 * v))
}
