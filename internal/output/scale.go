package output

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Filter names accepted by Scale.
const (
	FilterNearest    = "nearest"
	FilterCatmullRom = "catmullrom"
)

// Scale enlarges img by an integer factor for viewing. Nearest keeps hard
// pixel edges; CatmullRom smooths them.
func Scale(img *image.NRGBA, factor int, filter string) (*image.NRGBA, error) {
	if factor <= 1 {
		return img, nil
	}

	var s draw.Scaler
	switch filter {
	case "", FilterNearest:
		s = draw.NearestNeighbor
	case FilterCatmullRom:
		s = draw.CatmullRom
	default:
		return nil, fmt.Errorf("output: unknown filter %q", filter)
	}

	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	s.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst, nil
}
