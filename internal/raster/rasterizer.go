package raster

import (
	"errors"
	"fmt"
	"sync"

	"tri-raster/internal/mathutil"
)

// DefaultSupersample is the per-axis sample count used when Config leaves
// it unset (2×2 = 4 samples per pixel).
const DefaultSupersample = 2

// ErrSizeMismatch is returned when a buffer does not match the
// rasterizer's configured dimensions.
var ErrSizeMismatch = errors.New("raster: framebuffer size mismatch")

// Config fixes the target size and sampling for a Rasterizer.
type Config struct {
	Width       int
	Height      int
	Supersample int // samples per axis; <= 0 means DefaultSupersample
	Workers     int // row bands composited in parallel; <= 1 is sequential
}

// Rasterizer composites flat-shaded triangles into a FrameBuffer with
// fixed-grid supersampling. It holds no reference to any buffer between
// calls and may be shared by goroutines working on different buffers.
type Rasterizer struct {
	cfg     Config
	subW    float64
	subH    float64
	sampleW float64 // coverage contributed by one inside sample
}

// New precomputes the sample grid for cfg.
func New(cfg Config) *Rasterizer {
	if cfg.Supersample <= 0 {
		cfg.Supersample = DefaultSupersample
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	s := float64(cfg.Supersample)
	return &Rasterizer{
		cfg:     cfg,
		subW:    1.0 / float64(cfg.Width) / s,
		subH:    1.0 / float64(cfg.Height) / s,
		sampleW: 1.0 / (s * s),
	}
}

// Config returns the effective configuration.
func (r *Rasterizer) Config() Config {
	return r.cfg
}

// NewFrameBuffer allocates a black buffer with the rasterizer's size.
func (r *Rasterizer) NewFrameBuffer() *FrameBuffer {
	return NewFrameBuffer(r.cfg.Width, r.cfg.Height)
}

// Coverage returns the fraction of the pixel's sample grid inside tri,
// in [0,1]. Samples start at the pixel's top-left corner.
func (r *Rasterizer) Coverage(tri *Triangle, row, col int) float64 {
	baseX := float64(col) / float64(r.cfg.Width)
	baseY := float64(row) / float64(r.cfg.Height)

	n := r.cfg.Supersample
	inside := 0
	for mx := 0; mx < n; mx++ {
		for my := 0; my < n; my++ {
			p := mathutil.Vec2{
				X: baseX + float64(mx)*r.subW,
				Y: baseY + float64(my)*r.subH,
			}
			if tri.Contains(p) {
				inside++
			}
		}
	}
	if inside == n*n {
		return 1
	}
	return float64(inside) * r.sampleW
}

// Composite blends tri into fb in proportion to per-pixel coverage:
// fb = tri.Color*coverage + fb*(1-coverage). Pixels with zero coverage
// are left untouched. All work for the call is finished on return.
func (r *Rasterizer) Composite(tri Triangle, fb *FrameBuffer) error {
	if fb.Width != r.cfg.Width || fb.Height != r.cfg.Height || len(fb.Pix) != fb.Width*fb.Height {
		return fmt.Errorf("%w: buffer %dx%d, rasterizer %dx%d",
			ErrSizeMismatch, fb.Width, fb.Height, r.cfg.Width, r.cfg.Height)
	}

	bands := r.cfg.Workers
	if bands > fb.Height {
		bands = fb.Height
	}
	if bands <= 1 {
		r.compositeRows(&tri, fb, 0, fb.Height)
		return nil
	}

	// Contiguous row bands; each pixel belongs to exactly one goroutine.
	var wg sync.WaitGroup
	per := (fb.Height + bands - 1) / bands
	for y0 := 0; y0 < fb.Height; y0 += per {
		y1 := y0 + per
		if y1 > fb.Height {
			y1 = fb.Height
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			r.compositeRows(&tri, fb, y0, y1)
		}(y0, y1)
	}
	wg.Wait()
	return nil
}

func (r *Rasterizer) compositeRows(tri *Triangle, fb *FrameBuffer, y0, y1 int) {
	w := fb.Width
	for row := y0; row < y1; row++ {
		rowOff := row * w
		for col := 0; col < w; col++ {
			cov := r.Coverage(tri, row, col)
			if cov == 0 {
				continue
			}
			i := rowOff + col
			fb.Pix[i] = tri.Color.Lerp(fb.Pix[i], cov)
		}
	}
}
