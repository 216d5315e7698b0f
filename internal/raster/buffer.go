package raster

// FrameBuffer holds the rendering target as a flat slice for cache locality.
// Pixel (row, col) lives at Pix[row*Width+col].
type FrameBuffer struct {
	Width  int
	Height int
	Pix    []Color // len = W*H, row-major
}

// NewFrameBuffer allocates a w×h buffer with every pixel black.
func NewFrameBuffer(w, h int) *FrameBuffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &FrameBuffer{
		Width:  w,
		Height: h,
		Pix:    make([]Color, w*h),
	}
}

// At returns the color at (row, col).
func (fb *FrameBuffer) At(row, col int) Color {
	return fb.Pix[row*fb.Width+col]
}

// Set stores c at (row, col).
func (fb *FrameBuffer) Set(row, col int, c Color) {
	fb.Pix[row*fb.Width+col] = c
}

// Fill sets every pixel to c.
func (fb *FrameBuffer) Fill(c Color) {
	for i := range fb.Pix {
		fb.Pix[i] = c
	}
}

// Clone returns an independent copy of fb.
func (fb *FrameBuffer) Clone() *FrameBuffer {
	pix := make([]Color, len(fb.Pix))
	copy(pix, fb.Pix)
	return &FrameBuffer{Width: fb.Width, Height: fb.Height, Pix: pix}
}
