package raster

import (
	"errors"
	"testing"
)

// fullTri covers every sample of the unit square.
var fullTri = Triangle{A: v(-10, -1), B: v(10, -1), C: v(0, 10)}

// topTri is the red wedge from the demo scene.
var topTri = Triangle{A: v(0, 0), B: v(1, 0), C: v(0.5, 0.5), Color: Red}

func TestCompositeFullBuffer(t *testing.T) {
	r := New(Config{Width: 4, Height: 4, Supersample: 1})
	fb := r.NewFrameBuffer()

	tri := fullTri
	tri.Color = Red
	if err := r.Composite(tri, fb); err != nil {
		t.Fatal(err)
	}
	for i, c := range fb.Pix {
		if c != Red {
			t.Errorf("Pix[%d] = %v, want red", i, c)
		}
	}
}

func TestCompositeLowerLeftQuadrant(t *testing.T) {
	r := New(Config{Width: 4, Height: 4, Supersample: 1})
	fb := r.NewFrameBuffer()

	tri := Triangle{A: v(-1, 0.4), B: v(0.4, 0.4), C: v(0.3, 1.4), Color: Red}
	if err := r.Composite(tri, fb); err != nil {
		t.Fatal(err)
	}
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			want := Black
			if row >= 2 && col < 2 {
				want = Red
			}
			if got := fb.At(row, col); got != want {
				t.Errorf("At(%d,%d) = %v, want %v", row, col, got, want)
			}
		}
	}
}

func TestCoverage(t *testing.T) {
	r := New(Config{Width: 4, Height: 4, Supersample: 2})

	want := [4][4]float64{
		{0, 0.5, 0.5, 0.25},
		{0, 0.25, 0.75, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			if got := r.Coverage(&topTri, row, col); got != want[row][col] {
				t.Errorf("Coverage(%d,%d) = %v, want %v", row, col, got, want[row][col])
			}
		}
	}
}

func TestCoverageBounds(t *testing.T) {
	tris := []Triangle{
		topTri,
		fullTri,
		{A: v(0.5, 0.5), B: v(1, 1), C: v(0, 1)},
		{A: v(0.1, 0.2), B: v(0.9, 0.15), C: v(0.4, 0.95)},
	}
	for _, s := range []int{1, 2, 3, 4} {
		r := New(Config{Width: 9, Height: 7, Supersample: s})
		for _, tri := range tris {
			for row := 0; row < 7; row++ {
				for col := 0; col < 9; col++ {
					c := r.Coverage(&tri, row, col)
					if c < 0 || c > 1 {
						t.Fatalf("S=%d coverage(%d,%d) = %v out of [0,1]", s, row, col, c)
					}
				}
			}
		}
	}
}

func TestCompositeFullCoverageOverwrites(t *testing.T) {
	r := New(Config{Width: 4, Height: 4, Supersample: 3})
	fb := r.NewFrameBuffer()
	fb.Fill(Color{0.2, 0.4, 0.6})

	tri := fullTri
	tri.Color = Color{0.3, 0.1, 0.7}
	if err := r.Composite(tri, fb); err != nil {
		t.Fatal(err)
	}
	for i, c := range fb.Pix {
		if c != tri.Color {
			t.Errorf("Pix[%d] = %v, want %v", i, c, tri.Color)
		}
	}
}

func TestCompositeZeroCoverageUnchanged(t *testing.T) {
	r := New(Config{Width: 4, Height: 4, Supersample: 2})
	fb := r.NewFrameBuffer()
	bg := Color{0.2, 0.4, 0.6}
	fb.Fill(bg)

	if err := r.Composite(topTri, fb); err != nil {
		t.Fatal(err)
	}
	// Rows 2 and 3 and column 0 receive no samples.
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			if r.Coverage(&topTri, row, col) != 0 {
				continue
			}
			if got := fb.At(row, col); got != bg {
				t.Errorf("At(%d,%d) = %v, want unchanged %v", row, col, got, bg)
			}
		}
	}
}

func TestCompositePartialBlend(t *testing.T) {
	r := New(Config{Width: 4, Height: 4, Supersample: 2})
	fb := r.NewFrameBuffer()
	fb.Fill(Color{0, 0, 1})

	if err := r.Composite(topTri, fb); err != nil {
		t.Fatal(err)
	}
	// Coverage 0.75 at (1,2), 0.25 at (0,3).
	if got, want := fb.At(1, 2), (Color{0.75, 0, 0.25}); got != want {
		t.Errorf("At(1,2) = %v, want %v", got, want)
	}
	if got, want := fb.At(0, 3), (Color{0.25, 0, 0.75}); got != want {
		t.Errorf("At(0,3) = %v, want %v", got, want)
	}
}

func TestCompositeOrderMatters(t *testing.T) {
	r := New(Config{Width: 4, Height: 4, Supersample: 2})
	red := topTri
	blue := topTri
	blue.Color = Color{0, 0, 1}

	redFirst := r.NewFrameBuffer()
	r.Composite(red, redFirst)
	r.Composite(blue, redFirst)

	blueFirst := r.NewFrameBuffer()
	r.Composite(blue, blueFirst)
	r.Composite(red, blueFirst)

	// Coverage at (0,1) is 0.5 for both triangles.
	if got, want := redFirst.At(0, 1), (Color{0.25, 0, 0.5}); got != want {
		t.Errorf("red then blue = %v, want %v", got, want)
	}
	if got, want := blueFirst.At(0, 1), (Color{0.5, 0, 0.25}); got != want {
		t.Errorf("blue then red = %v, want %v", got, want)
	}
}

func TestCompositeParallelMatchesSequential(t *testing.T) {
	tris := []Triangle{
		{A: v(0.5, 0.5), B: v(1, 1), C: v(0, 1), Color: Color{0, 0.5, 0.5}},
		topTri,
		{A: v(0.1, 0.2), B: v(0.9, 0.15), C: v(0.4, 0.95), Color: Color{0.9, 0.8, 0.1}},
	}

	seq := New(Config{Width: 37, Height: 23, Supersample: 3, Workers: 1})
	par := New(Config{Width: 37, Height: 23, Supersample: 3, Workers: 5})
	a := seq.NewFrameBuffer()
	b := par.NewFrameBuffer()
	for _, tri := range tris {
		if err := seq.Composite(tri, a); err != nil {
			t.Fatal(err)
		}
		if err := par.Composite(tri, b); err != nil {
			t.Fatal(err)
		}
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("Pix[%d]: sequential %v, parallel %v", i, a.Pix[i], b.Pix[i])
		}
	}
}

func TestCompositeSizeMismatch(t *testing.T) {
	r := New(Config{Width: 4, Height: 4})
	err := r.Composite(topTri, NewFrameBuffer(4, 5))
	if !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("err = %v, want ErrSizeMismatch", err)
	}
}

func TestNewDefaults(t *testing.T) {
	cfg := New(Config{Width: 8, Height: 8}).Config()
	if cfg.Supersample != DefaultSupersample {
		t.Errorf("Supersample = %d, want %d", cfg.Supersample, DefaultSupersample)
	}
	if cfg.Workers != 1 {
		t.Errorf("Workers = %d, want 1", cfg.Workers)
	}
}
