package output

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"tri-raster/internal/raster"
)

// ErrBadName is returned when a buffer name would be written outside Dir.
var ErrBadName = errors.New("output: name escapes output directory")

// ErrVerify is returned when a written file does not decode back to the
// image that was encoded.
var ErrVerify = errors.New("output: verify mismatch")

// Sink accepts finished framebuffers for presentation.
type Sink interface {
	Present(name string, fb *raster.FrameBuffer) error
}

// FileSink writes each presented buffer to Dir/<name>.<Format>.
type FileSink struct {
	Dir    string
	Format string
	Scale  int    // integer upscale factor; <= 1 keeps native size
	Filter string // FilterNearest or FilterCatmullRom
	Verify bool   // decode each written file and compare it to the source
}

// Path returns the file a buffer named name is written to.
func (s *FileSink) Path(name string) string {
	return filepath.Join(s.Dir, name+"."+s.Format)
}

// checkName rejects names whose output file would not sit directly in Dir.
func (s *FileSink) checkName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrBadName, name)
	}
	rel, err := filepath.Rel(s.Dir, s.Path(name))
	if err != nil || rel != filepath.Base(rel) {
		return fmt.Errorf("%w: %q", ErrBadName, name)
	}
	return nil
}

// Present converts fb to 8-bit, scales it and writes it to disk.
func (s *FileSink) Present(name string, fb *raster.FrameBuffer) error {
	if !ValidFormat(s.Format) {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, s.Format)
	}
	if err := s.checkName(name); err != nil {
		return err
	}

	img, err := Scale(ToNRGBA(fb), s.Scale, s.Filter)
	if err != nil {
		return err
	}

	outPath := s.Path(name)
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if err := Encode(f, img, s.Format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("output: close %s: %w", outPath, err)
	}

	if s.Verify {
		return verifyFile(outPath, s.Format, img)
	}
	return nil
}

// verifyFile decodes path and compares every pixel with want.
func verifyFile(path, format string, want *image.NRGBA) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("output: verify: %w", err)
	}
	defer f.Close()

	got, err := Decode(f, format)
	if err != nil {
		return fmt.Errorf("output: verify %s: %w", path, err)
	}
	if x, y, ok := Equal(got, want); !ok {
		return fmt.Errorf("%w: %s differs at (%d,%d)", ErrVerify, path, x, y)
	}
	return nil
}

// Equal reports whether a and b have the same bounds and NRGBA pixels.
// On mismatch it returns the first differing coordinate.
func Equal(a, b image.Image) (x, y int, ok bool) {
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return 0, 0, false
	}
	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			ca := color.NRGBAModel.Convert(a.At(ab.Min.X+x, ab.Min.Y+y))
			cb := color.NRGBAModel.Convert(b.At(bb.Min.X+x, bb.Min.Y+y))
			if ca != cb {
				return x, y, false
			}
		}
	}
	return 0, 0, true
}
