package output

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/webp"
)

// Supported image formats.
const (
	FormatWebP = "webp"
	FormatPNG  = "png"
	FormatTGA  = "tga"
)

// ErrUnknownFormat is returned for a format name Encode does not support.
var ErrUnknownFormat = errors.New("output: unknown format")

// Formats lists the supported format names.
func Formats() []string {
	return []string{FormatWebP, FormatPNG, FormatTGA}
}

// ValidFormat reports whether Encode supports format.
func ValidFormat(format string) bool {
	switch format {
	case FormatWebP, FormatPNG, FormatTGA:
		return true
	}
	return false
}

// Encode writes img to w in the given format. WebP output is lossless.
func Encode(w io.Writer, img image.Image, format string) error {
	var err error
	switch format {
	case FormatWebP:
		err = nativewebp.Encode(w, img, nil)
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatTGA:
		err = tga.Encode(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return fmt.Errorf("output: %s encode: %w", format, err)
	}
	return nil
}

// Decode reads an image in any supported format.
func Decode(r io.Reader, format string) (image.Image, error) {
	var (
		img image.Image
		err error
	)
	switch format {
	case FormatWebP:
		img, err = webp.Decode(r)
	case FormatPNG:
		img, err = png.Decode(r)
	case FormatTGA:
		img, err = tga.Decode(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("output: %s decode: %w", format, err)
	}
	return img, nil
}
