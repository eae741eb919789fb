package output

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// Format names an image encoding
type Format string

const (
	FormatPPM Format = "ppm"
	FormatPNG Format = "png"
)

// ErrUnknownFormat is returned for format names other than ppm and png
var ErrUnknownFormat = errors.New("unknown image format")

// ParseFormat accepts a format name in any case
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatPPM, FormatPNG:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Extension returns the file extension including the dot
func (f Format) Extension() string {
	return "." + string(f)
}

// ContentType returns the MIME type served for the format
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/x-portable-pixmap"
}

// WritePNG encodes the image as PNG
func WritePNG(w io.Writer, img *renderer.Image) error {
	return writePNGImage(w, img.ToRGBA())
}

func writePNGImage(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Encode writes the rendered image in the given format
func Encode(w io.Writer, format Format, img *renderer.Image) error {
	switch format {
	case FormatPPM:
		return WritePPM(w, img)
	case FormatPNG:
		return WritePNG(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// EncodeImage writes an 8-bit image, such as a thumbnail, in the given format
func EncodeImage(w io.Writer, format Format, img image.Image) error {
	switch format {
	case FormatPPM:
		return WritePPMImage(w, img)
	case FormatPNG:
		return writePNGImage(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
