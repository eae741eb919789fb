package output

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// WritePPM writes the image as plain-text PPM (P3): a header, then one
// "r g b" line per pixel from the top row down
func WritePPM(w io.Writer, img *renderer.Image) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", img.Width, img.Height); err != nil {
		return fmt.Errorf("write ppm header: %w", err)
	}

	for _, p := range img.Pixels {
		r := renderer.ChannelByte(p.X)
		g := renderer.ChannelByte(p.Y)
		b := renderer.ChannelByte(p.Z)
		if _, err := fmt.Fprintf(bw, "%d %d %d\n", r, g, b); err != nil {
			return fmt.Errorf("write ppm pixels: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write ppm: %w", err)
	}
	return nil
}

// WritePPMImage writes any 8-bit image as P3, used for resized thumbnails
func WritePPMImage(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", bounds.Dx(), bounds.Dy()); err != nil {
		return fmt.Errorf("write ppm header: %w", err)
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if _, err := fmt.Fprintf(bw, "%d %d %d\n", c.R, c.G, c.B); err != nil {
				return fmt.Errorf("write ppm pixels: %w", err)
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write ppm: %w", err)
	}
	return nil
}
