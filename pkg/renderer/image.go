package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// Image is a row-major grid of display colors in [0,1]. Row 0 is the top of the picture.
type Image struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// NewImage allocates a black image
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pixels: make([]core.Vec3, width*height),
	}
}

// At returns the color at column x, row y
func (img *Image) At(x, y int) core.Vec3 {
	return img.Pixels[y*img.Width+x]
}

// Set stores the color at column x, row y
func (img *Image) Set(x, y int, c core.Vec3) {
	img.Pixels[y*img.Width+x] = c
}

// Row returns the pixels of row y. Writes through the slice update the image.
func (img *Image) Row(y int) []core.Vec3 {
	return img.Pixels[y*img.Width : (y+1)*img.Width]
}

// FinalizeColor turns a sum of linear samples into a display color:
// average, gamma 2 (square root) and clamp into [0,1]
func FinalizeColor(sum core.Vec3, samples int) core.Vec3 {
	if samples <= 0 {
		return core.Vec3{}
	}
	return sum.Multiply(1.0 / float64(samples)).GammaCorrect(2.0).Clamp(0.0, 1.0)
}

// ChannelByte maps a display channel to 0..255 as 256*clamp(c, 0, 0.999)
func ChannelByte(c float64) uint8 {
	return uint8(256 * max(0.0, min(0.999, c)))
}

// vec3ToColor converts a display color to RGBA
func vec3ToColor(c core.Vec3) color.RGBA {
	return color.RGBA{
		R: ChannelByte(c.X),
		G: ChannelByte(c.Y),
		B: ChannelByte(c.Z),
		A: 255,
	}
}

// ToRGBA converts the image for the standard image encoders
func (img *Image) ToRGBA() *image.RGBA {
	rgba := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			rgba.SetRGBA(x, y, vec3ToColor(img.At(x, y)))
		}
	}
	return rgba
}

// CalculateAverageLuminance returns the mean luminance of the image
func (img *Image) CalculateAverageLuminance() float64 {
	if len(img.Pixels) == 0 {
		return 0
	}
	total := 0.0
	for _, p := range img.Pixels {
		total += p.Luminance()
	}
	return total / float64(len(img.Pixels))
}
