package output

import (
	"image"

	"github.com/nfnt/resize"

	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// Thumbnail downscales the render to at most maxWidth pixels wide, keeping the aspect ratio.
// Images already narrow enough are returned at full size.
func Thumbnail(img *renderer.Image, maxWidth uint) image.Image {
	rgba := img.ToRGBA()
	if maxWidth == 0 || uint(img.Width) <= maxWidth {
		return rgba
	}
	// Height 0 lets resize keep the aspect ratio
	return resize.Resize(maxWidth, 0, rgba, resize.Bilinear)
}
