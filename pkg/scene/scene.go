package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/lights"
)

// ErrInvalidConfig is wrapped by every sampling configuration error
var ErrInvalidConfig = errors.New("invalid render configuration")

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         *geometry.Camera
	CameraConfig   geometry.CameraConfig
	World          *geometry.HittableList // Objects in the scene
	Background     lights.Background      // Radiance for rays that escape the world
	SamplingConfig SamplingConfig
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int     `json:"width"`           // Image width in pixels
	AspectRatio     float64 `json:"aspectRatio"`     // Width / height
	SamplesPerPixel int     `json:"samplesPerPixel"` // Number of rays per pixel
	MaxDepth        int     `json:"maxDepth"`        // Maximum ray bounce depth
	Seed            int64   `json:"seed"`            // Seed for every random decision of a render
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           400,
		AspectRatio:     16.0 / 9.0,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		Seed:            42,
	}
}

// Height derives the image height from width and aspect ratio, truncating
func (c SamplingConfig) Height() int {
	if !(c.AspectRatio > 0) {
		return 0
	}
	return int(float64(c.Width) / c.AspectRatio)
}

// Validate rejects configurations that cannot produce an image
func (c SamplingConfig) Validate() error {
	switch {
	case c.Width <= 0:
		return fmt.Errorf("%w: width must be positive, got %d", ErrInvalidConfig, c.Width)
	case !(c.AspectRatio > 0):
		return fmt.Errorf("%w: aspect ratio must be positive, got %g", ErrInvalidConfig, c.AspectRatio)
	case c.Height() <= 0:
		return fmt.Errorf("%w: width %d and aspect ratio %g give an empty image", ErrInvalidConfig, c.Width, c.AspectRatio)
	case c.SamplesPerPixel <= 0:
		return fmt.Errorf("%w: samples per pixel must be positive, got %d", ErrInvalidConfig, c.SamplesPerPixel)
	case c.MaxDepth < 0:
		return fmt.Errorf("%w: max depth must not be negative, got %d", ErrInvalidConfig, c.MaxDepth)
	}
	return nil
}

// MergeSamplingConfig applies the non-zero fields of override on top of base
func MergeSamplingConfig(base, override SamplingConfig) SamplingConfig {
	result := base
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.SamplesPerPixel != 0 {
		result.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}
	if override.Seed != 0 {
		result.Seed = override.Seed
	}
	return result
}

// NewScene validates both configurations and assembles a scene.
// A camera config without an aspect ratio inherits the image's.
func NewScene(cameraConfig geometry.CameraConfig, sampling SamplingConfig, background lights.Background, world *geometry.HittableList) (*Scene, error) {
	if err := sampling.Validate(); err != nil {
		return nil, err
	}
	if cameraConfig.AspectRatio == 0 {
		cameraConfig.AspectRatio = sampling.AspectRatio
	}
	camera, err := geometry.NewCamera(cameraConfig)
	if err != nil {
		return nil, err
	}
	if background == nil {
		background = lights.NewDefaultSky()
	}
	if world == nil {
		world = geometry.NewHittableList()
	}

	return &Scene{
		Camera:         camera,
		CameraConfig:   cameraConfig,
		World:          world,
		Background:     background,
		SamplingConfig: sampling,
	}, nil
}

// GetPrimitiveCount returns the number of spheres in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Len()
}
