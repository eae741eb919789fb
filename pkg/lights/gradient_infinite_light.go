package lights

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// Default sky colors for the gradient background
var (
	DefaultSkyColor     = core.NewVec3(0.5, 0.7, 1.0)
	DefaultHorizonColor = core.NewVec3(1.0, 1.0, 1.0)
)

// GradientInfiniteLight blends between a horizon and a sky color by the
// vertical component of the normalized ray direction
type GradientInfiniteLight struct {
	topColor    core.Vec3 // Color straight up
	bottomColor core.Vec3 // Color straight down
}

// NewGradientInfiniteLight creates a new gradient infinite light
func NewGradientInfiniteLight(topColor, bottomColor core.Vec3) *GradientInfiniteLight {
	return &GradientInfiniteLight{
		topColor:    topColor,
		bottomColor: bottomColor,
	}
}

// NewDefaultSky creates the white-to-blue sky gradient
func NewDefaultSky() *GradientInfiniteLight {
	return NewGradientInfiniteLight(DefaultSkyColor, DefaultHorizonColor)
}

func (gil *GradientInfiniteLight) Type() LightType {
	return LightTypeGradient
}

// Colors returns the top and bottom gradient colors
func (gil *GradientInfiniteLight) Colors() (topColor, bottomColor core.Vec3) {
	return gil.topColor, gil.bottomColor
}

// Emit returns (1-t)*bottom + t*top with t = 0.5*(unit.y + 1)
func (gil *GradientInfiniteLight) Emit(ray core.Ray) core.Vec3 {
	direction := ray.Direction.Normalize()
	t := 0.5 * (direction.Y + 1.0) // Map Y from [-1,1] to [0,1]
	return gil.bottomColor.Multiply(1.0 - t).Add(gil.topColor.Multiply(t))
}
