package integrator

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/lights"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the linear color carried back along a camera ray
	RayColor(ray core.Ray, world geometry.Shape, background lights.Background, sampler core.Sampler) core.Vec3
}
