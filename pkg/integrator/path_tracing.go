package integrator

import (
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/lights"
)

// ShadowAcneEpsilon is the minimum hit distance, so scattered rays do not
// re-hit the surface they leave because of floating point error
const ShadowAcneEpsilon = 0.001

// PathTracingIntegrator follows a single scattered path per camera ray until it
// escapes to the background, is absorbed, or runs out of bounces
type PathTracingIntegrator struct {
	maxDepth int
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(maxDepth int) *PathTracingIntegrator {
	return &PathTracingIntegrator{maxDepth: maxDepth}
}

// RayColor computes the color for a single ray using the configured bounce limit
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world geometry.Shape, background lights.Background, sampler core.Sampler) core.Vec3 {
	return pt.RayColorDepth(ray, world, background, sampler, pt.maxDepth)
}

// RayColorDepth computes the color for a ray with the given remaining bounces
func (pt *PathTracingIntegrator) RayColorDepth(ray core.Ray, world geometry.Shape, background lights.Background, sampler core.Sampler, depth int) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	hit, isHit := world.Hit(ray, ShadowAcneEpsilon, math.Inf(1))
	if !isHit {
		return background.Emit(ray)
	}

	scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
	if !didScatter {
		return core.Vec3{X: 0, Y: 0, Z: 0} // Material absorbed the ray
	}

	return scatter.Attenuation.MultiplyVec(
		pt.RayColorDepth(scatter.Scattered, world, background, sampler, depth-1))
}
