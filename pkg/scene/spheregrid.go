package scene

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/lights"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

const (
	gridExtent      = 11  // Small spheres are placed on the grid [-11, 11) x [-11, 11)
	smallRadius     = 0.2 // Radius of every grid sphere
	clearanceRadius = 0.9 // Grid spheres closer than this to the metal sphere are skipped
)

// NewRandomScene creates the sphere grid scene: a 22x22 grid of small randomly
// chosen spheres around three large ones. The layout is generated from the
// sampling seed, so the same seed always produces the same world.
func NewRandomScene(overrides ...SamplingConfig) (*Scene, error) {
	cameraConfig := geometry.CameraConfig{
		LookFrom:      core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          20.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}

	samplingConfig := DefaultSamplingConfig()
	if len(overrides) > 0 {
		samplingConfig = MergeSamplingConfig(samplingConfig, overrides[0])
	}

	world := NewSphereGrid(core.NewSeededSampler(samplingConfig.Seed))
	return NewScene(cameraConfig, samplingConfig, lights.NewDefaultSky(), world)
}

// NewSphereGrid lays out the ground, the grid of small spheres and the three
// large spheres, drawing every random decision from sampler
func NewSphereGrid(sampler core.Sampler) *geometry.HittableList {
	world := geometry.NewHittableList()

	ground := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	world.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, ground))

	keepOut := core.NewVec3(4, smallRadius, 0)
	glass := material.NewDielectric(1.5)

	for a := -gridExtent; a < gridExtent; a++ {
		for b := -gridExtent; b < gridExtent; b++ {
			chooseMat := sampler.Get1D()
			jitter := sampler.Get2D()
			center := core.NewVec3(float64(a)+0.9*jitter.X, smallRadius, float64(b)+0.9*jitter.Y)

			if center.Subtract(keepOut).Length() <= clearanceRadius {
				continue
			}

			var mat material.Material
			switch {
			case chooseMat < 0.8:
				// diffuse
				albedo := sampler.Get3D().MultiplyVec(sampler.Get3D())
				mat = material.NewLambertian(albedo)
			case chooseMat < 0.95:
				// metal
				albedo := core.RandomVec3InRange(sampler, 0.5, 1)
				fuzz := core.RandomInRange(sampler, 0, 0.5)
				mat = material.NewMetal(albedo, fuzz)
			default:
				// glass
				mat = glass
			}
			world.Add(geometry.NewSphere(center, smallRadius, mat))
		}
	}

	world.Add(geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, glass))
	world.Add(geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.2, 0.2, 0.5))))
	world.Add(geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.2)))

	return world
}
