package scene

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/lights"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// NewDefaultScene creates the three-sphere scene: diffuse, polished metal and a hollow glass ball on a ground sphere
func NewDefaultScene(overrides ...SamplingConfig) (*Scene, error) {
	cameraConfig := geometry.CameraConfig{
		LookFrom:      core.NewVec3(-2, 2, 1),
		LookAt:        core.NewVec3(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          20.0,
		Aperture:      0.0,
		FocusDistance: 0.0, // Auto-calculate focus distance
	}

	samplingConfig := DefaultSamplingConfig()
	if len(overrides) > 0 {
		samplingConfig = MergeSamplingConfig(samplingConfig, overrides[0])
	}

	// Create materials
	materialGround := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	materialCenter := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	materialGlass := material.NewDielectric(1.5)
	materialMetal := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.0)

	world := geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, materialGround),
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, materialCenter),
		geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, materialGlass),
		// Negative radius turns the normals inward, making the glass ball a thin shell
		geometry.NewSphere(core.NewVec3(-1, 0, -1), -0.4, materialGlass),
		geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, materialMetal),
	)

	return NewScene(cameraConfig, samplingConfig, lights.NewDefaultSky(), world)
}

// NewGroundScene creates a single large diffuse sphere below a camera looking down -Z
func NewGroundScene(overrides ...SamplingConfig) (*Scene, error) {
	cameraConfig := geometry.CameraConfig{
		LookFrom: core.NewVec3(0, 0, 0),
		LookAt:   core.NewVec3(0, 0, -1),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     90.0,
	}

	samplingConfig := DefaultSamplingConfig()
	if len(overrides) > 0 {
		samplingConfig = MergeSamplingConfig(samplingConfig, overrides[0])
	}

	ground := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	world := geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, ground),
	)

	return NewScene(cameraConfig, samplingConfig, lights.NewDefaultSky(), world)
}
