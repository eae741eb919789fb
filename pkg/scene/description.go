package scene

import (
	"fmt"
	"sort"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/lights"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// Material type names accepted in scene descriptions
const (
	MaterialLambertian = "lambertian"
	MaterialMetal      = "metal"
	MaterialDielectric = "dielectric"
)

// Description is the plain-data form of a scene, as read from a scene file
type Description struct {
	Image      SamplingConfig                 `json:"image"`
	Camera     geometry.CameraConfig          `json:"camera"`
	Background *BackgroundDescription         `json:"background,omitempty"`
	Materials  map[string]MaterialDescription `json:"materials"`
	Spheres    []SphereDescription            `json:"spheres"`
}

// BackgroundDescription selects the light for escaping rays.
// Type "gradient" blends Bottom (horizon) into Top (zenith); "uniform" uses Top everywhere.
type BackgroundDescription struct {
	Type   lights.LightType `json:"type"`
	Top    core.Vec3        `json:"top"`
	Bottom core.Vec3        `json:"bottom"`
}

// MaterialDescription describes one named material
type MaterialDescription struct {
	Type            string    `json:"type"`
	Albedo          core.Vec3 `json:"albedo"`
	Fuzz            float64   `json:"fuzz,omitempty"`
	RefractiveIndex float64   `json:"refractiveIndex,omitempty"`
}

// SphereDescription places a sphere with a material referenced by name
type SphereDescription struct {
	Center   core.Vec3 `json:"center"`
	Radius   float64   `json:"radius"`
	Material string    `json:"material"`
}

// Build validates the description and constructs the scene.
// Spheres naming the same material share a single material instance.
func (d *Description) Build() (*Scene, error) {
	materials := make(map[string]material.Material, len(d.Materials))

	// Sorted so the first reported error does not depend on map order
	names := make([]string, 0, len(d.Materials))
	for name := range d.Materials {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		mat, err := d.Materials[name].build()
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		materials[name] = mat
	}

	world := geometry.NewHittableList()
	for i, sd := range d.Spheres {
		mat, ok := materials[sd.Material]
		if !ok {
			return nil, fmt.Errorf("%w: sphere %d references unknown material %q", ErrInvalidConfig, i, sd.Material)
		}
		if sd.Radius == 0 {
			return nil, fmt.Errorf("%w: sphere %d has zero radius", ErrInvalidConfig, i)
		}
		world.Add(geometry.NewSphere(sd.Center, sd.Radius, mat))
	}

	background, err := d.Background.build()
	if err != nil {
		return nil, err
	}

	return NewScene(d.Camera, d.Image, background, world)
}

func (md MaterialDescription) build() (material.Material, error) {
	switch md.Type {
	case MaterialLambertian:
		return material.NewLambertian(md.Albedo), nil
	case MaterialMetal:
		return material.NewMetal(md.Albedo, md.Fuzz), nil
	case MaterialDielectric:
		if !(md.RefractiveIndex > 0) {
			return nil, fmt.Errorf("%w: refractive index must be positive, got %g", ErrInvalidConfig, md.RefractiveIndex)
		}
		return material.NewDielectric(md.RefractiveIndex), nil
	default:
		return nil, fmt.Errorf("%w: unknown material type %q", ErrInvalidConfig, md.Type)
	}
}

func (bd *BackgroundDescription) build() (lights.Background, error) {
	if bd == nil {
		return lights.NewDefaultSky(), nil
	}
	switch bd.Type {
	case lights.LightTypeGradient:
		return lights.NewGradientInfiniteLight(bd.Top, bd.Bottom), nil
	case lights.LightTypeUniform:
		return lights.NewUniformInfiniteLight(bd.Top), nil
	default:
		return nil, fmt.Errorf("%w: unknown background type %q", ErrInvalidConfig, bd.Type)
	}
}
