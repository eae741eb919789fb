package scene

import (
	"errors"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/lights"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

func TestSamplingConfig_Height(t *testing.T) {
	tests := []struct {
		name     string
		config   SamplingConfig
		expected int
	}{
		{"16:9", SamplingConfig{Width: 400, AspectRatio: 16.0 / 9.0}, 225},
		{"truncates", SamplingConfig{Width: 4, AspectRatio: 2.0}, 2},
		{"square", SamplingConfig{Width: 10, AspectRatio: 1.0}, 10},
		{"too wide", SamplingConfig{Width: 4, AspectRatio: 8.0}, 0},
		{"no aspect", SamplingConfig{Width: 4}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.config.Height(); got != tt.expected {
				t.Errorf("Height() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestSamplingConfig_Validate(t *testing.T) {
	valid := SamplingConfig{Width: 4, AspectRatio: 2, SamplesPerPixel: 1, MaxDepth: 0}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() on valid config: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(c *SamplingConfig)
	}{
		{"zero width", func(c *SamplingConfig) { c.Width = 0 }},
		{"negative width", func(c *SamplingConfig) { c.Width = -3 }},
		{"zero aspect", func(c *SamplingConfig) { c.AspectRatio = 0 }},
		{"zero height", func(c *SamplingConfig) { c.AspectRatio = 10 }},
		{"zero samples", func(c *SamplingConfig) { c.SamplesPerPixel = 0 }},
		{"negative depth", func(c *SamplingConfig) { c.MaxDepth = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid
			tt.mutate(&config)
			if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestMergeSamplingConfig(t *testing.T) {
	base := DefaultSamplingConfig()
	merged := MergeSamplingConfig(base, SamplingConfig{Width: 64, Seed: 7})

	if merged.Width != 64 || merged.Seed != 7 {
		t.Errorf("overrides not applied: %+v", merged)
	}
	if merged.SamplesPerPixel != base.SamplesPerPixel || merged.MaxDepth != base.MaxDepth || merged.AspectRatio != base.AspectRatio {
		t.Errorf("zero override fields changed the base: %+v", merged)
	}
}

func TestNewScene_InheritsAspectRatio(t *testing.T) {
	cameraConfig := geometry.CameraConfig{
		LookFrom: core.NewVec3(0, 0, 0),
		LookAt:   core.NewVec3(0, 0, -1),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     90,
	}
	sampling := SamplingConfig{Width: 4, AspectRatio: 2, SamplesPerPixel: 1, MaxDepth: 1}

	s, err := NewScene(cameraConfig, sampling, nil, nil)
	if err != nil {
		t.Fatalf("NewScene() error: %v", err)
	}
	if s.CameraConfig.AspectRatio != 2 {
		t.Errorf("camera aspect ratio = %g, want 2", s.CameraConfig.AspectRatio)
	}
	if s.Background.Type() != lights.LightTypeGradient {
		t.Errorf("default background type = %s, want gradient", s.Background.Type())
	}
	if s.World == nil || s.GetPrimitiveCount() != 0 {
		t.Error("expected an empty world")
	}
}

func TestNewScene_InvalidCamera(t *testing.T) {
	cameraConfig := geometry.CameraConfig{
		LookFrom: core.NewVec3(0, 0, 0),
		LookAt:   core.NewVec3(0, 0, 0),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     90,
	}
	_, err := NewScene(cameraConfig, DefaultSamplingConfig(), nil, nil)
	if !errors.Is(err, geometry.ErrInvalidCamera) {
		t.Errorf("NewScene() error = %v, want ErrInvalidCamera", err)
	}
}

func TestNewSphereGrid_Deterministic(t *testing.T) {
	first := NewSphereGrid(core.NewSeededSampler(42))
	second := NewSphereGrid(core.NewSeededSampler(42))

	if first.Len() != second.Len() {
		t.Fatalf("sphere counts differ: %d vs %d", first.Len(), second.Len())
	}
	// Ground + at most 22x22 small spheres + 3 large
	if first.Len() < 4 || first.Len() > 1+22*22+3 {
		t.Errorf("unexpected sphere count %d", first.Len())
	}

	for i := range first.Objects {
		a := first.Objects[i].(*geometry.Sphere)
		b := second.Objects[i].(*geometry.Sphere)
		if a.Center != b.Center || a.Radius != b.Radius {
			t.Errorf("sphere %d differs: %+v vs %+v", i, a, b)
		}
	}
}

func TestNewSphereGrid_Layout(t *testing.T) {
	world := NewSphereGrid(core.NewSeededSampler(7))

	ground := world.Objects[0].(*geometry.Sphere)
	if ground.Radius != 1000 || ground.Center != core.NewVec3(0, -1000, 0) {
		t.Errorf("unexpected ground sphere %+v", ground)
	}

	keepOut := core.NewVec3(4, 0.2, 0)
	small := world.Objects[1 : world.Len()-3]
	for _, shape := range small {
		s := shape.(*geometry.Sphere)
		if s.Radius != 0.2 {
			t.Errorf("small sphere radius = %g, want 0.2", s.Radius)
		}
		if s.Center.Subtract(keepOut).Length() <= 0.9 {
			t.Errorf("small sphere at %v is inside the keep-out zone", s.Center)
		}
		if metal, ok := s.Material.(*material.Metal); ok && (metal.Fuzz < 0 || metal.Fuzz >= 0.5) {
			t.Errorf("metal fuzz %g outside [0, 0.5)", metal.Fuzz)
		}
	}

	big := world.Objects[world.Len()-3:]
	if _, ok := big[0].(*geometry.Sphere).Material.(*material.Dielectric); !ok {
		t.Error("expected the center large sphere to be glass")
	}
	if _, ok := big[1].(*geometry.Sphere).Material.(*material.Lambertian); !ok {
		t.Error("expected the left large sphere to be diffuse")
	}
	if m, ok := big[2].(*geometry.Sphere).Material.(*material.Metal); !ok || m.Fuzz != 0.2 {
		t.Error("expected the right large sphere to be metal with fuzz 0.2")
	}
}
