package loaders

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/lights"
	"github.com/df07/go-sphere-raytracer/pkg/material"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

const threeSpheresJSON = `{
  "image": {"width": 16, "samplesPerPixel": 3},
  "camera": {
    "lookFrom": {"x": -2, "y": 2, "z": 1},
    "lookAt": {"x": 0, "y": 0, "z": -1},
    "vfov": 20
  },
  "background": {
    "type": "gradient",
    "top": {"x": 0.5, "y": 0.7, "z": 1.0},
    "bottom": {"x": 1, "y": 1, "z": 1}
  },
  "materials": {
    "ground": {"type": "lambertian", "albedo": {"x": 0.8, "y": 0.8, "z": 0.0}},
    "glass": {"type": "dielectric", "refractiveIndex": 1.5},
    "gold": {"type": "metal", "albedo": {"x": 0.8, "y": 0.6, "z": 0.2}, "fuzz": 0.3}
  },
  "spheres": [
    {"center": {"x": 0, "y": -100.5, "z": -1}, "radius": 100, "material": "ground"},
    {"center": {"x": -1, "y": 0, "z": -1}, "radius": 0.5, "material": "glass"},
    {"center": {"x": -1, "y": 0, "z": -1}, "radius": -0.4, "material": "glass"},
    {"center": {"x": 1, "y": 0, "z": -1}, "radius": 0.5, "material": "gold"}
  ]
}`

func writeSceneFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write scene file: %v", err)
	}
	return path
}

func TestLoadSceneFile(t *testing.T) {
	s, err := LoadSceneFile(writeSceneFile(t, threeSpheresJSON))
	if err != nil {
		t.Fatalf("LoadSceneFile() error: %v", err)
	}

	defaults := scene.DefaultSamplingConfig()
	if s.SamplingConfig.Width != 16 || s.SamplingConfig.SamplesPerPixel != 3 {
		t.Errorf("explicit image fields not applied: %+v", s.SamplingConfig)
	}
	if s.SamplingConfig.MaxDepth != defaults.MaxDepth || s.SamplingConfig.AspectRatio != defaults.AspectRatio {
		t.Errorf("missing image fields should take defaults: %+v", s.SamplingConfig)
	}
	if s.CameraConfig.Up != core.NewVec3(0, 1, 0) {
		t.Errorf("camera up = %v, want +Y default", s.CameraConfig.Up)
	}
	if s.Background.Type() != lights.LightTypeGradient {
		t.Errorf("background type = %s, want gradient", s.Background.Type())
	}

	if s.World.Len() != 4 {
		t.Fatalf("world has %d spheres, want 4", s.World.Len())
	}
	gold := s.World.Objects[3].(*geometry.Sphere)
	metal, ok := gold.Material.(*material.Metal)
	if !ok || metal.Fuzz != 0.3 || metal.Albedo != core.NewVec3(0.8, 0.6, 0.2) {
		t.Errorf("unexpected metal material %+v", gold.Material)
	}
	if s.World.Objects[1].(*geometry.Sphere).Material != s.World.Objects[2].(*geometry.Sphere).Material {
		t.Error("shell spheres should share the glass material")
	}
}

func TestLoadSceneFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"malformed json", `{"spheres": [`, scene.ErrInvalidConfig},
		{"no spheres", `{"camera": {"lookAt": {"z": -1}, "vfov": 90}}`, scene.ErrInvalidConfig},
		{"unknown material", `{
			"camera": {"lookAt": {"z": -1}, "vfov": 90},
			"spheres": [{"center": {"z": -1}, "radius": 0.5, "material": "missing"}]
		}`, scene.ErrInvalidConfig},
		{"bad camera", `{
			"camera": {"vfov": 90},
			"materials": {"m": {"type": "lambertian"}},
			"spheres": [{"center": {"z": -1}, "radius": 0.5, "material": "m"}]
		}`, geometry.ErrInvalidCamera},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSceneFile(writeSceneFile(t, tt.content))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadSceneFile() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadSceneFile_Missing(t *testing.T) {
	_, err := LoadSceneFile(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadSceneFile() error = %v, want os.ErrNotExist", err)
	}
}

func TestParseDescription_KeepsExplicitZeros(t *testing.T) {
	desc, err := ParseDescription([]byte(`{
  "image": {"width": 8, "maxDepth": 0, "seed": 0},
  "camera": {"lookAt": {"z": -1}, "vfov": 90},
  "materials": {"m": {"type": "lambertian", "albedo": {"x": 0.5, "y": 0.5, "z": 0.5}}},
  "spheres": [{"center": {"z": -1}, "radius": 0.5, "material": "m"}]
}`))
	if err != nil {
		t.Fatalf("ParseDescription() error: %v", err)
	}

	defaults := scene.DefaultSamplingConfig()
	if desc.Image.MaxDepth != 0 || desc.Image.Seed != 0 {
		t.Errorf("explicit zeros were replaced: %+v", desc.Image)
	}
	if desc.Image.SamplesPerPixel != defaults.SamplesPerPixel || desc.Image.AspectRatio != defaults.AspectRatio {
		t.Errorf("absent fields should take defaults: %+v", desc.Image)
	}

	// Depth 0 renders black, so the scene must still build
	s, err := desc.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if s.SamplingConfig.MaxDepth != 0 {
		t.Errorf("built scene max depth = %d, want 0", s.SamplingConfig.MaxDepth)
	}
}

func TestLoadSceneFile_Overrides(t *testing.T) {
	path := writeSceneFile(t, threeSpheresJSON)

	s, err := LoadSceneFile(path, scene.SamplingConfig{Width: 40, Seed: 7})
	if err != nil {
		t.Fatalf("LoadSceneFile() error: %v", err)
	}
	if s.SamplingConfig.Width != 40 || s.SamplingConfig.Seed != 7 {
		t.Errorf("overrides not applied: %+v", s.SamplingConfig)
	}
	if s.SamplingConfig.SamplesPerPixel != 3 {
		t.Errorf("zero override fields must keep the file value, got %d samples", s.SamplingConfig.SamplesPerPixel)
	}
}
