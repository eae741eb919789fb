package loaders

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// LoadDescription reads a JSON scene description and fills in defaults.
// Image fields absent from the file take the default sampling values, while
// fields present with a zero value are kept; a zero up vector becomes +Y.
func LoadDescription(path string) (*scene.Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene file: %w", err)
	}
	return ParseDescription(data)
}

// ParseDescription decodes a JSON scene description and fills in defaults
func ParseDescription(data []byte) (*scene.Description, error) {
	// Decoding over the defaults leaves absent fields untouched
	desc := scene.Description{Image: scene.DefaultSamplingConfig()}
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("%w: parse scene file: %v", scene.ErrInvalidConfig, err)
	}

	if desc.Camera.Up == (core.Vec3{}) {
		desc.Camera.Up = core.NewVec3(0, 1, 0)
	}
	if len(desc.Spheres) == 0 {
		return nil, fmt.Errorf("%w: scene has no spheres", scene.ErrInvalidConfig)
	}
	return &desc, nil
}

// LoadSceneFile reads, validates and builds the scene described by a JSON file.
// Non-zero fields of overrides replace the file's image settings.
func LoadSceneFile(path string, overrides ...scene.SamplingConfig) (*scene.Scene, error) {
	desc, err := LoadDescription(path)
	if err != nil {
		return nil, err
	}
	if len(overrides) > 0 {
		desc.Image = scene.MergeSamplingConfig(desc.Image, overrides[0])
	}
	s, err := desc.Build()
	if err != nil {
		return nil, fmt.Errorf("build scene %s: %w", path, err)
	}
	return s, nil
}
