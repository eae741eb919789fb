package lights

import "github.com/df07/go-sphere-raytracer/pkg/core"

type LightType string

const (
	LightTypeGradient LightType = "gradient"
	LightTypeUniform  LightType = "uniform"
)

// Background is the light reaching a ray that escapes the scene.
// It is the only light source: shapes do not emit.
type Background interface {
	Type() LightType

	// Emit evaluates emission in the direction of the given ray
	Emit(ray core.Ray) core.Vec3
}
