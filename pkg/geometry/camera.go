package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// ErrInvalidCamera is wrapped by every camera configuration error
var ErrInvalidCamera = errors.New("invalid camera configuration")

// CameraConfig contains all parameters needed to create a camera
type CameraConfig struct {
	LookFrom      core.Vec3 `json:"lookFrom"`      // Camera position
	LookAt        core.Vec3 `json:"lookAt"`        // Point the camera is looking at
	Up            core.Vec3 `json:"up"`            // Up direction (usually 0,1,0)
	VFov          float64   `json:"vfov"`          // Vertical field of view in degrees
	AspectRatio   float64   `json:"aspectRatio"`   // Width / height
	Aperture      float64   `json:"aperture"`      // Lens diameter; 0 disables depth of field
	FocusDistance float64   `json:"focusDistance"` // Distance to the focus plane; 0 = auto-calculate
}

// Validate checks the configuration without building a camera
func (c CameraConfig) Validate() error {
	switch {
	case !(c.VFov > 0 && c.VFov < 180):
		return fmt.Errorf("%w: vertical field of view must be in (0, 180) degrees, got %g", ErrInvalidCamera, c.VFov)
	case !(c.AspectRatio > 0):
		return fmt.Errorf("%w: aspect ratio must be positive, got %g", ErrInvalidCamera, c.AspectRatio)
	case !(c.Aperture >= 0) || math.IsInf(c.Aperture, 0):
		return fmt.Errorf("%w: aperture must be finite and not negative, got %g", ErrInvalidCamera, c.Aperture)
	case !(c.FocusDistance >= 0) || math.IsInf(c.FocusDistance, 0):
		return fmt.Errorf("%w: focus distance must be finite and not negative, got %g", ErrInvalidCamera, c.FocusDistance)
	case !c.LookFrom.IsFinite() || !c.LookAt.IsFinite() || !c.Up.IsFinite():
		return fmt.Errorf("%w: lookFrom %v, lookAt %v and up %v must be finite", ErrInvalidCamera, c.LookFrom, c.LookAt, c.Up)
	}

	view := c.LookFrom.Subtract(c.LookAt)
	if view.NearZero() {
		return fmt.Errorf("%w: lookFrom and lookAt must differ", ErrInvalidCamera)
	}
	if math.IsInf(view.Length(), 0) {
		return fmt.Errorf("%w: distance from lookFrom to lookAt overflows", ErrInvalidCamera)
	}
	side := c.Up.Cross(view)
	if math.IsInf(side.Length(), 0) {
		return fmt.Errorf("%w: up vector %v is too large", ErrInvalidCamera, c.Up)
	}
	if side.NearZero() {
		return fmt.Errorf("%w: up vector %v is parallel to the view direction", ErrInvalidCamera, c.Up)
	}
	return nil
}

// Camera generates rays for rendering
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v, w         core.Vec3 // Camera basis
	lensRadius      float64
	config          CameraConfig
}

// NewCamera derives the camera basis and viewport once from the configuration
func NewCamera(config CameraConfig) (*Camera, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	theta := config.VFov * math.Pi / 180.0
	h := math.Tan(theta / 2.0)
	viewportHeight := 2.0 * h
	viewportWidth := config.AspectRatio * viewportHeight

	w := config.LookFrom.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	focusDistance := config.FocusDistance
	if focusDistance == 0 {
		focusDistance = config.LookFrom.Subtract(config.LookAt).Length()
		config.FocusDistance = focusDistance
	}

	origin := config.LookFrom
	horizontal := u.Multiply(viewportWidth * focusDistance)
	vertical := v.Multiply(viewportHeight * focusDistance)
	lowerLeftCorner := origin.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(focusDistance))

	for _, derived := range []core.Vec3{u, v, w, horizontal, vertical, lowerLeftCorner} {
		if !derived.IsFinite() {
			return nil, fmt.Errorf("%w: viewport overflows (focus distance %g)", ErrInvalidCamera, focusDistance)
		}
	}

	return &Camera{
		origin:          origin,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      config.Aperture / 2.0,
		config:          config,
	}, nil
}

// GetRay generates a ray for viewport coordinates (s, t) where 0 <= s,t <= 1.
// t = 0 is the bottom edge of the viewport. The sampler is only consulted when
// the lens has a non-zero radius.
func (c *Camera) GetRay(s, t float64, sampler core.Sampler) core.Ray {
	offset := core.Vec3{}
	if c.lensRadius > 0 {
		rd := core.RandomInUnitDisk(sampler).Multiply(c.lensRadius)
		offset = c.u.Multiply(rd.X).Add(c.v.Multiply(rd.Y))
	}

	origin := c.origin.Add(offset)
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(origin)

	return core.NewRay(origin, direction)
}

// GetCameraForward returns the direction the camera is looking
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.w.Negate()
}

// Config returns the configuration the camera was built from, with the
// focus distance resolved
func (c *Camera) Config() CameraConfig {
	return c.config
}
