package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := sphere.Hit(ray, 0.001, 1000.0)

			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}

			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}

			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, hit.FrontFace)
			}

			tolerance := 1e-9
			if math.Abs(hit.Normal.X-tt.expectedNormal.X) > tolerance ||
				math.Abs(hit.Normal.Y-tt.expectedNormal.Y) > tolerance ||
				math.Abs(hit.Normal.Z-tt.expectedNormal.Z) > tolerance {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
		})
	}
}

func TestSphere_Hit_GlancingHit(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(1, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected glancing hit, but got miss")
	}

	expectedPoint := core.NewVec3(1, 0, 0)
	tolerance := 1e-9
	if math.Abs(hit.Point.X-expectedPoint.X) > tolerance ||
		math.Abs(hit.Point.Y-expectedPoint.Y) > tolerance ||
		math.Abs(hit.Point.Z-expectedPoint.Z) > tolerance {
		t.Errorf("Expected hit point %v, got %v", expectedPoint, hit.Point)
	}
}

func TestSphere_Hit_Bounds(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	// Test tMax bound
	hit, isHit := sphere.Hit(ray, 0.001, 0.5)
	if isHit {
		t.Errorf("Expected miss due to tMax bound, but got hit at t=%f", hit.T)
	}

	// Test tMin bound
	hit, isHit = sphere.Hit(ray, 3.5, 1000.0)
	if isHit {
		t.Errorf("Expected miss due to tMin bound, but got hit at t=%f", hit.T)
	}
}

func TestSphere_Hit_ClosestIntersection(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}

	expectedT := 1.0
	if math.Abs(hit.T-expectedT) > 1e-9 {
		t.Errorf("Expected closest intersection at t=%f, got t=%f", expectedT, hit.T)
	}

	if !hit.FrontFace {
		t.Error("Expected closest intersection to be front face")
	}
}

var testMaterial = material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))

func TestSphere_Hit_RayThroughCenter(t *testing.T) {
	tests := []struct {
		name   string
		center core.Vec3
		radius float64
		origin core.Vec3
	}{
		{"unit sphere from +z", core.NewVec3(0, 0, 0), 1.0, core.NewVec3(0, 0, 5)},
		{"offset sphere from diagonal", core.NewVec3(1, -2, 3), 0.5, core.NewVec3(-4, 4, -1)},
		{"large ground sphere from above", core.NewVec3(0, -1000, 0), 1000, core.NewVec3(3, 2, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sphere := NewSphere(tt.center, tt.radius, testMaterial)
			direction := tt.center.Subtract(tt.origin)
			unitDirection := direction.Normalize()
			ray := core.NewRay(tt.origin, direction)

			// Entering: normal opposes the ray and front face is set
			hit, isHit := sphere.Hit(ray, 0.001, math.Inf(1))
			if !isHit {
				t.Fatal("Expected hit through center, got miss")
			}
			if !hit.FrontFace {
				t.Error("Expected front face on entry")
			}
			if math.Abs(hit.Normal.Dot(unitDirection)+1) > 1e-9 {
				t.Errorf("Expected normal anti-parallel to ray, got %v", hit.Normal)
			}
			if math.Abs(hit.Normal.Length()-1) > 1e-9 {
				t.Errorf("Expected unit normal, got length %f", hit.Normal.Length())
			}
			if hit.Material != testMaterial {
				t.Error("Expected hit record to carry the sphere material")
			}

			// Exiting: start just past the center, the far wall is a back face
			inside := core.NewRay(tt.center, direction)
			hit, isHit = sphere.Hit(inside, 0.001, math.Inf(1))
			if !isHit {
				t.Fatal("Expected exit hit from center, got miss")
			}
			if hit.FrontFace {
				t.Error("Expected back face on exit")
			}
			if math.Abs(hit.Normal.Dot(unitDirection)+1) > 1e-9 {
				t.Errorf("Expected exit normal anti-parallel to ray, got %v", hit.Normal)
			}
		})
	}
}

func TestSphere_Hit_PointingAway(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)

	rays := []core.Ray{
		core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, 1)),
		core.NewRay(core.NewVec3(3, 1, 0), core.NewVec3(1, 0.5, 0)),
		core.NewRay(core.NewVec3(-2, -2, -2), core.NewVec3(-1, -1, -1)),
	}

	for _, ray := range rays {
		if hit, isHit := sphere.Hit(ray, 0.001, math.Inf(1)); isHit {
			t.Errorf("Expected miss for ray %v pointing away, got hit at t=%f", ray, hit.T)
		}
	}
}

func TestSphere_Hit_StrictInterval(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	// Both roots (t=1 and t=3) lie on the interval bounds, which are excluded
	if hit, isHit := sphere.Hit(ray, 1.0, 3.0); isHit {
		t.Errorf("Expected miss with roots on the interval bounds, got t=%f", hit.T)
	}

	// Excluding the near root falls back to the far root
	hit, isHit := sphere.Hit(ray, 1.0, 5.0)
	if !isHit || math.Abs(hit.T-3.0) > 1e-9 {
		t.Fatalf("Expected fallback to far root t=3")
	}
	if hit.FrontFace {
		t.Error("Expected far root to be a back face")
	}
}

func TestSphere_Hit_NegativeRadiusFlipsNormal(t *testing.T) {
	shell := NewSphere(core.NewVec3(0, 0, 0), -1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := shell.Hit(ray, 0.001, math.Inf(1))
	if !isHit {
		t.Fatal("Expected hit on negative-radius sphere")
	}
	if hit.FrontFace {
		t.Error("Expected negative radius to report the outside as a back face")
	}
	if hit.Normal != core.NewVec3(0, 0, 1) {
		t.Errorf("Expected normal still facing the ray, got %v", hit.Normal)
	}
}
