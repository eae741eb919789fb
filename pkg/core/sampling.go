package core

import (
	"math/rand"
)

// Vec2 is a pair of sample values
type Vec2 struct {
	X, Y float64
}

// NewVec2 creates a new Vec2
func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Sampler provides random sampling for rendering algorithms.
// Every stochastic decision in the renderer draws from a Sampler so tests can
// swap in a deterministic sequence.
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own deterministic random stream
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// SequenceSampler replays a fixed cycle of values in [0, 1).
// Multi-dimensional draws consume consecutive values.
type SequenceSampler struct {
	values []float64
	next   int
}

// NewSequenceSampler creates a sampler cycling through values.
// With no values it always returns 0.5.
func NewSequenceSampler(values ...float64) *SequenceSampler {
	if len(values) == 0 {
		values = []float64{0.5}
	}
	return &SequenceSampler{values: values}
}

// Get1D returns the next value in the sequence
func (s *SequenceSampler) Get1D() float64 {
	v := s.values[s.next]
	s.next = (s.next + 1) % len(s.values)
	return v
}

// Get2D returns the next two values in the sequence
func (s *SequenceSampler) Get2D() Vec2 {
	x := s.Get1D()
	return NewVec2(x, s.Get1D())
}

// Get3D returns the next three values in the sequence
func (s *SequenceSampler) Get3D() Vec3 {
	x := s.Get1D()
	y := s.Get1D()
	return NewVec3(x, y, s.Get1D())
}

// degenerateLengthSquared rejects candidates too close to the origin to normalize
const degenerateLengthSquared = 1e-160

// RandomInRange returns a sample mapped into [minVal, maxVal)
func RandomInRange(sampler Sampler, minVal, maxVal float64) float64 {
	return minVal + (maxVal-minVal)*sampler.Get1D()
}

// RandomVec3InRange returns a vector with each component in [minVal, maxVal)
func RandomVec3InRange(sampler Sampler, minVal, maxVal float64) Vec3 {
	s := sampler.Get3D()
	return NewVec3(
		minVal+(maxVal-minVal)*s.X,
		minVal+(maxVal-minVal)*s.Y,
		minVal+(maxVal-minVal)*s.Z,
	)
}

// RandomInUnitSphere generates a random point inside the unit sphere by rejection sampling
func RandomInUnitSphere(sampler Sampler) Vec3 {
	for {
		// Generate random point in [-1,1]³ cube
		p := RandomVec3InRange(sampler, -1, 1)
		// Accept if strictly inside the unit sphere and not degenerate
		if lenSq := p.LengthSquared(); lenSq < 1.0 && lenSq > degenerateLengthSquared {
			return p
		}
	}
}

// RandomUnitVector generates a random direction uniformly distributed on the unit sphere
func RandomUnitVector(sampler Sampler) Vec3 {
	return RandomInUnitSphere(sampler).Normalize()
}

// RandomInUnitDisk generates a random point in a unit disk (for depth of field)
func RandomInUnitDisk(sampler Sampler) Vec3 {
	for {
		// Generate random point in [-1,1] x [-1,1] square
		s := sampler.Get2D()
		p := NewVec3(2*s.X-1, 2*s.Y-1, 0)
		// Accept if inside unit disk
		if lenSq := p.LengthSquared(); lenSq < 1.0 && lenSq > degenerateLengthSquared {
			return p
		}
	}
}
