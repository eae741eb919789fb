package renderer

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/integrator"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// SamplerFactory returns the sampler that drives every random decision of one row
type SamplerFactory func(row int) core.Sampler

// RowSamplerFactory seeds an independent RandomSampler per row from the render seed,
// so a row renders identically no matter which worker picks it up
func RowSamplerFactory(seed int64) SamplerFactory {
	return func(row int) core.Sampler {
		return core.NewSeededSampler(RowSeed(seed, row))
	}
}

// RowSeed mixes the render seed with the row index
func RowSeed(seed int64, row int) int64 {
	// row+1 so row 0 does not reuse the render seed verbatim
	return int64(uint64(seed) ^ uint64(row+1)*0x9E3779B97F4A7C15)
}

// Raytracer handles the rendering process
type Raytracer struct {
	scene          *scene.Scene
	width          int
	height         int
	config         scene.SamplingConfig
	integrator     integrator.Integrator
	samplerFactory SamplerFactory
	numWorkers     int
	logger         core.Logger
}

// NewRaytracer validates the scene configuration once and prepares a renderer for it
func NewRaytracer(s *scene.Scene, logger core.Logger) (*Raytracer, error) {
	if s == nil || s.Camera == nil || s.World == nil || s.Background == nil {
		return nil, fmt.Errorf("%w: scene is incomplete", scene.ErrInvalidConfig)
	}
	config := s.SamplingConfig
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}

	return &Raytracer{
		scene:          s,
		width:          config.Width,
		height:         config.Height(),
		config:         config,
		integrator:     integrator.NewPathTracingIntegrator(config.MaxDepth),
		samplerFactory: RowSamplerFactory(config.Seed),
		numWorkers:     runtime.NumCPU(),
		logger:         logger,
	}, nil
}

// SetSamplerFactory replaces the per-row sampler source
func (rt *Raytracer) SetSamplerFactory(factory SamplerFactory) {
	rt.samplerFactory = factory
}

// SetIntegrator replaces the light transport algorithm
func (rt *Raytracer) SetIntegrator(integ integrator.Integrator) {
	rt.integrator = integ
}

// SetNumWorkers sets the number of rendering goroutines; values <= 0 mean runtime.NumCPU()
func (rt *Raytracer) SetNumWorkers(n int) {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	rt.numWorkers = n
}

// Width returns the image width in pixels
func (rt *Raytracer) Width() int { return rt.width }

// Height returns the image height in pixels
func (rt *Raytracer) Height() int { return rt.height }

// Render traces every pixel and returns the finished image
func (rt *Raytracer) Render(ctx context.Context) (*Image, RenderStats, error) {
	start := time.Now()
	img := NewImage(rt.width, rt.height)

	pool := NewWorkerPool(rt, rt.numWorkers)
	rt.logger.Printf("Rendering %dx%d, %d samples/pixel, max depth %d, %d spheres, %d workers\n",
		rt.width, rt.height, rt.config.SamplesPerPixel, rt.config.MaxDepth, rt.scene.World.Len(), pool.GetNumWorkers())

	stats, err := pool.Run(ctx, img)
	if err != nil {
		return nil, stats, err
	}

	stats.Elapsed = time.Since(start)
	stats.finish()
	if stats.NonFiniteSamples > 0 {
		rt.logger.Printf("Dropped %d non-finite samples\n", stats.NonFiniteSamples)
	}
	rt.logger.Printf("Render complete in %v\n", stats.Elapsed.Round(time.Millisecond))
	return img, stats, nil
}

// RenderRow renders row y (0 = top) into the image with the given sampler
func (rt *Raytracer) RenderRow(y int, img *Image, sampler core.Sampler) RenderStats {
	stats := RenderStats{RowsRendered: 1}
	camera := rt.scene.Camera
	world := rt.scene.World
	background := rt.scene.Background
	row := img.Row(y)

	// Image rows run top to bottom, viewport t runs bottom to top
	v := float64(rt.height - 1 - y)

	for x := 0; x < rt.width; x++ {
		colorAccum := core.Vec3{X: 0, Y: 0, Z: 0}
		finite := 0

		for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
			jitter := sampler.Get2D()
			s := (float64(x) + jitter.X) / float64(rt.width)
			t := (v + jitter.Y) / float64(rt.height)

			ray := camera.GetRay(s, t, sampler)
			color := rt.integrator.RayColor(ray, world, background, sampler)
			stats.TotalSamples++

			if !color.IsFinite() {
				stats.NonFiniteSamples++
				continue
			}
			colorAccum = colorAccum.Add(color)
			finite++
		}

		row[x] = FinalizeColor(colorAccum, finite)
		stats.TotalPixels++
	}

	return stats
}
