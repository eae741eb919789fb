package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels      int           // Total number of pixels rendered
	TotalSamples     int           // Total number of samples taken
	AverageSamples   float64       // Average samples per pixel that reached the image
	NonFiniteSamples int           // Samples dropped because they contained NaN or Inf
	RowsRendered     int           // Rows completed
	Workers          int           // Goroutines used
	Elapsed          time.Duration // Wall time of the render
}

// Merge adds the counters of other into s
func (s *RenderStats) Merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.TotalSamples += other.TotalSamples
	s.NonFiniteSamples += other.NonFiniteSamples
	s.RowsRendered += other.RowsRendered
}

// finish derives the averages once all rows are merged
func (s *RenderStats) finish() {
	if s.TotalPixels > 0 {
		s.AverageSamples = float64(s.TotalSamples-s.NonFiniteSamples) / float64(s.TotalPixels)
	}
}
