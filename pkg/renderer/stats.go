package renderer

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width, Height   int           // Image size
	TotalPixels     int           // Total number of pixels rendered
	TotalSamples    int           // Total number of samples taken
	SamplesPerPixel int           // Samples taken per pixel
	MeanLuminance   float64       // Mean linear luminance over all pixels
	StdDevLuminance float64       // Standard deviation of linear luminance over all pixels
	Duration        time.Duration // Wall-clock render time
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum  core.Vec3 // RGB accumulator for final result
	SampleCount int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// luminanceAccumulator gathers per-pixel luminance in output order
type luminanceAccumulator struct {
	values []float64
}

func newLuminanceAccumulator(pixels int) *luminanceAccumulator {
	return &luminanceAccumulator{values: make([]float64, 0, pixels)}
}

func (la *luminanceAccumulator) addRow(row []core.Vec3) {
	for _, c := range row {
		la.values = append(la.values, c.Luminance())
	}
}

// finalize fills the luminance summary of stats
func (la *luminanceAccumulator) finalize(stats *RenderStats) {
	if len(la.values) == 0 {
		return
	}
	if len(la.values) == 1 {
		stats.MeanLuminance = la.values[0]
		return
	}
	stats.MeanLuminance, stats.StdDevLuminance = stat.MeanStdDev(la.values, nil)
}
