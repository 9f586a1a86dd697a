package renderer

import (
	"image"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
)

// TileRenderer handles the actual rendering of individual tiles using an integrator
type TileRenderer struct {
	camera     *Camera
	integrator integrator.Integrator
	samples    int
	maxDepth   int
}

// NewTileRenderer creates a new tile renderer with the given camera and integrator
func NewTileRenderer(camera *Camera, integratorInst integrator.Integrator, samples, maxDepth int) *TileRenderer {
	return &TileRenderer{
		camera:     camera,
		integrator: integratorInst,
		samples:    max(1, samples),
		maxDepth:   maxDepth,
	}
}

// RenderTileBounds renders pixels within the specified bounds into the frame
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, frame *Frame, sampler core.Sampler) RenderStats {
	stats := RenderStats{TotalPixels: bounds.Dx() * bounds.Dy()}

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			color, samplesUsed := tr.SamplePixel(i, j, sampler)
			frame.Set(i, j, color)
			stats.TotalSamples += samplesUsed
		}
		stats.RowsCompleted++
	}

	return stats
}

// SamplePixel traces every primary ray of pixel (i, j) and returns their mean
func (tr *TileRenderer) SamplePixel(i, j int, sampler core.Sampler) (core.Vec3, int) {
	var ps PixelStats
	for _, ray := range tr.camera.SampleRays(i, j, tr.samples, sampler) {
		ps.AddSample(tr.integrator.TraceRay(ray, tr.maxDepth, sampler))
	}
	return ps.GetColor(), ps.SampleCount
}
