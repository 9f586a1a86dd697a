package renderer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// ErrRenderInProgress is returned when a render is requested while another one is running
var ErrRenderInProgress = errors.New("renderer: a render is already in progress")

// ErrInvalidImage is returned when the image has no pixels
var ErrInvalidImage = errors.New("renderer: image width and height must be at least 1")

// RenderConfig contains rendering configuration
type RenderConfig struct {
	NumWorkers int   // Number of parallel workers (0 = auto-detect)
	Seed       int64 // Base seed for the per-row samplers
	MaxDepth   int   // Overrides the camera's recursion depth when > 0
	Samples    int   // Overrides the camera's antialias samples when > 0
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		NumWorkers: 0,
		Seed:       42,
	}
}

// Raytracer renders scenes. At most one render runs at a time per Raytracer.
type Raytracer struct {
	config    RenderConfig
	logger    core.Logger
	rendering atomic.Bool
}

// NewRaytracer creates a new raytracer. A nil logger discards log output.
func NewRaytracer(config RenderConfig, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = discardLogger{}
	}
	return &Raytracer{
		config: config,
		logger: logger,
	}
}

// IsRendering reports whether a render is currently running
func (rt *Raytracer) IsRendering() bool {
	return rt.rendering.Load()
}

// Render traces every pixel of the scene. The scene is snapshotted first, so
// edits made while the render runs do not affect it. Progress is reported after
// each scanline; the context is checked between scanlines.
func (rt *Raytracer) Render(ctx context.Context, s *scene.Scene, progress ProgressFunc) (*Frame, RenderStats, error) {
	return rt.RenderWithLogger(ctx, s, progress, rt.logger)
}

// RenderWithLogger is Render with log output for this render sent to logger
func (rt *Raytracer) RenderWithLogger(ctx context.Context, s *scene.Scene, progress ProgressFunc, logger core.Logger) (*Frame, RenderStats, error) {
	if logger == nil {
		logger = discardLogger{}
	}
	if !rt.rendering.CompareAndSwap(false, true) {
		return nil, RenderStats{}, ErrRenderInProgress
	}
	defer rt.rendering.Store(false)

	start := time.Now()

	snapshot := s.Snapshot()

	img := snapshot.GetImage()
	if img.Width < 1 || img.Height < 1 {
		return nil, RenderStats{}, fmt.Errorf("%w: got %dx%d", ErrInvalidImage, img.Width, img.Height)
	}

	cameraConfig := snapshot.GetCamera()
	maxDepth := cameraConfig.MaxDepth
	if rt.config.MaxDepth > 0 {
		maxDepth = rt.config.MaxDepth
	}
	maxDepth = integrator.ClampDepth(maxDepth)

	samples := cameraConfig.AntialiasSamples
	if rt.config.Samples > 0 {
		samples = rt.config.Samples
	}
	samples = max(1, samples)

	camera := NewCamera(cameraConfig, img.Width, img.Height)
	whitted := integrator.NewWhittedIntegrator(snapshot, cameraConfig.Background)
	tileRenderer := NewTileRenderer(camera, whitted, samples, maxDepth)

	frame := NewFrame(img.Width, img.Height)
	tiles := NewRowTiles(img.Width, img.Height, rt.config.Seed)
	tracker := NewProgressTracker(img.Height, progress)

	pool := NewWorkerPool(ctx, tileRenderer, len(tiles), rt.config.NumWorkers)
	logger.Printf("Rendering %dx%d, %d samples/pixel, depth %d, %d workers\n",
		img.Width, img.Height, samples, maxDepth, pool.GetNumWorkers())

	pool.Start()
	for i, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, TaskID: i, Frame: frame})
	}

	stats := RenderStats{Workers: pool.GetNumWorkers()}
	var renderErr error
	for range tiles {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		if result.Error != nil {
			if renderErr == nil {
				renderErr = result.Error
			}
			continue
		}
		stats.merge(result.Stats)
		tracker.RowDone()
	}
	pool.Stop()

	stats.finalize()
	stats.Duration = time.Since(start)

	if renderErr != nil {
		logger.Printf("Render cancelled after %d of %d rows\n", stats.RowsCompleted, img.Height)
		return nil, stats, renderErr
	}

	logger.Printf("Render complete in %v (%d samples)\n", stats.Duration, stats.TotalSamples)
	return frame, stats, nil
}

type discardLogger struct{}

func (discardLogger) Printf(format string, args ...interface{}) {}
