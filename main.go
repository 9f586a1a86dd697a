package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/publish"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// options holds the command line settings. Zero values keep the scene's own.
type options struct {
	Scene   string
	Out     string
	Width   int
	Height  int
	Samples int
	Depth   int
	Workers int
	Seed    int64
	Publish bool
	EnvFile string
}

func main() {
	var opts options

	// Parse command line flags
	flag.StringVar(&opts.Scene, "scene", "default", "Scene id: a built-in name, file:<name>, or a path to a .yaml/.json scene")
	flag.StringVar(&opts.Out, "out", "", "Output file (.png, .bmp or .tif); defaults to output/<scene>/render_<timestamp>.png")
	flag.IntVar(&opts.Width, "width", 0, "Override image width")
	flag.IntVar(&opts.Height, "height", 0, "Override image height")
	flag.IntVar(&opts.Samples, "samples", 0, "Override antialias samples per pixel")
	flag.IntVar(&opts.Depth, "depth", 0, "Override recursion depth")
	flag.IntVar(&opts.Workers, "workers", 0, "Number of render workers (0 = one per logical CPU)")
	flag.Int64Var(&opts.Seed, "seed", 42, "Base seed for the per-row random streams")
	flag.BoolVar(&opts.Publish, "publish", false, "Upload the render to the configured S3 bucket")
	flag.StringVar(&opts.EnvFile, "env", ".env", "File with S3_* settings")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		printHelp()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, renderer.NewDefaultLogger()); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Whitted Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	scenes, err := scene.ListAllScenes()
	if err != nil {
		fmt.Printf("  (failed to list scenes: %v)\n", err)
		return
	}
	for _, info := range scenes {
		fmt.Printf("  %-24s %s\n", info.ID, info.Description)
	}
}

// run renders one scene to disk and optionally publishes it
func run(ctx context.Context, opts options, logger core.Logger) error {
	logger.Printf("Starting Whitted Raytracer...\n")
	logHostInfo(logger)

	selectedScene, err := createScene(opts.Scene)
	if err != nil {
		return err
	}
	applyImageOverrides(selectedScene, opts)

	config := renderer.DefaultRenderConfig()
	config.NumWorkers = opts.Workers
	if config.NumWorkers <= 0 {
		config.NumWorkers = logicalCPUs()
	}
	config.Seed = opts.Seed
	config.Samples = opts.Samples
	config.MaxDepth = opts.Depth

	raytracer := renderer.NewRaytracer(config, logger)
	progress := func(percent int) {
		if percent%10 == 0 {
			logger.Printf("Progress: %d%%\n", percent)
		}
	}

	frame, stats, err := raytracer.Render(ctx, selectedScene, progress)
	if err != nil {
		return err
	}
	logger.Printf("Render completed in %v\n", stats.Duration)
	logger.Printf("Samples per pixel: %.1f (%d total)\n", stats.AverageSamples, stats.TotalSamples)

	filename := opts.Out
	if filename == "" {
		filename = outputPath(opts.Scene, time.Now())
	}
	if err := output.Save(filename, frame, selectedScene.GetImage().Scale); err != nil {
		return err
	}
	logger.Printf("Render saved as %s\n", filename)

	if opts.Publish {
		return publishFile(ctx, opts, filename, logger)
	}
	return nil
}

// createScene resolves a scene id to a scene
func createScene(id string) (*scene.Scene, error) {
	if id == "" {
		return nil, errors.New("scene id is required")
	}
	return loaders.ResolveScene(id)
}

func applyImageOverrides(s *scene.Scene, opts options) {
	img := s.GetImage()
	if opts.Width > 0 {
		img.Width = opts.Width
	}
	if opts.Height > 0 {
		img.Height = opts.Height
	}
	s.SetImage(img)
}

// outputPath returns output/<scene>/render_<timestamp>.png
func outputPath(sceneID string, at time.Time) string {
	dir := strings.TrimPrefix(filepath.Base(sceneID), "file:")
	dir = strings.TrimSuffix(dir, filepath.Ext(dir))
	return filepath.Join("output", dir, fmt.Sprintf("render_%s.png", at.Format("20060102_150405")))
}

func publishFile(ctx context.Context, opts options, filename string, logger core.Logger) error {
	cfg, err := publish.LoadConfig(opts.EnvFile)
	if err != nil {
		return err
	}
	publisher, err := publish.NewS3Publisher(cfg, logger)
	if err != nil {
		return err
	}

	format, err := output.FormatFromPath(filename)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	name := publish.ObjectName(opts.Scene, time.Now(), format.Extension())
	key, err := publisher.Publish(ctx, name, data, format.ContentType())
	if err != nil {
		return err
	}
	logger.Printf("Published to s3://%s/%s\n", cfg.Bucket, key)
	return nil
}

// logicalCPUs returns the logical CPU count, falling back to one worker per
// Go-visible CPU when the host cannot be queried
func logicalCPUs() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return 0
}

func logHostInfo(logger core.Logger) {
	cpuInfo, err := cpu.Info()
	if err != nil || len(cpuInfo) == 0 {
		return
	}
	memInfo, err := mem.VirtualMemory()
	if err != nil {
		return
	}
	logger.Printf("Host: %s, %d logical CPUs, %d GB RAM\n",
		cpuInfo[0].ModelName, logicalCPUs(), memInfo.Total/(1024*1024*1024))
}
