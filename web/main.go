package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/publish"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	workers := flag.Int("workers", 0, "Number of render workers (0 = one per CPU)")
	seed := flag.Int64("seed", 42, "Base seed for the per-row random streams")
	envFile := flag.String("env", ".env", "File with S3_* settings for the publish option")
	flag.Parse()

	config := renderer.DefaultRenderConfig()
	config.NumWorkers = *workers
	config.Seed = *seed

	publishConfig, err := publish.LoadConfig(*envFile)
	if err != nil {
		log.Printf("Error loading publish settings: %v", err)
		os.Exit(1)
	}

	// Leave the interface nil when uploads are not configured
	var publisher server.Publisher
	if publishConfig.Enabled() {
		s3Publisher, err := publish.NewS3Publisher(publishConfig, renderer.NewDefaultLogger())
		if err != nil {
			log.Printf("Error creating publisher: %v", err)
			os.Exit(1)
		}
		publisher = s3Publisher
		log.Printf("Publishing renders to bucket %s", publishConfig.Bucket)
	}

	// Create and start web server
	webServer := server.NewServer(*port, config, publisher)

	log.Printf("Whitted Raytracer Web Server")
	log.Printf("Visit http://localhost:%d to start rendering", *port)

	go func() {
		if err := webServer.Start(); err != nil {
			log.Printf("Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := webServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down: %v", err)
	}
}
