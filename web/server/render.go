package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/publish"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// RenderRequest represents a render request from the client. Zero values keep
// the scene's own settings.
type RenderRequest struct {
	Scene    string        // Scene id (e.g., "default", "file:three-spheres")
	Width    int           // Image width
	Height   int           // Image height
	Samples  int           // Antialias samples per pixel
	MaxDepth int           // Recursion depth
	Scale    float64       // Output scale factor
	Format   output.Format // Output encoding
	Publish  bool          // Upload the result as well as returning it
}

// Stats represents render statistics
type Stats struct {
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	Workers        int     `json:"workers"`
	ElapsedMs      int64   `json:"elapsedMs"`
}

// ProgressUpdate represents a scanline progress update sent via SSE
type ProgressUpdate struct {
	Percent int `json:"percent"`
}

// CompleteUpdate is the final SSE event of a successful render
type CompleteUpdate struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string // "console", "progress", "complete", "error"
	Data string // JSON-encoded data
}

// handleRender renders a stored scene, or the scene in the request body, and
// returns the encoded image
func (s *Server) handleRender(c echo.Context) error {
	req, err := parseRenderRequest(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var sc *scene.Scene
	if len(bytes.TrimSpace(body)) > 0 {
		sc, err = loaders.ParseScene(bytes.NewReader(body))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		req.Scene = "upload"
	} else {
		sc, err = s.scenes.get(req.Scene)
		if err != nil {
			return httpError(err)
		}
	}

	job, scale := applyOverrides(sc, req)

	ctx := c.Request().Context()
	frame, stats, err := s.raytracer.Render(ctx, job, nil)
	if err != nil {
		return httpError(err)
	}

	data, err := output.EncodeFrame(frame, scale, req.Format)
	if err != nil {
		return httpError(err)
	}

	header := c.Response().Header()
	header.Set("X-Render-Duration-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	header.Set("X-Render-Samples", strconv.Itoa(stats.TotalSamples))

	if req.Publish {
		if s.publisher == nil {
			return echo.NewHTTPError(http.StatusBadRequest, "publishing is not configured")
		}
		name := publish.ObjectName(req.Scene, time.Now(), req.Format.Extension())
		key, err := s.publisher.Publish(ctx, name, data, req.Format.ContentType())
		if err != nil {
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		}
		header.Set("X-Object-Key", key)
	}

	return c.Blob(http.StatusOK, req.Format.ContentType(), data)
}

// handleRenderStream renders a stored scene, streaming console output and
// scanline progress via SSE, and finishes with the PNG as base64
func (s *Server) handleRenderStream(c echo.Context) error {
	req, err := parseRenderRequest(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
	}
	sc, err := s.scenes.get(req.Scene)
	if err != nil {
		return httpError(err)
	}
	job, scale := applyOverrides(sc, req)

	w := c.Response()
	setSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	// Single writer goroutine; everything else sends through events
	events := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		writeSSEEvents(w, events)
	}()

	consoleChan := make(chan ConsoleMessage, 100)
	forwardDone := make(chan struct{})
	go func() {
		defer close(forwardDone)
		for msg := range consoleChan {
			events <- newSSEEvent("console", msg)
		}
	}()

	renderID := fmt.Sprintf("%s-%d", req.Scene, time.Now().UnixNano())
	logger := NewWebLogger(renderID, consoleChan, s.logger)
	progress := func(percent int) {
		events <- newSSEEvent("progress", ProgressUpdate{Percent: percent})
	}

	frame, stats, err := s.raytracer.RenderWithLogger(c.Request().Context(), job, progress, logger)
	close(consoleChan)
	<-forwardDone

	if err != nil {
		events <- newSSEEvent("error", map[string]string{"error": err.Error()})
	} else if data, encErr := output.EncodeFrame(frame, scale, output.FormatPNG); encErr != nil {
		events <- newSSEEvent("error", map[string]string{"error": encErr.Error()})
	} else {
		events <- newSSEEvent("complete", CompleteUpdate{
			ImageData: base64.StdEncoding.EncodeToString(data),
			Stats: Stats{
				TotalPixels:    stats.TotalPixels,
				TotalSamples:   stats.TotalSamples,
				AverageSamples: stats.AverageSamples,
				Workers:        stats.Workers,
				ElapsedMs:      stats.Duration.Milliseconds(),
			},
		})
	}

	close(events)
	<-writerDone
	return nil
}

// parseRenderRequest parses request parameters
func parseRenderRequest(c echo.Context) (*RenderRequest, error) {
	query := c.Request().URL.Query()
	req := &RenderRequest{Scene: "default", Format: output.FormatPNG}

	if id := query.Get("scene"); id != "" {
		req.Scene = id
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, 1, 4000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 0, 1, 4000); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(query, "samples", 0, 1, 256); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "depth", 0, 1, integrator.MaxDepthLimit); err != nil {
		return nil, err
	}
	if req.Scale, err = parseFloatParam(query, "scale", 0, 0.1, 8); err != nil {
		return nil, err
	}

	if format := query.Get("format"); format != "" {
		if req.Format, err = output.FormatFromPath("render." + format); err != nil {
			return nil, err
		}
	}
	if publishParam := query.Get("publish"); publishParam != "" {
		if req.Publish, err = strconv.ParseBool(publishParam); err != nil {
			return nil, fmt.Errorf("invalid publish: %s", publishParam)
		}
	}

	return req, nil
}

// applyOverrides returns a copy of sc with the request's settings applied, and
// the output scale to use
func applyOverrides(sc *scene.Scene, req *RenderRequest) (*scene.Scene, float64) {
	job := sc.Snapshot()

	img := job.GetImage()
	if req.Width > 0 {
		img.Width = req.Width
	}
	if req.Height > 0 {
		img.Height = req.Height
	}
	job.SetImage(img)

	camera := job.GetCamera()
	if req.Samples > 0 {
		camera.AntialiasSamples = req.Samples
	}
	if req.MaxDepth > 0 {
		camera.MaxDepth = req.MaxDepth
	}
	job.SetCamera(camera)

	scale := img.Scale
	if req.Scale > 0 {
		scale = req.Scale
	}
	return job, scale
}

func setSSEHeaders(w *echo.Response) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// writeSSEEvents writes events until the channel is closed. Write errors from a
// disconnected client are ignored so senders never block.
func writeSSEEvents(w *echo.Response, events <-chan SSEEvent) {
	for event := range events {
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err == nil {
			w.Flush()
		}
	}
}

func newSSEEvent(eventType string, payload interface{}) SSEEvent {
	data, err := json.Marshal(payload)
	if err != nil {
		return SSEEvent{Type: "error", Data: strconv.Quote(err.Error())}
	}
	return SSEEvent{Type: eventType, Data: string(data)}
}
