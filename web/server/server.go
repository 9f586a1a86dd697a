package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Publisher uploads an encoded render and returns where it was stored
type Publisher interface {
	Publish(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// Server handles web requests for the raytracer
type Server struct {
	port      int
	echo      *echo.Echo
	raytracer *renderer.Raytracer
	scenes    *sceneStore
	publisher Publisher
	logger    core.Logger
}

// NewServer creates a new web server. publisher may be nil, which disables
// the publish option of the render endpoint.
func NewServer(port int, config renderer.RenderConfig, publisher Publisher) *Server {
	e := echo.New()
	e.HideBanner = true

	s := &Server{
		port:      port,
		echo:      e,
		scenes:    newSceneStore(),
		publisher: publisher,
		logger:    e.Logger,
	}
	s.raytracer = renderer.NewRaytracer(config, s.logger)

	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(corsMiddleware)

	s.routes()
	return s
}

func (s *Server) routes() {
	if _, err := os.Stat("static"); err == nil {
		s.echo.Static("/", "static")
	}

	api := s.echo.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/scenes", s.handleListScenes)
	api.GET("/scenes/:id", s.handleGetScene)
	api.POST("/scenes/:id/primitives", s.handleAddPrimitive)
	api.DELETE("/scenes/:id/primitives/:primitive", s.handleRemovePrimitive)
	api.POST("/scenes/:id/lights", s.handleAddLight)
	api.DELETE("/scenes/:id/lights/:light", s.handleRemoveLight)
	api.POST("/render", s.handleRender)
	api.GET("/render/stream", s.handleRenderStream)
	api.GET("/inspect", s.handleInspect)
}

// Handler returns the HTTP handler serving every route
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Printf("Starting web server on http://localhost%s", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight requests until ctx expires
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"rendering": s.raytracer.IsRendering(),
	})
}

func corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		c.Response().Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE")
		c.Response().Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

		if c.Request().Method == http.MethodOptions {
			return c.NoContent(http.StatusOK)
		}

		return next(c)
	}
}

// httpError maps domain errors onto HTTP status codes
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, renderer.ErrRenderInProgress), errors.Is(err, scene.ErrDuplicateID):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, renderer.ErrInvalidImage):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, scene.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}
