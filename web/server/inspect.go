package server

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Hit           bool                   `json:"hit"`
	PrimitiveID   string                 `json:"primitiveId,omitempty"`
	GeometryType  string                 `json:"geometryType,omitempty"`
	Point         [3]float64             `json:"point"`
	Normal        [3]float64             `json:"normal"`
	Distance      float64                `json:"distance"`
	Material      map[string]interface{} `json:"material,omitempty"`
	VisibleLights []string               `json:"visibleLights"`
	Color         [3]float64             `json:"color"` // Unjittered color with a fixed seed
}

// handleInspect casts the primary ray through pixel (x, y) and reports what it hits
func (s *Server) handleInspect(c echo.Context) error {
	id := c.QueryParam("scene")
	if id == "" {
		id = "default"
	}
	sc, err := s.scenes.get(id)
	if err != nil {
		return httpError(err)
	}
	snapshot := sc.Snapshot()

	img := snapshot.GetImage()
	query := c.Request().URL.Query()
	if query.Get("x") == "" || query.Get("y") == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "x and y are required")
	}
	x, err := parseIntParam(query, "x", 0, 0, img.Width-1)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	y, err := parseIntParam(query, "y", 0, 0, img.Height-1)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cameraConfig := snapshot.GetCamera()
	camera := renderer.NewCamera(cameraConfig, img.Width, img.Height)
	ray := camera.GetRay(x, y)

	whitted := integrator.NewWhittedIntegrator(snapshot, cameraConfig.Background)
	color := whitted.TraceRay(ray, integrator.ClampDepth(cameraConfig.MaxDepth), core.NewSeededSampler(0))

	response := InspectResponse{
		Color:         vecArray(color),
		VisibleLights: []string{},
	}

	hit := geometry.ClosestIntersection(ray, snapshot.GetPrimitives(), snapshot.Epsilon())
	if !hit.Hit() {
		return c.JSON(http.StatusOK, response)
	}

	point := hit.Point(ray)
	normal := hit.Primitive.Normal(point)
	mat := hit.Primitive.GetMaterial()

	response.Hit = true
	response.PrimitiveID = hit.Primitive.ID()
	response.GeometryType = string(hit.Primitive.Type())
	response.Point = vecArray(point)
	response.Normal = vecArray(normal)
	response.Distance = hit.T
	response.Material = map[string]interface{}{
		"diffuse":  mat.Diffuse,
		"specular": mat.Specular,
		"ambient":  mat.Ambient,
		"color": fmt.Sprintf("#%02x%02x%02x",
			int(clamp255(mat.Color.X)), int(clamp255(mat.Color.Y)), int(clamp255(mat.Color.Z))),
	}

	for _, light := range snapshot.GetLights() {
		if light.Visible(point, hit.Primitive, snapshot.GetPrimitives(), snapshot.Epsilon()) {
			response.VisibleLights = append(response.VisibleLights, light.ID())
		}
	}

	return c.JSON(http.StatusOK, response)
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func clamp255(v float64) float64 {
	return max(0, min(255, v))
}
