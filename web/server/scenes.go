package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// sceneStore keeps the scenes edited through the API. A scene is loaded on
// first use and later requests see its edits.
type sceneStore struct {
	mu     sync.Mutex
	scenes map[string]*scene.Scene
}

func newSceneStore() *sceneStore {
	return &sceneStore{scenes: make(map[string]*scene.Scene)}
}

// get returns the stored scene for id, loading it if needed
func (st *sceneStore) get(id string) (*scene.Scene, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if s, ok := st.scenes[id]; ok {
		return s, nil
	}

	// Only built-in and discovered scenes are addressable, never arbitrary paths
	if scene.IsSceneFile(id) {
		return nil, fmt.Errorf("%w: scene %q", scene.ErrNotFound, id)
	}
	s, err := loaders.ResolveScene(id)
	if err != nil {
		return nil, err
	}
	st.scenes[id] = s
	return s, nil
}

// handleListScenes returns built-in and discovered scenes
func (s *Server) handleListScenes(c echo.Context) error {
	scenes, err := scene.ListAllScenes()
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, scenes)
}

// handleGetScene returns the current state of a scene as YAML
func (s *Server) handleGetScene(c echo.Context) error {
	sc, err := s.scenes.get(c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	data, err := loaders.MarshalScene(sc)
	if err != nil {
		return httpError(err)
	}
	return c.Blob(http.StatusOK, "application/yaml", data)
}

// handleAddPrimitive adds a sphere or plane given as YAML or JSON
func (s *Server) handleAddPrimitive(c echo.Context) error {
	sc, err := s.scenes.get(c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	var def loaders.PrimitiveDef
	if err := decodeBody(c.Request().Body, &def); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if def.ID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "primitive id is required")
	}

	primitive, err := def.Build()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := sc.AddPrimitive(primitive); err != nil {
		return httpError(err)
	}

	s.logger.Printf("Added %s %q to scene %q", primitive.Type(), primitive.ID(), c.Param("id"))
	return c.JSON(http.StatusCreated, map[string]string{"id": primitive.ID(), "type": string(primitive.Type())})
}

// handleRemovePrimitive removes a primitive by id
func (s *Server) handleRemovePrimitive(c echo.Context) error {
	sc, err := s.scenes.get(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	if err := sc.RemovePrimitive(c.Param("primitive")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// handleAddLight adds a point light given as YAML or JSON
func (s *Server) handleAddLight(c echo.Context) error {
	sc, err := s.scenes.get(c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	var def loaders.LightDef
	if err := decodeBody(c.Request().Body, &def); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if def.ID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "light id is required")
	}

	light, err := def.Build()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := sc.AddLight(light); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, map[string]string{"id": light.ID(), "type": string(light.Type())})
}

// handleRemoveLight removes a light by id
func (s *Server) handleRemoveLight(c echo.Context) error {
	sc, err := s.scenes.get(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	if err := sc.RemoveLight(c.Param("light")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// decodeBody decodes a YAML or JSON request body, rejecting unknown fields
func decodeBody(body io.Reader, out interface{}) error {
	decoder := yaml.NewDecoder(body)
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
