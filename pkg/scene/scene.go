package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// ErrNotFound is returned when an entity id does not exist in the scene
var ErrNotFound = errors.New("scene: entity not found")

// ErrDuplicateID is returned when an entity id is already taken
var ErrDuplicateID = errors.New("scene: duplicate id")

// CameraConfig contains the viewpoint and per-render sampling settings
type CameraConfig struct {
	Position         core.Vec3 // Eye position
	LookAt           core.Vec3 // Point the camera looks at
	Up               core.Vec3 // Up hint, need not be orthogonal to the view direction
	FieldOfView      float64   // Horizontal field of view in degrees
	AntialiasSamples int       // Rays per pixel (>= 1)
	MaxDepth         int       // Maximum recursion depth (>= 1)
	Background       core.Vec3 // Color returned by rays that hit nothing
}

// ImageConfig contains the output raster settings
type ImageConfig struct {
	Width   int     // Pixels
	Height  int     // Pixels
	Scale   float64 // Multiplier applied when the image is written
	Epsilon float64 // Self-intersection tolerance shared by every intersection query
}

// DefaultCameraConfig returns sensible default values
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Position:         core.NewVec3(0, 0, 0),
		LookAt:           core.NewVec3(0, 0, 1),
		Up:               core.NewVec3(0, 1, 0),
		FieldOfView:      60,
		AntialiasSamples: 1,
		MaxDepth:         3,
		Background:       core.NewVec3(0, 0, 0),
	}
}

// DefaultImageConfig returns sensible default values
func DefaultImageConfig() ImageConfig {
	return ImageConfig{
		Width:   400,
		Height:  300,
		Scale:   1,
		Epsilon: 1e-6,
	}
}

// Scene contains all the elements needed for rendering. Primitives and lights hold
// no reference back to the scene; the epsilon and primitive list are passed into
// every intersection query instead.
//
// The editing methods take the scene lock. A render works on a Snapshot so edits
// made while it runs never touch the primitive list being scanned.
type Scene struct {
	mu         sync.RWMutex
	Primitives []geometry.Primitive
	Lights     []lights.Light
	Camera     CameraConfig
	Image      ImageConfig
}

// New creates an empty scene with default camera and image settings
func New() *Scene {
	return &Scene{
		Primitives: make([]geometry.Primitive, 0),
		Lights:     make([]lights.Light, 0),
		Camera:     DefaultCameraConfig(),
		Image:      DefaultImageConfig(),
	}
}

// GetPrimitives returns the primitives in insertion order
func (s *Scene) GetPrimitives() []geometry.Primitive { return s.Primitives }

// GetLights returns the lights in insertion order
func (s *Scene) GetLights() []lights.Light { return s.Lights }

// GetCamera returns the camera configuration
func (s *Scene) GetCamera() CameraConfig { return s.Camera }

// GetImage returns the image configuration
func (s *Scene) GetImage() ImageConfig { return s.Image }

// Epsilon returns the scene-wide intersection tolerance
func (s *Scene) Epsilon() float64 { return s.Image.Epsilon }

// AddPrimitive appends a primitive. Ids must be unique among primitives.
func (s *Scene) AddPrimitive(p geometry.Primitive) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.primitiveIndex(p.ID()) >= 0 {
		return fmt.Errorf("%w: primitive %q", ErrDuplicateID, p.ID())
	}
	s.Primitives = append(s.Primitives, p)
	return nil
}

// AddSphere adds a sphere to the scene
func (s *Scene) AddSphere(id string, center core.Vec3, radius float64, mat material.Material) (*geometry.Sphere, error) {
	sphere := geometry.NewSphere(id, center, radius, mat)
	if err := s.AddPrimitive(sphere); err != nil {
		return nil, err
	}
	return sphere, nil
}

// AddPlane adds an infinite plane to the scene
func (s *Scene) AddPlane(id string, point, normal core.Vec3, mat material.Material) (*geometry.Plane, error) {
	plane := geometry.NewPlane(id, point, normal, mat)
	if err := s.AddPrimitive(plane); err != nil {
		return nil, err
	}
	return plane, nil
}

// AddLight appends a light. Ids must be unique among lights.
func (s *Scene) AddLight(l lights.Light) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lightIndex(l.ID()) >= 0 {
		return fmt.Errorf("%w: light %q", ErrDuplicateID, l.ID())
	}
	s.Lights = append(s.Lights, l)
	return nil
}

// AddPointLight adds a point light to the scene
func (s *Scene) AddPointLight(id string, position core.Vec3, intensity float64) (*lights.PointLight, error) {
	light := lights.NewPointLight(id, position, intensity)
	if err := s.AddLight(light); err != nil {
		return nil, err
	}
	return light, nil
}

// RemovePrimitive deletes the primitive with the given id, keeping the order of the rest
func (s *Scene) RemovePrimitive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.primitiveIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: primitive %q", ErrNotFound, id)
	}
	s.Primitives = append(s.Primitives[:i:i], s.Primitives[i+1:]...)
	return nil
}

// RemoveLight deletes the light with the given id
func (s *Scene) RemoveLight(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.lightIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: light %q", ErrNotFound, id)
	}
	s.Lights = append(s.Lights[:i:i], s.Lights[i+1:]...)
	return nil
}

// Primitive looks up a primitive by id
func (s *Scene) Primitive(id string) (geometry.Primitive, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.primitiveIndex(id); i >= 0 {
		return s.Primitives[i], true
	}
	return nil, false
}

// Light looks up a light by id
func (s *Scene) Light(id string) (lights.Light, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.lightIndex(id); i >= 0 {
		return s.Lights[i], true
	}
	return nil, false
}

// SetCamera replaces the camera configuration
func (s *Scene) SetCamera(camera CameraConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Camera = camera
}

// SetImage replaces the image configuration
func (s *Scene) SetImage(image ImageConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Image = image
}

// Snapshot returns an independent deep copy of the scene for a render pass
func (s *Scene) Snapshot() *Scene {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Camera and Image hold only values, so assignment copies them
	snapshot := &Scene{
		Camera:     s.Camera,
		Image:      s.Image,
		Primitives: make([]geometry.Primitive, len(s.Primitives)),
		Lights:     make([]lights.Light, len(s.Lights)),
	}
	for i, p := range s.Primitives {
		snapshot.Primitives[i] = p.Clone()
	}
	for i, l := range s.Lights {
		snapshot.Lights[i] = l.Clone()
	}
	return snapshot
}

func (s *Scene) primitiveIndex(id string) int {
	for i, p := range s.Primitives {
		if p.ID() == id {
			return i
		}
	}
	return -1
}

func (s *Scene) lightIndex(id string) int {
	for i, l := range s.Lights {
		if l.ID() == id {
			return i
		}
	}
	return -1
}
