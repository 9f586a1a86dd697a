package loaders

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// ErrUnknownPrimitive is returned for a primitive whose type is neither sphere nor plane
var ErrUnknownPrimitive = errors.New("loaders: unknown primitive type")

// ErrUnknownLight is returned for a light whose type is not point
var ErrUnknownLight = errors.New("loaders: unknown light type")

// SceneFile is the on-disk form of a scene. JSON files decode too, since JSON is valid YAML.
type SceneFile struct {
	Camera     CameraDef      `yaml:"camera"`
	Image      ImageDef       `yaml:"image"`
	Primitives []PrimitiveDef `yaml:"primitives"`
	Lights     []LightDef     `yaml:"lights"`
}

// CameraDef is the YAML definition of the camera
type CameraDef struct {
	Position   [3]float64 `yaml:"position"`
	LookAt     [3]float64 `yaml:"look_at"`
	Up         [3]float64 `yaml:"up"`
	FOV        float64    `yaml:"fov"`
	Samples    int        `yaml:"samples"`
	MaxDepth   int        `yaml:"max_depth"`
	Background [3]float64 `yaml:"background"`
}

// ImageDef is the YAML definition of the output raster
type ImageDef struct {
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	Scale   float64 `yaml:"scale"`
	Epsilon float64 `yaml:"epsilon"`
}

// MaterialDef is the YAML definition of a surface material
type MaterialDef struct {
	Diffuse  float64    `yaml:"diffuse"`
	Specular float64    `yaml:"specular"`
	Ambient  float64    `yaml:"ambient"`
	Color    [3]float64 `yaml:"color"`
}

// PrimitiveDef is the YAML definition of a sphere or plane. Center and radius
// apply to spheres, point and normal to planes.
type PrimitiveDef struct {
	Type     string      `yaml:"type"`
	ID       string      `yaml:"id"`
	Center   [3]float64  `yaml:"center,omitempty"`
	Radius   float64     `yaml:"radius,omitempty"`
	Point    [3]float64  `yaml:"point,omitempty"`
	Normal   [3]float64  `yaml:"normal,omitempty"`
	Material MaterialDef `yaml:"material"`
}

// LightDef is the YAML definition of a light. An empty type means point.
type LightDef struct {
	Type      string     `yaml:"type,omitempty"`
	ID        string     `yaml:"id"`
	Position  [3]float64 `yaml:"position"`
	Intensity float64    `yaml:"intensity"`
}

// LoadScene reads a scene file from disk
func LoadScene(filename string) (*scene.Scene, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	s, err := ParseScene(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filename, err)
	}
	return s, nil
}

// ParseScene decodes a scene. Camera and image settings absent from the input keep
// their defaults; unknown keys are rejected.
func ParseScene(r io.Reader) (*scene.Scene, error) {
	file := defaultSceneFile()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}

	return file.Build()
}

// Build converts the file definition into a scene
func (f SceneFile) Build() (*scene.Scene, error) {
	s := scene.New()
	s.SetCamera(scene.CameraConfig{
		Position:         vec(f.Camera.Position),
		LookAt:           vec(f.Camera.LookAt),
		Up:               vec(f.Camera.Up),
		FieldOfView:      f.Camera.FOV,
		AntialiasSamples: f.Camera.Samples,
		MaxDepth:         f.Camera.MaxDepth,
		Background:       vec(f.Camera.Background),
	})
	s.SetImage(scene.ImageConfig{
		Width:   f.Image.Width,
		Height:  f.Image.Height,
		Scale:   f.Image.Scale,
		Epsilon: f.Image.Epsilon,
	})

	for i, def := range f.Primitives {
		primitive, err := def.Build()
		if err != nil {
			return nil, fmt.Errorf("primitive %d: %w", i, err)
		}
		if err := s.AddPrimitive(primitive); err != nil {
			return nil, err
		}
	}

	for i, def := range f.Lights {
		light, err := def.Build()
		if err != nil {
			return nil, fmt.Errorf("light %d: %w", i, err)
		}
		if err := s.AddLight(light); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Build converts the definition into a primitive
func (d PrimitiveDef) Build() (geometry.Primitive, error) {
	mat := material.New(d.Material.Diffuse, d.Material.Specular, d.Material.Ambient, vec(d.Material.Color))

	switch d.Type {
	case "sphere":
		if d.Radius <= 0 {
			return nil, fmt.Errorf("sphere %q: radius must be positive, got %g", d.ID, d.Radius)
		}
		return geometry.NewSphere(d.ID, vec(d.Center), d.Radius, mat), nil
	case "plane":
		normal := vec(d.Normal)
		if normal.LengthSquared() == 0 {
			return nil, fmt.Errorf("plane %q: normal must be non-zero", d.ID)
		}
		return geometry.NewPlane(d.ID, vec(d.Point), normal, mat), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPrimitive, d.Type)
	}
}

// Build converts the definition into a light
func (d LightDef) Build() (lights.Light, error) {
	switch d.Type {
	case "", "point":
		return lights.NewPointLight(d.ID, vec(d.Position), d.Intensity), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLight, d.Type)
	}
}

// MarshalScene encodes a scene in the same format ParseScene reads
func MarshalScene(s *scene.Scene) ([]byte, error) {
	snapshot := s.Snapshot()

	camera := snapshot.GetCamera()
	img := snapshot.GetImage()
	file := SceneFile{
		Camera: CameraDef{
			Position:   arr(camera.Position),
			LookAt:     arr(camera.LookAt),
			Up:         arr(camera.Up),
			FOV:        camera.FieldOfView,
			Samples:    camera.AntialiasSamples,
			MaxDepth:   camera.MaxDepth,
			Background: arr(camera.Background),
		},
		Image: ImageDef{
			Width:   img.Width,
			Height:  img.Height,
			Scale:   img.Scale,
			Epsilon: img.Epsilon,
		},
	}

	for _, p := range snapshot.GetPrimitives() {
		m := p.GetMaterial()
		def := PrimitiveDef{
			ID: p.ID(),
			Material: MaterialDef{
				Diffuse:  m.Diffuse,
				Specular: m.Specular,
				Ambient:  m.Ambient,
				Color:    arr(m.Color),
			},
		}
		switch shape := p.(type) {
		case *geometry.Sphere:
			def.Type = "sphere"
			def.Center = arr(shape.Center)
			def.Radius = shape.Radius
		case *geometry.Plane:
			def.Type = "plane"
			def.Point = arr(shape.Point)
			def.Normal = arr(shape.Orient)
		default:
			return nil, fmt.Errorf("%w: %T", ErrUnknownPrimitive, p)
		}
		file.Primitives = append(file.Primitives, def)
	}

	for _, l := range snapshot.GetLights() {
		point, ok := l.(*lights.PointLight)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrUnknownLight, l)
		}
		file.Lights = append(file.Lights, LightDef{
			Type:      "point",
			ID:        point.Name,
			Position:  arr(point.Position),
			Intensity: point.Intensity,
		})
	}

	return yaml.Marshal(file)
}

func defaultSceneFile() SceneFile {
	camera := scene.DefaultCameraConfig()
	img := scene.DefaultImageConfig()
	return SceneFile{
		Camera: CameraDef{
			Position:   arr(camera.Position),
			LookAt:     arr(camera.LookAt),
			Up:         arr(camera.Up),
			FOV:        camera.FieldOfView,
			Samples:    camera.AntialiasSamples,
			MaxDepth:   camera.MaxDepth,
			Background: arr(camera.Background),
		},
		Image: ImageDef{
			Width:   img.Width,
			Height:  img.Height,
			Scale:   img.Scale,
			Epsilon: img.Epsilon,
		},
	}
}

func vec(a [3]float64) core.Vec3 {
	return core.NewVec3(a[0], a[1], a[2])
}

func arr(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
