package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewDefaultScene creates a default scene with spheres, a mirror ball and ground
func NewDefaultScene() *Scene {
	s := New()
	s.Camera = CameraConfig{
		Position:         core.NewVec3(0, 1, -6),
		LookAt:           core.NewVec3(0, 0.5, 0),
		Up:               core.NewVec3(0, 1, 0),
		FieldOfView:      60,
		AntialiasSamples: 4,
		MaxDepth:         4,
		Background:       core.NewVec3(135, 206, 235),
	}
	s.Image = ImageConfig{
		Width:   400,
		Height:  225,
		Scale:   1,
		Epsilon: 1e-6,
	}

	ground := material.New(0.8, 0.1, 0.1, core.NewVec3(180, 180, 170))
	red := material.New(0.9, 0, 0.1, core.NewVec3(220, 60, 50))
	blue := material.New(0.6, 0.3, 0.1, core.NewVec3(50, 90, 210))
	mirror := material.New(0, 0.9, 0.05, core.NewVec3(230, 230, 230))

	// Ids are unique here, so the errors can be ignored
	_, _ = s.AddPlane("ground", core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0), ground)
	_, _ = s.AddSphere("red", core.NewVec3(-1.6, 0, 0.5), 1, red)
	_, _ = s.AddSphere("mirror", core.NewVec3(0.4, 0.2, 1.8), 1.2, mirror)
	_, _ = s.AddSphere("blue", core.NewVec3(1.8, -0.4, -0.6), 0.6, blue)

	_, _ = s.AddPointLight("key", core.NewVec3(-4, 6, -4), 0.8)
	_, _ = s.AddPointLight("fill", core.NewVec3(5, 3, -2), 0.4)

	return s
}

// NewPlaneScene creates a single white floor lit from directly above
func NewPlaneScene() *Scene {
	s := New()
	s.Camera = CameraConfig{
		Position:         core.NewVec3(0, 0, 0),
		LookAt:           core.NewVec3(0, -1, 1),
		Up:               core.NewVec3(0, 1, 0),
		FieldOfView:      40,
		AntialiasSamples: 1,
		MaxDepth:         2,
		Background:       core.NewVec3(0, 0, 0),
	}
	s.Image = ImageConfig{
		Width:   101,
		Height:  101,
		Scale:   1,
		Epsilon: 1e-6,
	}

	white := material.New(1, 0, 0, core.NewVec3(255, 255, 255))
	_, _ = s.AddPlane("floor", core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0), white)
	_, _ = s.AddPointLight("overhead", core.NewVec3(0, 5, 0), 1)

	return s
}
