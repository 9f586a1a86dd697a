package lights

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

type LightType string

const (
	LightTypePoint LightType = "point"
)

// Light interface for sources used in direct lighting
type Light interface {
	ID() string
	Type() LightType

	// Visible reports whether the light reaches point on candidate
	Visible(point core.Vec3, candidate geometry.Primitive, primitives []geometry.Primitive, epsilon float64) bool

	// Lambert returns the lambertian contribution at point for the surface normal
	Lambert(point, normal core.Vec3) float64

	Clone() Light
}
