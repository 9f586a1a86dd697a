package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

type PrimitiveType string

const (
	PrimitiveTypeSphere PrimitiveType = "sphere"
	PrimitiveTypePlane  PrimitiveType = "plane"
)

// NoHit is the distance reported when a ray misses a primitive
var NoHit = math.Inf(1)

// Primitive is a surface that can be intersected by rays.
// New kinds of surface are added by implementing this interface.
type Primitive interface {
	ID() string
	Type() PrimitiveType

	// Intersect returns the distance along ray to the accepted hit, or NoHit.
	// epsilon is the scene-wide self-intersection tolerance.
	Intersect(ray core.Ray, epsilon float64) float64

	// Normal returns the unit surface normal at a point on the surface
	Normal(point core.Vec3) core.Vec3

	GetMaterial() material.Material

	// Clone returns an independent copy with the same id
	Clone() Primitive
}
