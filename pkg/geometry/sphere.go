package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Name     string
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(id string, center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Name:     id,
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

func (s *Sphere) ID() string                     { return s.Name }
func (s *Sphere) Type() PrimitiveType            { return PrimitiveTypeSphere }
func (s *Sphere) GetMaterial() material.Material { return s.Material }

// Intersect solves t² + 2t⟨O,d⟩ + (⟨O,O⟩ - r²) = 0 for the unit direction d.
// The second root is taken as c/q so that neither root suffers from cancellation.
func (s *Sphere) Intersect(ray core.Ray, epsilon float64) float64 {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// The direction is unit length so a = 1
	b := 2 * oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := b*b - 4*c
	if discriminant < 0 {
		return NoHit
	}

	sqrtD := math.Sqrt(discriminant)
	var q float64
	if b < 0 {
		q = (-b + sqrtD) / 2
	} else {
		q = (-b - sqrtD) / 2
	}
	// Origin on the surface with a tangent direction
	if q == 0 {
		return NoHit
	}

	t0 := q
	t1 := c / q
	if t0 > t1 {
		t0, t1 = t1, t0
	}

	if t1 < epsilon {
		return NoHit
	}
	if t0 >= 0 {
		return t0
	}
	return t1
}

// Normal returns the outward unit normal at point
func (s *Sphere) Normal(point core.Vec3) core.Vec3 {
	return point.Subtract(s.Center).Normalize()
}

// Clone returns a copy of the sphere
func (s *Sphere) Clone() Primitive {
	clone := *s
	return &clone
}
