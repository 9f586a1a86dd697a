package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Name     string
	Point    core.Vec3 // A point on the plane
	Orient   core.Vec3 // Unit normal
	Material material.Material
}

// NewPlane creates a new plane
func NewPlane(id string, point, normal core.Vec3, mat material.Material) *Plane {
	return &Plane{
		Name:     id,
		Point:    point,
		Orient:   normal.Normalize(),
		Material: mat,
	}
}

func (p *Plane) ID() string                     { return p.Name }
func (p *Plane) Type() PrimitiveType            { return PrimitiveTypePlane }
func (p *Plane) GetMaterial() material.Material { return p.Material }

// Intersect tests if a ray intersects with the plane
func (p *Plane) Intersect(ray core.Ray, epsilon float64) float64 {
	denominator := p.Orient.Dot(ray.Direction)

	// Parallel to the plane, or close enough that a reflected ray would re-hit it
	if math.Abs(denominator) < epsilon {
		return NoHit
	}

	// t = (point_on_plane - ray_origin) · normal / (ray_direction · normal)
	t := p.Orient.Dot(p.Point.Subtract(ray.Origin)) / denominator
	if t > epsilon {
		return t
	}
	return NoHit
}

// Normal is the same everywhere on the plane
func (p *Plane) Normal(point core.Vec3) core.Vec3 {
	return p.Orient
}

// Clone returns a copy of the plane
func (p *Plane) Clone() Primitive {
	clone := *p
	return &clone
}
