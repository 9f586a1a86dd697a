package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Intersection is the nearest hit along a ray. Primitive is nil and T is +Inf on a miss.
type Intersection struct {
	Primitive Primitive
	T         float64
}

// Hit reports whether the ray struck anything
func (i Intersection) Hit() bool {
	return i.Primitive != nil
}

// Point returns the hit position along ray
func (i Intersection) Point(ray core.Ray) core.Vec3 {
	return ray.At(i.T)
}

// ClosestIntersection scans primitives in order and keeps the nearest hit.
// On an exact tie the earlier primitive wins.
func ClosestIntersection(ray core.Ray, primitives []Primitive, epsilon float64) Intersection {
	closest := Intersection{T: math.Inf(1)}

	for _, primitive := range primitives {
		if t := primitive.Intersect(ray, epsilon); t < closest.T {
			closest.T = t
			closest.Primitive = primitive
		}
	}

	return closest
}
