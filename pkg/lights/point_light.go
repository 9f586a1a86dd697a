package lights

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// PointLight is an omnidirectional light without distance falloff
type PointLight struct {
	Name      string
	Position  core.Vec3
	Intensity float64
}

// NewPointLight creates a new point light
func NewPointLight(id string, position core.Vec3, intensity float64) *PointLight {
	return &PointLight{
		Name:      id,
		Position:  position,
		Intensity: intensity,
	}
}

func (l *PointLight) ID() string      { return l.Name }
func (l *PointLight) Type() LightType { return LightTypePoint }

// Visible casts a ray from the light toward point and reports whether the first
// surface it meets is candidate. A hit on candidate itself counts even when the
// numerical distance is slightly negative; any other primitive in front shadows it.
func (l *PointLight) Visible(point core.Vec3, candidate geometry.Primitive, primitives []geometry.Primitive, epsilon float64) bool {
	ray := core.NewRay(l.Position, point.Subtract(l.Position))
	closest := geometry.ClosestIntersection(ray, primitives, epsilon)
	return closest.Hit() && closest.Primitive == candidate && closest.T > -epsilon
}

// Lambert returns the cosine-weighted intensity this light delivers at point
func (l *PointLight) Lambert(point, normal core.Vec3) float64 {
	toLight := l.Position.Subtract(point).Normalize()
	return max(0, toLight.Dot(normal)*l.Intensity)
}

// Clone returns a copy of the light
func (l *PointLight) Clone() Light {
	clone := *l
	return &clone
}
