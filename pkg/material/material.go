package material

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Material describes how a surface responds to light. The three weights are
// intended to lie in [0,1] but are neither enforced nor required to sum to 1.
type Material struct {
	Diffuse  float64   // Weight of the lambertian and scattered terms
	Specular float64   // Weight of the mirror reflection
	Ambient  float64   // Weight of the unlit base color
	Color    core.Vec3 // Base color on the 0-255 scale
}

// New creates a material
func New(diffuse, specular, ambient float64, color core.Vec3) Material {
	return Material{
		Diffuse:  diffuse,
		Specular: specular,
		Ambient:  ambient,
		Color:    color,
	}
}

// IsDiffuse reports whether the lambertian and scatter terms contribute
func (m Material) IsDiffuse() bool {
	return m.Diffuse > 0
}

// IsSpecular reports whether the mirror reflection contributes
func (m Material) IsSpecular() bool {
	return m.Specular > 0
}

// Reflect mirrors the incident direction about the surface normal
func (m Material) Reflect(incident, normal core.Vec3) core.Vec3 {
	return Reflect(incident, normal)
}

// Scatter builds the stochastic diffuse bounce leaving point. The normal is
// flipped to the side the incoming ray came from before it is perturbed.
func (m Material) Scatter(rayIn core.Ray, point, normal core.Vec3, sampler core.Sampler) core.Ray {
	return core.NewRay(point, ScatterDirection(rayIn.Direction, normal, sampler))
}

// Reflect calculates the reflection of incident off a surface with the given normal
func Reflect(incident, normal core.Vec3) core.Vec3 {
	// r = i - 2*dot(n,i)*n
	return incident.Subtract(normal.Multiply(2 * normal.Dot(incident)))
}

// FaceForward returns normal oriented against direction
func FaceForward(normal, direction core.Vec3) core.Vec3 {
	if normal.Dot(direction) > 0 {
		return normal.Negate()
	}
	return normal
}

// ScatterDirection returns the facing normal perturbed by a random point in the unit sphere
func ScatterDirection(incident, normal core.Vec3, sampler core.Sampler) core.Vec3 {
	facing := FaceForward(normal, incident)
	return facing.Add(core.RandomInUnitSphere(-1, 1, sampler))
}
