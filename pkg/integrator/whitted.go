package integrator

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
)

// Scene is the read-only view of a scene the integrator needs
type Scene interface {
	GetPrimitives() []geometry.Primitive
	GetLights() []lights.Light
	Epsilon() float64
}

// WhittedIntegrator implements recursive Whitted-style shading with a
// stochastic diffuse bounce
type WhittedIntegrator struct {
	primitives []geometry.Primitive
	lights     []lights.Light
	background core.Vec3
	epsilon    float64
}

// NewWhittedIntegrator creates an integrator over the scene's current contents.
// The scene must not change while the integrator is in use.
func NewWhittedIntegrator(scene Scene, background core.Vec3) *WhittedIntegrator {
	return &WhittedIntegrator{
		primitives: scene.GetPrimitives(),
		lights:     scene.GetLights(),
		background: background,
		epsilon:    scene.Epsilon(),
	}
}

// TraceRay returns the background color on a miss and shades the nearest hit otherwise
func (w *WhittedIntegrator) TraceRay(ray core.Ray, depth int, sampler core.Sampler) core.Vec3 {
	hit := geometry.ClosestIntersection(ray, w.primitives, w.epsilon)
	if !hit.Hit() {
		return w.background
	}
	return w.ComputeColor(ray, hit, depth, sampler)
}

// ComputeColor shades the surface point at hit. Each call consumes one level of
// depth and returns black once fewer than one level remains.
func (w *WhittedIntegrator) ComputeColor(ray core.Ray, hit geometry.Intersection, depth int, sampler core.Sampler) core.Vec3 {
	depth--
	if depth < 1 {
		return core.Vec3{}
	}

	point := hit.Point(ray)
	normal := hit.Primitive.Normal(point)
	mat := hit.Primitive.GetMaterial()

	baseColor := mat.Color
	lambertAmount := 0.0
	if mat.IsDiffuse() {
		lambertAmount = w.lambertAmount(point, normal, hit.Primitive)

		// The scattered sample is blended in even when every light is blocked
		scattered := mat.Scatter(ray, point, normal, sampler)
		scatterColor := w.TraceRay(scattered, depth, sampler)
		baseColor = baseColor.Add(scatterColor).Multiply(0.5)
	}

	specularColor := core.Vec3{}
	if mat.IsSpecular() {
		reflected := core.NewRay(point, mat.Reflect(ray.Direction, normal))
		specularColor = w.TraceRay(reflected, depth, sampler).Multiply(mat.Specular)
	}

	return specularColor.
		Add(baseColor.Multiply(lambertAmount * mat.Diffuse)).
		Add(baseColor.Multiply(mat.Ambient))
}

// lambertAmount sums the contribution of every light that can see point, capped at 1
func (w *WhittedIntegrator) lambertAmount(point, normal core.Vec3, primitive geometry.Primitive) float64 {
	amount := 0.0
	for _, light := range w.lights {
		if light.Visible(point, primitive, w.primitives, w.epsilon) {
			amount += light.Lambert(point, normal)
		}
	}
	return min(amount, 1)
}
