package integrator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

const testEpsilon = 1e-6

// MockScene implements Scene for testing
type MockScene struct {
	primitives []geometry.Primitive
	lights     []lights.Light
}

func (m MockScene) GetPrimitives() []geometry.Primitive { return m.primitives }
func (m MockScene) GetLights() []lights.Light           { return m.lights }
func (m MockScene) Epsilon() float64                    { return testEpsilon }

// CountingLight records how often it is consulted
type CountingLight struct {
	calls int
}

func (c *CountingLight) ID() string            { return "counting" }
func (c *CountingLight) Type() lights.LightType { return lights.LightTypePoint }
func (c *CountingLight) Visible(point core.Vec3, candidate geometry.Primitive, primitives []geometry.Primitive, epsilon float64) bool {
	c.calls++
	return true
}
func (c *CountingLight) Lambert(point, normal core.Vec3) float64 {
	c.calls++
	return 1
}
func (c *CountingLight) Clone() lights.Light { return &CountingLight{} }

func newSampler() core.Sampler {
	return core.NewRandomSampler(rand.New(rand.NewSource(42)))
}

func TestTraceRay_MissReturnsBackground(t *testing.T) {
	sphere := geometry.NewSphere("ball", core.NewVec3(0, 0, 5), 1, material.New(1, 0.5, 0.1, core.NewVec3(255, 0, 0)))
	background := core.NewVec3(12, 34, 56)
	w := NewWhittedIntegrator(MockScene{
		primitives: []geometry.Primitive{sphere},
		lights:     []lights.Light{lights.NewPointLight("l", core.NewVec3(0, 10, 0), 1)},
	}, background)

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))
	if got := w.TraceRay(ray, 3, newSampler()); got != background {
		t.Errorf("Expected background %v, got %v", background, got)
	}
}

func TestTraceRay_EmptyScene(t *testing.T) {
	background := core.NewVec3(1, 2, 3)
	w := NewWhittedIntegrator(MockScene{}, background)

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
	if got := w.TraceRay(ray, 5, newSampler()); got != background {
		t.Errorf("Expected background %v, got %v", background, got)
	}
}

func TestComputeColor_DepthTermination(t *testing.T) {
	light := &CountingLight{}
	plane := geometry.NewPlane("floor", core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0),
		material.New(1, 1, 1, core.NewVec3(255, 255, 255)))
	w := NewWhittedIntegrator(MockScene{
		primitives: []geometry.Primitive{plane},
		lights:     []lights.Light{light},
	}, core.NewVec3(100, 100, 100))

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, -1, 1))
	hit := geometry.ClosestIntersection(ray, []geometry.Primitive{plane}, testEpsilon)
	if !hit.Hit() {
		t.Fatal("Expected the ray to hit the floor")
	}

	for _, depth := range []int{1, 0, -3} {
		if got := w.ComputeColor(ray, hit, depth, newSampler()); got != (core.Vec3{}) {
			t.Errorf("Depth %d: expected black, got %v", depth, got)
		}
	}
	if light.calls != 0 {
		t.Errorf("Expected no lighting evaluation at exhausted depth, got %d calls", light.calls)
	}
}

func TestComputeColor_AmbientOnly(t *testing.T) {
	color := core.NewVec3(10, 20, 30)
	sphere := geometry.NewSphere("ball", core.NewVec3(0, 0, 5), 1, material.New(0, 0, 1, color))
	w := NewWhittedIntegrator(MockScene{
		primitives: []geometry.Primitive{sphere},
	}, core.NewVec3(200, 200, 200))

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
	if got := w.TraceRay(ray, 2, newSampler()); got != color {
		t.Errorf("Expected pure ambient color %v, got %v", color, got)
	}
}

func TestComputeColor_MirrorReflectsBackground(t *testing.T) {
	mirror := geometry.NewPlane("mirror", core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0),
		material.New(0, 0.5, 0, core.NewVec3(255, 255, 255)))
	background := core.NewVec3(40, 80, 120)
	w := NewWhittedIntegrator(MockScene{
		primitives: []geometry.Primitive{mirror},
	}, background)

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, -1, 1))
	got := w.TraceRay(ray, 3, newSampler())
	expected := background.Multiply(0.5)
	if got.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected half-strength reflected background %v, got %v", expected, got)
	}
}

func TestComputeColor_MirrorDepthExhausted(t *testing.T) {
	mirror := geometry.NewPlane("mirror", core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0),
		material.New(0, 1, 0, core.NewVec3(255, 255, 255)))
	ceiling := geometry.NewPlane("ceiling", core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0),
		material.New(0, 1, 0, core.NewVec3(255, 255, 255)))
	w := NewWhittedIntegrator(MockScene{
		primitives: []geometry.Primitive{mirror, ceiling},
	}, core.NewVec3(255, 255, 255))

	// Two facing mirrors never reach the background, so the result is black
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, -1, 1))
	if got := w.TraceRay(ray, 4, newSampler()); got != (core.Vec3{}) {
		t.Errorf("Expected black between facing mirrors, got %v", got)
	}
}

func TestComputeColor_ShadowedPointIsBlack(t *testing.T) {
	white := material.New(1, 0, 0, core.NewVec3(255, 255, 255))
	floor := geometry.NewPlane("floor", core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), white)
	blocker := geometry.NewSphere("blocker", core.NewVec3(0, 2, 0), 1, white)
	w := NewWhittedIntegrator(MockScene{
		primitives: []geometry.Primitive{floor, blocker},
		lights:     []lights.Light{lights.NewPointLight("key", core.NewVec3(0, 5, 0), 1)},
	}, core.NewVec3(255, 255, 255))

	// Aimed at the floor under the sphere, passing beneath it
	shadowed := core.NewRay(core.NewVec3(0, 0.5, -5), core.NewVec3(0, -0.5, 5))
	if got := w.TraceRay(shadowed, 3, newSampler()); got != (core.Vec3{}) {
		t.Errorf("Expected black in full shadow without ambient, got %v", got)
	}

	lit := core.NewRay(core.NewVec3(6, 0.5, -5), core.NewVec3(0, -0.5, 5))
	if got := w.TraceRay(lit, 3, newSampler()); got.X <= 0 {
		t.Errorf("Expected a lit floor point away from the sphere, got %v", got)
	}
}

func TestComputeColor_ShadowedPointStillBlendsScatter(t *testing.T) {
	grey := material.New(1, 0, 1, core.NewVec3(100, 100, 100))
	floor := geometry.NewPlane("floor", core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), grey)
	blocker := geometry.NewSphere("blocker", core.NewVec3(0, 2, 0), 1, grey)
	background := core.NewVec3(200, 200, 200)
	w := NewWhittedIntegrator(MockScene{
		primitives: []geometry.Primitive{floor, blocker},
		lights:     []lights.Light{lights.NewPointLight("key", core.NewVec3(0, 5, 0), 1)},
	}, background)

	// (1.2, 0, 0) is in the sphere's shadow, but a straight-up bounce from it
	// passes beside the sphere and reaches the background
	point := core.NewVec3(1.2, 0, 0)
	if w.lambertAmount(point, core.NewVec3(0, 1, 0), floor) != 0 {
		t.Fatal("Expected the floor point to be fully shadowed")
	}

	// A constant 0.5 sample makes the unit-sphere offset zero, so the bounce
	// follows the normal
	ray := core.NewRay(core.NewVec3(1.2, 0.5, -5), core.NewVec3(0, -0.5, 5))
	got := w.TraceRay(ray, 3, core.NewSequenceSampler(0.5))

	expected := core.NewVec3(150, 150, 150) // ambient * (color + background) / 2
	if got.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected blended ambient color %v, got %v", expected, got)
	}
	if got == grey.Color {
		t.Errorf("Shadowed point should not fall back to the unblended ambient color")
	}
}

func TestComputeColor_LambertClampedToOne(t *testing.T) {
	white := material.New(1, 0, 0, core.NewVec3(200, 200, 200))
	floor := geometry.NewPlane("floor", core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0), white)

	var many []lights.Light
	for i := 0; i < 5; i++ {
		many = append(many, lights.NewPointLight(string(rune('a'+i)), core.NewVec3(0, 5, 1), 1))
	}
	w := NewWhittedIntegrator(MockScene{
		primitives: []geometry.Primitive{floor},
		lights:     many,
	}, core.NewVec3(0, 0, 0))

	// Depth 2: the scattered sample returns the black background
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, -1, 1))
	got := w.TraceRay(ray, 2, newSampler())
	expected := 100.0 // (200 + 0) / 2 * min(5, 1)
	if math.Abs(got.X-expected) > 1e-9 {
		t.Errorf("Expected clamped lambert color %f, got %v", expected, got)
	}
}

func TestClampDepth(t *testing.T) {
	tests := map[int]int{-5: 1, 0: 1, 1: 1, 5: 5, MaxDepthLimit: MaxDepthLimit, 1000: MaxDepthLimit}
	for in, expected := range tests {
		if got := ClampDepth(in); got != expected {
			t.Errorf("ClampDepth(%d) = %d, want %d", in, got, expected)
		}
	}
}
