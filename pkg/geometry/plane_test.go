package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestPlane_Intersect_BasicIntersection(t *testing.T) {
	// Create a horizontal plane at y=0
	plane := NewPlane("floor", core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), testMaterial)

	// Ray shooting down from above
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	got := plane.Intersect(ray, testEpsilon)
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("Expected t=1, got t=%f", got)
	}
}

func TestPlane_Intersect_ParallelRay(t *testing.T) {
	plane := NewPlane("floor", core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), testMaterial)
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(1, 0, 0))

	if got := plane.Intersect(ray, testEpsilon); !math.IsInf(got, 1) {
		t.Errorf("Expected miss for parallel ray, got t=%f", got)
	}
}

func TestPlane_Intersect_NearlyParallelWithinEpsilon(t *testing.T) {
	plane := NewPlane("floor", core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), testMaterial)
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(1, -1e-4, 0))

	if got := plane.Intersect(ray, 1e-3); !math.IsInf(got, 1) {
		t.Errorf("Expected miss when |denominator| < epsilon, got t=%f", got)
	}
}

func TestPlane_Intersect_BehindRay(t *testing.T) {
	plane := NewPlane("floor", core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), testMaterial)
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0))

	if got := plane.Intersect(ray, testEpsilon); !math.IsInf(got, 1) {
		t.Errorf("Expected miss for intersection behind ray, got t=%f", got)
	}
}

func TestPlane_Intersect_FromBelow(t *testing.T) {
	plane := NewPlane("floor", core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), testMaterial)
	ray := core.NewRay(core.NewVec3(0, -2, 0), core.NewVec3(0, 1, 0))

	if got := plane.Intersect(ray, testEpsilon); math.Abs(got-2) > 1e-9 {
		t.Errorf("Expected t=2 from below, got %f", got)
	}
}

func TestPlane_Intersect_OriginOnPlane(t *testing.T) {
	plane := NewPlane("floor", core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), testMaterial)
	ray := core.NewRay(core.NewVec3(3, 0, 3), core.NewVec3(0.2, 1, 0))

	if got := plane.Intersect(ray, testEpsilon); !math.IsInf(got, 1) {
		t.Errorf("Expected ray leaving the plane to miss it, got t=%g", got)
	}
}

func TestPlane_Normal(t *testing.T) {
	plane := NewPlane("wall", core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 3), testMaterial)

	for _, p := range []core.Vec3{core.NewVec3(0, 0, -5), core.NewVec3(100, -40, -5)} {
		if n := plane.Normal(p); n != core.NewVec3(0, 0, 1) {
			t.Errorf("Expected normalized constant normal (0, 0, 1) at %v, got %v", p, n)
		}
	}
}
