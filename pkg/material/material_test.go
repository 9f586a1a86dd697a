package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestReflect(t *testing.T) {
	tests := []struct {
		name     string
		incident core.Vec3
		normal   core.Vec3
		expected core.Vec3
	}{
		{
			name:     "45 degree bounce off floor",
			incident: core.NewVec3(1, -1, 0),
			normal:   core.NewVec3(0, 1, 0),
			expected: core.NewVec3(1, 1, 0),
		},
		{
			name:     "head-on reverses direction",
			incident: core.NewVec3(0, 0, -1),
			normal:   core.NewVec3(0, 0, 1),
			expected: core.NewVec3(0, 0, 1),
		},
		{
			name:     "grazing ray is unchanged",
			incident: core.NewVec3(1, 0, 0),
			normal:   core.NewVec3(0, 1, 0),
			expected: core.NewVec3(1, 0, 0),
		},
	}

	m := New(0, 1, 0, core.NewVec3(255, 255, 255))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Reflect(tt.incident, tt.normal)
			if got.Subtract(tt.expected).Length() > 1e-12 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestFaceForward(t *testing.T) {
	up := core.NewVec3(0, 1, 0)

	if got := FaceForward(up, core.NewVec3(0, -1, 0)); got != up {
		t.Errorf("Normal facing the ray should be kept, got %v", got)
	}
	if got := FaceForward(up, core.NewVec3(0, 1, 0)); got != up.Negate() {
		t.Errorf("Normal facing away from the ray should be flipped, got %v", got)
	}
}

func TestScatter_StaysOnIncomingSide(t *testing.T) {
	m := New(1, 0, 0, core.NewVec3(200, 200, 200))
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	point := core.NewVec3(0, 0, 0)
	normal := core.NewVec3(0, 1, 0)

	// Ray arriving from below: scattered rays must head back down
	rayIn := core.NewRay(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0))
	for i := 0; i < 200; i++ {
		scattered := m.Scatter(rayIn, point, normal, sampler)
		if scattered.Direction.Y >= 0 {
			t.Fatalf("Scattered direction %v points away from the incoming side", scattered.Direction)
		}
		if math.Abs(scattered.Direction.Length()-1) > 1e-9 {
			t.Fatalf("Scattered direction should be normalized, got length %f", scattered.Direction.Length())
		}
		if scattered.Origin != point {
			t.Fatalf("Scattered ray should start at the hit point, got %v", scattered.Origin)
		}
	}
}

func TestMaterialFlags(t *testing.T) {
	m := New(0, 0.5, 0.1, core.Vec3{})
	if m.IsDiffuse() {
		t.Error("Material with zero diffuse weight should not be diffuse")
	}
	if !m.IsSpecular() {
		t.Error("Material with positive specular weight should be specular")
	}
}
