package core

import (
	"fmt"
	"math"
)

// Vec3 represents a 3D vector. It doubles as a position, a direction, or an RGB
// color on the 0-255 scale. Operations never modify the receiver.
type Vec3 struct {
	X, Y, Z float64
}

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns the sum of two vectors
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Subtract returns the difference of two vectors
func (v Vec3) Subtract(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Multiply returns the vector scaled by a scalar
func (v Vec3) Multiply(scalar float64) Vec3 {
	return Vec3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

// Divide returns the vector divided by a scalar.
// A zero scalar yields infinite or NaN components; callers guard where it matters.
func (v Vec3) Divide(scalar float64) Vec3 {
	return Vec3{v.X / scalar, v.Y / scalar, v.Z / scalar}
}

// Length returns the magnitude of the vector
func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// LengthSquared returns the squared magnitude of the vector
func (v Vec3) LengthSquared() float64 {
	return v.Dot(v)
}

// Dot returns the dot product of two vectors
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product of two vectors
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Normalize returns a unit vector in the same direction.
// The zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 {
		return v
	}
	return v.Divide(length)
}

// Negate returns the negative of the vector
func (v Vec3) Negate() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Clamp returns a vector with components clamped to [min, max]. NaN
// components become min.
func (v Vec3) Clamp(minVal, maxVal float64) Vec3 {
	clamp := func(x float64) float64 {
		if math.IsNaN(x) {
			return minVal
		}
		return max(minVal, min(maxVal, x))
	}
	return Vec3{X: clamp(v.X), Y: clamp(v.Y), Z: clamp(v.Z)}
}

// String implements fmt.Stringer
func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// RandomInUnitSphere rejection-samples a point strictly inside the unit sphere.
// Each component is drawn uniformly from [minVal, maxVal]; the loop only ends
// once a candidate lands inside the sphere.
func RandomInUnitSphere(minVal, maxVal float64, sampler Sampler) Vec3 {
	span := maxVal - minVal
	for {
		p := Vec3{
			X: minVal + span*sampler.Get1D(),
			Y: minVal + span*sampler.Get1D(),
			Z: minVal + span*sampler.Get1D(),
		}
		if p.Length() < 1 {
			return p
		}
	}
}
