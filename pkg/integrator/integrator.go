package integrator

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// MaxDepthLimit caps any configured recursion depth so malformed input cannot
// produce runaway stacks
const MaxDepthLimit = 16

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// TraceRay returns the color seen along ray with depth recursion levels left
	TraceRay(ray core.Ray, depth int, sampler core.Sampler) core.Vec3
}

// ClampDepth bounds a configured depth to [1, MaxDepthLimit]
func ClampDepth(depth int) int {
	return max(1, min(depth, MaxDepthLimit))
}
