package renderer

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Camera maps pixel coordinates to primary rays through a pinhole viewport
type Camera struct {
	position    core.Vec3
	right       core.Vec3
	up          core.Vec3
	topLeft     core.Vec3
	pixelWidth  float64
	pixelHeight float64
}

// NewCamera builds the viewport for a width x height image.
// The field of view is horizontal; the vertical extent follows the aspect ratio.
func NewCamera(config scene.CameraConfig, width, height int) *Camera {
	aspectRatio := float64(width) / float64(height)
	viewportWidth := 2 * math.Tan(config.FieldOfView*math.Pi/360)
	viewportHeight := viewportWidth / aspectRatio

	forward := config.LookAt.Subtract(config.Position).Normalize()
	right := forward.Cross(config.Up).Normalize()
	camUp := right.Cross(forward).Normalize()

	topLeft := forward.
		Subtract(right.Multiply(viewportWidth / 2)).
		Add(camUp.Multiply(viewportHeight / 2))

	// A single column or row has no extent to step across
	var pixelWidth, pixelHeight float64
	if width > 1 {
		pixelWidth = viewportWidth / float64(width-1)
	}
	if height > 1 {
		pixelHeight = viewportHeight / float64(height-1)
	}

	return &Camera{
		position:    config.Position,
		right:       right,
		up:          camUp,
		topLeft:     topLeft,
		pixelWidth:  pixelWidth,
		pixelHeight: pixelHeight,
	}
}

// direction returns the un-normalized direction for viewport offsets measured from the top-left corner
func (c *Camera) direction(incX, incY float64) core.Vec3 {
	return c.topLeft.
		Add(c.right.Multiply(incX)).
		Subtract(c.up.Multiply(incY))
}

// GetRay returns the unjittered primary ray for pixel (x, y)
func (c *Camera) GetRay(x, y int) core.Ray {
	incX := float64(x) * c.pixelWidth
	incY := float64(y) * c.pixelHeight
	return core.NewRay(c.position, c.direction(incX, incY))
}

// SampleRays returns the primary rays for one pixel. The first ray goes through
// the pixel's grid point; each further ray is offset from it by up to one pixel
// step, with the sign alternating between successive samples.
func (c *Camera) SampleRays(x, y, samples int, sampler core.Sampler) []core.Ray {
	samples = max(1, samples)
	incX := float64(x) * c.pixelWidth
	incY := float64(y) * c.pixelHeight

	rays := make([]core.Ray, 0, samples)
	rays = append(rays, core.NewRay(c.position, c.direction(incX, incY)))

	for k := 1; k < samples; k++ {
		sign := 1.0
		if k%2 == 0 {
			sign = -1.0
		}
		jitterX := sign * sampler.Get1D() * c.pixelWidth
		jitterY := sign * sampler.Get1D() * c.pixelHeight
		rays = append(rays, core.NewRay(c.position, c.direction(incX+jitterX, incY+jitterY)))
	}

	return rays
}
