package renderer

import "github.com/df07/go-whitted-raytracer/pkg/core"

// Frame holds the unclamped RGB result of a render in row-major order.
// Workers write disjoint rows, so no locking is needed while a render runs.
type Frame struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// NewFrame allocates a black frame
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pixels: make([]core.Vec3, width*height),
	}
}

// At returns the color of pixel (x, y)
func (f *Frame) At(x, y int) core.Vec3 {
	return f.Pixels[y*f.Width+x]
}

// Set stores the color of pixel (x, y)
func (f *Frame) Set(x, y int, color core.Vec3) {
	f.Pixels[y*f.Width+x] = color
}

// Row returns the slice backing scanline y
func (f *Frame) Row(y int) []core.Vec3 {
	return f.Pixels[y*f.Width : (y+1)*f.Width]
}
