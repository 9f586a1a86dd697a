package renderer

import (
	"image"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// MockIntegrator for testing
type MockIntegrator struct {
	returnColor core.Vec3
	callCount   int
}

func (m *MockIntegrator) TraceRay(ray core.Ray, depth int, sampler core.Sampler) core.Vec3 {
	m.callCount++
	return m.returnColor
}

func TestSamplePixel_MeanOfSamples(t *testing.T) {
	s := scene.NewPlaneScene()
	cam := s.GetCamera()
	camera := NewCamera(cam, 101, 101)
	whitted := integrator.NewWhittedIntegrator(s, cam.Background)

	const samples = 8
	const depth = 2
	tr := NewTileRenderer(camera, whitted, samples, depth)

	for _, px := range []image.Point{{50, 50}, {0, 0}, {100, 37}} {
		// Trace the same rays by hand with an identically seeded sampler
		sampler := core.NewSeededSampler(7)
		var sum core.Vec3
		rays := camera.SampleRays(px.X, px.Y, samples, sampler)
		for _, ray := range rays {
			sum = sum.Add(whitted.TraceRay(ray, depth, sampler))
		}
		expected := sum.Divide(samples)

		got, used := tr.SamplePixel(px.X, px.Y, core.NewSeededSampler(7))
		if used != samples {
			t.Errorf("pixel %v: expected %d samples, got %d", px, samples, used)
		}
		if !vecAlmostEqual(got, expected, 1e-9) {
			t.Errorf("pixel %v: expected mean %v, got %v", px, expected, got)
		}
	}
}

func TestSamplePixel_CallsIntegratorPerSample(t *testing.T) {
	mock := &MockIntegrator{returnColor: core.NewVec3(10, 20, 30)}
	tr := NewTileRenderer(wideCamera(3, 3), mock, 5, 3)

	color, used := tr.SamplePixel(1, 1, core.NewSeededSampler(1))
	if mock.callCount != 5 || used != 5 {
		t.Errorf("Expected 5 integrator calls, got %d (reported %d)", mock.callCount, used)
	}
	if !vecAlmostEqual(color, mock.returnColor, 1e-9) {
		t.Errorf("Expected constant color %v, got %v", mock.returnColor, color)
	}
}

func TestRenderTileBounds_WritesOnlyItsBounds(t *testing.T) {
	marker := core.NewVec3(-1, -1, -1)
	frame := NewFrame(4, 3)
	for i := range frame.Pixels {
		frame.Pixels[i] = marker
	}

	mock := &MockIntegrator{returnColor: core.NewVec3(1, 2, 3)}
	tr := NewTileRenderer(wideCamera(4, 3), mock, 2, 3)

	stats := tr.RenderTileBounds(image.Rect(0, 1, 4, 2), frame, core.NewSeededSampler(3))

	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			want := marker
			if y == 1 {
				want = mock.returnColor
			}
			if got := frame.At(x, y); got != want {
				t.Errorf("pixel (%d,%d): expected %v, got %v", x, y, want, got)
			}
		}
	}

	if stats.TotalPixels != 4 || stats.TotalSamples != 8 || stats.RowsCompleted != 1 {
		t.Errorf("Unexpected stats %+v", stats)
	}
}
