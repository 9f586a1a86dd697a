package renderer

import (
	"sync"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestPixelStats_GetColor(t *testing.T) {
	var ps PixelStats
	if got := ps.GetColor(); got != (core.Vec3{}) {
		t.Errorf("Expected black for a pixel without samples, got %v", got)
	}

	ps.AddSample(core.NewVec3(10, 0, 30))
	ps.AddSample(core.NewVec3(20, 40, 0))
	if got := ps.GetColor(); !vecAlmostEqual(got, core.NewVec3(15, 20, 15), 1e-12) {
		t.Errorf("Expected mean (15, 20, 15), got %v", got)
	}
	if ps.SampleCount != 2 {
		t.Errorf("Expected 2 samples, got %d", ps.SampleCount)
	}
}

func TestRenderStats_MergeAndFinalize(t *testing.T) {
	var total RenderStats
	total.merge(RenderStats{TotalPixels: 10, TotalSamples: 40, RowsCompleted: 1})
	total.merge(RenderStats{TotalPixels: 10, TotalSamples: 20, RowsCompleted: 1})
	total.finalize()

	if total.TotalPixels != 20 || total.TotalSamples != 60 || total.RowsCompleted != 2 {
		t.Errorf("Unexpected totals %+v", total)
	}
	if total.AverageSamples != 3 {
		t.Errorf("Expected 3 average samples, got %f", total.AverageSamples)
	}

	var empty RenderStats
	empty.finalize()
	if empty.AverageSamples != 0 {
		t.Errorf("Expected 0 average samples for an empty render, got %f", empty.AverageSamples)
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		row, height int
		expected    int
	}{
		{0, 1, 100},
		{0, 2, 0},
		{1, 2, 100},
		{1, 4, 33},
		{2, 4, 66},
		{3, 4, 100},
		{99, 201, 49},
	}

	for _, tt := range tests {
		if got := Percent(tt.row, tt.height); got != tt.expected {
			t.Errorf("Percent(%d, %d) = %d, expected %d", tt.row, tt.height, got, tt.expected)
		}
	}
}

func TestProgressTracker_ConcurrentRows(t *testing.T) {
	const workers = 8
	const height = workers * 62

	var reports []int
	tracker := NewProgressTracker(height, func(p int) { reports = append(reports, p) })

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < height/workers; i++ {
				tracker.RowDone()
			}
		}()
	}
	wg.Wait()

	for i := 1; i < len(reports); i++ {
		if reports[i] <= reports[i-1] {
			t.Fatalf("Progress went from %d to %d", reports[i-1], reports[i])
		}
	}
	if len(reports) == 0 || reports[len(reports)-1] != 100 {
		t.Errorf("Expected the last report to be 100, got %v", reports)
	}
	if tracker.Completed() != height {
		t.Errorf("Expected %d completed rows, got %d", height, tracker.Completed())
	}
}

func TestProgressTracker_NilCallback(t *testing.T) {
	tracker := NewProgressTracker(3, nil)
	tracker.RowDone()
	tracker.RowDone()
	if tracker.Completed() != 2 {
		t.Errorf("Expected 2 completed rows, got %d", tracker.Completed())
	}
}

func TestFrame_RowAliasesPixels(t *testing.T) {
	frame := NewFrame(3, 2)
	frame.Set(2, 1, core.NewVec3(1, 2, 3))

	row := frame.Row(1)
	if len(row) != 3 || row[2] != core.NewVec3(1, 2, 3) {
		t.Errorf("Expected row 1 to end with (1, 2, 3), got %v", row)
	}
	if frame.At(2, 0) != (core.Vec3{}) {
		t.Errorf("Expected other rows untouched, got %v", frame.At(2, 0))
	}
}
