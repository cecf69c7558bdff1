package sr3d

import (
	"math"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestNewDepthBuffer_ClearValue(t *testing.T) {
	tests := []struct {
		compare gputypes.CompareFunction
		want    float64
	}{
		{gputypes.CompareFunctionGreater, -math.MaxFloat64},
		{gputypes.CompareFunctionGreaterEqual, -math.MaxFloat64},
		{gputypes.CompareFunctionLess, math.MaxFloat64},
		{gputypes.CompareFunctionLessEqual, math.MaxFloat64},
	}
	for _, tt := range tests {
		d := NewDepthBuffer(4, 3, tt.compare)
		for y := range 3 {
			for x := range 4 {
				if got := d.At(x, y); got != tt.want {
					t.Fatalf("%v: At(%d, %d) = %v, want %v", tt.compare, x, y, got, tt.want)
				}
			}
		}
	}
}

func TestNewDepthBuffer_InvalidSizePanics(t *testing.T) {
	expectPanic(t, "NewDepthBuffer(0, 1)", func() { NewDepthBuffer(0, 1, gputypes.CompareFunctionLess) })
	expectPanic(t, "NewDepthBuffer(1, -1)", func() { NewDepthBuffer(1, -1, gputypes.CompareFunctionLess) })
}

func TestDepthBuffer_Test(t *testing.T) {
	tests := []struct {
		compare gputypes.CompareFunction
		seq     []float64
		pass    []bool
	}{
		{gputypes.CompareFunctionGreater, []float64{0.5, 0.4, 0.6, 0.6}, []bool{true, false, true, false}},
		{gputypes.CompareFunctionGreaterEqual, []float64{0.5, 0.5, 0.4}, []bool{true, true, false}},
		{gputypes.CompareFunctionLess, []float64{0.5, 0.6, 0.4, 0.4}, []bool{true, false, true, false}},
		{gputypes.CompareFunctionLessEqual, []float64{0.5, 0.5, 0.6}, []bool{true, true, false}},
		{gputypes.CompareFunctionAlways, []float64{0.5, 0.1, 0.9}, []bool{true, true, true}},
		{gputypes.CompareFunctionNever, []float64{0.5}, []bool{false}},
	}
	for _, tt := range tests {
		t.Run(tt.compare.String(), func(t *testing.T) {
			d := NewDepthBuffer(2, 2, tt.compare)
			for i, z := range tt.seq {
				if got := d.Test(1, 1, z); got != tt.pass[i] {
					t.Errorf("Test(%v) #%d = %v, want %v", z, i, got, tt.pass[i])
				}
			}
			if d.At(0, 0) != farthest(tt.compare) {
				t.Error("Test() wrote to another pixel")
			}
		})
	}
}

func TestDepthPool_Reuse(t *testing.T) {
	p := newDepthPool(1)

	d := p.get(8, 8, gputypes.CompareFunctionGreater)
	d.Test(3, 3, 1)
	p.put(d)

	// A second put beyond capacity is dropped.
	p.put(NewDepthBuffer(8, 8, gputypes.CompareFunctionGreater))
	if n := len(p.buckets[depthKey{8, 8}]); n != 1 {
		t.Errorf("bucket size = %d, want 1", n)
	}

	r := p.get(8, 8, gputypes.CompareFunctionLess)
	if r != d {
		t.Fatal("get() did not reuse the pooled buffer")
	}
	if r.Compare() != gputypes.CompareFunctionLess {
		t.Errorf("Compare() = %v, want Less", r.Compare())
	}
	if got := r.At(3, 3); got != math.MaxFloat64 {
		t.Errorf("reused buffer not cleared: At(3, 3) = %v", got)
	}

	if other := p.get(4, 4, gputypes.CompareFunctionLess); other == d || other.Width() != 4 {
		t.Error("get() returned a buffer of the wrong size")
	}
	p.put(nil)
}

func BenchmarkDepthBuffer_Test(b *testing.B) {
	d := NewDepthBuffer(256, 256, gputypes.CompareFunctionGreater)
	b.ReportAllocs()
	z := 0.0
	for b.Loop() {
		z += 1e-9
		d.Test(128, 128, z)
	}
}
