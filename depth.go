package sr3d

import (
	"fmt"
	"math"
	"sync"

	"github.com/gogpu/gputypes"
)

// DepthBuffer stores one depth value per pixel, row-major with the
// origin at the bottom-left pixel.
type DepthBuffer struct {
	width, height int
	compare       gputypes.CompareFunction
	data          []float64
}

// NewDepthBuffer allocates a depth buffer cleared for the given compare
// function. It panics if either dimension is not positive.
func NewDepthBuffer(width, height int, compare gputypes.CompareFunction) *DepthBuffer {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("sr3d: invalid depth buffer size %dx%d", width, height))
	}
	d := &DepthBuffer{
		width:   width,
		height:  height,
		compare: compare,
		data:    make([]float64, width*height),
	}
	d.Clear()
	return d
}

// farthest returns the clear value for f: the depth every incoming
// fragment beats under an ordering compare.
func farthest(f gputypes.CompareFunction) float64 {
	switch f {
	case gputypes.CompareFunctionLess, gputypes.CompareFunctionLessEqual:
		return math.MaxFloat64
	default:
		return -math.MaxFloat64
	}
}

// depthPasses reports whether z survives against stored under f.
func depthPasses(f gputypes.CompareFunction, z, stored float64) bool {
	switch f {
	case gputypes.CompareFunctionNever:
		return false
	case gputypes.CompareFunctionLess:
		return z < stored
	case gputypes.CompareFunctionEqual:
		return z == stored
	case gputypes.CompareFunctionLessEqual:
		return z <= stored
	case gputypes.CompareFunctionNotEqual:
		return z != stored
	case gputypes.CompareFunctionGreaterEqual:
		return z >= stored
	case gputypes.CompareFunctionAlways:
		return true
	default:
		return z > stored
	}
}

// Clear resets every pixel to the farthest depth for the compare function.
func (d *DepthBuffer) Clear() {
	far := farthest(d.compare)
	for i := range d.data {
		d.data[i] = far
	}
}

// Width returns the buffer width in pixels.
func (d *DepthBuffer) Width() int { return d.width }

// Height returns the buffer height in pixels.
func (d *DepthBuffer) Height() int { return d.height }

// Compare returns the depth test function.
func (d *DepthBuffer) Compare() gputypes.CompareFunction { return d.compare }

// At returns the stored depth at (x, y).
func (d *DepthBuffer) At(x, y int) float64 {
	return d.data[y*d.width+x]
}

// Test runs the depth test for z at (x, y) and stores z if it passes.
func (d *DepthBuffer) Test(x, y int, z float64) bool {
	i := y*d.width + x
	if !depthPasses(d.compare, z, d.data[i]) {
		return false
	}
	d.data[i] = z
	return true
}

// depthPool reuses depth buffers between render passes of the same size.
//
// Thread safety: all methods are safe for concurrent use.
type depthPool struct {
	mu      sync.Mutex
	buckets map[depthKey][]*DepthBuffer
	maxSize int // max buffers per bucket
}

type depthKey struct {
	width, height int
}

func newDepthPool(maxPerBucket int) *depthPool {
	return &depthPool{
		buckets: make(map[depthKey][]*DepthBuffer),
		maxSize: maxPerBucket,
	}
}

// get returns a cleared buffer of the requested size and compare function.
func (p *depthPool) get(width, height int, compare gputypes.CompareFunction) *DepthBuffer {
	key := depthKey{width: width, height: height}

	p.mu.Lock()
	bucket := p.buckets[key]
	if len(bucket) > 0 {
		d := bucket[len(bucket)-1]
		p.buckets[key] = bucket[:len(bucket)-1]
		p.mu.Unlock()

		d.compare = compare
		d.Clear()
		return d
	}
	p.mu.Unlock()

	return NewDepthBuffer(width, height, compare)
}

// put returns d to the pool. Buffers beyond the bucket capacity are dropped.
func (p *depthPool) put(d *DepthBuffer) {
	if d == nil {
		return
	}
	key := depthKey{width: d.width, height: d.height}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, d)
}

var defaultDepthPool = newDepthPool(8)
