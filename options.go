package sr3d

import "github.com/gogpu/gputypes"

// Option configures a Pipeline during creation.
//
// Example:
//
//	// Defaults: greater-wins depth test, no culling
//	p := sr3d.NewPipeline()
//
//	// Conventional less-wins depth with back-face culling
//	p := sr3d.NewPipeline(
//		sr3d.WithDepthCompare(gputypes.CompareFunctionLess),
//		sr3d.WithCullMode(gputypes.CullModeBack, gputypes.FrontFaceCCW),
//	)
type Option func(*options)

// options holds optional configuration for Pipeline creation.
type options struct {
	depthCompare gputypes.CompareFunction
	cullMode     gputypes.CullMode
	frontFace    gputypes.FrontFace
	progress     func(done, total int)
}

// defaultOptions returns the default pipeline options.
func defaultOptions() options {
	return options{
		depthCompare: gputypes.CompareFunctionGreater,
		cullMode:     gputypes.CullModeNone,
		frontFace:    gputypes.FrontFaceCCW,
	}
}

// WithDepthCompare sets the depth test. A fragment survives when
// compare(fragment depth, stored depth) holds. The depth buffer is
// cleared to the value no depth can lose against, so the first
// fragment at each pixel always passes for the ordering functions.
//
// CompareFunctionUndefined selects the default, CompareFunctionGreater.
func WithDepthCompare(f gputypes.CompareFunction) Option {
	return func(o *options) {
		if f == gputypes.CompareFunctionUndefined {
			f = gputypes.CompareFunctionGreater
		}
		o.depthCompare = f
	}
}

// WithCullMode discards triangles by screen-space winding. Winding is
// measured after the viewport transform, where y grows up.
func WithCullMode(mode gputypes.CullMode, front gputypes.FrontFace) Option {
	return func(o *options) {
		o.cullMode = mode
		o.frontFace = front
	}
}

// WithProgress registers a callback invoked as faces finish processing.
// done grows monotonically to total, the face count of the pass. The
// callback runs on the rendering goroutine.
func WithProgress(fn func(done, total int)) Option {
	return func(o *options) {
		o.progress = fn
	}
}
