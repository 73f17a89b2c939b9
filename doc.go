// Package videofx provides GPU-accelerated video frame processing for Go.
//
// # Overview
//
// videofx takes decoded raster frames in packed RGB or planar/packed YUV
// layouts and runs compositing, deinterlacing, color grading, geometric
// transforms, format conversion/scaling, and image overlay, each as a
// single dispatch per frame. It is designed to sit below a pipeline layer
// that owns buffer pools and stage lifecycles; videofx itself only touches
// pixels.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/videofx"
//	    "github.com/gogpu/videofx/effects"
//	)
//
//	in, _ := videofx.NewFrame(1920, 1080, videofx.FormatNV12)
//	out, _ := videofx.NewFrame(1920, 1080, videofx.FormatNV12)
//
//	eng, err := effects.NewEngine(effects.Config{
//	    Width: 1920, Height: 1080, Format: videofx.FormatNV12,
//	})
//	if err != nil { ... }
//
//	params := effects.Defaults()
//	params.Saturation = 1.4
//	if err := eng.SetParams(params); err != nil { ... }
//	err = eng.Process(in, out)
//
// # Architecture
//
// The library is organized into:
//   - Root: Frame, PixelFormat, Pixmap, ARGB and the shared logger
//   - device: process-wide GPU context (gogpu/wgpu HAL), texture cache
//   - colorspace: BT.601/BT.709 YUV decode and the output plane encoder
//   - Engines: composite, deinterlace, effects, transform, convert, overlay
//
// Each engine owns format-specialized pipeline state built lazily on first
// use. Kernels are authored in WGSL; on machines without a usable GPU
// adapter the same kernels run on the CPU, so results are identical either
// way.
//
// # Concurrency
//
// An engine instance processes frames strictly sequentially. Configuration
// and asset mutation are safe to interleave with processing from a single
// caller goroutine; concurrent callers must serialize externally.
package videofx
