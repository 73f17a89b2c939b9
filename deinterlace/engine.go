package deinterlace

import (
	"fmt"

	videofx "github.com/gogpu/videofx"
	"github.com/gogpu/videofx/colorspace"
)

// Method selects the deinterlacing algorithm.
type Method uint8

const (
	// MethodBob synthesizes discarded rows as the average of the
	// vertical neighbor rows of the current frame.
	MethodBob Method = iota
	// MethodWeave takes discarded rows from the previous frame.
	MethodWeave
	// MethodLinear interpolates discarded rows from the rows directly
	// above and below, edge-clamped.
	MethodLinear
	// MethodGreedyH weaves low-motion pixels and interpolates the rest.
	MethodGreedyH
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case MethodBob:
		return "bob"
	case MethodWeave:
		return "weave"
	case MethodLinear:
		return "linear"
	case MethodGreedyH:
		return "greedyh"
	default:
		return fmt.Sprintf("Method(%d)", uint8(m))
	}
}

// FieldLayout selects which field of an interlaced frame is kept.
type FieldLayout uint8

const (
	// LayoutAuto follows each frame's top-field-first flag.
	LayoutAuto FieldLayout = iota
	LayoutTopFirst
	LayoutBottomFirst
)

// String returns the field layout name.
func (l FieldLayout) String() string {
	switch l {
	case LayoutAuto:
		return "auto"
	case LayoutTopFirst:
		return "top-field-first"
	case LayoutBottomFirst:
		return "bottom-field-first"
	default:
		return fmt.Sprintf("FieldLayout(%d)", uint8(l))
	}
}

// DefaultMotionThreshold is the greedyh motion cutoff applied when the
// configuration leaves it at zero.
const DefaultMotionThreshold = 0.1

// Config holds the deinterlacer's geometry and method settings.
type Config struct {
	Width  int
	Height int
	Format videofx.PixelFormat
	Matrix videofx.ColorMatrix

	Method Method
	Layout FieldLayout

	// MotionThreshold is the greedyh per-pixel motion cutoff in [0,1].
	// Zero selects DefaultMotionThreshold.
	MotionThreshold float32
}

// Engine removes interlacing from a frame sequence.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	cfg Config

	decoder *colorspace.Decoder
	encoder *colorspace.Encoder

	current    *videofx.Pixmap
	history    *videofx.Pixmap
	out        *videofx.Pixmap
	hasHistory bool

	gpu *deintGPU
}

// NewEngine creates a deinterlacer for the given configuration.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: geometry %dx%d", videofx.ErrConfiguration, cfg.Width, cfg.Height)
	}
	if cfg.Method > MethodGreedyH {
		return nil, fmt.Errorf("%w: method %v", videofx.ErrConfiguration, cfg.Method)
	}
	if cfg.MotionThreshold < 0 || cfg.MotionThreshold > 1 {
		return nil, fmt.Errorf("%w: motion threshold %v", videofx.ErrConfiguration, cfg.MotionThreshold)
	}
	if cfg.MotionThreshold == 0 {
		cfg.MotionThreshold = DefaultMotionThreshold
	}
	enc, err := colorspace.NewEncoder(cfg.Width, cfg.Height, cfg.Format, cfg.Matrix)
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:     cfg,
		decoder: colorspace.NewDecoder(),
		encoder: enc,
		current: videofx.NewPixmap(cfg.Width, cfg.Height),
		history: videofx.NewPixmap(cfg.Width, cfg.Height),
		out:     videofx.NewPixmap(cfg.Width, cfg.Height),
	}, nil
}

// Process deinterlaces one frame into dst. The input must match the
// configured geometry; dst must match the configured output.
func (e *Engine) Process(f *videofx.Frame, dst *videofx.Frame) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if f.Width != e.cfg.Width || f.Height != e.cfg.Height {
		return fmt.Errorf("%w: frame %dx%d does not match configured %dx%d",
			videofx.ErrConfiguration, f.Width, f.Height, e.cfg.Width, e.cfg.Height)
	}

	if err := e.decoder.Decode(f, e.current); err != nil {
		return fmt.Errorf("%w: decode: %v", videofx.ErrFrameProcessing, err)
	}

	keptParity := e.keptParity(f)
	method := e.cfg.Method
	if (method == MethodWeave || method == MethodGreedyH) && !e.hasHistory {
		// No previous frame to weave from yet.
		method = MethodBob
	}

	if !e.gpuRun(method, keptParity) {
		e.runKernel(method, keptParity)
	}

	// History always trails the input by exactly one frame.
	e.history.CopyFrom(e.current)
	e.hasHistory = true

	return e.encoder.Encode(e.out, dst)
}

// Reset drops the history frame, as after a stream discontinuity.
func (e *Engine) Reset() {
	e.hasHistory = false
}

// Cleanup releases decoder caches and GPU resources.
func (e *Engine) Cleanup() {
	e.decoder.Cleanup()
	e.hasHistory = false
	if e.gpu != nil {
		e.gpu.destroy()
		e.gpu = nil
	}
}

// keptParity returns the row parity (0 = even rows, 1 = odd rows) of the
// field that is kept as-is.
func (e *Engine) keptParity(f *videofx.Frame) int {
	switch e.cfg.Layout {
	case LayoutTopFirst:
		return 0
	case LayoutBottomFirst:
		return 1
	default:
		if f.TopFieldFirst {
			return 0
		}
		return 1
	}
}

// runKernel fills e.out from e.current and e.history.
func (e *Engine) runKernel(method Method, keptParity int) {
	w, h := e.cfg.Width, e.cfg.Height
	threshold := e.cfg.MotionThreshold

	for y := 0; y < h; y++ {
		if y%2 == keptParity {
			for x := 0; x < w; x++ {
				r, g, b, a := e.current.Pixel(x, y)
				e.out.SetPixel(x, y, r, g, b, a)
			}
			continue
		}

		for x := 0; x < w; x++ {
			switch method {
			case MethodBob, MethodLinear:
				r, g, b, a := e.interpolate(x, y)
				e.out.SetPixel(x, y, r, g, b, a)
			case MethodWeave:
				r, g, b, a := e.history.Pixel(x, y)
				e.out.SetPixel(x, y, r, g, b, a)
			case MethodGreedyH:
				cr, cg, cb, _ := e.current.Pixel(x, y)
				pr, pg, pb, pa := e.history.Pixel(x, y)
				if motion(cr, cg, cb, pr, pg, pb) < threshold {
					e.out.SetPixel(x, y, pr, pg, pb, pa)
				} else {
					r, g, b, a := e.interpolate(x, y)
					e.out.SetPixel(x, y, r, g, b, a)
				}
			}
		}
	}
}

// interpolate averages the rows above and below (x, y) in the current
// frame, edge-clamped.
func (e *Engine) interpolate(x, y int) (r, g, b, a float32) {
	r0, g0, b0, a0 := e.current.PixelClamped(x, y-1)
	r1, g1, b1, a1 := e.current.PixelClamped(x, y+1)
	return (r0 + r1) / 2, (g0 + g1) / 2, (b0 + b1) / 2, (a0 + a1) / 2
}

// motion is the Euclidean RGB distance between two pixels.
func motion(r0, g0, b0, r1, g1, b1 float32) float32 {
	dr := r0 - r1
	dg := g0 - g1
	db := b0 - b1
	return sqrt32(dr*dr + dg*dg + db*db)
}
