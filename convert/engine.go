package convert

import (
	"fmt"

	videofx "github.com/gogpu/videofx"
	"github.com/gogpu/videofx/colorspace"
)

// Method selects the sampling filter.
type Method uint8

const (
	MethodBilinear Method = iota
	MethodNearest
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case MethodBilinear:
		return "bilinear"
	case MethodNearest:
		return "nearest"
	default:
		return fmt.Sprintf("Method(%d)", uint8(m))
	}
}

// Config describes both sides of the conversion.
type Config struct {
	InWidth  int
	InHeight int
	InFormat videofx.PixelFormat
	InMatrix videofx.ColorMatrix

	OutWidth  int
	OutHeight int
	OutFormat videofx.PixelFormat
	OutMatrix videofx.ColorMatrix

	Method Method

	// AddBorders confines scaling to a centered viewport that preserves
	// the input aspect ratio and fills the remainder with BorderColor.
	AddBorders  bool
	BorderColor videofx.ARGB
}

// Engine converts and scales a frame sequence.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	cfg      Config
	viewport rect
	passthru bool

	decoder *colorspace.Decoder
	encoder *colorspace.Encoder

	src *videofx.Pixmap
	out *videofx.Pixmap

	gpu *convertGPU
}

type rect struct {
	x, y, w, h int
}

// NewEngine creates a converter for the given configuration.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.InWidth <= 0 || cfg.InHeight <= 0 {
		return nil, fmt.Errorf("%w: input geometry %dx%d", videofx.ErrConfiguration, cfg.InWidth, cfg.InHeight)
	}
	if cfg.OutWidth <= 0 || cfg.OutHeight <= 0 {
		return nil, fmt.Errorf("%w: output geometry %dx%d", videofx.ErrConfiguration, cfg.OutWidth, cfg.OutHeight)
	}
	if cfg.Method > MethodNearest {
		return nil, fmt.Errorf("%w: method %v", videofx.ErrConfiguration, cfg.Method)
	}
	if !cfg.InFormat.Valid() {
		return nil, fmt.Errorf("%w: input format %v", videofx.ErrConfiguration, cfg.InFormat)
	}
	enc, err := colorspace.NewEncoder(cfg.OutWidth, cfg.OutHeight, cfg.OutFormat, cfg.OutMatrix)
	if err != nil {
		return nil, err
	}

	viewport := rect{0, 0, cfg.OutWidth, cfg.OutHeight}
	if cfg.AddBorders {
		viewport = fitViewport(cfg.InWidth, cfg.InHeight, cfg.OutWidth, cfg.OutHeight)
	}

	return &Engine{
		cfg:      cfg,
		viewport: viewport,
		passthru: cfg.InFormat == cfg.OutFormat &&
			cfg.InWidth == cfg.OutWidth && cfg.InHeight == cfg.OutHeight &&
			!cfg.AddBorders,
		decoder: colorspace.NewDecoder(),
		encoder: enc,
		src:     videofx.NewPixmap(cfg.InWidth, cfg.InHeight),
		out:     videofx.NewPixmap(cfg.OutWidth, cfg.OutHeight),
	}, nil
}

// fitViewport centers the largest sub-rectangle of outW x outH that has
// the input aspect ratio. Comparisons use cross-multiplication to stay
// in integers.
func fitViewport(inW, inH, outW, outH int) rect {
	if inW*outH > outW*inH {
		// Input is wider, letterbox top and bottom.
		h := outW * inH / inW
		if h < 1 {
			h = 1
		}
		return rect{0, (outH - h) / 2, outW, h}
	}
	w := outH * inW / inH
	if w < 1 {
		w = 1
	}
	return rect{(outW - w) / 2, 0, w, outH}
}

// Process converts one frame into dst. dst must match the configured
// output geometry and format.
func (e *Engine) Process(f *videofx.Frame, dst *videofx.Frame) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if f.Width != e.cfg.InWidth || f.Height != e.cfg.InHeight || f.Format != e.cfg.InFormat {
		return fmt.Errorf("%w: frame %dx%d %v does not match configured input",
			videofx.ErrConfiguration, f.Width, f.Height, f.Format)
	}

	if e.passthru {
		return f.CopyTo(dst)
	}

	if err := e.decoder.Decode(f, e.src); err != nil {
		return fmt.Errorf("%w: decode: %v", videofx.ErrFrameProcessing, err)
	}

	if !e.gpuRun() {
		e.runKernel()
	}
	return e.encoder.Encode(e.out, dst)
}

// runKernel scales e.src into the viewport of e.out, filling the rest
// with the border color.
func (e *Engine) runKernel() {
	vp := e.viewport
	if vp.x > 0 || vp.y > 0 || vp.w < e.cfg.OutWidth || vp.h < e.cfg.OutHeight {
		br, bg, bb, ba := e.cfg.BorderColor.Floats()
		e.out.Clear(br, bg, bb, ba)
	}

	for y := 0; y < vp.h; y++ {
		v := (float32(y) + 0.5) / float32(vp.h)
		for x := 0; x < vp.w; x++ {
			u := (float32(x) + 0.5) / float32(vp.w)
			var r, g, b, a float32
			if e.cfg.Method == MethodNearest {
				r, g, b, a = sampleNearest(e.src, u, v)
			} else {
				r, g, b, a = sampleBilinear(e.src, u, v)
			}
			e.out.SetPixel(vp.x+x, vp.y+y, r, g, b, a)
		}
	}
}

func sampleNearest(src *videofx.Pixmap, u, v float32) (r, g, b, a float32) {
	x := int(u * float32(src.Width()))
	y := int(v * float32(src.Height()))
	return src.PixelClamped(x, y)
}

func sampleBilinear(src *videofx.Pixmap, u, v float32) (r, g, b, a float32) {
	fx := u*float32(src.Width()) - 0.5
	fy := v*float32(src.Height()) - 0.5
	x0 := floorInt(fx)
	y0 := floorInt(fy)
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	r00, g00, b00, a00 := src.PixelClamped(x0, y0)
	r10, g10, b10, a10 := src.PixelClamped(x0+1, y0)
	r01, g01, b01, a01 := src.PixelClamped(x0, y0+1)
	r11, g11, b11, a11 := src.PixelClamped(x0+1, y0+1)

	lerp := func(p, q, t float32) float32 { return p + (q-p)*t }
	r = lerp(lerp(r00, r10, tx), lerp(r01, r11, tx), ty)
	g = lerp(lerp(g00, g10, tx), lerp(g01, g11, tx), ty)
	b = lerp(lerp(b00, b10, tx), lerp(b01, b11, tx), ty)
	a = lerp(lerp(a00, a10, tx), lerp(a01, a11, tx), ty)
	return r, g, b, a
}

func floorInt(v float32) int {
	i := int(v)
	if v < 0 && float32(i) != v {
		i--
	}
	return i
}

// Cleanup releases decoder caches and GPU resources.
func (e *Engine) Cleanup() {
	e.decoder.Cleanup()
	if e.gpu != nil {
		e.gpu.destroy()
		e.gpu = nil
	}
}
