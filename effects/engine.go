package effects

import (
	"fmt"
	"sync"

	videofx "github.com/gogpu/videofx"
	"github.com/gogpu/videofx/colorspace"
)

// Config holds the effects engine geometry.
type Config struct {
	Width  int
	Height int
	Format videofx.PixelFormat
	Matrix videofx.ColorMatrix
}

// Engine applies the grading chain, an optional 3-D lookup table and an
// optional sharpen or blur pass to a frame sequence.
//
// Process may run concurrently with SetParams and SetLUT; parameter
// changes take effect on the next frame.
type Engine struct {
	cfg Config

	mu     sync.Mutex
	params Params
	lut    *LUT

	decoder *colorspace.Decoder
	encoder *colorspace.Encoder

	work    *videofx.Pixmap
	scratch *videofx.Pixmap
	blurred *videofx.Pixmap

	frame uint32

	gpu *effectsGPU
}

// NewEngine creates an effects engine with neutral parameters.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: geometry %dx%d", videofx.ErrConfiguration, cfg.Width, cfg.Height)
	}
	enc, err := colorspace.NewEncoder(cfg.Width, cfg.Height, cfg.Format, cfg.Matrix)
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:     cfg,
		params:  Defaults(),
		decoder: colorspace.NewDecoder(),
		encoder: enc,
		work:    videofx.NewPixmap(cfg.Width, cfg.Height),
		scratch: videofx.NewPixmap(cfg.Width, cfg.Height),
		blurred: videofx.NewPixmap(cfg.Width, cfg.Height),
	}, nil
}

// SetParams replaces the grading parameters after validating them.
func (e *Engine) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	e.params = p
	e.mu.Unlock()
	return nil
}

// Params returns the current grading parameters.
func (e *Engine) Params() Params {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.params
}

// SetLUT loads a lookup table from path. On load failure the previously
// installed table stays active and the error is returned.
func (e *Engine) SetLUT(path string) error {
	lut, err := LoadLUT(path)
	if err != nil {
		return fmt.Errorf("%w: %v", videofx.ErrAssetLoad, err)
	}
	e.mu.Lock()
	e.lut = lut
	e.mu.Unlock()
	return nil
}

// ClearLUT removes the lookup table.
func (e *Engine) ClearLUT() {
	e.mu.Lock()
	e.lut = nil
	e.mu.Unlock()
}

// ApplyPreset installs a preset's parameters and, when the preset names
// one, its lookup table.
func (e *Engine) ApplyPreset(p Preset) error {
	if err := e.SetParams(p.Params); err != nil {
		return err
	}
	if p.LUTPath != "" {
		return e.SetLUT(p.LUTPath)
	}
	return nil
}

// Process grades one frame into dst. With neutral parameters and no
// lookup table installed the frame bytes pass through unchanged.
func (e *Engine) Process(f *videofx.Frame, dst *videofx.Frame) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if f.Width != e.cfg.Width || f.Height != e.cfg.Height {
		return fmt.Errorf("%w: frame %dx%d does not match configured %dx%d",
			videofx.ErrConfiguration, f.Width, f.Height, e.cfg.Width, e.cfg.Height)
	}

	e.mu.Lock()
	params := e.params
	lut := e.lut
	e.mu.Unlock()

	frame := e.frame
	e.frame++

	if params.identity() && lut == nil {
		return f.CopyTo(dst)
	}

	if err := e.decoder.Decode(f, e.work); err != nil {
		return fmt.Errorf("%w: decode: %v", videofx.ErrFrameProcessing, err)
	}

	if !e.gpuRun(&params, lut, frame) {
		e.runChain(&params, lut, frame)
		if params.Sharpness != 0 {
			e.runSharpness(params.Sharpness)
		}
	}

	return e.encoder.Encode(e.work, dst)
}

// runChain grades e.work in place, sampling the lookup table last.
func (e *Engine) runChain(p *Params, lut *LUT, frame uint32) {
	w, h := e.cfg.Width, e.cfg.Height
	fw := float32(w)
	fh := float32(h)
	ff := float32(frame)

	for y := 0; y < h; y++ {
		uvy := (float32(y) + 0.5) / fh
		for x := 0; x < w; x++ {
			uvx := (float32(x) + 0.5) / fw
			r, g, b, a := e.work.Pixel(x, y)
			r, g, b, a = p.applyChain(r, g, b, a, float32(x), float32(y), uvx, uvy, ff)
			if lut != nil {
				r, g, b = lut.Sample(r, g, b)
			}
			e.work.SetPixel(x, y, r, g, b, a)
		}
	}
}

// runSharpness runs the separable blur into e.blurred and mixes it back
// into e.work.
func (e *Engine) runSharpness(sharpness float32) {
	blurPass(e.scratch, e.work, true)
	blurPass(e.blurred, e.scratch, false)
	applySharpness(e.scratch, e.work, e.blurred, sharpness)
	e.work.CopyFrom(e.scratch)
}

// Cleanup releases decoder caches and GPU resources.
func (e *Engine) Cleanup() {
	e.decoder.Cleanup()
	if e.gpu != nil {
		e.gpu.destroy()
		e.gpu = nil
	}
}
