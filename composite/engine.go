package composite

import (
	"fmt"
	"sort"

	videofx "github.com/gogpu/videofx"
	"github.com/gogpu/videofx/colorspace"
)

// Config holds the compositor's output geometry and canvas settings.
type Config struct {
	Width  int
	Height int
	Format videofx.PixelFormat
	Matrix videofx.ColorMatrix

	Background Background

	// ZeroSizeIsUnscaled keeps inputs whose configured width or height is
	// zero at their native size instead of scaling them to the output.
	ZeroSizeIsUnscaled bool
}

// Engine blends ordered inputs onto one output frame.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	cfg Config

	decoders []*colorspace.Decoder
	encoder  *colorspace.Encoder
	canvas   *videofx.Pixmap
	scratch  []*videofx.Pixmap

	gpu *blendGPU
}

// NewEngine creates a compositor for the given output configuration.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: output %dx%d", videofx.ErrConfiguration, cfg.Width, cfg.Height)
	}
	if !cfg.Format.Valid() {
		return nil, fmt.Errorf("%w: output format %v", videofx.ErrConfiguration, cfg.Format)
	}
	enc, err := colorspace.NewEncoder(cfg.Width, cfg.Height, cfg.Format, cfg.Matrix)
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:     cfg,
		encoder: enc,
		canvas:  videofx.NewPixmap(cfg.Width, cfg.Height),
	}, nil
}

// pad is the per-frame resolved state of one active input.
type pad struct {
	src  *Source
	dest rect
	pix  *videofx.Pixmap
}

// Process composites the sources into dst. dst must match the configured
// output geometry and format. Zero active sources produce background only.
func (e *Engine) Process(sources []Source, dst *videofx.Frame) error {
	pads, err := e.resolvePads(sources)
	if err != nil {
		return err
	}

	// Ascending z-order. Tie order between equal z is unspecified.
	sort.SliceStable(pads, func(i, j int) bool {
		return pads[i].src.ZOrder < pads[j].src.ZOrder
	})

	full := rect{0, 0, e.cfg.Width, e.cfg.Height}
	if !e.backgroundObscured(pads, full) {
		e.drawBackground()
	}

	for i, p := range pads {
		if e.padObscured(pads, i) {
			continue
		}
		if err := e.drawPad(p); err != nil {
			return fmt.Errorf("%w: input %d: %v", videofx.ErrFrameProcessing, i, err)
		}
	}

	return e.encoder.Encode(e.canvas, dst)
}

// Cleanup releases decoder caches and GPU resources.
func (e *Engine) Cleanup() {
	for _, d := range e.decoders {
		if d != nil {
			d.Cleanup()
		}
	}
	e.decoders = nil
	e.scratch = nil
	if e.gpu != nil {
		e.gpu.destroy()
		e.gpu = nil
	}
}

// resolvePads validates, decodes, and positions every active source.
// Sources with alpha 0 or an empty destination are dropped here.
func (e *Engine) resolvePads(sources []Source) ([]pad, error) {
	pads := make([]pad, 0, len(sources))
	for i := range sources {
		s := &sources[i]
		if err := s.validate(); err != nil {
			return nil, err
		}
		if s.Frame == nil || s.Alpha == 0 {
			continue
		}
		if err := s.Frame.Validate(); err != nil {
			return nil, err
		}

		dest := e.destRect(s)
		if dest.empty() {
			continue
		}

		pix, err := e.decodeSource(i, s.Frame)
		if err != nil {
			return nil, fmt.Errorf("%w: input %d: %v", videofx.ErrFrameProcessing, i, err)
		}
		pads = append(pads, pad{src: s, dest: dest, pix: pix})
	}
	return pads, nil
}

// decodeSource decodes a frame through the per-input decoder so texture
// cache slots stay stable across frames.
func (e *Engine) decodeSource(i int, f *videofx.Frame) (*videofx.Pixmap, error) {
	for len(e.decoders) <= i {
		e.decoders = append(e.decoders, colorspace.NewDecoder())
		e.scratch = append(e.scratch, nil)
	}
	if e.scratch[i] == nil || e.scratch[i].Width() != f.Width || e.scratch[i].Height() != f.Height {
		e.scratch[i] = videofx.NewPixmap(f.Width, f.Height)
	}
	if err := e.decoders[i].Decode(f, e.scratch[i]); err != nil {
		return nil, err
	}
	return e.scratch[i], nil
}

// opaque reports whether a pad is guaranteed to cover everything beneath
// its rectangle: full alpha, a format without an alpha channel, and an
// operator that does not depend on the destination staying visible.
func (p *pad) opaque() bool {
	return p.src.Alpha == 1 &&
		!p.src.Frame.Format.IsRGB() &&
		p.src.Operator != OperatorAdd
}

// backgroundObscured reports whether any active pad fully covers the
// output rectangle with opaque content.
func (e *Engine) backgroundObscured(pads []pad, full rect) bool {
	for i := range pads {
		if pads[i].opaque() && pads[i].dest.contains(full) {
			return true
		}
	}
	return false
}

// padObscured reports whether a later, higher z-order pad fully covers
// pad i with opaque content.
func (e *Engine) padObscured(pads []pad, i int) bool {
	for j := i + 1; j < len(pads); j++ {
		if pads[j].opaque() && pads[j].dest.contains(pads[i].dest) {
			return true
		}
	}
	return false
}
