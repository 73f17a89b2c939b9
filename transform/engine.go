package transform

import (
	"fmt"

	videofx "github.com/gogpu/videofx"
	"github.com/gogpu/videofx/colorspace"
)

// Orientation selects one of the eight axis-aligned flip/rotate methods.
// The values match GstVideoOrientationMethod.
type Orientation uint8

const (
	OrientIdentity Orientation = iota
	Orient90R
	Orient180
	Orient90L
	OrientHorizontalFlip
	OrientVerticalFlip
	// OrientTranspose flips across the upper-left to lower-right diagonal.
	OrientTranspose
	// OrientAntiTranspose flips across the upper-right to lower-left
	// diagonal.
	OrientAntiTranspose
)

// String returns the orientation name.
func (o Orientation) String() string {
	switch o {
	case OrientIdentity:
		return "identity"
	case Orient90R:
		return "rotate-90r"
	case Orient180:
		return "rotate-180"
	case Orient90L:
		return "rotate-90l"
	case OrientHorizontalFlip:
		return "horizontal-flip"
	case OrientVerticalFlip:
		return "vertical-flip"
	case OrientTranspose:
		return "transpose"
	case OrientAntiTranspose:
		return "anti-transpose"
	default:
		return fmt.Sprintf("Orientation(%d)", uint8(o))
	}
}

// swapsAxes reports whether the orientation exchanges width and height.
func (o Orientation) swapsAxes() bool {
	switch o {
	case Orient90R, Orient90L, OrientTranspose, OrientAntiTranspose:
		return true
	}
	return false
}

// matrix returns the 2x2 UV matrix mapping centered destination
// coordinates to centered source coordinates. Row-major: m[0] m[1] is
// the first row.
func (o Orientation) matrix() [4]float32 {
	switch o {
	case Orient90R:
		return [4]float32{0, 1, -1, 0}
	case Orient180:
		return [4]float32{-1, 0, 0, -1}
	case Orient90L:
		return [4]float32{0, -1, 1, 0}
	case OrientHorizontalFlip:
		return [4]float32{-1, 0, 0, 1}
	case OrientVerticalFlip:
		return [4]float32{1, 0, 0, -1}
	case OrientTranspose:
		return [4]float32{0, 1, 1, 0}
	case OrientAntiTranspose:
		return [4]float32{0, -1, -1, 0}
	default:
		return [4]float32{1, 0, 0, 1}
	}
}

// Crop is a set of pixel insets removed from the source edges.
type Crop struct {
	Top    int
	Bottom int
	Left   int
	Right  int
}

func (c Crop) valid() bool {
	return c.Top >= 0 && c.Bottom >= 0 && c.Left >= 0 && c.Right >= 0
}

// Config holds the transform geometry and method.
type Config struct {
	Width  int
	Height int
	Format videofx.PixelFormat
	Matrix videofx.ColorMatrix

	Method Orientation
	Crop   Crop

	// OutWidth and OutHeight pin the output geometry. Zero derives both
	// from the cropped source size, axis-swapped for the rotating
	// orientations.
	OutWidth  int
	OutHeight int
}

// uvMap is the combined crop and orientation mapping. Destination UV is
// centered, multiplied by the matrix, scaled into the crop region and
// shifted by the offset.
type uvMap struct {
	m       [4]float32
	scaleX  float32
	scaleY  float32
	offsetX float32
	offsetY float32
	empty   bool
}

// Engine crops and reorients a frame sequence.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	cfg       Config
	outWidth  int
	outHeight int
	uv        uvMap

	decoder *colorspace.Decoder
	encoder *colorspace.Encoder

	src *videofx.Pixmap
	out *videofx.Pixmap

	gpu *transformGPU
}

// NewEngine creates a transform engine. A crop that consumes the whole
// frame in either axis is accepted and produces all-black output at the
// pinned geometry, or a 1x1 black output when no geometry is pinned.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: geometry %dx%d", videofx.ErrConfiguration, cfg.Width, cfg.Height)
	}
	if cfg.Method > OrientAntiTranspose {
		return nil, fmt.Errorf("%w: orientation %v", videofx.ErrConfiguration, cfg.Method)
	}
	if !cfg.Crop.valid() {
		return nil, fmt.Errorf("%w: negative crop inset", videofx.ErrConfiguration)
	}

	outW, outH := derivedSize(cfg)
	if cfg.OutWidth > 0 && cfg.OutHeight > 0 {
		outW, outH = cfg.OutWidth, cfg.OutHeight
	}

	enc, err := colorspace.NewEncoder(outW, outH, cfg.Format, cfg.Matrix)
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:       cfg,
		outWidth:  outW,
		outHeight: outH,
		uv:        buildUVMap(cfg),
		decoder:   colorspace.NewDecoder(),
		encoder:   enc,
		src:       videofx.NewPixmap(cfg.Width, cfg.Height),
		out:       videofx.NewPixmap(outW, outH),
	}, nil
}

// OutputSize returns the negotiated output geometry.
func (e *Engine) OutputSize() (int, int) {
	return e.outWidth, e.outHeight
}

// derivedSize is the cropped source size, axis-swapped when the
// orientation rotates. A fully consumed axis collapses to 1 so that the
// output stays a valid frame.
func derivedSize(cfg Config) (int, int) {
	w := cfg.Width - cfg.Crop.Left - cfg.Crop.Right
	h := cfg.Height - cfg.Crop.Top - cfg.Crop.Bottom
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if cfg.Method.swapsAxes() {
		w, h = h, w
	}
	return w, h
}

// buildUVMap composes the orientation matrix with the fractional crop
// scale and offset.
func buildUVMap(cfg Config) uvMap {
	cw := cfg.Width - cfg.Crop.Left - cfg.Crop.Right
	ch := cfg.Height - cfg.Crop.Top - cfg.Crop.Bottom
	if cw <= 0 || ch <= 0 {
		return uvMap{empty: true}
	}
	fw := float32(cfg.Width)
	fh := float32(cfg.Height)
	return uvMap{
		m:      cfg.Method.matrix(),
		scaleX: float32(cw) / fw,
		scaleY: float32(ch) / fh,
		// Center of the crop region relative to the source center.
		offsetX: (float32(cfg.Crop.Left) - float32(cfg.Crop.Right)) / (2 * fw),
		offsetY: (float32(cfg.Crop.Top) - float32(cfg.Crop.Bottom)) / (2 * fh),
	}
}

// apply maps a centered destination UV to source UV in [0,1] space.
func (m *uvMap) apply(u, v float32) (float32, float32) {
	ru := m.m[0]*u + m.m[1]*v
	rv := m.m[2]*u + m.m[3]*v
	return ru*m.scaleX + 0.5 + m.offsetX, rv*m.scaleY + 0.5 + m.offsetY
}

// Process transforms one frame into dst. dst must match the negotiated
// output geometry.
func (e *Engine) Process(f *videofx.Frame, dst *videofx.Frame) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if f.Width != e.cfg.Width || f.Height != e.cfg.Height {
		return fmt.Errorf("%w: frame %dx%d does not match configured %dx%d",
			videofx.ErrConfiguration, f.Width, f.Height, e.cfg.Width, e.cfg.Height)
	}
	if dst.Width != e.outWidth || dst.Height != e.outHeight {
		return fmt.Errorf("%w: output %dx%d does not match negotiated %dx%d",
			videofx.ErrConfiguration, dst.Width, dst.Height, e.outWidth, e.outHeight)
	}

	if e.uv.empty {
		// Degenerate crop leaves nothing to sample.
		e.out.Clear(0, 0, 0, 1)
		return e.encoder.Encode(e.out, dst)
	}

	if err := e.decoder.Decode(f, e.src); err != nil {
		return fmt.Errorf("%w: decode: %v", videofx.ErrFrameProcessing, err)
	}

	if !e.gpuRun() {
		e.runKernel()
	}
	return e.encoder.Encode(e.out, dst)
}

// runKernel fills e.out by inverse-mapping each destination pixel.
func (e *Engine) runKernel() {
	fw := float32(e.outWidth)
	fh := float32(e.outHeight)
	for y := 0; y < e.outHeight; y++ {
		dv := (float32(y)+0.5)/fh - 0.5
		for x := 0; x < e.outWidth; x++ {
			du := (float32(x)+0.5)/fw - 0.5
			su, sv := e.uv.apply(du, dv)
			if su < 0 || su > 1 || sv < 0 || sv > 1 {
				e.out.SetPixel(x, y, 0, 0, 0, 1)
				continue
			}
			r, g, b, a := sampleBilinear(e.src, su, sv)
			e.out.SetPixel(x, y, r, g, b, a)
		}
	}
}

// sampleBilinear samples the source at normalized (u, v), edge-clamped.
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
