package overlay

import (
	"fmt"
	"sync"

	videofx "github.com/gogpu/videofx"
	"github.com/gogpu/videofx/colorspace"
	"github.com/gogpu/videofx/internal/imageio"
)

// Placement positions and fades the overlay image.
type Placement struct {
	// X and Y are absolute pixel coordinates of the top-left corner.
	X int
	Y int

	// Width and Height scale the image; zero keeps the native size.
	Width  int
	Height int

	// Alpha is a global fade in [0,1] multiplied into the image alpha.
	Alpha float32

	// RelativeX and RelativeY position the corner as a fraction of the
	// frame in [0,1]. A negative value disables the fractional axis and
	// the absolute coordinate applies instead.
	RelativeX float32
	RelativeY float32
}

// DefaultPlacement returns a fully opaque overlay at the top-left corner
// with fractional positioning disabled.
func DefaultPlacement() Placement {
	return Placement{Alpha: 1, RelativeX: -1, RelativeY: -1}
}

// Validate checks the placement ranges.
func (p *Placement) Validate() error {
	if p.Alpha < 0 || p.Alpha > 1 {
		return fmt.Errorf("%w: alpha %v outside [0,1]", videofx.ErrConfiguration, p.Alpha)
	}
	if p.RelativeX > 1 || p.RelativeY > 1 {
		return fmt.Errorf("%w: relative position beyond 1", videofx.ErrConfiguration)
	}
	if p.Width < 0 || p.Height < 0 || p.X < 0 || p.Y < 0 {
		return fmt.Errorf("%w: negative placement", videofx.ErrConfiguration)
	}
	return nil
}

// image is an immutable decoded overlay, straight alpha RGBA.
type overlayImage struct {
	width  int
	height int
	pix    []byte
}

// Config holds the overlay engine geometry.
type Config struct {
	Width  int
	Height int
	Format videofx.PixelFormat
	Matrix videofx.ColorMatrix
}

// Engine composites one still image over a frame sequence.
//
// Process may run concurrently with SetImage and SetPlacement; changes
// take effect on the next frame.
type Engine struct {
	cfg Config

	mu        sync.Mutex
	img       *overlayImage
	placement Placement

	decoder *colorspace.Decoder
	encoder *colorspace.Encoder

	work *videofx.Pixmap

	gpu *overlayGPU
}

// NewEngine creates an overlay engine with no image loaded.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: geometry %dx%d", videofx.ErrConfiguration, cfg.Width, cfg.Height)
	}
	enc, err := colorspace.NewEncoder(cfg.Width, cfg.Height, cfg.Format, cfg.Matrix)
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:       cfg,
		placement: DefaultPlacement(),
		decoder:   colorspace.NewDecoder(),
		encoder:   enc,
		work:      videofx.NewPixmap(cfg.Width, cfg.Height),
	}, nil
}

// SetImage loads the overlay image at path. On failure a previously
// loaded image stays active and the error is returned.
func (e *Engine) SetImage(path string) error {
	decoded, err := imageio.Load(path)
	if err != nil {
		return fmt.Errorf("%w: %v", videofx.ErrAssetLoad, err)
	}
	w := decoded.Rect.Dx()
	h := decoded.Rect.Dy()
	pix := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		copy(pix[y*w*4:(y+1)*w*4], decoded.Pix[y*decoded.Stride:])
	}
	img := &overlayImage{width: w, height: h, pix: pix}
	e.mu.Lock()
	e.img = img
	e.mu.Unlock()
	return nil
}

// ClearImage removes the overlay; processing becomes a passthrough.
func (e *Engine) ClearImage() {
	e.mu.Lock()
	e.img = nil
	e.mu.Unlock()
}

// SetPlacement replaces the placement after validating it.
func (e *Engine) SetPlacement(p Placement) error {
	if err := p.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	e.placement = p
	e.mu.Unlock()
	return nil
}

// Placement returns the current placement.
func (e *Engine) Placement() Placement {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.placement
}

// resolveRect computes the overlay destination rectangle for the current
// placement and image.
func (e *Engine) resolveRect(p Placement, img *overlayImage) (x, y, w, h int) {
	w = p.Width
	if w == 0 {
		w = img.width
	}
	h = p.Height
	if h == 0 {
		h = img.height
	}
	x = p.X
	if p.RelativeX >= 0 {
		x = int(p.RelativeX * float32(e.cfg.Width))
	}
	y = p.Y
	if p.RelativeY >= 0 {
		y = int(p.RelativeY * float32(e.cfg.Height))
	}
	return x, y, w, h
}

// Process blends the overlay into one frame. With no image loaded the
// frame bytes pass through unchanged.
func (e *Engine) Process(f *videofx.Frame, dst *videofx.Frame) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if f.Width != e.cfg.Width || f.Height != e.cfg.Height {
		return fmt.Errorf("%w: frame %dx%d does not match configured %dx%d",
			videofx.ErrConfiguration, f.Width, f.Height, e.cfg.Width, e.cfg.Height)
	}

	e.mu.Lock()
	img := e.img
	placement := e.placement
	e.mu.Unlock()

	if img == nil || placement.Alpha == 0 {
		return f.CopyTo(dst)
	}

	if err := e.decoder.Decode(f, e.work); err != nil {
		return fmt.Errorf("%w: decode: %v", videofx.ErrFrameProcessing, err)
	}

	x, y, w, h := e.resolveRect(placement, img)
	if !e.gpuRun(img, placement.Alpha, x, y, w, h) {
		e.runKernel(img, placement.Alpha, x, y, w, h)
	}
	return e.encoder.Encode(e.work, dst)
}

// runKernel blends the image over e.work inside the destination rect.
func (e *Engine) runKernel(img *overlayImage, alpha float32, rx, ry, rw, rh int) {
	x0 := maxInt(rx, 0)
	y0 := maxInt(ry, 0)
	x1 := minInt(rx+rw, e.cfg.Width)
	y1 := minInt(ry+rh, e.cfg.Height)

	for y := y0; y < y1; y++ {
		v := (float32(y-ry) + 0.5) / float32(rh)
		for x := x0; x < x1; x++ {
			u := (float32(x-rx) + 0.5) / float32(rw)
			or, og, ob, oa := img.sample(u, v)
			t := oa * alpha
			if t <= 0 {
				continue
			}
			vr, vg, vb, va := e.work.Pixel(x, y)
			e.work.SetPixel(x, y,
				vr+(or-vr)*t,
				vg+(og-vg)*t,
				vb+(ob-vb)*t,
				va)
		}
	}
}

// sample reads the image bilinearly at normalized (u, v), edge-clamped.
func (img *overlayImage) sample(u, v float32) (r, g, b, a float32) {
	fx := u*float32(img.width) - 0.5
	fy := v*float32(img.height) - 0.5
	x0 := floorInt(fx)
	y0 := floorInt(fy)
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	r00, g00, b00, a00 := img.texel(x0, y0)
	r10, g10, b10, a10 := img.texel(x0+1, y0)
	r01, g01, b01, a01 := img.texel(x0, y0+1)
	r11, g11, b11, a11 := img.texel(x0+1, y0+1)

	lerp := func(p, q, t float32) float32 { return p + (q-p)*t }
	r = lerp(lerp(r00, r10, tx), lerp(r01, r11, tx), ty)
	g = lerp(lerp(g00, g10, tx), lerp(g01, g11, tx), ty)
	b = lerp(lerp(b00, b10, tx), lerp(b01, b11, tx), ty)
	a = lerp(lerp(a00, a10, tx), lerp(a01, a11, tx), ty)
	return r, g, b, a
}

func (img *overlayImage) texel(x, y int) (r, g, b, a float32) {
	x = clampInt(x, 0, img.width-1)
	y = clampInt(y, 0, img.height-1)
	i := (y*img.width + x) * 4
	const s = 1.0 / 255.0
	return float32(img.pix[i]) * s, float32(img.pix[i+1]) * s,
		float32(img.pix[i+2]) * s, float32(img.pix[i+3]) * s
}

func floorInt(v float32) int {
	i := int(v)
	if v < 0 && float32(i) != v {
		i--
	}
	return i
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Cleanup releases decoder caches and GPU resources.
func (e *Engine) Cleanup() {
	e.decoder.Cleanup()
	if e.gpu != nil {
		e.gpu.destroy()
		e.gpu = nil
	}
}
