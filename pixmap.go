package videofx

import (
	"image"
	"image/color"
)

// Pixmap represents a rectangular RGBA8 pixel buffer. It is the working
// intermediate every engine renders into before output encoding.
type Pixmap struct {
	width  int
	height int
	data   []uint8 // RGBA format, 4 bytes per pixel
}

// NewPixmap creates a new pixmap with the given dimensions.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Data returns the raw pixel data (RGBA format).
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// SetPixel sets a single pixel from normalized float components.
// Values are clamped to [0,1] and rounded to 8 bits, matching the
// quantization of a unorm texture write.
func (p *Pixmap) SetPixel(x, y int, r, g, b, a float32) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i+0] = quantize(r)
	p.data[i+1] = quantize(g)
	p.data[i+2] = quantize(b)
	p.data[i+3] = quantize(a)
}

// Pixel returns the normalized float components of a single pixel.
// Out-of-bounds reads return transparent black (the border color of a
// clamped sampler is never requested through this path).
func (p *Pixmap) Pixel(x, y int) (r, g, b, a float32) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return 0, 0, 0, 0
	}
	i := (y*p.width + x) * 4
	return float32(p.data[i+0]) / 255,
		float32(p.data[i+1]) / 255,
		float32(p.data[i+2]) / 255,
		float32(p.data[i+3]) / 255
}

// PixelClamped returns the pixel at (x, y) with coordinates clamped to the
// pixmap bounds, mirroring a clamp_to_edge sampler.
func (p *Pixmap) PixelClamped(x, y int) (r, g, b, a float32) {
	if x < 0 {
		x = 0
	} else if x >= p.width {
		x = p.width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= p.height {
		y = p.height - 1
	}
	return p.Pixel(x, y)
}

// Clear fills the entire pixmap with a color.
func (p *Pixmap) Clear(r, g, b, a float32) {
	rb := quantize(r)
	gb := quantize(g)
	bb := quantize(b)
	ab := quantize(a)
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = rb
		p.data[i+1] = gb
		p.data[i+2] = bb
		p.data[i+3] = ab
	}
}

// CopyFrom copies the contents of src. Dimensions must match.
func (p *Pixmap) CopyFrom(src *Pixmap) {
	if p.width != src.width || p.height != src.height {
		return
	}
	copy(p.data, src.data)
}

// Clone returns a deep copy of the pixmap.
func (p *Pixmap) Clone() *Pixmap {
	c := NewPixmap(p.width, p.height)
	copy(c.data, p.data)
	return c
}

// ToImage converts the pixmap to an image.RGBA.
func (p *Pixmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return color.NRGBA{}
	}
	i := (y*p.width + x) * 4
	return color.NRGBA{R: p.data[i], G: p.data[i+1], B: p.data[i+2], A: p.data[i+3]}
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBAModel
}

// quantize converts a normalized float to an 8-bit sample with
// round-to-nearest, the same quantization a unorm texture applies.
func quantize(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
