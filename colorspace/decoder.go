package colorspace

import (
	"fmt"

	videofx "github.com/gogpu/videofx"
	"github.com/gogpu/videofx/device"
)

// Decoder converts frames of any supported pixel format into packed RGBA
// pixmaps. Plane uploads go through a texture cache so that steady-state
// decoding reuses the same textures every frame.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	cache *device.TextureCache
	gpu   *decodeGPU
}

// NewDecoder creates a decoder with an empty texture cache.
func NewDecoder() *Decoder {
	return &Decoder{cache: device.NewTextureCache()}
}

// Decode converts the frame into dst. dst dimensions must match the frame.
func (d *Decoder) Decode(f *videofx.Frame, dst *videofx.Pixmap) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if dst == nil || dst.Width() != f.Width || dst.Height() != f.Height {
		return fmt.Errorf("%w: pixmap does not match frame geometry", videofx.ErrConfiguration)
	}

	d.cache.Begin()
	textures, err := d.uploadPlanes(f)
	if err != nil {
		return fmt.Errorf("decode %v frame: %w", f.Format, err)
	}

	if d.gpuDecode(f, textures, dst) {
		return nil
	}

	switch f.Format {
	case videofx.FormatRGBA:
		decodeRGBA(textures[0], dst, false)
	case videofx.FormatBGRA:
		decodeRGBA(textures[0], dst, true)
	case videofx.FormatNV12, videofx.FormatI420:
		decodePlanar(f.Format, f.Matrix, textures, dst)
	case videofx.FormatUYVY, videofx.FormatYUY2:
		decodePacked(f.Format, f.Matrix, textures[0], dst)
	default:
		return fmt.Errorf("decode: %w: %v", videofx.ErrInvalidFormat, f.Format)
	}
	return nil
}

// Cleanup releases the texture cache and any GPU resources.
func (d *Decoder) Cleanup() {
	d.cache.Clear(device.Get().Device())
	if d.gpu != nil {
		d.gpu.destroy()
		d.gpu = nil
	}
}

// uploadPlanes pushes every plane of the frame into cache textures.
// Packed 422 planes upload as half-width 4-byte texels so one texel holds
// a full macropixel.
func (d *Decoder) uploadPlanes(f *videofx.Frame) ([]*device.Texture, error) {
	n := f.Format.PlaneCount()
	textures := make([]*device.Texture, n)
	for p := 0; p < n; p++ {
		w, h := f.Format.PlaneDimensions(p, f.Width, f.Height)
		bps := f.Format.PlaneBytesPerSample(p)
		if f.Format.IsPacked422() {
			// Two pixels per texel.
			w = (w + 1) / 2
			bps = 4
		}
		t, err := d.cache.UploadPlane(w, h, bps, f.Planes[p].Data, f.Planes[p].Stride)
		if err != nil {
			return nil, err
		}
		textures[p] = t
	}
	return textures, nil
}

// decodeRGBA copies 4-byte texels into the pixmap, swapping the red and
// blue channels for BGRA input.
func decodeRGBA(tex *device.Texture, dst *videofx.Pixmap, swap bool) {
	w, h := dst.Width(), dst.Height()
	out := dst.Data()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := tex.Texel(x, y)
			i := (y*w + x) * 4
			if swap {
				out[i+0] = t[2]
				out[i+1] = t[1]
				out[i+2] = t[0]
			} else {
				out[i+0] = t[0]
				out[i+1] = t[1]
				out[i+2] = t[2]
			}
			out[i+3] = t[3]
		}
	}
}

// decodePlanar converts NV12 or I420 to RGBA. Chroma is upsampled with
// nearest siting: pixel (x, y) reads the chroma sample at (x/2, y/2).
func decodePlanar(format videofx.PixelFormat, m videofx.ColorMatrix, textures []*device.Texture, dst *videofx.Pixmap) {
	w, h := dst.Width(), dst.Height()
	ytex := textures[0]
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			yv := float32(ytex.Texel(x, y)[0]) / 255
			cx, cy := x/2, y/2

			var u, v float32
			if format == videofx.FormatNV12 {
				uv := textures[1].Texel(cx, cy)
				u = float32(uv[0]) / 255
				v = float32(uv[1]) / 255
			} else {
				u = float32(textures[1].Texel(cx, cy)[0]) / 255
				v = float32(textures[2].Texel(cx, cy)[0]) / 255
			}

			r, g, b := YUVToRGB(m, yv, u, v)
			dst.SetPixel(x, y, r, g, b, 1)
		}
	}
}

// decodePacked converts UYVY or YUY2 to RGBA. Each half-width texel holds
// one macropixel: two luma samples sharing one chroma pair.
func decodePacked(format videofx.PixelFormat, m videofx.ColorMatrix, tex *device.Texture, dst *videofx.Pixmap) {
	w, h := dst.Width(), dst.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mp := tex.Texel(x/2, y)

			var y0, y1, u, v byte
			if format == videofx.FormatUYVY {
				u, y0, v, y1 = mp[0], mp[1], mp[2], mp[3]
			} else {
				y0, u, y1, v = mp[0], mp[1], mp[2], mp[3]
			}

			yb := y0
			if x%2 == 1 {
				yb = y1
			}
			r, g, b := YUVToRGB(m, float32(yb)/255, float32(u)/255, float32(v)/255)
			dst.SetPixel(x, y, r, g, b, 1)
		}
	}
}
