package device

import (
	"fmt"

	"github.com/gogpu/wgpu/hal"
)

// Texture is a 2D texel array with CPU-side storage and an optional GPU
// storage buffer mirror. CPU kernels address the texels directly; the GPU
// path uploads the same bytes as a packed storage buffer.
type Texture struct {
	width      int
	height     int
	texelBytes int

	data []byte

	buf hal.Buffer
}

// NewTexture allocates a texture with the given dimensions and bytes per texel.
func NewTexture(width, height, texelBytes int) *Texture {
	return &Texture{
		width:      width,
		height:     height,
		texelBytes: texelBytes,
		data:       make([]byte, width*height*texelBytes),
	}
}

// Width returns the texture width in texels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture height in texels.
func (t *Texture) Height() int { return t.height }

// TexelBytes returns the number of bytes per texel.
func (t *Texture) TexelBytes() int { return t.texelBytes }

// Data returns the raw texel storage.
func (t *Texture) Data() []byte { return t.data }

// Matches reports whether the texture already has the given geometry.
func (t *Texture) Matches(width, height, texelBytes int) bool {
	return t.width == width && t.height == height && t.texelBytes == texelBytes
}

// Upload copies src rows into the texture. stride is the source row pitch
// in bytes; rows may carry padding beyond width*texelBytes.
func (t *Texture) Upload(src []byte, stride int) error {
	rowBytes := t.width * t.texelBytes
	if stride < rowBytes {
		return fmt.Errorf("device: upload stride %d smaller than row %d", stride, rowBytes)
	}
	if len(src) < (t.height-1)*stride+rowBytes {
		return fmt.Errorf("device: upload source too small for %dx%d texture", t.width, t.height)
	}
	for y := 0; y < t.height; y++ {
		copy(t.data[y*rowBytes:(y+1)*rowBytes], src[y*stride:y*stride+rowBytes])
	}
	return nil
}

// Texel returns the bytes of the texel at (x, y), clamped to the texture
// bounds like a clamp_to_edge sampler.
func (t *Texture) Texel(x, y int) []byte {
	if x < 0 {
		x = 0
	} else if x >= t.width {
		x = t.width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= t.height {
		y = t.height - 1
	}
	i := (y*t.width + x) * t.texelBytes
	return t.data[i : i+t.texelBytes]
}

// GPUBuffer returns the texture's storage buffer mirror, creating it on
// first use.
func (t *Texture) GPUBuffer(device hal.Device) (hal.Buffer, error) {
	if t.buf != nil {
		return t.buf, nil
	}
	buf, err := CreateStorageBuffer(device, "texture_storage", uint64(len(t.data)))
	if err != nil {
		return nil, err
	}
	t.buf = buf
	return buf, nil
}

// SyncGPU writes the CPU texel data to the GPU mirror. A nil queue or a
// texture without a mirror is a no-op.
func (t *Texture) SyncGPU(queue hal.Queue) {
	if queue == nil || t.buf == nil {
		return
	}
	queue.WriteBuffer(t.buf, 0, t.data)
}

// Release frees the GPU mirror if one was created. The CPU storage stays
// valid.
func (t *Texture) Release(device hal.Device) {
	if t.buf != nil && device != nil {
		device.DestroyBuffer(t.buf)
	}
	t.buf = nil
}
