package colorspace

import (
	_ "embed"
	"encoding/binary"
	"errors"

	videofx "github.com/gogpu/videofx"
	"github.com/gogpu/videofx/device"
)

//go:embed shaders/decode.wgsl
var shaderDecode string

// decodeGPU holds the lazily built decode pipeline.
type decodeGPU struct {
	pipe *device.Pipeline
}

// decodeParams mirrors the Params uniform in decode.wgsl:
// 8 consecutive u32 fields, 32 bytes.
type decodeParams struct {
	Width       uint32
	Height      uint32
	Format      uint32
	ColorMatrix uint32
	Plane0Width uint32
	Plane1Width uint32
	Plane2Width uint32
	_           uint32
}

func (p decodeParams) toBytes() []byte {
	buf := make([]byte, 32)
	le := binary.LittleEndian
	le.PutUint32(buf[0:4], p.Width)
	le.PutUint32(buf[4:8], p.Height)
	le.PutUint32(buf[8:12], p.Format)
	le.PutUint32(buf[12:16], p.ColorMatrix)
	le.PutUint32(buf[16:20], p.Plane0Width)
	le.PutUint32(buf[20:24], p.Plane1Width)
	le.PutUint32(buf[24:28], p.Plane2Width)
	return buf
}

func (g *decodeGPU) destroy() {
	if g.pipe != nil {
		g.pipe.Destroy(device.Get().Device())
		g.pipe = nil
	}
}

// gpuDecode attempts the decode on the GPU. It returns true only when the
// full round trip, including output readback, succeeded. Any failure is
// logged once at debug level and decoding continues on the CPU kernels.
func (d *Decoder) gpuDecode(f *videofx.Frame, textures []*device.Texture, dst *videofx.Pixmap) bool {
	ctx := device.Get()
	if !ctx.Accelerated() {
		return false
	}

	if d.gpu == nil {
		pipe, err := device.NewPipeline(ctx.Device(), "colorspace_decode", shaderDecode, device.LayoutEntries(3))
		if err != nil {
			videofx.Logger().Warn("colorspace: decode pipeline unavailable", "error", err)
			d.gpu = &decodeGPU{}
			return false
		}
		d.gpu = &decodeGPU{pipe: pipe}
	}
	if d.gpu.pipe == nil {
		return false
	}

	params := decodeParams{
		Width:       uint32(f.Width),
		Height:      uint32(f.Height),
		Format:      uint32(f.Format),
		ColorMatrix: uint32(f.Matrix),
	}
	// Plane widths are row pitches in texels; the shader scales byte
	// offsets per format.
	inputs := make([][]byte, 3)
	widths := []*uint32{&params.Plane0Width, &params.Plane1Width, &params.Plane2Width}
	for i := range inputs {
		if i < len(textures) {
			inputs[i] = textures[i].Data()
			*widths[i] = uint32(textures[i].Width())
		} else {
			inputs[i] = []byte{0, 0, 0, 0}
		}
	}

	out, err := device.RunKernel(ctx, d.gpu.pipe, &device.KernelRun{
		Uniforms:   params.toBytes(),
		Inputs:     inputs,
		OutputSize: uint64(f.Width * f.Height * 4),
		GridWidth:  uint32(f.Width),
		GridHeight: uint32(f.Height),
	})
	if err != nil {
		if errors.Is(err, device.ErrReadbackNotSupported) {
			videofx.Logger().Debug("colorspace: GPU readback unavailable, using CPU kernel")
		} else {
			videofx.Logger().Warn("colorspace: GPU decode failed", "error", err)
		}
		return false
	}

	copy(dst.Data(), out)
	return true
}
