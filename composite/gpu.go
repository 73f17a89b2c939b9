package composite

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"math"

	videofx "github.com/gogpu/videofx"
	"github.com/gogpu/videofx/device"
)

//go:embed shaders/blend.wgsl
var shaderBlend string

type blendGPU struct {
	pipe *device.Pipeline
}

// blendParams mirrors Params in blend.wgsl: 10 words, 40 bytes.
type blendParams struct {
	CanvasWidth  uint32
	CanvasHeight uint32
	RectX        int32
	RectY        int32
	RectW        int32
	RectH        int32
	SrcWidth     uint32
	SrcHeight    uint32
	Alpha        float32
	Op           uint32
}

func (p blendParams) toBytes() []byte {
	buf := make([]byte, 40)
	le := binary.LittleEndian
	le.PutUint32(buf[0:4], p.CanvasWidth)
	le.PutUint32(buf[4:8], p.CanvasHeight)
	le.PutUint32(buf[8:12], uint32(p.RectX))
	le.PutUint32(buf[12:16], uint32(p.RectY))
	le.PutUint32(buf[16:20], uint32(p.RectW))
	le.PutUint32(buf[20:24], uint32(p.RectH))
	le.PutUint32(buf[24:28], p.SrcWidth)
	le.PutUint32(buf[28:32], p.SrcHeight)
	le.PutUint32(buf[32:36], math.Float32bits(p.Alpha))
	le.PutUint32(buf[36:40], uint32(p.Op))
	return buf
}

func (g *blendGPU) destroy() {
	if g.pipe != nil {
		g.pipe.Destroy(device.Get().Device())
		g.pipe = nil
	}
}

// gpuDraw attempts one pad draw on the GPU. It returns true only when the
// blended canvas came back from the device.
func (e *Engine) gpuDraw(p pad) bool {
	ctx := device.Get()
	if !ctx.Accelerated() {
		return false
	}

	if e.gpu == nil {
		pipe, err := device.NewPipeline(ctx.Device(), "composite_blend", shaderBlend, device.LayoutEntries(2))
		if err != nil {
			videofx.Logger().Warn("composite: blend pipeline unavailable", "error", err)
			e.gpu = &blendGPU{}
			return false
		}
		e.gpu = &blendGPU{pipe: pipe}
	}
	if e.gpu.pipe == nil {
		return false
	}

	params := blendParams{
		CanvasWidth:  uint32(e.cfg.Width),
		CanvasHeight: uint32(e.cfg.Height),
		RectX:        int32(p.dest.x),
		RectY:        int32(p.dest.y),
		RectW:        int32(p.dest.w),
		RectH:        int32(p.dest.h),
		SrcWidth:     uint32(p.pix.Width()),
		SrcHeight:    uint32(p.pix.Height()),
		Alpha:        p.src.Alpha,
		Op:           uint32(p.src.Operator),
	}

	out, err := device.RunKernel(ctx, e.gpu.pipe, &device.KernelRun{
		Uniforms:   params.toBytes(),
		Inputs:     [][]byte{e.canvas.Data(), p.pix.Data()},
		OutputSize: uint64(len(e.canvas.Data())),
		GridWidth:  uint32(e.cfg.Width),
		GridHeight: uint32(e.cfg.Height),
	})
	if err != nil {
		if errors.Is(err, device.ErrReadbackNotSupported) {
			videofx.Logger().Debug("composite: GPU readback unavailable, using CPU kernel")
		} else {
			videofx.Logger().Warn("composite: GPU blend failed", "error", err)
		}
		return false
	}

	copy(e.canvas.Data(), out)
	return true
}
