package overlay

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"math"

	videofx "github.com/gogpu/videofx"
	"github.com/gogpu/videofx/device"
)

//go:embed shaders/overlay.wgsl
var shaderOverlay string

type overlayGPU struct {
	pipe *device.Pipeline
}

// overlayParams mirrors Params in overlay.wgsl: 12 words, 48 bytes.
type overlayParams struct {
	FrameWidth  uint32
	FrameHeight uint32
	ImgWidth    uint32
	ImgHeight   uint32
	RectX       int32
	RectY       int32
	RectWidth   int32
	RectHeight  int32
	Alpha       float32
}

func (p overlayParams) toBytes() []byte {
	buf := make([]byte, 48)
	le := binary.LittleEndian
	le.PutUint32(buf[0:4], p.FrameWidth)
	le.PutUint32(buf[4:8], p.FrameHeight)
	le.PutUint32(buf[8:12], p.ImgWidth)
	le.PutUint32(buf[12:16], p.ImgHeight)
	le.PutUint32(buf[16:20], uint32(p.RectX))
	le.PutUint32(buf[20:24], uint32(p.RectY))
	le.PutUint32(buf[24:28], uint32(p.RectWidth))
	le.PutUint32(buf[28:32], uint32(p.RectHeight))
	le.PutUint32(buf[32:36], math.Float32bits(p.Alpha))
	return buf
}

func (g *overlayGPU) destroy() {
	if g.pipe != nil {
		g.pipe.Destroy(device.Get().Device())
		g.pipe = nil
	}
}

func (e *Engine) gpuRun(img *overlayImage, alpha float32, rx, ry, rw, rh int) bool {
	ctx := device.Get()
	if !ctx.Accelerated() {
		return false
	}

	if e.gpu == nil {
		pipe, err := device.NewPipeline(ctx.Device(), "overlay", shaderOverlay, device.LayoutEntries(2))
		if err != nil {
			videofx.Logger().Warn("overlay: pipeline unavailable", "error", err)
			e.gpu = &overlayGPU{}
			return false
		}
		e.gpu = &overlayGPU{pipe: pipe}
	}
	if e.gpu.pipe == nil {
		return false
	}

	params := overlayParams{
		FrameWidth:  uint32(e.cfg.Width),
		FrameHeight: uint32(e.cfg.Height),
		ImgWidth:    uint32(img.width),
		ImgHeight:   uint32(img.height),
		RectX:       int32(rx),
		RectY:       int32(ry),
		RectWidth:   int32(rw),
		RectHeight:  int32(rh),
		Alpha:       alpha,
	}
	out, err := device.RunKernel(ctx, e.gpu.pipe, &device.KernelRun{
		Uniforms:   params.toBytes(),
		Inputs:     [][]byte{e.work.Data(), img.pix},
		OutputSize: uint64(len(e.work.Data())),
		GridWidth:  uint32(e.cfg.Width),
		GridHeight: uint32(e.cfg.Height),
	})
	if err != nil {
		if errors.Is(err, device.ErrReadbackNotSupported) {
			videofx.Logger().Debug("overlay: GPU readback unavailable, using CPU kernel")
		} else {
			videofx.Logger().Warn("overlay: GPU dispatch failed", "error", err)
		}
		return false
	}
	copy(e.work.Data(), out)
	return true
}
