package deinterlace

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"math"

	videofx "github.com/gogpu/videofx"
	"github.com/gogpu/videofx/device"
)

//go:embed shaders/deinterlace.wgsl
var shaderDeinterlace string

type deintGPU struct {
	pipe *device.Pipeline
}

// deintParams mirrors Params in deinterlace.wgsl: 8 words, 32 bytes.
type deintParams struct {
	Width           uint32
	Height          uint32
	Method          uint32
	KeptParity      uint32
	MotionThreshold float32
}

func (p deintParams) toBytes() []byte {
	buf := make([]byte, 32)
	le := binary.LittleEndian
	le.PutUint32(buf[0:4], p.Width)
	le.PutUint32(buf[4:8], p.Height)
	le.PutUint32(buf[8:12], p.Method)
	le.PutUint32(buf[12:16], p.KeptParity)
	le.PutUint32(buf[16:20], math.Float32bits(p.MotionThreshold))
	return buf
}

func (g *deintGPU) destroy() {
	if g.pipe != nil {
		g.pipe.Destroy(device.Get().Device())
		g.pipe = nil
	}
}

func (e *Engine) gpuRun(method Method, keptParity int) bool {
	ctx := device.Get()
	if !ctx.Accelerated() {
		return false
	}

	if e.gpu == nil {
		pipe, err := device.NewPipeline(ctx.Device(), "deinterlace", shaderDeinterlace, device.LayoutEntries(2))
		if err != nil {
			videofx.Logger().Warn("deinterlace: pipeline unavailable", "error", err)
			e.gpu = &deintGPU{}
			return false
		}
		e.gpu = &deintGPU{pipe: pipe}
	}
	if e.gpu.pipe == nil {
		return false
	}

	params := deintParams{
		Width:           uint32(e.cfg.Width),
		Height:          uint32(e.cfg.Height),
		Method:          uint32(method),
		KeptParity:      uint32(keptParity),
		MotionThreshold: e.cfg.MotionThreshold,
	}
	out, err := device.RunKernel(ctx, e.gpu.pipe, &device.KernelRun{
		Uniforms:   params.toBytes(),
		Inputs:     [][]byte{e.current.Data(), e.history.Data()},
		OutputSize: uint64(len(e.out.Data())),
		GridWidth:  uint32(e.cfg.Width),
		GridHeight: uint32(e.cfg.Height),
	})
	if err != nil {
		if errors.Is(err, device.ErrReadbackNotSupported) {
			videofx.Logger().Debug("deinterlace: GPU readback unavailable, using CPU kernel")
		} else {
			videofx.Logger().Warn("deinterlace: GPU dispatch failed", "error", err)
		}
		return false
	}
	copy(e.out.Data(), out)
	return true
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
