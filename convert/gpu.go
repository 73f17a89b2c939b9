package convert

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"math"

	videofx "github.com/gogpu/videofx"
	"github.com/gogpu/videofx/device"
)

//go:embed shaders/scale.wgsl
var shaderScale string

type convertGPU struct {
	pipe *device.Pipeline
}

// scaleParams mirrors Params in scale.wgsl: 12 words plus a vec4,
// 64 bytes.
type scaleParams struct {
	OutWidth  uint32
	OutHeight uint32
	SrcWidth  uint32
	SrcHeight uint32
	VpX       uint32
	VpY       uint32
	VpWidth   uint32
	VpHeight  uint32
	Method    uint32
	Border    [4]float32
}

func (p scaleParams) toBytes() []byte {
	buf := make([]byte, 64)
	le := binary.LittleEndian
	le.PutUint32(buf[0:4], p.OutWidth)
	le.PutUint32(buf[4:8], p.OutHeight)
	le.PutUint32(buf[8:12], p.SrcWidth)
	le.PutUint32(buf[12:16], p.SrcHeight)
	le.PutUint32(buf[16:20], p.VpX)
	le.PutUint32(buf[20:24], p.VpY)
	le.PutUint32(buf[24:28], p.VpWidth)
	le.PutUint32(buf[28:32], p.VpHeight)
	le.PutUint32(buf[32:36], p.Method)
	for i, v := range p.Border {
		le.PutUint32(buf[48+i*4:52+i*4], math.Float32bits(v))
	}
	return buf
}

func (g *convertGPU) destroy() {
	if g.pipe != nil {
		g.pipe.Destroy(device.Get().Device())
		g.pipe = nil
	}
}

func (e *Engine) gpuRun() bool {
	ctx := device.Get()
	if !ctx.Accelerated() {
		return false
	}

	if e.gpu == nil {
		pipe, err := device.NewPipeline(ctx.Device(), "convert_scale", shaderScale, device.LayoutEntries(1))
		if err != nil {
			videofx.Logger().Warn("convert: pipeline unavailable", "error", err)
			e.gpu = &convertGPU{}
			return false
		}
		e.gpu = &convertGPU{pipe: pipe}
	}
	if e.gpu.pipe == nil {
		return false
	}

	br, bg, bb, ba := e.cfg.BorderColor.Floats()
	params := scaleParams{
		OutWidth:  uint32(e.cfg.OutWidth),
		OutHeight: uint32(e.cfg.OutHeight),
		SrcWidth:  uint32(e.cfg.InWidth),
		SrcHeight: uint32(e.cfg.InHeight),
		VpX:       uint32(e.viewport.x),
		VpY:       uint32(e.viewport.y),
		VpWidth:   uint32(e.viewport.w),
		VpHeight:  uint32(e.viewport.h),
		Method:    uint32(e.cfg.Method),
		Border:    [4]float32{br, bg, bb, ba},
	}
	out, err := device.RunKernel(ctx, e.gpu.pipe, &device.KernelRun{
		Uniforms:   params.toBytes(),
		Inputs:     [][]byte{e.src.Data()},
		OutputSize: uint64(len(e.out.Data())),
		GridWidth:  uint32(e.cfg.OutWidth),
		GridHeight: uint32(e.cfg.OutHeight),
	})
	if err != nil {
		if errors.Is(err, device.ErrReadbackNotSupported) {
			videofx.Logger().Debug("convert: GPU readback unavailable, using CPU kernel")
		} else {
			videofx.Logger().Warn("convert: GPU dispatch failed", "error", err)
		}
		return false
	}
	copy(e.out.Data(), out)
	return true
}
