package transform

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"math"

	videofx "github.com/gogpu/videofx"
	"github.com/gogpu/videofx/device"
)

//go:embed shaders/transform.wgsl
var shaderTransform string

type transformGPU struct {
	pipe *device.Pipeline
}

// transformParams mirrors Params in transform.wgsl: 12 words, 48 bytes.
type transformParams struct {
	OutWidth  uint32
	OutHeight uint32
	SrcWidth  uint32
	SrcHeight uint32
	M         [4]float32
	ScaleX    float32
	ScaleY    float32
	OffsetX   float32
	OffsetY   float32
}

func (p transformParams) toBytes() []byte {
	buf := make([]byte, 48)
	le := binary.LittleEndian
	le.PutUint32(buf[0:4], p.OutWidth)
	le.PutUint32(buf[4:8], p.OutHeight)
	le.PutUint32(buf[8:12], p.SrcWidth)
	le.PutUint32(buf[12:16], p.SrcHeight)
	for i, v := range p.M {
		le.PutUint32(buf[16+i*4:20+i*4], math.Float32bits(v))
	}
	le.PutUint32(buf[32:36], math.Float32bits(p.ScaleX))
	le.PutUint32(buf[36:40], math.Float32bits(p.ScaleY))
	le.PutUint32(buf[40:44], math.Float32bits(p.OffsetX))
	le.PutUint32(buf[44:48], math.Float32bits(p.OffsetY))
	return buf
}

func (g *transformGPU) destroy() {
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
		pipe, err := device.NewPipeline(ctx.Device(), "transform", shaderTransform, device.LayoutEntries(1))
		if err != nil {
			videofx.Logger().Warn("transform: pipeline unavailable", "error", err)
			e.gpu = &transformGPU{}
			return false
		}
		e.gpu = &transformGPU{pipe: pipe}
	}
	if e.gpu.pipe == nil {
		return false
	}

	params := transformParams{
		OutWidth:  uint32(e.outWidth),
		OutHeight: uint32(e.outHeight),
		SrcWidth:  uint32(e.cfg.Width),
		SrcHeight: uint32(e.cfg.Height),
		M:         e.uv.m,
		ScaleX:    e.uv.scaleX,
		ScaleY:    e.uv.scaleY,
		OffsetX:   e.uv.offsetX,
		OffsetY:   e.uv.offsetY,
	}
	out, err := device.RunKernel(ctx, e.gpu.pipe, &device.KernelRun{
		Uniforms:   params.toBytes(),
		Inputs:     [][]byte{e.src.Data()},
		OutputSize: uint64(len(e.out.Data())),
		GridWidth:  uint32(e.outWidth),
		GridHeight: uint32(e.outHeight),
	})
	if err != nil {
		if errors.Is(err, device.ErrReadbackNotSupported) {
			videofx.Logger().Debug("transform: GPU readback unavailable, using CPU kernel")
		} else {
			videofx.Logger().Warn("transform: GPU dispatch failed", "error", err)
		}
		return false
	}
	copy(e.out.Data(), out)
	return true
}
