package effects

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"math"

	videofx "github.com/gogpu/videofx"
	"github.com/gogpu/videofx/device"
)

//go:embed shaders/effects.wgsl
var shaderEffects string

//go:embed shaders/blur.wgsl
var shaderBlur string

type effectsGPU struct {
	chainPipe *device.Pipeline
	blurPipe  *device.Pipeline
}

// chainParams mirrors Params in effects.wgsl: 16 words plus a vec4,
// 80 bytes.
type chainParams struct {
	Width         uint32
	Height        uint32
	Frame         uint32
	LUTSize       uint32
	Brightness    float32
	Contrast      float32
	Saturation    float32
	Hue           float32
	Gamma         float32
	Sepia         float32
	Noise         float32
	Vignette      float32
	Invert        uint32
	KeyEnabled    uint32
	KeyTolerance  float32
	KeySmoothness float32
	KeyColor      [4]float32
}

func (p chainParams) toBytes() []byte {
	buf := make([]byte, 80)
	le := binary.LittleEndian
	le.PutUint32(buf[0:4], p.Width)
	le.PutUint32(buf[4:8], p.Height)
	le.PutUint32(buf[8:12], p.Frame)
	le.PutUint32(buf[12:16], p.LUTSize)
	le.PutUint32(buf[16:20], math.Float32bits(p.Brightness))
	le.PutUint32(buf[20:24], math.Float32bits(p.Contrast))
	le.PutUint32(buf[24:28], math.Float32bits(p.Saturation))
	le.PutUint32(buf[28:32], math.Float32bits(p.Hue))
	le.PutUint32(buf[32:36], math.Float32bits(p.Gamma))
	le.PutUint32(buf[36:40], math.Float32bits(p.Sepia))
	le.PutUint32(buf[40:44], math.Float32bits(p.Noise))
	le.PutUint32(buf[44:48], math.Float32bits(p.Vignette))
	le.PutUint32(buf[48:52], p.Invert)
	le.PutUint32(buf[52:56], p.KeyEnabled)
	le.PutUint32(buf[56:60], math.Float32bits(p.KeyTolerance))
	le.PutUint32(buf[60:64], math.Float32bits(p.KeySmoothness))
	for i, v := range p.KeyColor {
		le.PutUint32(buf[64+i*4:68+i*4], math.Float32bits(v))
	}
	return buf
}

// blurParams mirrors Params in blur.wgsl: 4 words, 16 bytes.
type blurParams struct {
	Width     uint32
	Height    uint32
	Mode      uint32
	Sharpness float32
}

func (p blurParams) toBytes() []byte {
	buf := make([]byte, 16)
	le := binary.LittleEndian
	le.PutUint32(buf[0:4], p.Width)
	le.PutUint32(buf[4:8], p.Height)
	le.PutUint32(buf[8:12], p.Mode)
	le.PutUint32(buf[12:16], math.Float32bits(p.Sharpness))
	return buf
}

func (g *effectsGPU) destroy() {
	dev := device.Get().Device()
	if g.chainPipe != nil {
		g.chainPipe.Destroy(dev)
		g.chainPipe = nil
	}
	if g.blurPipe != nil {
		g.blurPipe.Destroy(dev)
		g.blurPipe = nil
	}
}

func (e *Engine) gpuRun(p *Params, lut *LUT, frame uint32) bool {
	ctx := device.Get()
	if !ctx.Accelerated() {
		return false
	}

	if e.gpu == nil {
		e.gpu = &effectsGPU{}
		chainPipe, err := device.NewPipeline(ctx.Device(), "effects_chain", shaderEffects, device.LayoutEntries(2))
		if err != nil {
			videofx.Logger().Warn("effects: chain pipeline unavailable", "error", err)
			return false
		}
		blurPipe, err := device.NewPipeline(ctx.Device(), "effects_blur", shaderBlur, device.LayoutEntries(2))
		if err != nil {
			videofx.Logger().Warn("effects: blur pipeline unavailable", "error", err)
			chainPipe.Destroy(ctx.Device())
			return false
		}
		e.gpu.chainPipe = chainPipe
		e.gpu.blurPipe = blurPipe
	}
	if e.gpu.chainPipe == nil {
		return false
	}

	params := chainParams{
		Width:         uint32(e.cfg.Width),
		Height:        uint32(e.cfg.Height),
		Frame:         frame,
		Brightness:    p.Brightness,
		Contrast:      p.Contrast,
		Saturation:    p.Saturation,
		Hue:           p.Hue,
		Gamma:         p.Gamma,
		Sepia:         p.Sepia,
		Noise:         p.Noise,
		Vignette:      p.Vignette,
	}
	if p.Invert {
		params.Invert = 1
	}
	if p.ChromaKey.Enabled {
		params.KeyEnabled = 1
		kr, kg, kb, ka := p.ChromaKey.Color.Floats()
		params.KeyColor = [4]float32{kr, kg, kb, ka}
		params.KeyTolerance = p.ChromaKey.Tolerance
		params.KeySmoothness = p.ChromaKey.Smoothness
	}

	lutBytes := []byte{0, 0, 0, 0}
	if lut != nil {
		params.LUTSize = uint32(lut.Size())
		lutBytes = lut.packed()
	}

	out, err := device.RunKernel(ctx, e.gpu.chainPipe, &device.KernelRun{
		Uniforms:   params.toBytes(),
		Inputs:     [][]byte{e.work.Data(), lutBytes},
		OutputSize: uint64(len(e.work.Data())),
		GridWidth:  uint32(e.cfg.Width),
		GridHeight: uint32(e.cfg.Height),
	})
	if err != nil {
		if errors.Is(err, device.ErrReadbackNotSupported) {
			videofx.Logger().Debug("effects: GPU readback unavailable, using CPU kernel")
		} else {
			videofx.Logger().Warn("effects: GPU dispatch failed", "error", err)
		}
		return false
	}
	copy(e.work.Data(), out)

	if p.Sharpness != 0 && !e.gpuSharpness(ctx, p.Sharpness) {
		e.runSharpness(p.Sharpness)
	}
	return true
}

// gpuSharpness runs the three blur passes on the graded image in e.work.
func (e *Engine) gpuSharpness(ctx *device.Context, sharpness float32) bool {
	dummy := []byte{0, 0, 0, 0}
	size := uint64(len(e.work.Data()))
	grid := &device.KernelRun{
		OutputSize: size,
		GridWidth:  uint32(e.cfg.Width),
		GridHeight: uint32(e.cfg.Height),
	}

	run := func(mode uint32, src, aux []byte) ([]byte, error) {
		kr := *grid
		kr.Uniforms = blurParams{
			Width:     uint32(e.cfg.Width),
			Height:    uint32(e.cfg.Height),
			Mode:      mode,
			Sharpness: sharpness,
		}.toBytes()
		kr.Inputs = [][]byte{src, aux}
		return device.RunKernel(ctx, e.gpu.blurPipe, &kr)
	}

	horiz, err := run(0, e.work.Data(), dummy)
	if err == nil {
		var vert []byte
		vert, err = run(1, horiz, dummy)
		if err == nil {
			var mixed []byte
			mixed, err = run(2, e.work.Data(), vert)
			if err == nil {
				copy(e.work.Data(), mixed)
				return true
			}
		}
	}
	if errors.Is(err, device.ErrReadbackNotSupported) {
		videofx.Logger().Debug("effects: GPU readback unavailable, using CPU blur")
	} else {
		videofx.Logger().Warn("effects: GPU blur dispatch failed", "error", err)
	}
	return false
}
