package device

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// UniformEntry returns the bind group layout entry for a uniform buffer
// at the given binding.
func UniformEntry(binding uint32) gputypes.BindGroupLayoutEntry {
	return gputypes.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: gputypes.ShaderStageCompute,
		Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
	}
}

// StorageROEntry returns the layout entry for a read-only storage buffer.
func StorageROEntry(binding uint32) gputypes.BindGroupLayoutEntry {
	return gputypes.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: gputypes.ShaderStageCompute,
		Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
	}
}

// StorageRWEntry returns the layout entry for a read-write storage buffer.
func StorageRWEntry(binding uint32) gputypes.BindGroupLayoutEntry {
	return gputypes.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: gputypes.ShaderStageCompute,
		Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage},
	}
}

// Pipeline bundles one compiled compute pipeline with the layouts needed
// to bind buffers and dispatch it.
type Pipeline struct {
	label string

	module         hal.ShaderModule
	bgLayout       hal.BindGroupLayout
	pipelineLayout hal.PipelineLayout
	pipeline       hal.ComputePipeline
}

// NewPipeline compiles WGSL source to SPIR-V and creates a compute
// pipeline with the given bind group layout entries. The entries must
// match the @group(0) @binding(N) annotations in the shader exactly.
func NewPipeline(device hal.Device, label, wgslSource string, entries []gputypes.BindGroupLayoutEntry) (*Pipeline, error) {
	p := &Pipeline{label: label}

	spirvCode, err := CompileWGSL(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("device: compile shader %s: %w", label, err)
	}

	module, err := CreateShaderModule(device, label, spirvCode)
	if err != nil {
		return nil, fmt.Errorf("device: create shader module %s: %w", label, err)
	}
	p.module = module

	bgLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   label + "_bgl",
		Entries: entries,
	})
	if err != nil {
		p.Destroy(device)
		return nil, fmt.Errorf("device: create bind group layout %s: %w", label, err)
	}
	p.bgLayout = bgLayout

	pipelineLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label + "_pl",
		BindGroupLayouts: []hal.BindGroupLayout{bgLayout},
	})
	if err != nil {
		p.Destroy(device)
		return nil, fmt.Errorf("device: create pipeline layout %s: %w", label, err)
	}
	p.pipelineLayout = pipelineLayout

	pipeline, err := device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  label,
		Layout: pipelineLayout,
		Compute: hal.ComputeState{
			Module:     module,
			EntryPoint: "main",
		},
	})
	if err != nil {
		p.Destroy(device)
		return nil, fmt.Errorf("device: create compute pipeline %s: %w", label, err)
	}
	p.pipeline = pipeline

	slogger().Debug("device: pipeline created",
		"label", label,
		"bindings", len(entries),
		"spirv_words", len(spirvCode))
	return p, nil
}

// Label returns the pipeline label.
func (p *Pipeline) Label() string { return p.label }

// BindGroupLayout returns the bind group layout for creating bind groups.
func (p *Pipeline) BindGroupLayout() hal.BindGroupLayout { return p.bgLayout }

// Handle returns the HAL compute pipeline.
func (p *Pipeline) Handle() hal.ComputePipeline { return p.pipeline }

// Destroy releases all GPU resources held by the pipeline.
func (p *Pipeline) Destroy(device hal.Device) {
	if p == nil || device == nil {
		return
	}
	if p.pipeline != nil {
		device.DestroyComputePipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipelineLayout != nil {
		device.DestroyPipelineLayout(p.pipelineLayout)
		p.pipelineLayout = nil
	}
	if p.bgLayout != nil {
		device.DestroyBindGroupLayout(p.bgLayout)
		p.bgLayout = nil
	}
	if p.module != nil {
		device.DestroyShaderModule(p.module)
		p.module = nil
	}
}
