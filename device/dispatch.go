package device

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

const (
	// WorkgroupDim is the workgroup edge length used by all video compute
	// shaders. Every shader declares @workgroup_size(16, 16, 1).
	WorkgroupDim = 16

	// fenceTimeout is the maximum time to wait for GPU work to complete.
	fenceTimeout = 5 * time.Second
)

// WorkgroupCount performs ceiling division of a pixel extent by the
// workgroup edge length.
func WorkgroupCount(extent uint32) uint32 {
	return (extent + WorkgroupDim - 1) / WorkgroupDim
}

// BufferEntry returns a bind group entry binding an entire buffer.
func BufferEntry(binding uint32, buf hal.Buffer) gputypes.BindGroupEntry {
	return gputypes.BindGroupEntry{
		Binding: binding,
		Resource: gputypes.BufferBinding{
			Buffer: buf.NativeHandle(),
			Offset: 0,
			Size:   0, // 0 = entire buffer
		},
	}
}

// DispatchSync records one compute pass over the pipeline with the given
// bindings and workgroup grid, submits it, and blocks until the GPU
// signals completion.
func DispatchSync(device hal.Device, queue hal.Queue, pipe *Pipeline, entries []gputypes.BindGroupEntry, wgX, wgY, wgZ uint32) error {
	if wgX == 0 || wgY == 0 || wgZ == 0 {
		return nil
	}

	bg, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   pipe.Label() + "_bg",
		Layout:  pipe.BindGroupLayout(),
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("device: create bind group for %s: %w", pipe.Label(), err)
	}
	defer device.DestroyBindGroup(bg)

	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: pipe.Label(),
	})
	if err != nil {
		return fmt.Errorf("device: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(pipe.Label()); err != nil {
		return fmt.Errorf("device: begin encoding: %w", err)
	}

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{
		Label: pipe.Label(),
	})
	pass.SetPipeline(pipe.Handle())
	pass.SetBindGroup(0, bg, nil)
	pass.Dispatch(wgX, wgY, wgZ)
	pass.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("device: end encoding: %w", err)
	}
	defer device.FreeCommandBuffer(cmdBuf)

	fence, err := device.CreateFence()
	if err != nil {
		return fmt.Errorf("device: create fence: %w", err)
	}
	defer device.DestroyFence(fence)

	if err := queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("device: submit: %w", err)
	}
	ok, err := device.Wait(fence, 1, fenceTimeout)
	if err != nil {
		return fmt.Errorf("device: wait for GPU: %w", err)
	}
	if !ok {
		return fmt.Errorf("device: GPU timeout after %v", fenceTimeout)
	}

	slogger().Debug("device: dispatched",
		"pipeline", pipe.Label(),
		"workgroups", fmt.Sprintf("%dx%dx%d", wgX, wgY, wgZ))
	return nil
}
