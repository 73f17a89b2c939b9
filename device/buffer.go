package device

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// readbackTimeout is the maximum time to wait for a readback copy.
const readbackTimeout = 5 * time.Second

// CreateUniformBuffer creates a CPU-writable uniform buffer.
func CreateUniformBuffer(device hal.Device, label string, size uint64) (hal.Buffer, error) {
	return createBuffer(device, label, size,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
}

// CreateStorageBuffer creates a CPU-writable storage buffer.
func CreateStorageBuffer(device hal.Device, label string, size uint64) (hal.Buffer, error) {
	return createBuffer(device, label, size,
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
}

// CreateOutputBuffer creates a storage buffer that can be copied out for
// readback.
func CreateOutputBuffer(device hal.Device, label string, size uint64) (hal.Buffer, error) {
	return createBuffer(device, label, size,
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst|gputypes.BufferUsageCopySrc)
}

func createBuffer(device hal.Device, label string, size uint64, usage gputypes.BufferUsage) (hal.Buffer, error) {
	const minBufSize = 4
	if size < minBufSize {
		size = minBufSize
	}
	return device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
}

// ReadBuffer copies size bytes of a GPU buffer through a staging buffer
// and waits for the copy to complete. The current HAL backends cannot map
// the staging buffer for CPU access, so the copy succeeds but the data
// stays on the GPU; ErrReadbackNotSupported tells the caller to use its
// CPU path instead.
func ReadBuffer(device hal.Device, queue hal.Queue, src hal.Buffer, size uint64) ([]byte, error) {
	staging, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label:            "staging_readback",
		Size:             size,
		Usage:            gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
		MappedAtCreation: true,
	})
	if err != nil {
		return nil, fmt.Errorf("device: create staging buffer: %w", err)
	}
	defer device.DestroyBuffer(staging)

	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "buffer_readback",
	})
	if err != nil {
		return nil, fmt.Errorf("device: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("buffer_readback"); err != nil {
		return nil, fmt.Errorf("device: begin encoding: %w", err)
	}
	encoder.CopyBufferToBuffer(src, staging, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: size},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("device: end encoding: %w", err)
	}
	defer device.FreeCommandBuffer(cmdBuf)

	fence, err := device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("device: create fence: %w", err)
	}
	defer device.DestroyFence(fence)

	if err := queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("device: submit readback: %w", err)
	}
	if _, err := device.Wait(fence, 1, readbackTimeout); err != nil {
		return nil, fmt.Errorf("device: wait for readback: %w", err)
	}

	// Staging buffer mapping is not available through the HAL yet.
	return nil, ErrReadbackNotSupported
}
