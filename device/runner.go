package device

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// KernelRun describes one synchronous compute kernel execution over
// packed pixel buffers: a uniform block, read-only input buffers in
// binding order, and one read-write output buffer.
//
// Bindings are assigned sequentially: binding 0 is the uniform block,
// bindings 1..n are the inputs, binding n+1 is the output.
type KernelRun struct {
	Uniforms   []byte
	Inputs     [][]byte
	OutputSize uint64

	// GridWidth and GridHeight are the pixel extents covered by the
	// dispatch, one thread per pixel.
	GridWidth  uint32
	GridHeight uint32
}

// LayoutEntries returns the bind group layout entries matching a
// KernelRun with the given number of inputs.
func LayoutEntries(inputs int) []gputypes.BindGroupLayoutEntry {
	entries := make([]gputypes.BindGroupLayoutEntry, 0, inputs+2)
	entries = append(entries, UniformEntry(0))
	for i := 0; i < inputs; i++ {
		entries = append(entries, StorageROEntry(uint32(i+1)))
	}
	entries = append(entries, StorageRWEntry(uint32(inputs+1)))
	return entries
}

// RunKernel uploads the run's buffers, dispatches the pipeline, and reads
// the output back. The returned bytes are the kernel output; when the
// backend cannot map buffers for readback the error wraps
// ErrReadbackNotSupported and the caller uses its CPU kernel instead.
func RunKernel(c *Context, pipe *Pipeline, run *KernelRun) ([]byte, error) {
	dev := c.Device()
	queue := c.Queue()
	if dev == nil || queue == nil {
		return nil, ErrNotAccelerated
	}

	uni, err := CreateUniformBuffer(dev, pipe.Label()+"_uniforms", uint64(len(run.Uniforms)))
	if err != nil {
		return nil, fmt.Errorf("device: create uniform buffer: %w", err)
	}
	defer dev.DestroyBuffer(uni)
	queue.WriteBuffer(uni, 0, run.Uniforms)

	entries := make([]gputypes.BindGroupEntry, 0, len(run.Inputs)+2)
	entries = append(entries, BufferEntry(0, uni))

	inputs := make([]hal.Buffer, 0, len(run.Inputs))
	defer func() {
		for _, b := range inputs {
			dev.DestroyBuffer(b)
		}
	}()
	for i, data := range run.Inputs {
		buf, err := CreateStorageBuffer(dev, fmt.Sprintf("%s_in%d", pipe.Label(), i), uint64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("device: create input buffer %d: %w", i, err)
		}
		inputs = append(inputs, buf)
		queue.WriteBuffer(buf, 0, data)
		entries = append(entries, BufferEntry(uint32(i+1), buf))
	}

	out, err := CreateOutputBuffer(dev, pipe.Label()+"_out", run.OutputSize)
	if err != nil {
		return nil, fmt.Errorf("device: create output buffer: %w", err)
	}
	defer dev.DestroyBuffer(out)
	entries = append(entries, BufferEntry(uint32(len(run.Inputs)+1), out))

	wgX := WorkgroupCount(run.GridWidth)
	wgY := WorkgroupCount(run.GridHeight)
	if err := DispatchSync(dev, queue, pipe, entries, wgX, wgY, 1); err != nil {
		return nil, err
	}

	return ReadBuffer(dev, queue, out, run.OutputSize)
}
