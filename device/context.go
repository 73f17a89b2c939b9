package device

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Context owns the process-wide GPU device and queue. All engines share a
// single Context obtained through Get.
type Context struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	adapterName string
	accelerated bool
	closed      bool
}

var (
	ctxOnce sync.Once
	ctx     *Context
)

// Get returns the shared GPU context, initializing it on first call.
// Initialization never fails: when no GPU adapter can be opened the
// returned context reports Accelerated() == false and engines run on
// their CPU kernels.
func Get() *Context {
	ctxOnce.Do(func() {
		ctx = &Context{}
		if err := ctx.initGPU(); err != nil {
			slogger().Info("device: GPU unavailable, running on CPU kernels", "error", err)
		}
	})
	return ctx
}

// initGPU creates a standalone Vulkan device for compute-only use.
func (c *Context) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	c.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		c.instance = nil
		return ErrNoAdapter
	}

	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		c.instance = nil
		return fmt.Errorf("open device: %w", err)
	}
	c.device = openDev.Device
	c.queue = openDev.Queue
	c.adapterName = selected.Info.Name
	c.accelerated = true

	slogger().Info("device: GPU initialized", "adapter", c.adapterName)
	return nil
}

// Accelerated reports whether a GPU device is available.
func (c *Context) Accelerated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accelerated && !c.closed
}

// AdapterName returns the name of the selected GPU adapter, or an empty
// string when running without acceleration.
func (c *Context) AdapterName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.adapterName
}

// Device returns the HAL device, or nil when not accelerated.
func (c *Context) Device() hal.Device {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	return c.device
}

// Queue returns the HAL queue, or nil when not accelerated.
func (c *Context) Queue() hal.Queue {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	return c.queue
}

// Close releases the GPU device and instance. Engines that still hold
// pipelines must be cleaned up first.
func (c *Context) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if c.device != nil {
		c.device.Destroy()
		c.device = nil
	}
	if c.instance != nil {
		c.instance.Destroy()
		c.instance = nil
	}
	c.queue = nil
	c.accelerated = false
	c.closed = true
}
