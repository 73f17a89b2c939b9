package device

import "errors"

var (
	// ErrNoAdapter indicates that no usable GPU adapter was found.
	ErrNoAdapter = errors.New("device: no GPU adapters found")

	// ErrNotAccelerated indicates a GPU operation was requested on a
	// context running without a GPU device.
	ErrNotAccelerated = errors.New("device: context is not GPU accelerated")

	// ErrReadbackNotSupported indicates the backend cannot map GPU
	// buffers for CPU access. Callers fall back to their CPU path.
	ErrReadbackNotSupported = errors.New("device: buffer readback not supported")
)
