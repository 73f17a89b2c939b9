// Package device manages the shared GPU context for video processing.
//
// A single HAL device and queue are opened lazily on first use and shared
// by every engine in the process. When no GPU adapter is available the
// context still constructs successfully; engines detect this through
// Accelerated() and run their CPU kernels instead.
//
// The package also provides the compute building blocks the engines share:
// WGSL shader compilation, compute pipeline creation, packed pixel buffers,
// synchronous dispatch, and the per-frame texture cache.
package device
