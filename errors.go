package videofx

import "errors"

// Error classes shared by all engines. Engines wrap these so callers can
// classify failures with errors.Is without depending on engine internals.
var (
	// ErrConfiguration indicates an invalid or unbuildable configuration:
	// unsupported pixel format, zero dimensions, pipeline build failure.
	// The engine must not process frames until reconfigured successfully.
	ErrConfiguration = errors.New("videofx: invalid configuration")

	// ErrFrameProcessing indicates a failure limited to the current frame
	// (upload or dispatch failure). The engine remains usable.
	ErrFrameProcessing = errors.New("videofx: frame processing failed")

	// ErrAssetLoad indicates a malformed or unreadable asset (LUT file,
	// overlay image, preset). The previously loaded asset, if any, stays
	// active.
	ErrAssetLoad = errors.New("videofx: asset load failed")
)
