// Package overlay blends a decoded still image over video frames. The
// image loads once and is reused every frame; its on-screen rectangle
// resolves from absolute pixel coordinates or fractional coordinates of
// the frame, with fractional taking precedence when enabled. Without a
// loaded image the engine passes frames through untouched.
package overlay
