// Package colorspace converts video frames between their native pixel
// formats and the packed RGBA intermediate the engines operate on.
//
// Decoding uploads frame planes through a texture cache and produces an
// RGBA pixmap; encoding writes a pixmap back out as BGRA, RGBA, NV12,
// I420, UYVY, or YUY2. YUV conversion uses limited-range BT.601 or
// BT.709 coefficients selected per frame.
package colorspace
