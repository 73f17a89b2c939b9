// Package effects applies color grading to video frames.
//
// A single pass applies brightness, contrast, saturation, hue rotation,
// gamma, sepia, invert, chroma keying, vignette, and noise in a fixed
// order, followed by an optional 3-D LUT lookup. A second pass runs only
// when sharpness is non-zero: a separable 9-tap Gaussian blur feeding an
// unsharp-mask blend.
//
// LUTs load from .cube text files or from image grids whose pixel count
// is a perfect cube. Parameter presets load from TOML files.
package effects
