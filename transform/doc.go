// Package transform crops and reorients frames. A crop given as pixel
// insets and one of eight fixed orientations compose into a single 2x2
// texture-coordinate matrix plus offset, applied per output pixel to map
// destination coordinates back into source space. Samples that land
// outside the source after the mapping produce opaque black.
package transform
