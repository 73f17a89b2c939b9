// Package convert changes pixel format and geometry in one pass. The
// input decodes to an RGBA intermediate sized to the output, sampled
// bilinearly or nearest-neighbor, optionally inside a centered
// aspect-preserving viewport with the remainder filled by a border
// color. Matching input and output descriptions pass frame bytes
// through untouched.
package convert
