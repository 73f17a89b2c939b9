// Package composite blends multiple video inputs onto one output canvas.
//
// Each input carries its own position, size, alpha, blend operator, and
// z-order. Inputs draw in ascending z-order over a configurable
// background, with obscured backgrounds and fully covered inputs skipped
// before any pixel work happens.
package composite
