package composite

import (
	"fmt"

	videofx "github.com/gogpu/videofx"
)

// Background selects how the output canvas is filled before inputs draw.
type Background uint8

const (
	BackgroundChecker Background = iota
	BackgroundBlack
	BackgroundWhite
	BackgroundTransparent
)

// String returns the background mode name.
func (b Background) String() string {
	switch b {
	case BackgroundChecker:
		return "checker"
	case BackgroundBlack:
		return "black"
	case BackgroundWhite:
		return "white"
	case BackgroundTransparent:
		return "transparent"
	default:
		return fmt.Sprintf("Background(%d)", uint8(b))
	}
}

// Operator selects the blend formula for one input. All formulas work on
// premultiplied color.
type Operator uint8

const (
	// OperatorSource replaces the destination: dst = src.
	OperatorSource Operator = iota
	// OperatorOver is standard alpha compositing: dst = src + dst*(1-srcA).
	OperatorOver
	// OperatorAdd sums source and destination, channels and alpha alike.
	OperatorAdd
)

// String returns the operator name.
func (o Operator) String() string {
	switch o {
	case OperatorSource:
		return "source"
	case OperatorOver:
		return "over"
	case OperatorAdd:
		return "add"
	default:
		return fmt.Sprintf("Operator(%d)", uint8(o))
	}
}

// Sizing selects how an input's frame maps into its destination box.
type Sizing uint8

const (
	// SizingNone scales the input to fill the configured box exactly.
	SizingNone Sizing = iota
	// SizingKeepAspect scales the input to fit inside the box while
	// preserving its aspect ratio, centered with padding.
	SizingKeepAspect
)

// String returns the sizing policy name.
func (s Sizing) String() string {
	switch s {
	case SizingNone:
		return "none"
	case SizingKeepAspect:
		return "keep-aspect-ratio"
	default:
		return fmt.Sprintf("Sizing(%d)", uint8(s))
	}
}

// Input configures one compositor input.
type Input struct {
	// X and Y position the destination box in output pixels.
	X, Y int

	// Width and Height size the destination box. Zero or negative means
	// the input's native size.
	Width, Height int

	// Alpha is the global opacity in [0,1]. Inputs at exactly 0 are
	// skipped entirely.
	Alpha float32

	Operator Operator
	Sizing   Sizing

	// ZOrder orders drawing; lower values draw first. Tie order between
	// equal values is unspecified.
	ZOrder int
}

func (in *Input) validate() error {
	if in.Alpha < 0 || in.Alpha > 1 {
		return fmt.Errorf("%w: input alpha %v outside [0,1]", videofx.ErrConfiguration, in.Alpha)
	}
	return nil
}

// Source pairs one frame with its input configuration for a Process call.
type Source struct {
	Frame *videofx.Frame
	Input
}

// rect is a destination rectangle in output pixels.
type rect struct {
	x, y, w, h int
}

func (r rect) contains(o rect) bool {
	return r.x <= o.x && r.y <= o.y &&
		r.x+r.w >= o.x+o.w && r.y+r.h >= o.y+o.h
}

func (r rect) empty() bool {
	return r.w <= 0 || r.h <= 0
}
