package videofx

import (
	"errors"
	"fmt"
)

// MaxPlanes is the largest plane count across supported formats (I420).
const MaxPlanes = 3

// Frame-related errors.
var (
	// ErrNilFrame is returned when a required frame is nil.
	ErrNilFrame = errors.New("videofx: frame is nil")

	// ErrInvalidDimensions is returned for zero or negative frame sizes.
	ErrInvalidDimensions = errors.New("videofx: invalid frame dimensions")

	// ErrInvalidFormat is returned for an unknown pixel format.
	ErrInvalidFormat = errors.New("videofx: invalid pixel format")

	// ErrPlaneTooSmall is returned when a plane buffer cannot hold the
	// frame geometry it claims.
	ErrPlaneTooSmall = errors.New("videofx: plane buffer too small")
)

// Plane is one raster plane of a frame: raw bytes plus the byte stride
// between the starts of consecutive rows.
type Plane struct {
	Data   []byte
	Stride int
}

// Frame is a single decoded video frame. Frames are plain data carriers:
// engines read input frames and write output frames but never retain them
// beyond the call, except where history is explicitly documented
// (deinterlace keeps a GPU-side copy, never the caller's buffer).
type Frame struct {
	Width  int
	Height int
	Format PixelFormat

	// Matrix selects the YUV<->RGB conversion matrix for this frame.
	Matrix ColorMatrix

	// TopFieldFirst carries per-frame field order for interlaced content.
	// Only consulted by the deinterlace engine in auto field layout.
	TopFieldFirst bool

	// Planes holds Format.PlaneCount() valid entries.
	Planes [MaxPlanes]Plane
}

// NewFrame allocates a tightly packed frame of the given geometry.
func NewFrame(width, height int, format PixelFormat) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFormat, format)
	}
	f := &Frame{Width: width, Height: height, Format: format}
	for p := 0; p < format.PlaneCount(); p++ {
		pw, ph := format.PlaneDimensions(p, width, height)
		stride := pw * format.PlaneBytesPerSample(p)
		f.Planes[p] = Plane{Data: make([]byte, stride*ph), Stride: stride}
	}
	return f, nil
}

// Validate checks geometry, format, and plane buffer sizes.
func (f *Frame) Validate() error {
	if f == nil {
		return ErrNilFrame
	}
	if f.Width < 1 || f.Height < 1 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, f.Width, f.Height)
	}
	if !f.Format.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidFormat, f.Format)
	}
	for p := 0; p < f.Format.PlaneCount(); p++ {
		pw, ph := f.Format.PlaneDimensions(p, f.Width, f.Height)
		rowBytes := pw * f.Format.PlaneBytesPerSample(p)
		pl := &f.Planes[p]
		if pl.Stride < rowBytes {
			return fmt.Errorf("%w: plane %d stride %d < row bytes %d",
				ErrPlaneTooSmall, p, pl.Stride, rowBytes)
		}
		need := pl.Stride*(ph-1) + rowBytes
		if len(pl.Data) < need {
			return fmt.Errorf("%w: plane %d has %d bytes, need %d",
				ErrPlaneTooSmall, p, len(pl.Data), need)
		}
	}
	return nil
}

// PlaneRow returns the row slice for row y of plane p, trimmed to the
// meaningful row width.
func (f *Frame) PlaneRow(p, y int) []byte {
	pw, _ := f.Format.PlaneDimensions(p, f.Width, f.Height)
	rowBytes := pw * f.Format.PlaneBytesPerSample(p)
	off := y * f.Planes[p].Stride
	return f.Planes[p].Data[off : off+rowBytes]
}

// EqualBytes reports whether two frames have identical geometry and
// identical plane contents (ignoring stride padding).
func (f *Frame) EqualBytes(o *Frame) bool {
	if f.Width != o.Width || f.Height != o.Height || f.Format != o.Format {
		return false
	}
	for p := 0; p < f.Format.PlaneCount(); p++ {
		_, ph := f.Format.PlaneDimensions(p, f.Width, f.Height)
		for y := 0; y < ph; y++ {
			a := f.PlaneRow(p, y)
			b := o.PlaneRow(p, y)
			if len(a) != len(b) {
				return false
			}
			for i := range a {
				if a[i] != b[i] {
					return false
				}
			}
		}
	}
	return true
}

// CopyTo copies plane contents into dst, which must have identical
// geometry and format. Strides may differ.
func (f *Frame) CopyTo(dst *Frame) error {
	if dst.Width != f.Width || dst.Height != f.Height || dst.Format != f.Format {
		return fmt.Errorf("%w: copy between mismatched frames", ErrInvalidDimensions)
	}
	for p := 0; p < f.Format.PlaneCount(); p++ {
		_, ph := f.Format.PlaneDimensions(p, f.Width, f.Height)
		for y := 0; y < ph; y++ {
			copy(dst.PlaneRow(p, y), f.PlaneRow(p, y))
		}
	}
	return nil
}
