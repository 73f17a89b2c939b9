package videofx

import "fmt"

// PixelFormat identifies the memory layout of a Frame.
type PixelFormat uint8

const (
	// FormatBGRA is 32-bit packed B,G,R,A (byte order), one plane.
	FormatBGRA PixelFormat = iota

	// FormatRGBA is 32-bit packed R,G,B,A (byte order), one plane.
	FormatRGBA

	// FormatNV12 is 4:2:0 planar: full-resolution Y plane followed by one
	// half-resolution plane of interleaved U,V byte pairs.
	FormatNV12

	// FormatI420 is 4:2:0 planar: full-resolution Y plane followed by
	// separate half-resolution U and V planes.
	FormatI420

	// FormatUYVY is 4:2:2 packed: U0 Y0 V0 Y1 macropixels, one plane.
	FormatUYVY

	// FormatYUY2 is 4:2:2 packed: Y0 U0 Y1 V0 macropixels, one plane.
	FormatYUY2

	formatCount
)

// String returns the conventional name of the format.
func (f PixelFormat) String() string {
	switch f {
	case FormatBGRA:
		return "BGRA"
	case FormatRGBA:
		return "RGBA"
	case FormatNV12:
		return "NV12"
	case FormatI420:
		return "I420"
	case FormatUYVY:
		return "UYVY"
	case FormatYUY2:
		return "YUY2"
	default:
		return fmt.Sprintf("PixelFormat(%d)", uint8(f))
	}
}

// Valid reports whether f is one of the supported formats.
func (f PixelFormat) Valid() bool { return f < formatCount }

// PlaneCount returns the number of planes for the format.
func (f PixelFormat) PlaneCount() int {
	switch f {
	case FormatNV12:
		return 2
	case FormatI420:
		return 3
	default:
		return 1
	}
}

// IsYUV reports whether the format carries YUV samples (planar or packed).
func (f PixelFormat) IsYUV() bool {
	switch f {
	case FormatNV12, FormatI420, FormatUYVY, FormatYUY2:
		return true
	default:
		return false
	}
}

// IsPacked422 reports whether the format is a packed 4:2:2 macropixel
// layout (two luma samples sharing one chroma pair per 32-bit group).
func (f PixelFormat) IsPacked422() bool {
	return f == FormatUYVY || f == FormatYUY2
}

// IsRGB reports whether the format is one of the packed RGBA-family layouts.
func (f PixelFormat) IsRGB() bool {
	return f == FormatBGRA || f == FormatRGBA
}

// PlaneDimensions returns the sample dimensions of plane index p for a
// frame of the given pixel size. Chroma planes round up for odd sizes,
// and packed 4:2:2 rows round up to whole macropixels.
func (f PixelFormat) PlaneDimensions(p, width, height int) (pw, ph int) {
	switch f {
	case FormatNV12:
		if p == 1 {
			return (width + 1) / 2, (height + 1) / 2
		}
	case FormatI420:
		if p > 0 {
			return (width + 1) / 2, (height + 1) / 2
		}
	case FormatUYVY, FormatYUY2:
		return (width + 1) / 2 * 2, height
	}
	return width, height
}

// PlaneBytesPerSample returns the byte width of one sample on plane p.
// For packed 4:2:2 formats one "sample" is a full pixel (2 bytes); a
// macropixel covers two samples.
func (f PixelFormat) PlaneBytesPerSample(p int) int {
	switch f {
	case FormatBGRA, FormatRGBA:
		return 4
	case FormatNV12:
		if p == 1 {
			return 2 // interleaved U,V pair per chroma sample
		}
		return 1
	case FormatI420:
		return 1
	case FormatUYVY, FormatYUY2:
		return 2
	default:
		return 0
	}
}

// ColorMatrix selects the YUV<->RGB conversion matrix.
type ColorMatrix uint8

const (
	// Matrix601 is limited-range BT.601 (standard definition).
	Matrix601 ColorMatrix = 0

	// Matrix709 is limited-range BT.709 (high definition).
	Matrix709 ColorMatrix = 1
)

// String returns the matrix name.
func (m ColorMatrix) String() string {
	if m == Matrix709 {
		return "BT.709"
	}
	return "BT.601"
}
