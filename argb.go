package videofx

// ARGB is a 32-bit color in 0xAARRGGBB layout. It is the wire form of
// every color property: compositor pad backgrounds, border fills,
// chroma key targets.
type ARGB uint32

// Common colors.
const (
	ColorTransparent ARGB = 0x00000000
	ColorBlack       ARGB = 0xFF000000
	ColorWhite       ARGB = 0xFFFFFFFF
	ColorGreen       ARGB = 0xFF00FF00
)

// A returns the alpha component.
func (c ARGB) A() uint8 { return uint8(c >> 24) }

// R returns the red component.
func (c ARGB) R() uint8 { return uint8(c >> 16) }

// G returns the green component.
func (c ARGB) G() uint8 { return uint8(c >> 8) }

// B returns the blue component.
func (c ARGB) B() uint8 { return uint8(c) }

// Floats returns the normalized RGBA components in [0,1].
func (c ARGB) Floats() (r, g, b, a float32) {
	return float32(c.R()) / 255,
		float32(c.G()) / 255,
		float32(c.B()) / 255,
		float32(c.A()) / 255
}

// RGBA returns an ARGB color from 8-bit components.
func RGBA(r, g, b, a uint8) ARGB {
	return ARGB(a)<<24 | ARGB(r)<<16 | ARGB(g)<<8 | ARGB(b)
}
