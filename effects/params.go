package effects

import (
	"fmt"

	videofx "github.com/gogpu/videofx"
)

// ChromaKey configures green-screen keying. The alpha of pixels close to
// Color is reduced by a smoothstep over the RGB distance.
type ChromaKey struct {
	Enabled    bool
	Color      videofx.ARGB
	Tolerance  float32
	Smoothness float32
}

// Params holds every grading parameter. The zero value is not the
// neutral setting; use Defaults.
type Params struct {
	// Brightness adds a constant to every channel, in [-1,1].
	Brightness float32
	// Contrast scales around mid-gray, in [0,2]. 1 is neutral.
	Contrast float32
	// Saturation mixes between luma and color, in [0,2]. 1 is neutral.
	Saturation float32
	// Hue rotates the hue wheel, in [-1,1] mapped to a half turn each way.
	Hue float32
	// Gamma applies pow(c, 1/gamma), in [0.01,10]. 1 is neutral.
	Gamma float32
	// Sharpness blends an unsharp mask when positive and a blur when
	// negative, in [-1,1]. 0 disables the second pass.
	Sharpness float32
	// Sepia mixes in the fixed sepia matrix, in [0,1].
	Sepia float32
	// Invert flips every color channel.
	Invert bool
	// Noise adds per-pixel deterministic grain, in [0,1].
	Noise float32
	// Vignette darkens radially from the center, in [0,1].
	Vignette float32

	ChromaKey ChromaKey
}

// Defaults returns the neutral parameter set: processing with it is an
// exact no-op.
func Defaults() Params {
	return Params{
		Contrast:   1,
		Saturation: 1,
		Gamma:      1,
		ChromaKey: ChromaKey{
			Color:      videofx.ColorGreen,
			Tolerance:  0.2,
			Smoothness: 0.1,
		},
	}
}

// Validate checks every parameter range.
func (p *Params) Validate() error {
	checks := []struct {
		name     string
		v        float32
		min, max float32
	}{
		{"brightness", p.Brightness, -1, 1},
		{"contrast", p.Contrast, 0, 2},
		{"saturation", p.Saturation, 0, 2},
		{"hue", p.Hue, -1, 1},
		{"gamma", p.Gamma, 0.01, 10},
		{"sharpness", p.Sharpness, -1, 1},
		{"sepia", p.Sepia, 0, 1},
		{"noise", p.Noise, 0, 1},
		{"vignette", p.Vignette, 0, 1},
		{"chroma-key tolerance", p.ChromaKey.Tolerance, 0, 1},
		{"chroma-key smoothness", p.ChromaKey.Smoothness, 0, 1},
	}
	for _, c := range checks {
		if c.v < c.min || c.v > c.max {
			return fmt.Errorf("%w: %s %v outside [%v,%v]",
				videofx.ErrConfiguration, c.name, c.v, c.min, c.max)
		}
	}
	return nil
}

// identity reports whether the parameters change nothing. Hue uses the
// same near-zero cutoff as the kernel.
func (p *Params) identity() bool {
	return p.Brightness == 0 &&
		p.Contrast == 1 &&
		p.Saturation == 1 &&
		abs32(p.Hue) < hueEpsilon &&
		p.Gamma == 1 &&
		p.Sharpness == 0 &&
		p.Sepia == 0 &&
		!p.Invert &&
		p.Noise == 0 &&
		p.Vignette == 0 &&
		!p.ChromaKey.Enabled
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
