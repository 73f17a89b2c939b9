package effects

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/videofx"
)

// preset is the on-disk TOML shape. Absent keys keep their defaults, so a
// preset only needs to name the parameters it changes.
type preset struct {
	Brightness *float32 `toml:"brightness"`
	Contrast   *float32 `toml:"contrast"`
	Saturation *float32 `toml:"saturation"`
	Hue        *float32 `toml:"hue"`
	Gamma      *float32 `toml:"gamma"`
	Sharpness  *float32 `toml:"sharpness"`
	Sepia      *float32 `toml:"sepia"`
	Invert     *bool    `toml:"invert"`
	Noise      *float32 `toml:"noise"`
	Vignette   *float32 `toml:"vignette"`
	LUT        string   `toml:"lut"`

	ChromaKey struct {
		Enabled    *bool    `toml:"enabled"`
		Color      *string  `toml:"color"`
		Tolerance  *float32 `toml:"tolerance"`
		Smoothness *float32 `toml:"smoothness"`
	} `toml:"chroma_key"`
}

// Preset bundles grading parameters with an optional lookup-table path.
type Preset struct {
	Params  Params
	LUTPath string
}

// LoadPreset reads a TOML preset file. The result always validates; a file
// with out-of-range values is rejected as a whole.
func LoadPreset(path string) (Preset, error) {
	var p preset
	md, err := toml.DecodeFile(path, &p)
	if err != nil {
		return Preset{}, fmt.Errorf("preset %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return Preset{}, fmt.Errorf("preset %s: unknown key %q", path, undec[0].String())
	}

	out := Preset{Params: Defaults(), LUTPath: p.LUT}
	setF(&out.Params.Brightness, p.Brightness)
	setF(&out.Params.Contrast, p.Contrast)
	setF(&out.Params.Saturation, p.Saturation)
	setF(&out.Params.Hue, p.Hue)
	setF(&out.Params.Gamma, p.Gamma)
	setF(&out.Params.Sharpness, p.Sharpness)
	setF(&out.Params.Sepia, p.Sepia)
	setF(&out.Params.Noise, p.Noise)
	setF(&out.Params.Vignette, p.Vignette)
	if p.Invert != nil {
		out.Params.Invert = *p.Invert
	}
	if p.ChromaKey.Enabled != nil {
		out.Params.ChromaKey.Enabled = *p.ChromaKey.Enabled
	}
	if p.ChromaKey.Color != nil {
		c, err := parseColor(*p.ChromaKey.Color)
		if err != nil {
			return Preset{}, fmt.Errorf("preset %s: %w", path, err)
		}
		out.Params.ChromaKey.Color = c
	}
	setF(&out.Params.ChromaKey.Tolerance, p.ChromaKey.Tolerance)
	setF(&out.Params.ChromaKey.Smoothness, p.ChromaKey.Smoothness)

	if err := out.Params.Validate(); err != nil {
		return Preset{}, fmt.Errorf("preset %s: %w", path, err)
	}
	return out, nil
}

func setF(dst *float32, src *float32) {
	if src != nil {
		*dst = *src
	}
}

// parseColor accepts "#RRGGBB" or "#AARRGGBB" hex notation.
func parseColor(s string) (videofx.ARGB, error) {
	if len(s) == 0 || s[0] != '#' {
		return 0, fmt.Errorf("invalid color %q", s)
	}
	hex := s[1:]
	var v uint32
	for _, c := range hex {
		var d uint32
		switch {
		case c >= '0' && c <= '9':
			d = uint32(c - '0')
		case c >= 'a' && c <= 'f':
			d = uint32(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = uint32(c-'A') + 10
		default:
			return 0, fmt.Errorf("invalid color %q", s)
		}
		v = v<<4 | d
	}
	switch len(hex) {
	case 6:
		return videofx.ARGB(0xFF000000 | v), nil
	case 8:
		return videofx.ARGB(v), nil
	default:
		return 0, fmt.Errorf("invalid color %q", s)
	}
}
