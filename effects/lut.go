package effects

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gogpu/videofx/internal/imageio"
)

// LUT is an immutable 3-D color lookup table. Entries are RGB triples in
// row-major order with red varying fastest, then green, then blue.
type LUT struct {
	size int
	data []float32
}

// Size returns the table edge length.
func (l *LUT) Size() int { return l.size }

// Sample looks up (r, g, b) with trilinear interpolation. Inputs are
// clamped to [0, 1]. Texel centers sit at (i + 0.5) / size, matching GPU
// texture sampling of square LUT grids.
func (l *LUT) Sample(r, g, b float32) (float32, float32, float32) {
	n := float32(l.size)
	scale := (n - 1) / n
	offset := 0.5 / n

	fr := (clamp01(r)*scale + offset) * n
	fg := (clamp01(g)*scale + offset) * n
	fb := (clamp01(b)*scale + offset) * n

	// Shift to cell space so that interpolation runs between texel centers.
	fr -= 0.5
	fg -= 0.5
	fb -= 0.5

	r0, tr := cellIndex(fr, l.size)
	g0, tg := cellIndex(fg, l.size)
	b0, tb := cellIndex(fb, l.size)
	r1 := minInt(r0+1, l.size-1)
	g1 := minInt(g0+1, l.size-1)
	b1 := minInt(b0+1, l.size-1)

	c000 := l.texel(r0, g0, b0)
	c100 := l.texel(r1, g0, b0)
	c010 := l.texel(r0, g1, b0)
	c110 := l.texel(r1, g1, b0)
	c001 := l.texel(r0, g0, b1)
	c101 := l.texel(r1, g0, b1)
	c011 := l.texel(r0, g1, b1)
	c111 := l.texel(r1, g1, b1)

	var out [3]float32
	for i := 0; i < 3; i++ {
		x00 := mix(c000[i], c100[i], tr)
		x10 := mix(c010[i], c110[i], tr)
		x01 := mix(c001[i], c101[i], tr)
		x11 := mix(c011[i], c111[i], tr)
		y0 := mix(x00, x10, tg)
		y1 := mix(x01, x11, tg)
		out[i] = mix(y0, y1, tb)
	}
	return out[0], out[1], out[2]
}

func cellIndex(f float32, size int) (int, float32) {
	if f < 0 {
		return 0, 0
	}
	i := int(f)
	if i >= size-1 {
		return size - 1, 0
	}
	return i, f - float32(i)
}

func (l *LUT) texel(r, g, b int) [3]float32 {
	i := ((b*l.size+g)*l.size + r) * 3
	return [3]float32{l.data[i], l.data[i+1], l.data[i+2]}
}

// packed returns the table as packed RGBA bytes for GPU upload, alpha 255.
func (l *LUT) packed() []byte {
	count := l.size * l.size * l.size
	out := make([]byte, count*4)
	for i := 0; i < count; i++ {
		out[i*4+0] = quantizeByte(l.data[i*3+0])
		out[i*4+1] = quantizeByte(l.data[i*3+1])
		out[i*4+2] = quantizeByte(l.data[i*3+2])
		out[i*4+3] = 255
	}
	return out
}

func quantizeByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// LoadLUT reads a lookup table from path. Files ending in .cube use the
// Adobe cube text format; anything else is decoded as a tiled grid image
// whose pixel count is an exact cube.
func LoadLUT(path string) (*LUT, error) {
	if strings.EqualFold(filepath.Ext(path), ".cube") {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open lut %s: %w", path, err)
		}
		defer f.Close()
		lut, err := ParseCube(f)
		if err != nil {
			return nil, fmt.Errorf("parse lut %s: %w", path, err)
		}
		return lut, nil
	}
	img, err := imageio.Load(path)
	if err != nil {
		return nil, err
	}
	lut, err := lutFromGrid(img)
	if err != nil {
		return nil, fmt.Errorf("parse lut %s: %w", path, err)
	}
	return lut, nil
}

// ParseCube reads the .cube text format. Only LUT_3D_SIZE tables are
// accepted; comments and TITLE/DOMAIN directives are skipped.
func ParseCube(r io.Reader) (*LUT, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	size := 0
	var data []float32
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch strings.ToUpper(fields[0]) {
		case "TITLE", "DOMAIN_MIN", "DOMAIN_MAX":
			continue
		case "LUT_1D_SIZE":
			return nil, fmt.Errorf("1d tables are not supported")
		case "LUT_3D_SIZE":
			if len(fields) != 2 {
				return nil, fmt.Errorf("malformed LUT_3D_SIZE line %q", line)
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 2 || n > 256 {
				return nil, fmt.Errorf("invalid table size %q", fields[1])
			}
			size = n
			data = make([]float32, 0, n*n*n*3)
		default:
			if size == 0 {
				return nil, fmt.Errorf("data before LUT_3D_SIZE")
			}
			if len(fields) != 3 {
				return nil, fmt.Errorf("malformed data line %q", line)
			}
			for _, f := range fields {
				v, err := strconv.ParseFloat(f, 32)
				if err != nil {
					return nil, fmt.Errorf("malformed value %q", f)
				}
				data = append(data, float32(v))
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, fmt.Errorf("missing LUT_3D_SIZE")
	}
	if len(data) != size*size*size*3 {
		return nil, fmt.Errorf("expected %d entries, got %d", size*size*size, len(data)/3)
	}
	return &LUT{size: size, data: data}, nil
}

// lutFromGrid converts a tiled grid image into a table. The table size is
// the cube root of the pixel count; the image holds size tiles of
// size x size pixels in reading order, blue indexing the tile. Both the
// size^2 x size strip and square layouts satisfy this.
func lutFromGrid(img *image.NRGBA) (*LUT, error) {
	w := img.Rect.Dx()
	h := img.Rect.Dy()
	size := cubeRoot(w * h)
	if size < 2 || w%size != 0 || h%size != 0 {
		return nil, fmt.Errorf("grid image %dx%d does not tile an n^3 table", w, h)
	}
	tilesPerRow := w / size
	data := make([]float32, size*size*size*3)
	for b := 0; b < size; b++ {
		tx := (b % tilesPerRow) * size
		ty := (b / tilesPerRow) * size
		for g := 0; g < size; g++ {
			for r := 0; r < size; r++ {
				o := img.PixOffset(tx+r, ty+g)
				i := ((b*size+g)*size + r) * 3
				data[i+0] = float32(img.Pix[o+0]) / 255
				data[i+1] = float32(img.Pix[o+1]) / 255
				data[i+2] = float32(img.Pix[o+2]) / 255
			}
		}
	}
	return &LUT{size: size, data: data}, nil
}

// cubeRoot returns n with n*n*n == count, or 0 when count is not a cube.
func cubeRoot(count int) int {
	for n := 2; n*n*n <= count; n++ {
		if n*n*n == count {
			return n
		}
	}
	return 0
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
