package transform

import (
	"testing"

	videofx "github.com/gogpu/videofx"
)

func rgbaFrame(t *testing.T, w, h int, pixel func(x, y int) [4]byte) *videofx.Frame {
	t.Helper()
	f, err := videofx.NewFrame(w, h, videofx.FormatRGBA)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < h; y++ {
		row := f.PlaneRow(0, y)
		for x := 0; x < w; x++ {
			p := pixel(x, y)
			copy(row[x*4:x*4+4], p[:])
		}
	}
	return f
}

func runTransform(t *testing.T, cfg Config, f *videofx.Frame) *videofx.Frame {
	t.Helper()
	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Cleanup()
	w, h := e.OutputSize()
	out, err := videofx.NewFrame(w, h, videofx.FormatRGBA)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Process(f, out); err != nil {
		t.Fatalf("Process: %v", err)
	}
	return out
}

func pixelAt(f *videofx.Frame, x, y int) [4]byte {
	row := f.PlaneRow(0, y)
	var p [4]byte
	copy(p[:], row[x*4:x*4+4])
	return p
}

// Four distinct corner colors on a 2x2 frame.
var (
	red   = [4]byte{255, 0, 0, 255}
	green = [4]byte{0, 255, 0, 255}
	blue  = [4]byte{0, 0, 255, 255}
	white = [4]byte{255, 255, 255, 255}
)

func cornerFrame(t *testing.T) *videofx.Frame {
	t.Helper()
	return rgbaFrame(t, 2, 2, func(x, y int) [4]byte {
		switch {
		case x == 0 && y == 0:
			return red
		case x == 1 && y == 0:
			return green
		case x == 0 && y == 1:
			return blue
		default:
			return white
		}
	})
}

func TestIdentityPassesBytesThrough(t *testing.T) {
	f := rgbaFrame(t, 8, 8, func(x, y int) [4]byte {
		return [4]byte{byte(x * 31), byte(y * 31), byte(x ^ y), 255}
	})
	out := runTransform(t, Config{Width: 8, Height: 8, Format: videofx.FormatRGBA}, f)
	if !out.EqualBytes(f) {
		t.Fatal("identity transform must not change frame bytes")
	}
}

func TestOrientationsMoveCorners(t *testing.T) {
	// Expected corner layout after each orientation, row-major
	// TL TR BL BR.
	cases := []struct {
		method Orientation
		want   [4][4]byte
	}{
		{OrientIdentity, [4][4]byte{red, green, blue, white}},
		{Orient90R, [4][4]byte{blue, red, white, green}},
		{Orient180, [4][4]byte{white, blue, green, red}},
		{Orient90L, [4][4]byte{green, white, red, blue}},
		{OrientHorizontalFlip, [4][4]byte{green, red, white, blue}},
		{OrientVerticalFlip, [4][4]byte{blue, white, red, green}},
		{OrientTranspose, [4][4]byte{red, blue, green, white}},
		{OrientAntiTranspose, [4][4]byte{white, green, blue, red}},
	}
	for _, tc := range cases {
		t.Run(tc.method.String(), func(t *testing.T) {
			out := runTransform(t, Config{
				Width: 2, Height: 2,
				Format: videofx.FormatRGBA,
				Method: tc.method,
			}, cornerFrame(t))
			got := [4][4]byte{
				pixelAt(out, 0, 0), pixelAt(out, 1, 0),
				pixelAt(out, 0, 1), pixelAt(out, 1, 1),
			}
			if got != tc.want {
				t.Fatalf("corners = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRotationSwapsOutputAxes(t *testing.T) {
	e, err := NewEngine(Config{
		Width: 6, Height: 4,
		Format: videofx.FormatRGBA,
		Method: Orient90R,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Cleanup()
	w, h := e.OutputSize()
	if w != 4 || h != 6 {
		t.Fatalf("output = %dx%d, want 4x6", w, h)
	}
}

func TestCropRemovesEdgeColumns(t *testing.T) {
	f := rgbaFrame(t, 8, 8, func(x, y int) [4]byte {
		return [4]byte{byte(x * 10), 0, 0, 255}
	})
	out := runTransform(t, Config{
		Width: 8, Height: 8,
		Format: videofx.FormatRGBA,
		Crop:   Crop{Left: 2, Right: 2},
	}, f)
	if out.Width != 4 || out.Height != 8 {
		t.Fatalf("output = %dx%d, want 4x8", out.Width, out.Height)
	}
	if got := pixelAt(out, 0, 0)[0]; got != 20 {
		t.Fatalf("first column = %d, want source column 2 (20)", got)
	}
	if got := pixelAt(out, 3, 0)[0]; got != 50 {
		t.Fatalf("last column = %d, want source column 5 (50)", got)
	}
}

func TestDegenerateCropYieldsBlack(t *testing.T) {
	f := rgbaFrame(t, 8, 8, func(x, y int) [4]byte { return white })
	out := runTransform(t, Config{
		Width: 8, Height: 8,
		Format: videofx.FormatRGBA,
		Crop:   Crop{Top: 5, Bottom: 5},
	}, f)
	if out.Height != 1 {
		t.Fatalf("height = %d, want collapsed 1", out.Height)
	}
	for x := 0; x < out.Width; x++ {
		if p := pixelAt(out, x, 0); p != [4]byte{0, 0, 0, 255} {
			t.Fatalf("pixel %d = %v, want opaque black", x, p)
		}
	}
}

func TestPinnedOutputGeometry(t *testing.T) {
	e, err := NewEngine(Config{
		Width: 8, Height: 8,
		Format:   videofx.FormatRGBA,
		OutWidth: 16, OutHeight: 4,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Cleanup()
	if w, h := e.OutputSize(); w != 16 || h != 4 {
		t.Fatalf("output = %dx%d, want pinned 16x4", w, h)
	}
}

func TestConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero width", Config{Width: 0, Height: 8, Format: videofx.FormatRGBA}},
		{"bad method", Config{Width: 8, Height: 8, Format: videofx.FormatRGBA, Method: Orientation(8)}},
		{"negative crop", Config{Width: 8, Height: 8, Format: videofx.FormatRGBA, Crop: Crop{Left: -1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewEngine(tc.cfg); err == nil {
				t.Fatal("expected configuration error")
			}
		})
	}
}

func TestProcessRejectsMismatchedFrames(t *testing.T) {
	e, err := NewEngine(Config{Width: 8, Height: 8, Format: videofx.FormatRGBA})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Cleanup()

	small, err := videofx.NewFrame(4, 4, videofx.FormatRGBA)
	if err != nil {
		t.Fatal(err)
	}
	out, err := videofx.NewFrame(8, 8, videofx.FormatRGBA)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Process(small, out); err == nil {
		t.Fatal("expected input geometry error")
	}

	good, err := videofx.NewFrame(8, 8, videofx.FormatRGBA)
	if err != nil {
		t.Fatal(err)
	}
	badOut, err := videofx.NewFrame(4, 4, videofx.FormatRGBA)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Process(good, badOut); err == nil {
		t.Fatal("expected output geometry error")
	}
}
