package overlay

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	videofx "github.com/gogpu/videofx"
)

// writePNG saves a solid-color image and returns its path.
func writePNG(t *testing.T, w, h int, c color.NRGBA) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	path := filepath.Join(t.TempDir(), "overlay.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(Config{Width: 8, Height: 8, Format: videofx.FormatRGBA})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(e.Cleanup)
	return e
}

func grayFrame(t *testing.T, v byte) *videofx.Frame {
	t.Helper()
	f, err := videofx.NewFrame(8, 8, videofx.FormatRGBA)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 8; y++ {
		row := f.PlaneRow(0, y)
		for x := 0; x < 8; x++ {
			row[x*4+0] = v
			row[x*4+1] = v
			row[x*4+2] = v
			row[x*4+3] = 255
		}
	}
	return f
}

func processFrame(t *testing.T, e *Engine, f *videofx.Frame) *videofx.Frame {
	t.Helper()
	out, err := videofx.NewFrame(8, 8, videofx.FormatRGBA)
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

func TestNoImagePassesBytesThrough(t *testing.T) {
	e := newTestEngine(t)
	f := grayFrame(t, 90)
	f.PlaneRow(0, 2)[7] = 13
	if !processFrame(t, e, f).EqualBytes(f) {
		t.Fatal("engine without an image must not change frame bytes")
	}
}

func TestOpaqueOverlayReplacesRect(t *testing.T) {
	e := newTestEngine(t)
	path := writePNG(t, 2, 2, color.NRGBA{R: 255, A: 255})
	if err := e.SetImage(path); err != nil {
		t.Fatal(err)
	}

	out := processFrame(t, e, grayFrame(t, 100))
	// Native 2x2 size at the default top-left position.
	if got := pixelAt(out, 0, 0); got != [4]byte{255, 0, 0, 255} {
		t.Fatalf("inside rect = %v, want red", got)
	}
	if got := pixelAt(out, 1, 1); got != [4]byte{255, 0, 0, 255} {
		t.Fatalf("inside rect = %v, want red", got)
	}
	if got := pixelAt(out, 3, 3); got != [4]byte{100, 100, 100, 255} {
		t.Fatalf("outside rect = %v, want untouched video", got)
	}
}

func TestGlobalAlphaMixes(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetImage(writePNG(t, 2, 2, color.NRGBA{R: 255, A: 255})); err != nil {
		t.Fatal(err)
	}
	p := DefaultPlacement()
	p.Alpha = 0.5
	if err := e.SetPlacement(p); err != nil {
		t.Fatal(err)
	}

	out := processFrame(t, e, grayFrame(t, 100))
	got := pixelAt(out, 0, 0)
	// mix(100, 255, 0.5) per channel, green and blue fall toward 50.
	if got[0] < 176 || got[0] > 179 {
		t.Fatalf("red = %d, want about 178", got[0])
	}
	if got[1] < 49 || got[1] > 51 {
		t.Fatalf("green = %d, want about 50", got[1])
	}
}

func TestExplicitSizeScalesImage(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetImage(writePNG(t, 2, 2, color.NRGBA{B: 255, A: 255})); err != nil {
		t.Fatal(err)
	}
	p := DefaultPlacement()
	p.Width = 8
	p.Height = 8
	if err := e.SetPlacement(p); err != nil {
		t.Fatal(err)
	}

	out := processFrame(t, e, grayFrame(t, 0))
	if got := pixelAt(out, 7, 7); got != [4]byte{0, 0, 255, 255} {
		t.Fatalf("scaled overlay corner = %v, want blue", got)
	}
}

func TestRelativePositionOverridesAbsolute(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetImage(writePNG(t, 2, 2, color.NRGBA{G: 255, A: 255})); err != nil {
		t.Fatal(err)
	}
	p := DefaultPlacement()
	p.X = 1
	p.Y = 1
	p.RelativeX = 0.5
	p.RelativeY = 0.5
	if err := e.SetPlacement(p); err != nil {
		t.Fatal(err)
	}

	out := processFrame(t, e, grayFrame(t, 0))
	if got := pixelAt(out, 4, 4); got != [4]byte{0, 255, 0, 255} {
		t.Fatalf("pixel (4,4) = %v, want overlay at the fractional position", got)
	}
	if got := pixelAt(out, 1, 1); got != [4]byte{0, 0, 0, 255} {
		t.Fatalf("pixel (1,1) = %v, absolute position must be ignored", got)
	}
}

func TestAlphaZeroBypasses(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetImage(writePNG(t, 2, 2, color.NRGBA{R: 255, A: 255})); err != nil {
		t.Fatal(err)
	}
	p := DefaultPlacement()
	p.Alpha = 0
	if err := e.SetPlacement(p); err != nil {
		t.Fatal(err)
	}

	f := grayFrame(t, 40)
	if !processFrame(t, e, f).EqualBytes(f) {
		t.Fatal("alpha 0 must pass frame bytes through")
	}
}

func TestSetImageFailureKeepsPrevious(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetImage(writePNG(t, 2, 2, color.NRGBA{R: 255, A: 255})); err != nil {
		t.Fatal(err)
	}
	prev := e.img

	if err := e.SetImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatal("expected load error")
	}
	if e.img != prev {
		t.Fatal("failed load must keep the previous image")
	}

	e.ClearImage()
	if e.img != nil {
		t.Fatal("ClearImage must drop the image")
	}
}

func TestPlacementValidation(t *testing.T) {
	e := newTestEngine(t)
	cases := []struct {
		name   string
		mutate func(*Placement)
	}{
		{"alpha high", func(p *Placement) { p.Alpha = 1.5 }},
		{"relative high", func(p *Placement) { p.RelativeX = 2 }},
		{"negative size", func(p *Placement) { p.Width = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultPlacement()
			tc.mutate(&p)
			if err := e.SetPlacement(p); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
