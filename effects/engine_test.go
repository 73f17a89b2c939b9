package effects

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	videofx "github.com/gogpu/videofx"
)

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

func TestNeutralParametersPassThroughBytes(t *testing.T) {
	e := newTestEngine(t)
	f := grayFrame(t, 137)
	f.PlaneRow(0, 3)[5] = 9

	out := processFrame(t, e, f)
	if !out.EqualBytes(f) {
		t.Fatal("neutral processing must not change frame bytes")
	}
}

func TestInvertThroughEngine(t *testing.T) {
	e := newTestEngine(t)
	p := Defaults()
	p.Invert = true
	if err := e.SetParams(p); err != nil {
		t.Fatal(err)
	}

	out := processFrame(t, e, grayFrame(t, 0))
	got := out.PlaneRow(0, 0)[0]
	if got != 255 {
		t.Fatalf("inverted black = %d, want 255", got)
	}
}

func TestBrightnessThroughEngine(t *testing.T) {
	e := newTestEngine(t)
	p := Defaults()
	p.Brightness = 0.5
	if err := e.SetParams(p); err != nil {
		t.Fatal(err)
	}

	out := processFrame(t, e, grayFrame(t, 100))
	got := int(out.PlaneRow(0, 0)[0])
	want := 100 + 128
	if got < want-1 || got > want+1 {
		t.Fatalf("got %d, want about %d", got, want)
	}
}

func TestSetParamsRejectsInvalid(t *testing.T) {
	e := newTestEngine(t)
	p := Defaults()
	p.Gamma = 100
	if err := e.SetParams(p); err == nil {
		t.Fatal("expected validation error")
	}
	if e.Params().Gamma != 1 {
		t.Fatal("rejected parameters must not be installed")
	}
}

func TestLUTDisablesPassthrough(t *testing.T) {
	e := newTestEngine(t)

	// A table that maps everything to red.
	red := "LUT_3D_SIZE 2\n" + strings.Repeat("1 0 0\n", 8)
	path := filepath.Join(t.TempDir(), "red.cube")
	if err := os.WriteFile(path, []byte(red), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := e.SetLUT(path); err != nil {
		t.Fatal(err)
	}

	out := processFrame(t, e, grayFrame(t, 60))
	row := out.PlaneRow(0, 0)
	if row[0] != 255 || row[1] != 0 || row[2] != 0 {
		t.Fatalf("lut output = %v", row[:4])
	}

	e.ClearLUT()
	f := grayFrame(t, 60)
	if !processFrame(t, e, f).EqualBytes(f) {
		t.Fatal("clearing the lut must restore passthrough")
	}
}

func TestSetLUTFailureKeepsPrevious(t *testing.T) {
	e := newTestEngine(t)
	path := filepath.Join(t.TempDir(), "identity.cube")
	if err := os.WriteFile(path, []byte(identityCube), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := e.SetLUT(path); err != nil {
		t.Fatal(err)
	}
	prev := e.lut

	if err := e.SetLUT(filepath.Join(t.TempDir(), "missing.cube")); err == nil {
		t.Fatal("expected load error")
	}
	if e.lut != prev {
		t.Fatal("failed load must keep the previous table")
	}
}

func TestProcessRejectsGeometryMismatch(t *testing.T) {
	e := newTestEngine(t)
	f, err := videofx.NewFrame(4, 4, videofx.FormatRGBA)
	if err != nil {
		t.Fatal(err)
	}
	out, err := videofx.NewFrame(8, 8, videofx.FormatRGBA)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Process(f, out); err == nil {
		t.Fatal("expected geometry error")
	}
}

func TestSharpnessRunsSecondPass(t *testing.T) {
	e := newTestEngine(t)
	p := Defaults()
	p.Sharpness = 1
	if err := e.SetParams(p); err != nil {
		t.Fatal(err)
	}

	// A hard vertical edge gains contrast under the unsharp mask.
	f, err := videofx.NewFrame(8, 8, videofx.FormatRGBA)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 8; y++ {
		row := f.PlaneRow(0, y)
		for x := 0; x < 8; x++ {
			v := byte(60)
			if x >= 4 {
				v = 200
			}
			row[x*4+0] = v
			row[x*4+1] = v
			row[x*4+2] = v
			row[x*4+3] = 255
		}
	}

	out := processFrame(t, e, f)
	darkSide := out.PlaneRow(0, 4)[3*4]
	brightSide := out.PlaneRow(0, 4)[4*4]
	if darkSide >= 60 {
		t.Fatalf("dark edge pixel %d did not darken", darkSide)
	}
	if brightSide <= 200 {
		t.Fatalf("bright edge pixel %d did not brighten", brightSide)
	}
}

func TestNoiseVariesByFrame(t *testing.T) {
	e := newTestEngine(t)
	p := Defaults()
	p.Noise = 1
	if err := e.SetParams(p); err != nil {
		t.Fatal(err)
	}

	f := grayFrame(t, 128)
	first := processFrame(t, e, f)
	second := processFrame(t, e, f)
	if first.EqualBytes(second) {
		t.Fatal("grain should differ between frames")
	}
}
