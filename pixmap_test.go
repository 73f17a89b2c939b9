package videofx

import "testing"

func TestPixmapSetGetPixel(t *testing.T) {
	p := NewPixmap(4, 4)
	p.SetPixel(1, 2, 1, 0.5, 0.25, 1)

	r, g, b, a := p.Pixel(1, 2)
	if r != 1 || a != 1 {
		t.Errorf("r=%v a=%v, want 1, 1", r, a)
	}
	// 0.5*255+0.5 rounds to 128.
	if g != 128.0/255 {
		t.Errorf("g = %v, want %v", g, 128.0/255)
	}
	if b != 64.0/255 {
		t.Errorf("b = %v, want %v", b, 64.0/255)
	}
}

func TestPixmapOutOfBounds(t *testing.T) {
	p := NewPixmap(2, 2)
	p.SetPixel(-1, 0, 1, 1, 1, 1)
	p.SetPixel(2, 0, 1, 1, 1, 1)
	for _, v := range p.Data() {
		if v != 0 {
			t.Fatal("out-of-bounds write modified the buffer")
		}
	}
	if r, _, _, a := p.Pixel(5, 5); r != 0 || a != 0 {
		t.Error("out-of-bounds read returned non-zero")
	}
}

func TestPixmapPixelClamped(t *testing.T) {
	p := NewPixmap(2, 2)
	p.SetPixel(0, 0, 1, 0, 0, 1)
	p.SetPixel(1, 1, 0, 1, 0, 1)

	if r, _, _, _ := p.PixelClamped(-3, -3); r != 1 {
		t.Errorf("clamped top-left r = %v, want 1", r)
	}
	if _, g, _, _ := p.PixelClamped(10, 10); g != 1 {
		t.Errorf("clamped bottom-right g = %v, want 1", g)
	}
}

func TestPixmapClear(t *testing.T) {
	p := NewPixmap(3, 3)
	p.Clear(0, 1, 0, 1)
	for x := 0; x < 3; x++ {
		for y := 0; y < 3; y++ {
			if _, g, _, a := p.Pixel(x, y); g != 1 || a != 1 {
				t.Fatalf("pixel (%d,%d) not cleared", x, y)
			}
		}
	}
}

func TestPixmapClone(t *testing.T) {
	p := NewPixmap(2, 2)
	p.SetPixel(0, 0, 1, 1, 1, 1)
	c := p.Clone()
	c.SetPixel(0, 0, 0, 0, 0, 0)
	if r, _, _, _ := p.Pixel(0, 0); r != 1 {
		t.Error("Clone shares backing storage with original")
	}
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		in   float32
		want uint8
	}{
		{-0.5, 0},
		{0, 0},
		{0.5, 128},
		{1, 255},
		{1.5, 255},
	}
	for _, tt := range tests {
		if got := quantize(tt.in); got != tt.want {
			t.Errorf("quantize(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestARGBComponents(t *testing.T) {
	c := ARGB(0x80FF4020)
	if c.A() != 0x80 || c.R() != 0xFF || c.G() != 0x40 || c.B() != 0x20 {
		t.Errorf("components = %d %d %d %d", c.A(), c.R(), c.G(), c.B())
	}
	if RGBA(0xFF, 0x40, 0x20, 0x80) != c {
		t.Error("RGBA round-trip mismatch")
	}
	r, _, _, a := ColorGreen.Floats()
	if r != 0 || a != 1 {
		t.Errorf("ColorGreen floats r=%v a=%v", r, a)
	}
}
