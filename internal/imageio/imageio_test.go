package imageio

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestDecodePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(3, 2, color.NRGBA{R: 10, G: 20, B: 30, A: 255})); err != nil {
		t.Fatal(err)
	}
	img, err := Decode(buf.Bytes(), ".png")
	if err != nil {
		t.Fatal(err)
	}
	if img.Rect.Dx() != 3 || img.Rect.Dy() != 2 {
		t.Fatalf("bounds = %v", img.Rect)
	}
	if img.Pix[0] != 10 || img.Pix[1] != 20 || img.Pix[2] != 30 {
		t.Fatalf("pixel = %v", img.Pix[:4])
	}
}

func TestDecodeBMP(t *testing.T) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, solid(2, 2, color.NRGBA{B: 200, A: 255})); err != nil {
		t.Fatal(err)
	}
	img, err := Decode(buf.Bytes(), ".bmp")
	if err != nil {
		t.Fatal(err)
	}
	if img.Pix[2] != 200 {
		t.Fatalf("pixel = %v", img.Pix[:4])
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("not an image"), ".png"); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := Decode([]byte("RIFFxxxxWEBPgarbage"), ""); err == nil {
		t.Fatal("expected webp decode error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatal("expected read error")
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.png")
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(4, 4, color.NRGBA{G: 77, A: 255})); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	img, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if img.Pix[1] != 77 {
		t.Fatalf("pixel = %v", img.Pix[:4])
	}
}
