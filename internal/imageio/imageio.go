// Package imageio decodes still images into straight-alpha NRGBA for use
// as overlays and lookup-table grids. PNG and JPEG come from the standard
// decoders, BMP from golang.org/x/image and WebP from the pure-Go
// deepteams decoder.
package imageio

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/deepteams/webp"
	_ "golang.org/x/image/bmp"
)

// Load reads and decodes the image at path. The decoder is chosen by
// content sniffing with the extension as a fallback hint.
func Load(path string) (*image.NRGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", path, err)
	}
	img, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return img, nil
}

// Decode decodes raw image bytes. ext is a lowercase-insensitive hint such
// as ".webp" used when sniffing is inconclusive.
func Decode(data []byte, ext string) (*image.NRGBA, error) {
	if isWebP(data) || strings.EqualFold(ext, ".webp") {
		img, err := webp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("webp: %w", err)
		}
		return toNRGBA(img), nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return toNRGBA(img), nil
}

func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		bytes.Equal(data[0:4], []byte("RIFF")) &&
		bytes.Equal(data[8:12], []byte("WEBP"))
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
