// Command videofxdemo runs a synthetic frame through the videofx engine
// chain and writes the result as a PNG.
package main

import (
	"flag"
	"image"
	"image/png"
	"log"
	"os"

	videofx "github.com/gogpu/videofx"
	"github.com/gogpu/videofx/device"
	"github.com/gogpu/videofx/effects"
	"github.com/gogpu/videofx/transform"
)

func main() {
	var (
		width    = flag.Int("width", 640, "frame width")
		height   = flag.Int("height", 480, "frame height")
		preset   = flag.String("preset", "", "effects preset TOML file")
		lut      = flag.String("lut", "", "lookup table (.cube or image grid)")
		orient   = flag.Int("orient", 0, "orientation method 0-7")
		sepia    = flag.Float64("sepia", 0, "sepia amount 0-1")
		vignette = flag.Float64("vignette", 0, "vignette amount 0-1")
		output   = flag.String("output", "demo.png", "output file")
	)
	flag.Parse()

	ctx := device.Get()
	if ctx.Accelerated() {
		log.Printf("GPU adapter: %s", ctx.AdapterName())
	} else {
		log.Printf("no GPU adapter, running CPU kernels")
	}

	frame, err := testFrame(*width, *height)
	if err != nil {
		log.Fatalf("build frame: %v", err)
	}

	graded, err := grade(frame, *preset, *lut, float32(*sepia), float32(*vignette))
	if err != nil {
		log.Fatalf("effects: %v", err)
	}

	final, err := reorient(graded, transform.Orientation(*orient))
	if err != nil {
		log.Fatalf("transform: %v", err)
	}

	if err := savePNG(final, *output); err != nil {
		log.Fatalf("save: %v", err)
	}
	log.Printf("wrote %s (%dx%d)", *output, final.Width, final.Height)
}

// testFrame builds a gradient with color bars in the lower third.
func testFrame(w, h int) (*videofx.Frame, error) {
	f, err := videofx.NewFrame(w, h, videofx.FormatRGBA)
	if err != nil {
		return nil, err
	}
	bars := [][3]byte{
		{255, 255, 255}, {255, 255, 0}, {0, 255, 255}, {0, 255, 0},
		{255, 0, 255}, {255, 0, 0}, {0, 0, 255}, {0, 0, 0},
	}
	for y := 0; y < h; y++ {
		row := f.PlaneRow(0, y)
		for x := 0; x < w; x++ {
			var r, g, b byte
			if y >= h*2/3 {
				bar := bars[x*len(bars)/w]
				r, g, b = bar[0], bar[1], bar[2]
			} else {
				r = byte(x * 255 / w)
				g = byte(y * 255 / h)
				b = byte(255 - x*255/w)
			}
			row[x*4+0] = r
			row[x*4+1] = g
			row[x*4+2] = b
			row[x*4+3] = 255
		}
	}
	return f, nil
}

func grade(f *videofx.Frame, presetPath, lutPath string, sepia, vignette float32) (*videofx.Frame, error) {
	eng, err := effects.NewEngine(effects.Config{
		Width: f.Width, Height: f.Height, Format: f.Format,
	})
	if err != nil {
		return nil, err
	}
	defer eng.Cleanup()

	if presetPath != "" {
		p, err := effects.LoadPreset(presetPath)
		if err != nil {
			return nil, err
		}
		if err := eng.ApplyPreset(p); err != nil {
			return nil, err
		}
	} else {
		params := effects.Defaults()
		params.Sepia = sepia
		params.Vignette = vignette
		if err := eng.SetParams(params); err != nil {
			return nil, err
		}
	}
	if lutPath != "" {
		if err := eng.SetLUT(lutPath); err != nil {
			return nil, err
		}
	}

	out, err := videofx.NewFrame(f.Width, f.Height, f.Format)
	if err != nil {
		return nil, err
	}
	if err := eng.Process(f, out); err != nil {
		return nil, err
	}
	return out, nil
}

func reorient(f *videofx.Frame, method transform.Orientation) (*videofx.Frame, error) {
	if method == transform.OrientIdentity {
		return f, nil
	}
	eng, err := transform.NewEngine(transform.Config{
		Width: f.Width, Height: f.Height, Format: f.Format,
		Method: method,
	})
	if err != nil {
		return nil, err
	}
	defer eng.Cleanup()

	w, h := eng.OutputSize()
	out, err := videofx.NewFrame(w, h, f.Format)
	if err != nil {
		return nil, err
	}
	if err := eng.Process(f, out); err != nil {
		return nil, err
	}
	return out, nil
}

func savePNG(f *videofx.Frame, path string) error {
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		copy(img.Pix[y*img.Stride:], f.PlaneRow(0, y)[:f.Width*4])
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return png.Encode(out, img)
}
