package images

import (
	"bytes"
	"image/png"
	"testing"
)

func TestRasterizeSVG(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50"><rect width="100" height="50"/></svg>`)

	t.Run("intrinsic", func(t *testing.T) {
		img, err := RasterizeSVG(svg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 50 {
			t.Fatalf("unexpected bounds: %v", img.Bounds())
		}
	})

	t.Run("clamped", func(t *testing.T) {
		huge := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100000 50000"><rect width="100000" height="50000"/></svg>`)
		img, err := RasterizeSVG(huge)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if img.Bounds().Dx() != maxRasterDim || img.Bounds().Dy() != maxRasterDim/2 {
			t.Fatalf("unexpected bounds: %v", img.Bounds())
		}
	})

	t.Run("invalid", func(t *testing.T) {
		if _, err := RasterizeSVG([]byte(`not svg`)); err == nil {
			t.Fatal("expected error for invalid markup")
		}
	})
}

func TestRasterizeSVGToPNG(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 40 40"><circle cx="20" cy="20" r="15"/></svg>`)
	data, err := RasterizeSVGToPNG(svg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not PNG: %v", err)
	}
	if cfg.Width != 40 || cfg.Height != 40 {
		t.Fatalf("unexpected size: %dx%d", cfg.Width, cfg.Height)
	}
}
