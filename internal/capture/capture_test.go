package capture

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/image/webp"
)

func checker(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, color.RGBA{R: 255, A: 255})
			} else {
				img.Set(x, y, color.RGBA{B: 255, A: 255})
			}
		}
	}
	return img
}

func TestScale(t *testing.T) {
	src := checker(40, 20)
	tests := []struct {
		factor float64
		w, h   int
	}{
		{1, 40, 20},
		{0, 40, 20},
		{0.5, 20, 10},
		{2, 80, 40},
		{0.001, 1, 1},
	}
	for _, tt := range tests {
		got := Scale(src, tt.factor).Bounds()
		if got.Dx() != tt.w || got.Dy() != tt.h {
			t.Errorf("Scale(%v) = %v, want %dx%d", tt.factor, got, tt.w, tt.h)
		}
	}
}

func TestScaleCopies(t *testing.T) {
	src := checker(4, 4)
	dst := Scale(src, 1)
	src.Set(0, 0, color.RGBA{G: 255, A: 255})
	if dst.RGBAAt(0, 0) != (color.RGBA{R: 255, A: 255}) {
		t.Error("scaled image shares pixels with the source")
	}
}

func TestEncodeDecodes(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, checker(32, 16), 0.5); err != nil {
		t.Fatal(err)
	}
	cfg, err := webp.DecodeConfig(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 16 || cfg.Height != 8 {
		t.Errorf("decoded %dx%d, want 16x8", cfg.Width, cfg.Height)
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shots", "a.webp")
	if err := Save(path, checker(8, 8), 1); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 12 || string(data[:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
		t.Errorf("not a webp file: % x", data[:min(12, len(data))])
	}
}

func TestDefaultPath(t *testing.T) {
	p := DefaultPath(time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC))
	if filepath.Dir(p) != Dir || !strings.HasSuffix(p, "assembler-20260304-050607.webp") {
		t.Errorf("DefaultPath = %q", p)
	}
}
