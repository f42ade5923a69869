// Package capture writes editor screenshots as lossless WebP, optionally scaled.
package capture

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

// Dir is where screenshots go when no path is given.
const Dir = "screenshots"

// DefaultPath names a screenshot after t.
func DefaultPath(t time.Time) string {
	return filepath.Join(Dir, "assembler-"+t.Format("20060102-150405")+".webp")
}

// Scale returns a copy of img resized by factor. factor <= 0 is treated as 1.
// The result never shares pixels with img.
func Scale(img image.Image, factor float64) *image.RGBA {
	if factor <= 0 {
		factor = 1
	}
	b := img.Bounds()
	w := max(1, int(float64(b.Dx())*factor+0.5))
	h := max(1, int(float64(b.Dy())*factor+0.5))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Copy(dst, image.Point{}, img, b, draw.Src, nil)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Encode scales img by factor and writes it to w as WebP.
func Encode(w io.Writer, img image.Image, factor float64) error {
	if err := nativewebp.Encode(w, Scale(img, factor), nil); err != nil {
		return fmt.Errorf("webp encode: %w", err)
	}
	return nil
}

// Save writes img to path as WebP, creating its directory.
func Save(path string, img image.Image, factor float64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("save screenshot: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save screenshot: %w", err)
	}
	if err := Encode(f, img, factor); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
