// Package render draws ui boxes with raylib.
package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"mp-assembler/internal/ui"
)

// Renderer draws boxes in order, later boxes on top.
type Renderer struct {
	font rl.Font // zero texture ID = raylib default font
}

// New returns a Renderer using raylib's default font.
func New() *Renderer {
	return &Renderer{}
}

// SetFont sets the label font. The caller owns f.
func (r *Renderer) SetFont(f rl.Font) {
	r.font = f
}

func color(c ui.Color) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

// Draw renders backgrounds, 1px borders and labels. Must be called between
// BeginDrawing and EndDrawing.
func (r *Renderer) Draw(boxes []ui.Box) {
	for _, b := range boxes {
		x, y, w, h := int32(b.X), int32(b.Y), int32(b.W), int32(b.H)
		if b.Background.A > 0 {
			rl.DrawRectangle(x, y, w, h, color(b.Background))
		}
		if b.Border.A > 0 && w > 0 && h > 0 {
			rl.DrawRectangleLines(x, y, w, h, color(b.Border))
		}
		if b.Label == "" || b.Text.A == 0 {
			continue
		}
		if r.font.Texture.ID != 0 {
			rl.DrawTextEx(r.font, b.Label, rl.NewVector2(b.X, b.Y), b.FontSize, 1, color(b.Text))
		} else {
			rl.DrawText(b.Label, x, y, int32(b.FontSize), color(b.Text))
		}
	}
}
