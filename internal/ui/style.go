// Package ui lays out the editor's overlay panels from a small class-only
// stylesheet. It produces plain boxes; the render package draws them.
package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is 8-bit RGBA. The zero Color is not drawn.
type Color struct {
	R, G, B, A uint8
}

// ParseColor accepts #rgb, #rrggbb and "none".
func ParseColor(s string) (Color, bool) {
	s = strings.TrimSpace(s)
	if s == "none" || s == "transparent" {
		return Color{}, true
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, false
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b, A: 255}, true
}

// Length is a pixel offset, or a percentage of the space left beside a box.
type Length struct {
	Value   float32
	Percent bool
}

// ParseLength accepts "12", "12px" and "50%".
func ParseLength(s string) (Length, bool) {
	s = strings.TrimSpace(s)
	pct := strings.HasSuffix(s, "%")
	num := strings.TrimSuffix(strings.TrimSuffix(s, "%"), "px")
	v, err := strconv.ParseFloat(strings.TrimSpace(num), 32)
	if err != nil || (pct && (v < 0 || v > 100)) {
		return Length{}, false
	}
	return Length{Value: float32(v), Percent: pct}, true
}

// Resolve places a box of the given size within space. 100% is flush with the
// far edge.
func (l Length) Resolve(space, size float32) float32 {
	if l.Percent {
		return (space - size) * l.Value / 100
	}
	return l.Value
}

// Style is the merged look of one or more classes.
type Style struct {
	Background Color
	Border     Color
	Text       Color
	Width      float32
	Left       Length
	Top        Length
	Padding    float32
	FontSize   float32
	// LineGap is the space between stacked rows.
	LineGap float32
}

func defaultStyle() Style {
	return Style{
		Text:     Color{R: 255, G: 255, B: 255, A: 255},
		Padding:  8,
		FontSize: 20,
		LineGap:  6,
	}
}

// set applies one declaration. Unknown properties are ignored.
func (s *Style) set(prop, value string) error {
	switch prop {
	case "background", "border", "color":
		c, ok := ParseColor(value)
		if !ok {
			return fmt.Errorf("%s: bad colour %q", prop, value)
		}
		switch prop {
		case "background":
			s.Background = c
		case "border":
			s.Border = c
		default:
			s.Text = c
		}
	case "left", "top":
		l, ok := ParseLength(value)
		if !ok {
			return fmt.Errorf("%s: bad length %q", prop, value)
		}
		if prop == "left" {
			s.Left = l
		} else {
			s.Top = l
		}
	case "width", "padding", "font-size", "line-gap":
		l, ok := ParseLength(value)
		if !ok || l.Percent || l.Value < 0 {
			return fmt.Errorf("%s: bad size %q", prop, value)
		}
		switch prop {
		case "width":
			s.Width = l.Value
		case "padding":
			s.Padding = l.Value
		case "font-size":
			s.FontSize = l.Value
		default:
			s.LineGap = l.Value
		}
	}
	return nil
}
