package ui

import "fmt"

// DefaultCSS styles the inspector when no stylesheet file is found. Rows take
// the panel's font and colour unless their own class overrides them.
const DefaultCSS = `
.inspector { background: #1e1e1e; border: #505050; color: #c8c8c8; width: 320px; left: 100%; top: 12px; padding: 8px; font-size: 20px; line-gap: 6px; }
.inspector-title { color: #ffffff; }
.inspector-axis { color: #ffd54f; }
.inspector-hint { color: #808080; font-size: 16px; }
`

const (
	rowTitle = iota
	rowName
	rowSpec
	rowPosition
	rowRotation
	rowScale
	rowAxis
	rowHint
	rowCount
)

var rowClasses = [rowCount]string{
	"inspector-title",
	"inspector-name",
	"inspector-spec",
	"inspector-position",
	"inspector-rotation",
	"inspector-scale",
	"inspector-axis",
	"inspector-hint",
}

// Box is one rectangle to draw. Label is drawn at the top-left corner.
type Box struct {
	X, Y, W, H float32
	Background Color
	Border     Color
	Text       Color
	Label      string
	FontSize   float32
}

// Selection holds the data shown in the inspector.
// Pass this from the editor layer; ui does not depend on the world.
type Selection struct {
	Name     string
	Kind     string
	Spec     string
	Length   float32
	Position [3]float32
	// Rotation is Euler angles in degrees.
	Rotation [3]float32
	Scale    [3]float32
	// Axis is the locked axis ("x", "y", "z") or empty.
	Axis     string
	Dragging string
}

// Inspector is the right-side panel for the selected part: a fixed stack of
// rows under a title.
type Inspector struct {
	panel Style
	rows  [rowCount]Style
}

// NewInspector styles the panel from sheet, or from DefaultCSS when sheet is nil.
func NewInspector(sheet *Stylesheet) *Inspector {
	in := &Inspector{}
	if sheet == nil {
		sheet, _ = ParseStylesheet(DefaultCSS)
	}
	in.SetStylesheet(sheet)
	return in
}

// SetStylesheet restyles the panel.
func (in *Inspector) SetStylesheet(sheet *Stylesheet) {
	in.panel = sheet.Style("inspector")
	for i, class := range rowClasses {
		in.rows[i] = sheet.Style("inspector", class)
	}
}

// Lines returns the row texts for sel, title first.
func (in *Inspector) Lines(sel Selection) [rowCount]string {
	var l [rowCount]string
	l[rowTitle] = "Inspector"
	l[rowName] = "Name: " + sel.Name
	switch {
	case sel.Length > 0:
		l[rowSpec] = fmt.Sprintf("%s: %s, %gmm", sel.Kind, sel.Spec, sel.Length)
	case sel.Spec != "":
		l[rowSpec] = fmt.Sprintf("%s: %s", sel.Kind, sel.Spec)
	default:
		l[rowSpec] = sel.Kind
	}
	l[rowPosition] = fmt.Sprintf("Position: %.2f, %.2f, %.2f", sel.Position[0], sel.Position[1], sel.Position[2])
	l[rowRotation] = fmt.Sprintf("Rotation: %.1f, %.1f, %.1f", sel.Rotation[0], sel.Rotation[1], sel.Rotation[2])
	l[rowScale] = fmt.Sprintf("Scale: %.2f, %.2f, %.2f", sel.Scale[0], sel.Scale[1], sel.Scale[2])
	if sel.Axis != "" {
		l[rowAxis] = fmt.Sprintf("Axis: %s (%s)", sel.Axis, sel.Dragging)
		l[rowHint] = "R edit value, Esc release"
	} else {
		l[rowAxis] = "Axis: none"
		l[rowHint] = "F1-F3 lock axis, Del delete"
	}
	return l
}

// Layout appends the panel box followed by one box per row, sized for a
// screen of w by h pixels.
func (in *Inspector) Layout(dst []Box, sel Selection, w, h float32) []Box {
	p := in.panel
	height := 2 * p.Padding
	for i, r := range in.rows {
		if i > 0 {
			height += p.LineGap
		}
		height += r.FontSize
	}
	x := p.Left.Resolve(w, p.Width)
	y := p.Top.Resolve(h, height)
	dst = append(dst, Box{X: x, Y: y, W: p.Width, H: height, Background: p.Background, Border: p.Border})

	rowY := y + p.Padding
	for i, text := range in.Lines(sel) {
		r := in.rows[i]
		dst = append(dst, Box{
			X:        x + p.Padding,
			Y:        rowY,
			W:        p.Width - 2*p.Padding,
			H:        r.FontSize,
			Text:     r.Text,
			Label:    text,
			FontSize: r.FontSize,
		})
		rowY += r.FontSize + p.LineGap
	}
	return dst
}
