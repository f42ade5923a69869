package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"#1e1e1e", Color{30, 30, 30, 255}, true},
		{" #FFD54F ", Color{255, 213, 79, 255}, true},
		{"#fff", Color{255, 255, 255, 255}, true},
		{"none", Color{}, true},
		{"#gg0000", Color{}, false},
		{"#12345z", Color{}, false},
		{"#1234", Color{}, false},
		{"red", Color{}, false},
		{"", Color{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseColor(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseColor(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		in   string
		want Length
		ok   bool
	}{
		{"12", Length{Value: 12}, true},
		{"12px", Length{Value: 12}, true},
		{" 2.5px ", Length{Value: 2.5}, true},
		{"100%", Length{Value: 100, Percent: true}, true},
		{"101%", Length{}, false},
		{"px", Length{}, false},
		{"wide", Length{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseLength(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseLength(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLengthResolve(t *testing.T) {
	if got := (Length{Value: 100, Percent: true}).Resolve(1280, 320); got != 960 {
		t.Errorf("100%% = %v", got)
	}
	if got := (Length{Value: 50, Percent: true}).Resolve(800, 200); got != 300 {
		t.Errorf("50%% = %v", got)
	}
	if got := (Length{Value: 12}).Resolve(800, 200); got != 12 {
		t.Errorf("12px = %v", got)
	}
}

func TestParseStylesheet(t *testing.T) {
	sheet, err := ParseStylesheet(`
/* panel */
.box { color: #ff0000; width: 100px }
.box { color: #00ff00; /* later wins */ }
.wide { width: 300px; unknown: 1; }
`)
	if err != nil {
		t.Fatal(err)
	}
	st := sheet.Style("box")
	if st.Text != (Color{0, 255, 0, 255}) || st.Width != 100 {
		t.Errorf("box = %+v", st)
	}
	if st := sheet.Style("box", "wide"); st.Width != 300 || st.Text.G != 255 {
		t.Errorf("box wide = %+v", st)
	}
	if st := sheet.Style("missing"); st != defaultStyle() {
		t.Errorf("missing class = %+v", st)
	}
}

func TestParseStylesheetErrors(t *testing.T) {
	bad := []string{
		`#id { color: #fff; }`,
		`.a .b { color: #fff; }`,
		`.a { color: #fff;`,
		`.a { color #fff; }`,
		`.a { color: #gg0000; }`,
		`.a { width: 50%; }`,
		`color: #fff;`,
	}
	for _, src := range bad {
		if _, err := ParseStylesheet(src); err == nil {
			t.Errorf("ParseStylesheet(%q) accepted", src)
		}
	}
}

func TestLoadStylesheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editor.css")
	if err := os.WriteFile(path, []byte(".inspector { width: 200px; }"), 0o644); err != nil {
		t.Fatal(err)
	}
	sheet, err := LoadStylesheet(path)
	if err != nil {
		t.Fatal(err)
	}
	if w := sheet.Style("inspector").Width; w != 200 {
		t.Errorf("width = %v", w)
	}
	if _, err := LoadStylesheet(filepath.Join(t.TempDir(), "none.css")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestDefaultCSSParses(t *testing.T) {
	if _, err := ParseStylesheet(DefaultCSS); err != nil {
		t.Fatal(err)
	}
}

func TestInspectorLayout(t *testing.T) {
	in := NewInspector(nil)
	sel := Selection{Name: "screw-1", Kind: "screw", Spec: "M3", Length: 12, Axis: "y", Dragging: "hotkey"}
	boxes := in.Layout(nil, sel, 1280, 800)
	if len(boxes) != 1+rowCount {
		t.Fatalf("boxes = %d", len(boxes))
	}
	panel := boxes[0]
	if panel.X != 960 || panel.Y != 12 || panel.W != 320 {
		t.Errorf("panel at %v,%v width %v", panel.X, panel.Y, panel.W)
	}
	if panel.Background.A == 0 || panel.Border.A == 0 {
		t.Error("panel has no background or border")
	}
	last := boxes[len(boxes)-1]
	if bottom := last.Y + last.H + 8; bottom != panel.Y+panel.H {
		t.Errorf("rows end at %v, panel ends at %v", bottom, panel.Y+panel.H)
	}
	for i := 2; i < len(boxes); i++ {
		if boxes[i].Y <= boxes[i-1].Y || boxes[i].X != panel.X+8 {
			t.Errorf("row %d at %v,%v", i, boxes[i].X, boxes[i].Y)
		}
	}

	want := map[int]string{
		rowTitle: "Inspector",
		rowName:  "Name: screw-1",
		rowSpec:  "screw: M3, 12mm",
		rowAxis:  "Axis: y (hotkey)",
		rowHint:  "R edit value, Esc release",
	}
	for row, text := range want {
		if got := boxes[1+row].Label; got != text {
			t.Errorf("row %d = %q, want %q", row, got, text)
		}
	}
	if boxes[1+rowAxis].Text != (Color{255, 213, 79, 255}) {
		t.Errorf("axis colour = %v", boxes[1+rowAxis].Text)
	}
	if boxes[1+rowName].Text != (Color{200, 200, 200, 255}) {
		t.Errorf("name colour = %v", boxes[1+rowName].Text)
	}
}

func TestInspectorLines(t *testing.T) {
	in := NewInspector(nil)
	tests := []struct {
		sel        Selection
		spec, axis string
	}{
		{Selection{Kind: "panel", Spec: "R(50,30)"}, "panel: R(50,30)", "Axis: none"},
		{Selection{Kind: "washer"}, "washer", "Axis: none"},
		{Selection{Kind: "nut", Spec: "M5", Axis: "x", Dragging: "none"}, "nut: M5", "Axis: x (none)"},
	}
	for _, tt := range tests {
		l := in.Lines(tt.sel)
		if l[rowSpec] != tt.spec || l[rowAxis] != tt.axis {
			t.Errorf("%+v: spec %q axis %q", tt.sel, l[rowSpec], l[rowAxis])
		}
	}
	l := in.Lines(Selection{Position: [3]float32{1, 2.5, -3}})
	if !strings.HasPrefix(l[rowPosition], "Position: 1.00, 2.50, -3.00") {
		t.Errorf("position = %q", l[rowPosition])
	}
}

func TestInspectorCustomStylesheet(t *testing.T) {
	sheet, err := ParseStylesheet(`.inspector { width: 200px; left: 0; top: 100%; padding: 4px; font-size: 10px; line-gap: 2px; }
.inspector-axis { color: #00ff00; }`)
	if err != nil {
		t.Fatal(err)
	}
	in := NewInspector(sheet)
	boxes := in.Layout(nil, Selection{}, 1000, 500)
	panel := boxes[0]
	wantH := float32(2*4 + rowCount*10 + (rowCount-1)*2)
	if panel.X != 0 || panel.H != wantH || panel.Y != 500-wantH {
		t.Errorf("panel = %+v", panel)
	}
	if panel.Background.A != 0 {
		t.Error("background set without a rule")
	}
	if boxes[1+rowAxis].Text != (Color{0, 255, 0, 255}) {
		t.Errorf("axis colour = %v", boxes[1+rowAxis].Text)
	}
}
