package commands

import (
	"errors"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"mp-assembler/internal/editor"
	"mp-assembler/internal/engineconfig"
	"mp-assembler/internal/input"
	"mp-assembler/internal/logger"
	"mp-assembler/internal/parts"
	"mp-assembler/internal/pick"
	"mp-assembler/internal/world"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		args []string
		ok   bool
	}{
		{"cmd grid -show=false", []string{"grid", "-show=false"}, true},
		{"cmd   ", nil, true},
		{"hello", nil, false},
		{"CMD grid", nil, false},
	}
	for _, tt := range tests {
		args, ok := Parse(tt.line)
		if ok != tt.ok || strings.Join(args, "|") != strings.Join(tt.args, "|") {
			t.Errorf("Parse(%q) = %q, %v", tt.line, args, ok)
		}
	}
}

func TestExecuteResetsFlags(t *testing.T) {
	r := NewRegistry()
	fs := newFlagSet("n")
	n := fs.Int("n", 1, "")
	var seen []int
	r.Register("n", fs, func() error { seen = append(seen, *n); return nil })

	for _, args := range [][]string{{"n", "-n", "5"}, {"n"}} {
		if err := r.Execute(args); err != nil {
			t.Fatal(err)
		}
	}
	if seen[0] != 5 || seen[1] != 1 {
		t.Errorf("seen = %v, want [5 1]", seen)
	}
	if err := r.Execute(nil); err == nil {
		t.Error("missing subcommand accepted")
	}
	if err := r.Execute([]string{"nope"}); err == nil {
		t.Error("unknown subcommand accepted")
	}
	if err := r.Execute([]string{"n", "-bogus"}); err == nil {
		t.Error("unknown flag accepted")
	}
}

type stubPicker struct{ hit pick.Hit }

func (p *stubPicker) Pick(mgl32.Vec2) (pick.Hit, bool) {
	return p.hit, !p.hit.Parent.IsZero()
}

type fixture struct {
	reg       *Registry
	eng       *editor.Engine
	picker    *stubPicker
	log       *logger.Logger
	grid      bool
	font      string
	prefs     engineconfig.EnginePrefs
	prefsPath string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{eng: editor.New(world.New()), picker: &stubPicker{}, log: logger.New(""), grid: true}
	f.eng.Picker = f.picker
	f.prefs = engineconfig.Default()
	f.prefsPath = filepath.Join(t.TempDir(), "config", "editor.json")
	f.reg = NewEditorRegistry(Deps{
		Engine:    f.eng,
		Spawner:   parts.NewSpawner(parts.DefaultCatalog()),
		Log:       f.log,
		ScenePath: filepath.Join(t.TempDir(), "scene.json"),
		SetGrid:   func(b bool) { f.grid = b },
		SetFont: func(name string) error {
			if name != "Inter" {
				return errors.New("font not found")
			}
			f.font = name
			return nil
		},
		Screenshot: func() (image.Image, error) {
			return image.NewRGBA(image.Rect(0, 0, 64, 32)), nil
		},
		Prefs:     &f.prefs,
		PrefsPath: f.prefsPath,
	})
	return f
}

func (f *fixture) run(t *testing.T, line string) error {
	t.Helper()
	args, ok := Parse(line)
	if !ok {
		t.Fatalf("not a command: %q", line)
	}
	return f.reg.Execute(args)
}

func (f *fixture) parts() []world.Entity {
	var out []world.Entity
	f.eng.World.Each(func(e world.Entity, r world.Record) {
		if r.Kind.IsPart() {
			out = append(out, e)
		}
	})
	return out
}

func (f *fixture) selectPart(e world.Entity) {
	f.picker.hit = pick.Hit{Parent: e}
	f.eng.Step(input.Frame{Buttons: []input.ButtonEvent{{Button: input.ButtonLeft, Action: input.Press}}}, 0)
}

func TestSpawn(t *testing.T) {
	f := newFixture(t)
	if err := f.run(t, "cmd spawn -kind screw -size M5 -length 20 -x 3"); err != nil {
		t.Fatal(err)
	}
	ps := f.parts()
	if len(ps) != 1 {
		t.Fatalf("parts = %d", len(ps))
	}
	rec, _ := f.eng.World.Get(ps[0])
	if rec.Kind != world.KindScrew || rec.Part.Length != 20 || rec.Transform.Translation.X() != 3 {
		t.Errorf("record = %+v", rec)
	}
	if err := f.run(t, "cmd spawn -kind bolt"); err == nil {
		t.Error("unknown kind accepted")
	}
	if err := f.run(t, "cmd spawn -kind screw -length 500"); err == nil {
		t.Error("out of range length accepted")
	}
}

func TestTranslateNeedsSelection(t *testing.T) {
	f := newFixture(t)
	for _, line := range []string{"cmd translate -axis y -value 2", "cmd rotate -axis z", "cmd delete"} {
		if err := f.run(t, line); !errors.Is(err, ErrNoSelection) {
			t.Errorf("%s: err = %v", line, err)
		}
	}
}

func TestTranslateAndRotateSelected(t *testing.T) {
	f := newFixture(t)
	if err := f.run(t, "cmd spawn"); err != nil {
		t.Fatal(err)
	}
	e := f.parts()[0]
	f.selectPart(e)

	if err := f.run(t, "cmd translate -axis y -value 7.5"); err != nil {
		t.Fatal(err)
	}
	tr, _ := f.eng.World.Transform(e)
	if tr.Translation != (mgl32.Vec3{0, 7.5, 0}) {
		t.Errorf("translation = %v", tr.Translation)
	}

	for i := 0; i < 10; i++ {
		if err := f.run(t, "cmd rotate -axis z -step +"); err != nil {
			t.Fatal(err)
		}
	}
	tr, _ = f.eng.World.Transform(e)
	want := mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{0, 0, 1})
	if !tr.Rotation.OrientationEqualThreshold(want, 1e-4) {
		t.Errorf("rotation = %v, want %v", tr.Rotation, want)
	}

	if err := f.run(t, "cmd rotate -axis z -step negate"); err != nil {
		t.Fatal(err)
	}
	tr, _ = f.eng.World.Transform(e)
	if !tr.Rotation.OrientationEqualThreshold(want.Conjugate(), 1e-4) {
		t.Errorf("negated rotation = %v", tr.Rotation)
	}

	if err := f.run(t, "cmd rotate -step reset"); err != nil {
		t.Fatal(err)
	}
	tr, _ = f.eng.World.Transform(e)
	if tr.Rotation != mgl32.QuatIdent() {
		t.Errorf("reset rotation = %v", tr.Rotation)
	}
	if err := f.run(t, "cmd rotate -step sideways"); err == nil {
		t.Error("unknown step accepted")
	}
}

func TestDeleteQueuesHotkey(t *testing.T) {
	f := newFixture(t)
	_ = f.run(t, "cmd spawn")
	e := f.parts()[0]
	f.selectPart(e)
	if err := f.run(t, "cmd delete"); err != nil {
		t.Fatal(err)
	}
	if !f.eng.World.Alive(e) {
		t.Fatal("delete must wait for the next step")
	}
	rep := f.eng.Step(input.Frame{}, 0)
	if f.eng.World.Alive(e) || len(rep.Deleted) != 1 {
		t.Errorf("entity alive after step, report %+v", rep)
	}
}

func TestLockQueuesAxis(t *testing.T) {
	f := newFixture(t)
	_ = f.run(t, "cmd spawn")
	f.selectPart(f.parts()[0])
	if err := f.run(t, "cmd lock -axis z"); err != nil {
		t.Fatal(err)
	}
	f.eng.Step(input.Frame{}, 0)
	st := f.eng.Status()
	if !st.HasHandle || st.Handle.String() != "z" {
		t.Errorf("status = %+v", st)
	}
	_ = f.run(t, "cmd deselect")
	f.eng.Step(input.Frame{}, 0)
	if f.eng.Status().HasEntity {
		t.Error("deselect did not clear the selection")
	}
}

func TestSaveLoadClear(t *testing.T) {
	f := newFixture(t)
	_ = f.run(t, "cmd spawn -kind screw -x 1")
	_ = f.run(t, "cmd spawn -kind nut -size M5 -z 2")
	if err := f.run(t, "cmd save"); err != nil {
		t.Fatal(err)
	}
	_ = f.run(t, "cmd spawn -kind washer")
	if err := f.run(t, "cmd load"); err != nil {
		t.Fatal(err)
	}
	if n := len(f.parts()); n != 2 {
		t.Errorf("parts after load = %d, want 2", n)
	}
	if err := f.run(t, "cmd clear"); err != nil {
		t.Fatal(err)
	}
	if f.eng.World.Len() != 0 {
		t.Errorf("world not empty: %d entities", f.eng.World.Len())
	}
	if err := f.run(t, "cmd load -path "+filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing scene accepted")
	}
}

func TestGridAndHelp(t *testing.T) {
	f := newFixture(t)
	if err := f.run(t, "cmd grid -show=false"); err != nil || f.grid {
		t.Errorf("grid = %v, err %v", f.grid, err)
	}
	if err := f.run(t, "cmd grid"); err != nil || !f.grid {
		t.Errorf("grid = %v, err %v", f.grid, err)
	}
	if err := f.run(t, "cmd font -name Inter"); err != nil || f.font != "Inter" {
		t.Errorf("font = %q, err %v", f.font, err)
	}
	if err := f.run(t, "cmd font -name Nope"); err == nil {
		t.Error("unknown font accepted")
	}
	if err := f.run(t, "cmd help"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(f.log.Last(), "translate") {
		t.Errorf("help = %q", f.log.Last())
	}
}

func TestGridAndFontPersistPrefs(t *testing.T) {
	f := newFixture(t)
	if err := f.run(t, "cmd grid -show=false"); err != nil {
		t.Fatal(err)
	}
	if err := f.run(t, "cmd font -name Inter"); err != nil {
		t.Fatal(err)
	}
	if err := f.run(t, "cmd font -name Nope"); err == nil {
		t.Error("unknown font accepted")
	}
	got, err := engineconfig.LoadFrom(f.prefsPath)
	if err != nil {
		t.Fatal(err)
	}
	if got.GridVisible || got.Font != "Inter" {
		t.Errorf("saved prefs grid=%v font=%q", got.GridVisible, got.Font)
	}
	if f.prefs.GridVisible || f.prefs.Font != "Inter" {
		t.Errorf("shared prefs grid=%v font=%q", f.prefs.GridVisible, f.prefs.Font)
	}
}

func TestScreenshot(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "shot.webp")
	if err := f.run(t, "cmd screenshot -scale 0.5 -path "+path); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("screenshot file: %v", err)
	}
}

func TestTranslateDuringHotkeyDragRelocks(t *testing.T) {
	f := newFixture(t)
	_ = f.run(t, "cmd spawn")
	e := f.parts()[0]
	f.selectPart(e)
	_ = f.run(t, "cmd lock -axis x")
	f.eng.Step(input.Frame{}, 0)

	if err := f.run(t, "cmd translate -axis x -value 4"); err != nil {
		t.Fatal(err)
	}
	rep := f.eng.Step(input.Frame{}, 0)
	start, ok := rep.Selection.Transform()
	if !ok || start.Translation.X() != 4 {
		t.Errorf("drag start = %v, want x=4", start.Translation)
	}
	if h, ok := rep.Selection.Handle(); !ok || h.String() != "x" {
		t.Errorf("handle = %v, %v", h, ok)
	}
}
