package parts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"mp-assembler/internal/geom"
	"mp-assembler/internal/gizmo"
	"mp-assembler/internal/pick"
	"mp-assembler/internal/world"
)

func TestSpawnBuildsPartWithGizmo(t *testing.T) {
	w := world.New()
	s := NewSpawner(DefaultCatalog())
	at := geom.FromTranslation(mgl32.Vec3{5, 0, 0})
	root, err := s.Spawn(w, Spec{Kind: world.KindScrew, Size: "m3", Length: 12}, at)
	if err != nil {
		t.Fatal(err)
	}
	rec, err := w.Get(root)
	if err != nil {
		t.Fatal(err)
	}
	if !rec.Selectable || rec.Kind != world.KindScrew {
		t.Errorf("root = %+v", rec)
	}
	if rec.Part.Spec != "M3" || rec.Part.Length != 12 {
		t.Errorf("part = %+v", rec.Part)
	}

	kinds := map[world.Kind]int{}
	handles := map[gizmo.TranslateHandle]bool{}
	for _, c := range w.Children(root) {
		r, _ := w.Get(c)
		kinds[r.Kind]++
		if r.Kind == world.KindHandle {
			handles[r.Handle] = r.HasHandle
			g, _ := w.GlobalTransform(c)
			want := at.Translation.Add(r.Handle.Axis().Mul(gizmo.HandleRadius))
			if !g.Translation.ApproxEqual(want) {
				t.Errorf("handle %v at %v, want %v", r.Handle, g.Translation, want)
			}
			if r.Visible {
				t.Errorf("handle %v visible before selection", r.Handle)
			}
		}
		if r.Kind == world.KindArm && r.Transform.Translation.Len() != gizmo.ArmOffset {
			t.Errorf("arm at %v", r.Transform.Translation)
		}
	}
	if kinds[world.KindMesh] != 1 || kinds[world.KindHandle] != 3 || kinds[world.KindArm] != 3 {
		t.Errorf("children = %v", kinds)
	}
	if len(handles) != 3 || !handles[gizmo.X] || !handles[gizmo.Y] || !handles[gizmo.Z] {
		t.Errorf("handles = %v", handles)
	}
}

func TestSpawnedBodyIsPickable(t *testing.T) {
	w := world.New()
	s := NewSpawner(DefaultCatalog())
	root, err := s.Spawn(w, Spec{Kind: world.KindNut}, geom.FromTranslation(mgl32.Vec3{0, 0, 0}))
	if err != nil {
		t.Fatal(err)
	}
	hit, ok := pick.Resolve(w, geom.Ray{Origin: mgl32.Vec3{0, 0, 50}, Direction: mgl32.Vec3{0, 0, -1}})
	if !ok || hit.Parent != root || hit.HasHandle {
		t.Errorf("hit = %+v, %v", hit, ok)
	}
}

func TestSpawnM5Scales(t *testing.T) {
	w := world.New()
	s := NewSpawner(DefaultCatalog())
	root, err := s.Spawn(w, Spec{Kind: world.KindWasher, Size: "M5"}, geom.Identity())
	if err != nil {
		t.Fatal(err)
	}
	tr, _ := w.Transform(root)
	if tr.Scale[2] != 1 || !mgl32.FloatEqual(tr.Scale[0], 5.0/3.0) {
		t.Errorf("scale = %v", tr.Scale)
	}
}

func TestNormalizeRejects(t *testing.T) {
	s := NewSpawner(DefaultCatalog())
	bad := []Spec{
		{Kind: world.KindScrew, Size: "M8"},
		{Kind: world.KindScrew, Length: 2},
		{Kind: world.KindScrew, Length: 61},
		{Kind: world.KindPanel},
		{Kind: world.KindHandle},
		{Kind: world.KindNut, Color: "green"},
	}
	for _, spec := range bad {
		if _, err := s.Normalize(spec); err == nil {
			t.Errorf("Normalize(%+v) succeeded", spec)
		}
	}
	got, err := s.Normalize(Spec{Kind: world.KindScrew})
	if err != nil {
		t.Fatal(err)
	}
	if got.Size != "M3" || got.Length != 8 || got.Color == "" {
		t.Errorf("defaults = %+v", got)
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]world.Kind{"screw": world.KindScrew, "Washer": world.KindWasher, "nut": world.KindNut, "pcb": world.KindPanel} {
		if got, err := ParseKind(in); err != nil || got != want {
			t.Errorf("ParseKind(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseKind("bolt"); err == nil {
		t.Error("expected error")
	}
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	c, err := LoadCatalog(filepath.Join(dir, "none.yaml"))
	if err != nil || c.MaxLength != 60 {
		t.Fatalf("missing = %+v, %v", c, err)
	}

	path := filepath.Join(dir, "parts.yaml")
	data := "sizes: [M3]\nmax_length: 30\npanel:\n  width: 100\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	c, err = LoadCatalog(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.MaxLength != 30 || c.MinLength != 6 || c.HasSize("M5") || !c.HasSize("m3") {
		t.Errorf("catalog = %+v", c)
	}
	if c.Panel.Width != 100 || c.Panel.Height != 30 {
		t.Errorf("panel = %+v", c.Panel)
	}

	if err := os.WriteFile(path, []byte("min_length: 50\nmax_length: 10\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCatalog(path); err == nil {
		t.Error("expected validation error")
	}
}
