package indicator

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"mp-assembler/internal/geom"
	"mp-assembler/internal/gizmo"
	"mp-assembler/internal/selection"
	"mp-assembler/internal/world"
)

func countIndicators(w *world.World) int {
	n := 0
	w.Each(func(_ world.Entity, r world.Record) {
		if r.Kind == world.KindIndicator {
			n++
		}
	})
	return n
}

func setup() (*world.World, world.Entity, geom.Transform) {
	w := world.New()
	t := geom.FromTranslation(mgl32.Vec3{4, 5, 6})
	e := w.Spawn(world.Record{Name: "part", Kind: world.KindPanel, Transform: t, Selectable: true, Visible: true})
	return w, e, t
}

func TestSyncSpawnsForHotkeyLock(t *testing.T) {
	w, e, tr := setup()
	c := New()
	c.Sync(w, selection.AxisFocused(e, gizmo.Y, tr, selection.Hotkey), true)

	ind, ok := c.Entity()
	if !ok {
		t.Fatal("no indicator")
	}
	if n := countIndicators(w); n != 1 {
		t.Fatalf("indicators = %d", n)
	}
	rec, err := w.Get(ind)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Pickable || rec.Selectable {
		t.Error("indicator is pickable or selectable")
	}
	if rec.Transform.Translation != tr.Translation {
		t.Errorf("centered at %v", rec.Transform.Translation)
	}
	size := rec.Bounds.Size()
	if size[1] != 2*gizmo.IndicatorHalfThickness || size[0] != 2*gizmo.IndicatorExtent || size[2] != 2*gizmo.IndicatorExtent {
		t.Errorf("slab size = %v", size)
	}
	green := gizmo.IndicatorTint(gizmo.Y)
	if rec.Tint.R != green.R || rec.Tint.G != green.G || rec.Tint.B != green.B {
		t.Errorf("tint = %+v, want green %+v", rec.Tint, green)
	}
}

func TestSyncKeepsOneIndicator(t *testing.T) {
	w, e, tr := setup()
	c := New()
	sel := selection.AxisFocused(e, gizmo.X, tr, selection.Hotkey)
	c.Sync(w, sel, true)
	first, _ := c.Entity()
	c.Sync(w, sel, false)
	c.Sync(w, sel, false)
	if n := countIndicators(w); n != 1 {
		t.Fatalf("indicators = %d", n)
	}
	if again, _ := c.Entity(); again != first {
		t.Error("indicator rebuilt without a reset")
	}
}

func TestSyncResetRebuildsForNewAxis(t *testing.T) {
	w, e, tr := setup()
	c := New()
	c.Sync(w, selection.AxisFocused(e, gizmo.X, tr, selection.Hotkey), true)
	old, _ := c.Entity()
	c.Sync(w, selection.AxisFocused(e, gizmo.Z, tr, selection.Hotkey), true)
	cur, ok := c.Entity()
	if !ok || cur == old {
		t.Fatal("indicator not rebuilt")
	}
	if w.Alive(old) {
		t.Error("old indicator still alive")
	}
	if n := countIndicators(w); n != 1 {
		t.Errorf("indicators = %d", n)
	}
	rec, _ := w.Get(cur)
	if rec.Bounds.Size()[2] != 2*gizmo.IndicatorHalfThickness {
		t.Errorf("slab not thin along z: %v", rec.Bounds.Size())
	}
}

func TestSyncDespawns(t *testing.T) {
	w, e, tr := setup()
	others := []selection.Selection{
		selection.None(),
		selection.Focused(e, tr),
		selection.AxisFocused(e, gizmo.X, tr, selection.Gizmo),
		selection.AxisFocused(e, gizmo.X, tr, selection.NotDragging),
	}
	for _, sel := range others {
		c := New()
		c.Sync(w, selection.AxisFocused(e, gizmo.X, tr, selection.Hotkey), true)
		c.Sync(w, sel, false)
		if _, ok := c.Entity(); ok {
			t.Errorf("%v: indicator kept", sel)
		}
		if n := countIndicators(w); n != 0 {
			t.Errorf("%v: indicators = %d", sel, n)
		}
	}
}

func TestUpdateFadesIn(t *testing.T) {
	w, e, tr := setup()
	c := New()
	c.Sync(w, selection.AxisFocused(e, gizmo.X, tr, selection.Hotkey), true)
	ind, _ := c.Entity()
	if rec, _ := w.Get(ind); rec.Tint.A != 0 {
		t.Errorf("initial alpha = %d", rec.Tint.A)
	}
	c.Update(w, 0)
	if rec, _ := w.Get(ind); rec.Tint.A != 0 || !rec.Visible {
		t.Errorf("zero-time update: alpha %d visible %v", rec.Tint.A, rec.Visible)
	}
	c.Update(w, FadeSeconds/2)
	mid, _ := w.Get(ind)
	c.Update(w, FadeSeconds)
	end, _ := w.Get(ind)
	want := gizmo.IndicatorTint(gizmo.X).A
	if mid.Tint.A == 0 || mid.Tint.A > want {
		t.Errorf("mid alpha = %d", mid.Tint.A)
	}
	if end.Tint != gizmo.IndicatorTint(gizmo.X) {
		t.Errorf("final tint = %+v, want %+v", end.Tint, gizmo.IndicatorTint(gizmo.X))
	}
	if want == 0 {
		t.Error("full indicator tint is transparent")
	}
}

func TestSyncHandles(t *testing.T) {
	w, e, tr := setup()
	other := w.Spawn(world.Record{Name: "other", Selectable: true, Visible: true})
	h1, _ := w.SpawnChild(e, world.Record{Kind: world.KindHandle, HasHandle: true})
	a1, _ := w.SpawnChild(e, world.Record{Kind: world.KindArm})
	h2, _ := w.SpawnChild(other, world.Record{Kind: world.KindHandle, HasHandle: true})
	mesh, _ := w.SpawnChild(e, world.Record{Kind: world.KindMesh, Visible: true})

	visible := func(x world.Entity) bool {
		r, _ := w.Get(x)
		return r.Visible
	}

	SyncHandles(w, selection.Focused(e, tr))
	if !visible(h1) || !visible(a1) || visible(h2) {
		t.Errorf("focused: h1=%v a1=%v h2=%v", visible(h1), visible(a1), visible(h2))
	}
	if !visible(mesh) {
		t.Error("mesh hidden")
	}

	SyncHandles(w, selection.None())
	if visible(h1) || visible(a1) || visible(h2) {
		t.Error("handles visible with nothing selected")
	}
	if !visible(mesh) {
		t.Error("mesh hidden")
	}
}
