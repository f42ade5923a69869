// Package indicator keeps the gizmo visuals in step with the selection: the
// translucent axis slab shown during a hotkey axis lock, and the visibility of
// each object's translate handles.
package indicator

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"mp-assembler/internal/geom"
	"mp-assembler/internal/gizmo"
	"mp-assembler/internal/selection"
	"mp-assembler/internal/world"
)

// FadeSeconds is how long a new indicator takes to reach full tint.
const FadeSeconds float32 = 0.15

// Controller owns the single axis indicator entity. Nothing else may despawn
// or edit it.
type Controller struct {
	entity world.Entity
	exists bool
	handle gizmo.TranslateHandle
	fade   *gween.Tween
}

// New returns a Controller with no indicator.
func New() *Controller {
	return &Controller{}
}

// Entity returns the indicator entity while one exists.
func (c *Controller) Entity() (world.Entity, bool) {
	return c.entity, c.exists
}

// Sync spawns or despawns the indicator so it exists exactly when sel is a
// hotkey axis lock. reset drops any existing indicator first so it is rebuilt
// against the latest lock.
func (c *Controller) Sync(w *world.World, sel selection.Selection, reset bool) {
	if c.exists && !w.Alive(c.entity) {
		c.clear()
	}
	if reset {
		c.despawn(w)
	}

	h, locked := sel.Handle()
	want := locked && sel.Dragging() == selection.Hotkey
	switch {
	case want && !c.exists:
		start, _ := sel.Transform()
		c.spawn(w, h, start)
	case !want && c.exists:
		c.despawn(w)
	}
}

func (c *Controller) spawn(w *world.World, h gizmo.TranslateHandle, start geom.Transform) {
	tint := gizmo.IndicatorTint(h)
	tint.A = 0
	c.entity = w.Spawn(world.Record{
		Name:      "axis-indicator",
		Kind:      world.KindIndicator,
		Transform: geom.FromTranslation(start.Translation),
		Bounds:    gizmo.IndicatorSlab(h, geom.Identity()),
		Visible:   true,
		Tint:      tint,
	})
	c.exists = true
	c.handle = h
	c.fade = gween.New(0, gizmo.IndicatorAlpha, FadeSeconds, ease.OutCubic)
}

func (c *Controller) despawn(w *world.World) {
	if !c.exists {
		return
	}
	w.Despawn(c.entity)
	c.clear()
}

func (c *Controller) clear() {
	c.entity = world.Entity{}
	c.exists = false
	c.fade = nil
}

// Update advances the indicator's fade-in by dt seconds.
func (c *Controller) Update(w *world.World, dt float32) {
	if !c.exists || c.fade == nil {
		return
	}
	alpha, done := c.fade.Update(dt)
	base := gizmo.IndicatorTint(c.handle)
	base.A = gizmo.ToRGBA(gizmo.Tint(c.handle), alpha).A
	w.Update(c.entity, func(r *world.Record) { r.Tint = base })
	if done {
		c.fade = nil
	}
}

// SyncHandles shows gizmo handles and arms only under the selected entity.
func SyncHandles(w *world.World, sel selection.Selection) {
	selected, hasSel := sel.Entity()
	type change struct {
		e       world.Entity
		visible bool
	}
	var changes []change
	w.Each(func(e world.Entity, rec world.Record) {
		if rec.Kind != world.KindHandle && rec.Kind != world.KindArm {
			return
		}
		p, ok := w.Parent(e)
		visible := hasSel && ok && p == selected
		if visible != rec.Visible {
			changes = append(changes, change{e, visible})
		}
	})
	for _, ch := range changes {
		w.Update(ch.e, func(r *world.Record) { r.Visible = ch.visible })
	}
}
