// Package world is the scene graph: an arena of entities with parent/children
// indices, local transforms and the metadata the editor needs to pick, draw and
// persist them.
//
// Entities are generational indices. Removing an entity bumps the generation of
// its slot, so every copy of the old Entity value stops resolving instead of
// pointing at whatever reuses the slot later.
package world

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"

	"mp-assembler/internal/geom"
	"mp-assembler/internal/gizmo"
)

// ErrNotFound is returned when an Entity no longer resolves.
var ErrNotFound = errors.New("world: entity not found")

// Entity is a handle into a World. The zero value never resolves.
type Entity struct {
	Index      uint32
	Generation uint32
}

// IsZero reports whether e is the zero Entity.
func (e Entity) IsZero() bool { return e == Entity{} }

func (e Entity) String() string {
	return fmt.Sprintf("%dv%d", e.Index, e.Generation)
}

// Kind classifies what an entity represents.
type Kind uint8

const (
	KindNone Kind = iota
	KindPanel
	KindScrew
	KindWasher
	KindNut
	KindMesh
	KindHandle
	KindArm
	KindIndicator
)

var kindNames = [...]string{"none", "panel", "screw", "washer", "nut", "mesh", "handle", "arm", "indicator"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsPart reports whether k is a user-spawned part.
func (k Kind) IsPart() bool {
	switch k {
	case KindPanel, KindScrew, KindWasher, KindNut:
		return true
	}
	return false
}

// PartInfo is the part-specific payload kept for persistence and drawing.
type PartInfo struct {
	Spec       string  // e.g. "M3" for screws, nuts and washers
	Length     float32 // screw length in mm
	Path       string  // panel source file
	ConvexHull bool
	Color      string // hex colour
}

// Record is everything stored for one entity.
type Record struct {
	Name       string
	Kind       Kind
	Transform  geom.Transform
	Selectable bool
	Pickable   bool
	Visible    bool
	// Bounds is the pickable/drawable box in local space.
	Bounds    geom.AABB
	Handle    gizmo.TranslateHandle
	HasHandle bool
	Tint      gizmo.RGBA
	// IgnoreParentRotation makes the global transform follow only the parent's
	// translation. Gizmo parts use it so handles stay world-aligned.
	IgnoreParentRotation bool
	Part                 PartInfo
}

type slot struct {
	gen      uint32
	alive    bool
	rec      Record
	parent   Entity
	children []Entity
}

// World owns every entity. It is not safe for concurrent use.
type World struct {
	slots []slot
	free  []uint32
	count int
}

// New returns an empty World.
func New() *World {
	return &World{}
}

// Spawn adds a root entity.
func (w *World) Spawn(rec Record) Entity {
	var idx uint32
	if n := len(w.free); n > 0 {
		idx = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		idx = uint32(len(w.slots))
		w.slots = append(w.slots, slot{})
	}
	s := &w.slots[idx]
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	s.alive = true
	s.rec = rec
	s.parent = Entity{}
	s.children = nil
	w.count++
	return Entity{Index: idx, Generation: s.gen}
}

// SpawnChild adds an entity under parent. It fails if parent does not resolve.
func (w *World) SpawnChild(parent Entity, rec Record) (Entity, bool) {
	if !w.Alive(parent) {
		return Entity{}, false
	}
	e := w.Spawn(rec)
	w.slots[e.Index].parent = parent
	p := &w.slots[parent.Index]
	p.children = append(p.children, e)
	return e, true
}

func (w *World) get(e Entity) *slot {
	if e.IsZero() || int(e.Index) >= len(w.slots) {
		return nil
	}
	s := &w.slots[e.Index]
	if !s.alive || s.gen != e.Generation {
		return nil
	}
	return s
}

// Alive reports whether e still resolves.
func (w *World) Alive(e Entity) bool {
	return w.get(e) != nil
}

// Len is the number of live entities.
func (w *World) Len() int { return w.count }

// Get returns a copy of e's record, or ErrNotFound.
func (w *World) Get(e Entity) (Record, error) {
	s := w.get(e)
	if s == nil {
		return Record{}, fmt.Errorf("get %v: %w", e, ErrNotFound)
	}
	return s.rec, nil
}

// Update calls fn with e's record for in-place edits.
func (w *World) Update(e Entity, fn func(*Record)) bool {
	s := w.get(e)
	if s == nil {
		return false
	}
	fn(&s.rec)
	return true
}

// Parent returns e's parent, if any.
func (w *World) Parent(e Entity) (Entity, bool) {
	s := w.get(e)
	if s == nil || !w.Alive(s.parent) {
		return Entity{}, false
	}
	return s.parent, true
}

// Children returns a copy of e's live children.
func (w *World) Children(e Entity) []Entity {
	s := w.get(e)
	if s == nil {
		return nil
	}
	out := make([]Entity, 0, len(s.children))
	for _, c := range s.children {
		if w.Alive(c) {
			out = append(out, c)
		}
	}
	return out
}

// Transform returns e's local transform.
func (w *World) Transform(e Entity) (geom.Transform, bool) {
	s := w.get(e)
	if s == nil {
		return geom.Transform{}, false
	}
	return s.rec.Transform, true
}

// SetTransform replaces e's local transform. The rotation is sanitized.
func (w *World) SetTransform(e Entity, t geom.Transform) bool {
	s := w.get(e)
	if s == nil {
		return false
	}
	s.rec.Transform = t.Sanitized()
	return true
}

// GlobalTransform composes e's transform with its ancestors'.
func (w *World) GlobalTransform(e Entity) (geom.Transform, bool) {
	s := w.get(e)
	if s == nil {
		return geom.Transform{}, false
	}
	local := s.rec.Transform
	parent, ok := w.GlobalTransform(s.parent)
	if !ok {
		return local, true
	}
	if s.rec.IgnoreParentRotation {
		local.Translation = parent.Translation.Add(local.Translation)
		return local, true
	}
	return geom.Compose(parent, local), true
}

// Despawn removes e alone. Its children become roots.
func (w *World) Despawn(e Entity) bool {
	s := w.get(e)
	if s == nil {
		return false
	}
	for _, c := range s.children {
		if cs := w.get(c); cs != nil {
			cs.parent = Entity{}
		}
	}
	w.detach(e, s.parent)
	w.remove(e)
	return true
}

// DespawnRecursive removes e and all of its descendants.
func (w *World) DespawnRecursive(e Entity) bool {
	s := w.get(e)
	if s == nil {
		return false
	}
	w.detach(e, s.parent)
	stack := []Entity{e}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cs := w.get(cur)
		if cs == nil {
			continue
		}
		stack = append(stack, cs.children...)
		w.remove(cur)
	}
	return true
}

func (w *World) detach(child, parent Entity) {
	p := w.get(parent)
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == child {
			p.children = append(p.children[:i], p.children[i+1:]...)
			return
		}
	}
}

func (w *World) remove(e Entity) {
	s := &w.slots[e.Index]
	s.alive = false
	s.gen++
	s.rec = Record{}
	s.parent = Entity{}
	s.children = nil
	w.free = append(w.free, e.Index)
	w.count--
}

// Each calls fn for every live entity in index order. fn must not spawn or
// despawn.
func (w *World) Each(fn func(Entity, Record)) {
	for i := range w.slots {
		s := &w.slots[i]
		if !s.alive {
			continue
		}
		fn(Entity{Index: uint32(i), Generation: s.gen}, s.rec)
	}
}

// Snapshot is a detached copy of one entity.
type Snapshot struct {
	Entity   Entity
	Parent   Entity
	Children []Entity
	Record   Record
}

// Snapshot deep-copies every live entity.
func (w *World) Snapshot() ([]Snapshot, error) {
	src := make([]Snapshot, 0, w.count)
	for i := range w.slots {
		s := &w.slots[i]
		if !s.alive {
			continue
		}
		src = append(src, Snapshot{
			Entity:   Entity{Index: uint32(i), Generation: s.gen},
			Parent:   s.parent,
			Children: s.children,
			Record:   s.rec,
		})
	}
	var out []Snapshot
	if err := copier.CopyWithOption(&out, &src, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return out, nil
}
