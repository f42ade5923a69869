// Package selection owns the editor's selection state and the rules that move
// it between idle, focused and axis-locked as input arrives.
package selection

import (
	"fmt"

	"mp-assembler/internal/geom"
	"mp-assembler/internal/gizmo"
	"mp-assembler/internal/world"
)

// DraggingKind records how an axis lock was entered and is being held.
type DraggingKind uint8

const (
	// NotDragging: the axis stays locked for display but nothing moves.
	NotDragging DraggingKind = iota
	// Gizmo drags last while the left button is held on a handle.
	Gizmo
	// Hotkey drags last until the lock is replaced or cancelled.
	Hotkey
)

func (k DraggingKind) String() string {
	switch k {
	case Gizmo:
		return "gizmo"
	case Hotkey:
		return "hotkey"
	default:
		return "none"
	}
}

// Mode is the variant held by a Selection.
type Mode uint8

const (
	ModeNone Mode = iota
	ModeFocused
	ModeAxisFocused
)

func (m Mode) String() string {
	switch m {
	case ModeFocused:
		return "focused"
	case ModeAxisFocused:
		return "axis-focused"
	default:
		return "none"
	}
}

// Selection is one of None, Focused or AxisFocused. Build it with the
// constructors; the zero value is None. Selections compare with ==.
type Selection struct {
	mode      Mode
	entity    world.Entity
	handle    gizmo.TranslateHandle
	transform geom.Transform
	dragging  DraggingKind
}

// None selects nothing.
func None() Selection { return Selection{} }

// Focused selects e with t as its display snapshot.
func Focused(e world.Entity, t geom.Transform) Selection {
	return Selection{mode: ModeFocused, entity: e, transform: t}
}

// AxisFocused locks e to the axis of h. start is the reference for every drag
// computed under this lock.
func AxisFocused(e world.Entity, h gizmo.TranslateHandle, start geom.Transform, dragging DraggingKind) Selection {
	return Selection{mode: ModeAxisFocused, entity: e, handle: h, transform: start, dragging: dragging}
}

func (s Selection) Mode() Mode { return s.mode }

// Entity returns the selected entity, if any.
func (s Selection) Entity() (world.Entity, bool) {
	return s.entity, s.mode != ModeNone
}

// Handle returns the locked axis while AxisFocused.
func (s Selection) Handle() (gizmo.TranslateHandle, bool) {
	return s.handle, s.mode == ModeAxisFocused
}

// Transform is the focus snapshot (Focused) or the drag start (AxisFocused).
func (s Selection) Transform() (geom.Transform, bool) {
	return s.transform, s.mode != ModeNone
}

// Dragging is NotDragging unless AxisFocused.
func (s Selection) Dragging() DraggingKind {
	if s.mode != ModeAxisFocused {
		return NotDragging
	}
	return s.dragging
}

// IsDragging reports whether a drag request will be issued for s.
func (s Selection) IsDragging() bool {
	return s.Dragging() != NotDragging
}

func (s Selection) String() string {
	switch s.mode {
	case ModeFocused:
		return fmt.Sprintf("Focused(%v)", s.entity)
	case ModeAxisFocused:
		return fmt.Sprintf("AxisFocused(%v, %v, %v)", s.entity, s.handle, s.dragging)
	default:
		return "None"
	}
}
