package selection

import (
	"mp-assembler/internal/geom"
	"mp-assembler/internal/gizmo"
	"mp-assembler/internal/input"
	"mp-assembler/internal/world"
)

// TransformSource looks up the current local transform of an entity.
type TransformSource interface {
	Transform(e world.Entity) (geom.Transform, bool)
}

// Logger receives one line per state transition.
type Logger interface {
	Logf(format string, args ...any)
}

// DragRequest asks the drag pipeline to move Entity along Handle this frame.
type DragRequest struct {
	Entity   world.Entity
	Start    geom.Transform
	Dragging DraggingKind
	Handle   gizmo.TranslateHandle
}

// Output is what one Advance produced besides the new state.
type Output struct {
	Selection Selection
	Drag      DragRequest
	HasDrag   bool
	// Delete lists entities whose subtree must be removed this frame.
	Delete []world.Entity
	// FocusAxisInput asks the inspector to focus its translation input.
	FocusAxisInput bool
	OpenFileDialog bool
	// ResetIndicator is set by an axis lock: any existing axis indicator must
	// be dropped so it is rebuilt for the new lock.
	ResetIndicator bool
}

// Machine is the only writer of the selection.
type Machine struct {
	sel   Selection
	store TransformSource
	log   Logger
}

// New returns a Machine in the None state reading transforms from store.
func New(store TransformSource) *Machine {
	return &Machine{store: store}
}

// SetLogger attaches l for transition logging. nil disables it.
func (m *Machine) SetLogger(l Logger) { m.log = l }

// Current returns the current selection.
func (m *Machine) Current() Selection { return m.sel }

func (m *Machine) set(s Selection) {
	if s != m.sel && m.log != nil {
		m.log.Logf("selection: %v -> %v", m.sel, s)
	}
	m.sel = s
}

// Advance applies one frame of events: clicks, then releases, then hotkeys,
// and finally issues a drag request if a drag is active.
func (m *Machine) Advance(ev input.Events) Output {
	var out Output

	if e, ok := m.sel.Entity(); ok {
		if _, ok := m.store.Transform(e); !ok {
			m.set(None())
		}
	}

	for _, c := range ev.Clicks {
		t, ok := m.store.Transform(c.Entity)
		switch {
		case !ok:
			m.set(None())
		case c.HasHandle:
			m.set(AxisFocused(c.Entity, c.Handle, t, Gizmo))
		default:
			m.set(Focused(c.Entity, t))
		}
	}

	for i := 0; i < ev.Releases; i++ {
		if m.sel.mode == ModeAxisFocused && m.sel.dragging == Gizmo {
			s := m.sel
			s.dragging = NotDragging
			m.set(s)
		}
	}

	for _, h := range ev.Hotkeys {
		switch h {
		case input.Escape:
			m.set(None())
		case input.Delete:
			if e, ok := m.sel.Entity(); ok {
				out.Delete = append(out.Delete, e)
			}
			m.set(None())
		case input.LockAxisX, input.LockAxisY, input.LockAxisZ:
			e, ok := m.sel.Entity()
			if !ok {
				continue
			}
			t, ok := m.store.Transform(e)
			if !ok {
				m.set(None())
				continue
			}
			handle, _ := h.LockedHandle()
			m.set(AxisFocused(e, handle, t, Hotkey))
			out.ResetIndicator = true
		case input.Edit:
			if m.sel.mode == ModeAxisFocused {
				out.FocusAxisInput = true
			}
		case input.OpenFileDialog:
			out.OpenFileDialog = true
		}
	}

	if m.sel.IsDragging() {
		out.Drag = DragRequest{
			Entity:   m.sel.entity,
			Start:    m.sel.transform,
			Dragging: m.sel.dragging,
			Handle:   m.sel.handle,
		}
		out.HasDrag = true
	}
	out.Selection = m.sel
	return out
}
