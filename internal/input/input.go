// Package input turns one frame of raw pointer and keyboard events into the
// editor's semantic events.
package input

import (
	"github.com/go-gl/mathgl/mgl32"

	"mp-assembler/internal/gizmo"
	"mp-assembler/internal/pick"
	"mp-assembler/internal/world"
)

// Button is a pointer button.
type Button uint8

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// Action is a button transition.
type Action uint8

const (
	Press Action = iota
	Release
)

// ButtonEvent is one pointer button transition at a cursor position.
type ButtonEvent struct {
	Button   Button
	Action   Action
	Position mgl32.Vec2
}

// Frame is every raw event seen during one frame, in arrival order.
type Frame struct {
	Buttons []ButtonEvent
	// Keys are key-down transitions.
	Keys []Key
	// Moves are cursor positions after each pointer move.
	Moves []mgl32.Vec2
	// Captured is set while another widget owns the keyboard.
	Captured bool
}

// Hotkey is a keyboard command understood by the selection state machine.
type Hotkey uint8

const (
	Escape Hotkey = iota
	Delete
	LockAxisX
	LockAxisY
	LockAxisZ
	Edit
	OpenFileDialog
)

var hotkeyNames = [...]string{"escape", "delete", "lock_axis_x", "lock_axis_y", "lock_axis_z", "edit", "open_file_dialog"}

func (h Hotkey) String() string {
	if int(h) < len(hotkeyNames) {
		return hotkeyNames[h]
	}
	return "unknown"
}

// LockedHandle returns the axis a LockAxis hotkey locks.
func (h Hotkey) LockedHandle() (gizmo.TranslateHandle, bool) {
	switch h {
	case LockAxisX:
		return gizmo.X, true
	case LockAxisY:
		return gizmo.Y, true
	case LockAxisZ:
		return gizmo.Z, true
	}
	return gizmo.X, false
}

// ParentClicked reports a left press over a pickable primitive.
type ParentClicked struct {
	Entity    world.Entity
	Handle    gizmo.TranslateHandle
	HasHandle bool
}

// Events is the classified output of one frame.
type Events struct {
	Clicks   []ParentClicked
	Releases int
	Hotkeys  []Hotkey
	Moves    []mgl32.Vec2
}

// Picker answers "what is under the cursor".
type Picker interface {
	Pick(cursor mgl32.Vec2) (pick.Hit, bool)
}

// Classifier maps raw frames to Events.
type Classifier struct {
	Keymap Keymap
}

// NewClassifier returns a classifier using km, or DefaultKeymap when km is nil.
func NewClassifier(km Keymap) *Classifier {
	if km == nil {
		km = DefaultKeymap()
	}
	return &Classifier{Keymap: km}
}

// Classify classifies f. picker may be nil, in which case no clicks are emitted.
func (c *Classifier) Classify(f Frame, picker Picker) Events {
	var ev Events
	for _, b := range f.Buttons {
		if b.Button != ButtonLeft {
			continue
		}
		switch b.Action {
		case Press:
			if picker == nil {
				continue
			}
			hit, ok := picker.Pick(b.Position)
			if !ok {
				continue
			}
			ev.Clicks = append(ev.Clicks, ParentClicked{Entity: hit.Parent, Handle: hit.Handle, HasHandle: hit.HasHandle})
		case Release:
			ev.Releases++
		}
	}
	if !f.Captured {
		for _, k := range f.Keys {
			if h, ok := c.Keymap[k]; ok {
				ev.Hotkeys = append(ev.Hotkeys, h)
			}
		}
	}
	if len(f.Moves) > 0 {
		ev.Moves = append([]mgl32.Vec2(nil), f.Moves...)
	}
	return ev
}
