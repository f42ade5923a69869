// Package editor runs one frame of selection and manipulation: classify input,
// advance the selection, apply deletions, apply drags, then refresh the gizmo
// visuals. Nothing here runs concurrently.
package editor

import (
	"github.com/go-gl/mathgl/mgl32"

	"mp-assembler/internal/drag"
	"mp-assembler/internal/gizmo"
	"mp-assembler/internal/indicator"
	"mp-assembler/internal/input"
	"mp-assembler/internal/pick"
	"mp-assembler/internal/selection"
	"mp-assembler/internal/viewport"
	"mp-assembler/internal/world"
)

// Logger is satisfied by *logger.Logger.
type Logger interface {
	Logf(format string, args ...any)
}

// Engine owns the selection machine and drives it against a World.
type Engine struct {
	World      *world.World
	Classifier *input.Classifier
	Machine    *selection.Machine
	Drag       *drag.Pipeline
	Indicator  *indicator.Controller
	// Picker resolves clicks. When nil the engine picks through Cameras[0].
	Picker  input.Picker
	Cameras []viewport.Camera

	queued []input.Hotkey
	log    Logger
}

// New wires an Engine for w with the default keymap and drag conventions.
func New(w *world.World) *Engine {
	return &Engine{
		World:      w,
		Classifier: input.NewClassifier(nil),
		Machine:    selection.New(w),
		Drag:       drag.NewPipeline(),
		Indicator:  indicator.New(),
	}
}

// SetLogger attaches l to the engine and its selection machine.
func (e *Engine) SetLogger(l Logger) {
	e.log = l
	e.Machine.SetLogger(l)
}

func (e *Engine) logf(format string, args ...any) {
	if e.log != nil {
		e.log.Logf(format, args...)
	}
}

// Queue feeds h into the next Step as if its key had been pressed. Commands use
// it so the selection machine stays the only writer of the selection.
func (e *Engine) Queue(h input.Hotkey) {
	e.queued = append(e.queued, h)
}

// Pick resolves cursor through the first camera.
func (e *Engine) Pick(cursor mgl32.Vec2) (pick.Hit, bool) {
	if len(e.Cameras) == 0 {
		return pick.Hit{}, false
	}
	ray, ok := e.Cameras[0].ScreenRay(cursor)
	if !ok {
		return pick.Hit{}, false
	}
	return pick.Resolve(e.World, ray)
}

// Report is what one Step did.
type Report struct {
	Selection selection.Selection
	// Committed are the transforms written by the drag this frame.
	Committed      []drag.EntityDragResult
	Deleted        []world.Entity
	FocusAxisInput bool
	OpenFileDialog bool
}

// Step runs one frame. dt is the frame time in seconds.
func (e *Engine) Step(f input.Frame, dt float32) Report {
	var picker input.Picker = e
	if e.Picker != nil {
		picker = e.Picker
	}
	ev := e.Classifier.Classify(f, picker)
	if len(e.queued) > 0 {
		ev.Hotkeys = append(ev.Hotkeys, e.queued...)
		e.queued = e.queued[:0]
	}

	out := e.Machine.Advance(ev)
	rep := Report{
		Selection:      out.Selection,
		FocusAxisInput: out.FocusAxisInput,
		OpenFileDialog: out.OpenFileDialog,
	}

	for _, d := range out.Delete {
		if e.World.DespawnRecursive(d) {
			rep.Deleted = append(rep.Deleted, d)
			e.logf("deleted %v", d)
		}
	}

	if out.HasDrag && len(ev.Moves) > 0 {
		results := e.Drag.Compute(out.Drag, ev.Moves, e.Cameras)
		rep.Committed = drag.Apply(e.World, results)
	}

	e.Indicator.Sync(e.World, out.Selection, out.ResetIndicator)
	indicator.SyncHandles(e.World, out.Selection)
	e.Indicator.Update(e.World, dt)
	return rep
}

// Status is the read-only view of the selection offered to display code.
type Status struct {
	Entity    world.Entity
	HasEntity bool
	Handle    gizmo.TranslateHandle
	HasHandle bool
	Dragging  selection.DraggingKind
}

// Status returns the current selection for display.
func (e *Engine) Status() Status {
	sel := e.Machine.Current()
	var s Status
	s.Entity, s.HasEntity = sel.Entity()
	s.Handle, s.HasHandle = sel.Handle()
	s.Dragging = sel.Dragging()
	return s
}
