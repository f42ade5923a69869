// Package drag turns cursor movement during an axis lock into new transforms
// and commits them.
package drag

import (
	"github.com/go-gl/mathgl/mgl32"

	"mp-assembler/internal/geom"
	"mp-assembler/internal/gizmo"
	"mp-assembler/internal/selection"
	"mp-assembler/internal/viewport"
	"mp-assembler/internal/world"
)

// Caster intersects the ray through a cursor position with a plane.
type Caster interface {
	Cast(cursor mgl32.Vec2, cam viewport.Camera, plane geom.Plane) (mgl32.Vec3, bool)
}

// TransformSink receives committed transforms.
type TransformSink interface {
	SetTransform(e world.Entity, t geom.Transform) bool
}

// EntityDragResult is the transform a drag resolved for one entity.
type EntityDragResult struct {
	Entity    world.Entity
	Transform geom.Transform
}

// Pipeline resolves drag requests against cursor moves.
type Pipeline struct {
	Caster      Caster
	Conventions gizmo.Conventions
}

// NewPipeline returns a Pipeline using the viewport caster and the default
// drag conventions.
func NewPipeline() *Pipeline {
	return &Pipeline{Caster: viewport.Caster{}, Conventions: gizmo.DefaultConventions()}
}

// Compute returns one result per cursor move and camera whose ray hit either
// of the request's planes, in move order. Moves that hit neither plane are
// dropped.
func (p *Pipeline) Compute(req selection.DragRequest, moves []mgl32.Vec2, cams []viewport.Camera) []EntityDragResult {
	if req.Dragging == selection.NotDragging {
		return nil
	}
	primary, secondary := gizmo.IntersectionPlanes(req.Handle, req.Start.Translation)
	isGizmo := req.Dragging == selection.Gizmo

	var out []EntityDragResult
	for _, cursor := range moves {
		for _, cam := range cams {
			hit, ok := p.Caster.Cast(cursor, cam, primary)
			if !ok {
				hit, ok = p.Caster.Cast(cursor, cam, secondary)
			}
			if !ok {
				continue
			}
			out = append(out, EntityDragResult{
				Entity:    req.Entity,
				Transform: gizmo.ResolvePosition(req.Handle, req.Start, hit, isGizmo, p.Conventions),
			})
		}
	}
	return out
}

// Apply commits results to sink. When an entity has several results the last
// one wins. Rotations are sanitized first. It returns the results that were
// committed, one per entity, in first-seen order.
func Apply(sink TransformSink, results []EntityDragResult) []EntityDragResult {
	if len(results) == 0 {
		return nil
	}
	last := make(map[world.Entity]int, 1)
	var order []world.Entity
	for i, r := range results {
		if _, seen := last[r.Entity]; !seen {
			order = append(order, r.Entity)
		}
		last[r.Entity] = i
	}
	committed := make([]EntityDragResult, 0, len(order))
	for _, e := range order {
		r := results[last[e]]
		r.Transform = r.Transform.Sanitized()
		if sink.SetTransform(r.Entity, r.Transform) {
			committed = append(committed, r)
		}
	}
	return committed
}
