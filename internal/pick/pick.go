package pick

import (
	"github.com/go-gl/mathgl/mgl32"

	"mp-assembler/internal/geom"
	"mp-assembler/internal/gizmo"
	"mp-assembler/internal/world"
)

// Hit is the topmost pickable primitive under a ray.
type Hit struct {
	Primitive world.Entity
	// Parent is the logical object the primitive belongs to.
	Parent    world.Entity
	Handle    gizmo.TranslateHandle
	HasHandle bool
	Distance  float32
	Point     mgl32.Vec3
}

// Resolve returns the nearest visible pickable primitive hit by ray.
// Primitives without a parent are never reported.
func Resolve(w *world.World, ray geom.Ray) (Hit, bool) {
	var best Hit
	found := false
	w.Each(func(e world.Entity, rec world.Record) {
		if !rec.Pickable || !rec.Visible {
			return
		}
		g, ok := w.GlobalTransform(e)
		if !ok {
			return
		}
		d, ok := localRay(ray, g).IntersectAABB(rec.Bounds)
		if !ok || (found && d >= best.Distance) {
			return
		}
		best = Hit{
			Primitive: e,
			Handle:    rec.Handle,
			HasHandle: rec.HasHandle,
			Distance:  d,
			Point:     ray.At(d),
		}
		found = true
	})
	if !found {
		return Hit{}, false
	}
	parent, ok := w.Parent(best.Primitive)
	if !ok {
		return Hit{}, false
	}
	best.Parent = parent
	return best, true
}

// localRay maps ray into the space of g. The ray parameter is preserved, so a
// distance found locally is also the world distance along ray.
func localRay(ray geom.Ray, g geom.Transform) geom.Ray {
	inv := g.Rotation.Inverse()
	o := inv.Rotate(ray.Origin.Sub(g.Translation))
	d := inv.Rotate(ray.Direction)
	for i := 0; i < 3; i++ {
		s := g.Scale[i]
		if s == 0 {
			s = 1
		}
		o[i] /= s
		d[i] /= s
	}
	return geom.Ray{Origin: o, Direction: d}
}
