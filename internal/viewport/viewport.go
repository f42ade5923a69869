// Package viewport turns cursor positions into world rays for a perspective
// camera. It mirrors the renderer's camera without depending on it.
package viewport

import (
	"github.com/go-gl/mathgl/mgl32"

	"mp-assembler/internal/geom"
)

// Camera is a perspective camera looking from Position at Target.
// Fovy is the vertical field of view in degrees.
type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3
	Fovy     float32
	Width    int
	Height   int
	Near     float32
	Far      float32
}

// Default near/far clip distances used when a Camera leaves them zero.
const (
	DefaultNear float32 = 0.01
	DefaultFar  float32 = 1000
)

func (c Camera) clip() (near, far float32) {
	near, far = c.Near, c.Far
	if near <= 0 {
		near = DefaultNear
	}
	if far <= near {
		far = DefaultFar
	}
	return near, far
}

// ScreenRay returns the world ray through cursor, in window pixels with the
// origin at the top-left. It fails for an empty viewport or a degenerate camera.
func (c Camera) ScreenRay(cursor mgl32.Vec2) (geom.Ray, bool) {
	if c.Width <= 0 || c.Height <= 0 {
		return geom.Ray{}, false
	}
	near, far := c.clip()
	aspect := float32(c.Width) / float32(c.Height)
	proj := mgl32.Perspective(mgl32.DegToRad(c.Fovy), aspect, near, far)
	view := mgl32.LookAtV(c.Position, c.Target, c.Up)

	win := mgl32.Vec3{cursor[0], float32(c.Height) - cursor[1], 0}
	nearPt, err := mgl32.UnProject(win, view, proj, 0, 0, c.Width, c.Height)
	if err != nil {
		return geom.Ray{}, false
	}
	win[2] = 1
	farPt, err := mgl32.UnProject(win, view, proj, 0, 0, c.Width, c.Height)
	if err != nil {
		return geom.Ray{}, false
	}
	dir := farPt.Sub(nearPt)
	if dir.Len() == 0 {
		return geom.Ray{}, false
	}
	return geom.Ray{Origin: c.Position, Direction: dir.Normalize()}, true
}

// Caster casts screen rays against planes.
type Caster struct{}

// Cast returns where the ray through cursor meets the front of plane.
func (Caster) Cast(cursor mgl32.Vec2, cam Camera, plane geom.Plane) (mgl32.Vec3, bool) {
	ray, ok := cam.ScreenRay(cursor)
	if !ok {
		return mgl32.Vec3{}, false
	}
	return ray.IntersectPlane(plane)
}
