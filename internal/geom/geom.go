package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// parallelEpsilon is the smallest |dir·normal| treated as a usable ray/plane angle.
const parallelEpsilon = 1e-6

// Transform is translation, rotation (unit quaternion) and scale of an entity.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// Identity returns a transform at the origin with no rotation and unit scale.
func Identity() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// FromTranslation returns Identity moved to v.
func FromTranslation(v mgl32.Vec3) Transform {
	t := Identity()
	t.Translation = v
	return t
}

// Sanitized returns t with its rotation passed through SanitizeRotation.
func (t Transform) Sanitized() Transform {
	t.Rotation = SanitizeRotation(t.Rotation)
	return t
}

// SanitizeRotation normalizes q. A quaternion that normalizes to NaN (NaN input,
// zero length, infinities) is replaced with the identity rotation.
func SanitizeRotation(q mgl32.Quat) mgl32.Quat {
	n := q.Normalize()
	for _, f := range [4]float32{n.W, n.V[0], n.V[1], n.V[2]} {
		if isNaN(f) || math.IsInf(float64(f), 0) {
			return mgl32.QuatIdent()
		}
	}
	return n
}

func isNaN(f float32) bool {
	return math.IsNaN(float64(f))
}

// Compose returns the global transform of a child with local transform local under parent.
func Compose(parent, local Transform) Transform {
	scaled := mgl32.Vec3{
		local.Translation[0] * parent.Scale[0],
		local.Translation[1] * parent.Scale[1],
		local.Translation[2] * parent.Scale[2],
	}
	return Transform{
		Translation: parent.Translation.Add(parent.Rotation.Rotate(scaled)),
		Rotation:    parent.Rotation.Mul(local.Rotation),
		Scale: mgl32.Vec3{
			parent.Scale[0] * local.Scale[0],
			parent.Scale[1] * local.Scale[1],
			parent.Scale[2] * local.Scale[2],
		},
	}
}

// Plane is an infinite one-sided plane through Point facing along Normal.
type Plane struct {
	Point  mgl32.Vec3
	Normal mgl32.Vec3
}

// Ray is a half-line starting at Origin heading along Direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectPlane returns where r enters the front face of p.
// Rays that are parallel to the plane, that approach it from behind, or whose
// hit lies behind the origin report no intersection.
func (r Ray) IntersectPlane(p Plane) (mgl32.Vec3, bool) {
	denom := r.Direction.Dot(p.Normal)
	if denom > -parallelEpsilon {
		return mgl32.Vec3{}, false
	}
	t := p.Point.Sub(r.Origin).Dot(p.Normal) / denom
	if t < 0 || isNaN(t) {
		return mgl32.Vec3{}, false
	}
	return r.At(t), true
}

// AABB is an axis-aligned box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Box returns an AABB centered on center with the given half extents.
func Box(center, half mgl32.Vec3) AABB {
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

// Center returns the midpoint of b.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the edge lengths of b.
func (b AABB) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// IntersectAABB runs a slab test and returns the distance along r to the first
// contact. A ray starting inside the box hits at distance 0.
func (r Ray) IntersectAABB(b AABB) (float32, bool) {
	tmin := float32(math.Inf(-1))
	tmax := float32(math.Inf(1))
	for i := 0; i < 3; i++ {
		o, d := r.Origin[i], r.Direction[i]
		if d == 0 {
			if o < b.Min[i] || o > b.Max[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / d
		t1 := (b.Min[i] - o) * inv
		t2 := (b.Max[i] - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	if tmax < 0 {
		return 0, false
	}
	return max(tmin, 0), true
}

// Mat4 returns the model matrix translate * rotate * scale.
func (t Transform) Mat4() mgl32.Mat4 {
	return mgl32.Translate3D(t.Translation[0], t.Translation[1], t.Translation[2]).
		Mul4(t.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}

// Mat4 maps the unit cube centered on the origin onto b.
func (b AABB) Mat4() mgl32.Mat4 {
	c, s := b.Center(), b.Size()
	return mgl32.Translate3D(c[0], c[1], c[2]).Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}

// EulerDegrees returns q as rotations about x, y then z, in degrees.
func EulerDegrees(q mgl32.Quat) mgl32.Vec3 {
	x, y, z, w := float64(q.V[0]), float64(q.V[1]), float64(q.V[2]), float64(q.W)
	roll := math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y))
	sinp := math.Max(-1, math.Min(1, 2*(w*y-z*x)))
	pitch := math.Asin(sinp)
	yaw := math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))
	const deg = 180 / math.Pi
	return mgl32.Vec3{float32(roll * deg), float32(pitch * deg), float32(yaw * deg)}
}
