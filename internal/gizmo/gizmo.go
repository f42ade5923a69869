// Package gizmo holds the per-axis geometry of the translate gizmo: the handle
// variants, the ray-cast planes for each axis, and how a plane hit becomes a new
// translation.
package gizmo

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"

	"mp-assembler/internal/geom"
)

// Layout of the gizmo relative to the object it moves.
const (
	// HandleRadius is the rest distance of each handle from the object's origin.
	HandleRadius float32 = 10
	// ArmOffset is where the arm between origin and handle is centered.
	ArmOffset float32 = 4.5
	// ArmLength is the full length of an arm mesh.
	ArmLength float32 = 9
	// HandleSize is the edge length of a handle cube.
	HandleSize float32 = 1.2
	// ArmThickness is the edge length of an arm's cross-section.
	ArmThickness float32 = 0.25
)

// Axis indicator slab dimensions.
const (
	IndicatorHalfThickness float32 = 0.5
	IndicatorExtent        float32 = 99999
	IndicatorAlpha         float32 = 0.2
)

// TranslateHandle identifies one of the three translate handles.
type TranslateHandle uint8

const (
	X TranslateHandle = iota
	Y
	Z
)

// Handles lists every handle in axis order.
var Handles = [3]TranslateHandle{X, Y, Z}

// Index returns the vector component moved by h.
func (h TranslateHandle) Index() int {
	switch h {
	case Y:
		return 1
	case Z:
		return 2
	default:
		return 0
	}
}

// Axis returns the unit movement axis of h.
func (h TranslateHandle) Axis() mgl32.Vec3 {
	var v mgl32.Vec3
	v[h.Index()] = 1
	return v
}

func (h TranslateHandle) String() string {
	switch h {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	default:
		return fmt.Sprintf("TranslateHandle(%d)", uint8(h))
	}
}

// ParseHandle maps "x", "y" or "z" (any case) to a handle.
func ParseHandle(s string) (TranslateHandle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return X, nil
	case "y":
		return Y, nil
	case "z":
		return Z, nil
	}
	return X, fmt.Errorf("gizmo: unknown axis %q", s)
}

// planeNormal is the fixed primary-plane normal for each axis.
func (h TranslateHandle) planeNormal() mgl32.Vec3 {
	switch h {
	case Y:
		return mgl32.Vec3{0, 0, -1}
	case Z:
		return mgl32.Vec3{1, 0, 0}
	default:
		return mgl32.Vec3{0, -1, 0}
	}
}

// IntersectionPlanes returns the primary plane for h through reference and its
// mirror with the negated normal. Planes are one-sided, so a ray that misses the
// primary from behind hits the mirror.
func IntersectionPlanes(h TranslateHandle, reference mgl32.Vec3) (primary, secondary geom.Plane) {
	n := h.planeNormal()
	primary = geom.Plane{Point: reference, Normal: n}
	secondary = geom.Plane{Point: reference, Normal: n.Mul(-1)}
	return primary, secondary
}

// Convention decides how a plane hit turns into a translation component.
type Convention uint8

const (
	// Absolute sets the component to the hit offset.
	Absolute Convention = iota
	// Relative adds the hit offset to the component captured at drag start.
	Relative
)

func (c Convention) String() string {
	if c == Relative {
		return "relative"
	}
	return "absolute"
}

// ParseConvention accepts "absolute" or "relative". Empty selects def.
func ParseConvention(s string, def Convention) (Convention, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def, nil
	case "absolute":
		return Absolute, nil
	case "relative":
		return Relative, nil
	}
	return def, fmt.Errorf("gizmo: unknown drag convention %q", s)
}

// Conventions picks the convention for each way of entering a drag.
type Conventions struct {
	Gizmo  Convention
	Hotkey Convention
}

// DefaultConventions: handle drags replace, hotkey drags accumulate.
func DefaultConventions() Conventions {
	return Conventions{Gizmo: Absolute, Hotkey: Relative}
}

// For returns the convention used by a gizmo drag (isGizmo) or a hotkey drag.
func (c Conventions) For(isGizmo bool) Convention {
	if isGizmo {
		return c.Gizmo
	}
	return c.Hotkey
}

// ResolvePosition maps a plane hit to the transform of a drag along h.
// Only the component along h changes; everything else is copied from start.
func ResolvePosition(h TranslateHandle, start geom.Transform, hit mgl32.Vec3, isGizmo bool, conv Conventions) geom.Transform {
	i := h.Index()
	offset := hit[i] - HandleRadius
	out := start
	switch conv.For(isGizmo) {
	case Relative:
		out.Translation[i] = start.Translation[i] + offset
	default:
		out.Translation[i] = offset
	}
	return out
}

// IndicatorSlab is the world-space box of the axis indicator: thin along h and
// effectively unbounded along the other two axes, centered on start.
func IndicatorSlab(h TranslateHandle, start geom.Transform) geom.AABB {
	half := mgl32.Vec3{IndicatorExtent, IndicatorExtent, IndicatorExtent}
	half[h.Index()] = IndicatorHalfThickness
	return geom.Box(start.Translation, half)
}

var tints = [3]string{"#e53935", "#43a047", "#1e88e5"}

// Tint returns the axis colour of h: red, green or blue.
func Tint(h TranslateHandle) colorful.Color {
	c, err := colorful.Hex(tints[h.Index()])
	if err != nil {
		return colorful.Color{}
	}
	return c
}

// RGBA is an 8-bit colour with alpha, kept free of any renderer type.
type RGBA struct {
	R, G, B, A uint8
}

// ToRGBA converts c with alpha a in [0,1].
func ToRGBA(c colorful.Color, a float32) RGBA {
	r, g, b := c.Clamped().RGB255()
	a = min(max(a, 0), 1)
	return RGBA{R: r, G: g, B: b, A: uint8(a*255 + 0.5)}
}

// IndicatorTint is the translucent axis colour of the indicator for h.
func IndicatorTint(h TranslateHandle) RGBA {
	return ToRGBA(Tint(h), IndicatorAlpha)
}
