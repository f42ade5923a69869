// Package parts spawns screws, washers, nuts and panels into the world, each
// with a pickable body and a translate gizmo.
package parts

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"

	"mp-assembler/internal/geom"
	"mp-assembler/internal/gizmo"
	"mp-assembler/internal/world"
)

// Spec describes one part to spawn.
type Spec struct {
	Kind world.Kind
	// Size is the thread size for hardware, e.g. "M3".
	Size string
	// Length is the screw length in mm. Zero picks the catalog default.
	Length int
	// Path, Source and ConvexHull describe a panel.
	Path       string
	Source     string
	ConvexHull bool
	// Color overrides the catalog colour (hex).
	Color string
}

// ParseKind maps "screw", "washer", "nut" or "panel" to a part kind.
func ParseKind(s string) (world.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "screw":
		return world.KindScrew, nil
	case "washer":
		return world.KindWasher, nil
	case "nut":
		return world.KindNut, nil
	case "panel", "pcb":
		return world.KindPanel, nil
	}
	return world.KindNone, fmt.Errorf("parts: unknown kind %q", s)
}

// Logger is satisfied by *logger.Logger.
type Logger interface {
	Logf(format string, args ...any)
}

// Spawner builds parts from a catalog.
type Spawner struct {
	Catalog Catalog
	Log     Logger
}

// NewSpawner returns a Spawner for c.
func NewSpawner(c Catalog) *Spawner {
	return &Spawner{Catalog: c}
}

// M5 hardware is the M3 model scaled up across its diameter.
const m5Scale = 5.0 / 3.0

// Normalize fills defaults and checks spec against the catalog.
func (s *Spawner) Normalize(spec Spec) (Spec, error) {
	switch spec.Kind {
	case world.KindScrew, world.KindWasher, world.KindNut:
		if spec.Size == "" {
			spec.Size = s.Catalog.Sizes[0]
		}
		if !s.Catalog.HasSize(spec.Size) {
			return spec, fmt.Errorf("parts: unknown size %q", spec.Size)
		}
		spec.Size = strings.ToUpper(spec.Size)
		if spec.Color == "" {
			spec.Color = s.Catalog.HardwareColor
		}
	case world.KindPanel:
		if spec.Path == "" {
			return spec, fmt.Errorf("parts: panel needs a path")
		}
		if spec.Color == "" {
			spec.Color = s.Catalog.PanelColor
		}
	default:
		return spec, fmt.Errorf("parts: cannot spawn %v", spec.Kind)
	}
	if spec.Kind == world.KindScrew {
		if spec.Length == 0 {
			spec.Length = s.Catalog.DefaultLength
		}
		if spec.Length < s.Catalog.MinLength || spec.Length > s.Catalog.MaxLength {
			return spec, fmt.Errorf("parts: screw length %d outside %d..%d", spec.Length, s.Catalog.MinLength, s.Catalog.MaxLength)
		}
	}
	if _, err := colorful.Hex(spec.Color); err != nil {
		return spec, fmt.Errorf("parts: colour %q: %w", spec.Color, err)
	}
	return spec, nil
}

// Spawn adds the part at t and returns its root entity. The root is the
// selectable object; its children are the pickable body and the gizmo.
func (s *Spawner) Spawn(w *world.World, spec Spec, t geom.Transform) (world.Entity, error) {
	spec, err := s.Normalize(spec)
	if err != nil {
		return world.Entity{}, err
	}
	t = t.Sanitized()
	if spec.Size == "M5" {
		t.Scale = mgl32.Vec3{m5Scale, m5Scale, 1}
	}

	root := w.Spawn(world.Record{
		Name:       name(spec),
		Kind:       spec.Kind,
		Transform:  t,
		Selectable: true,
		Visible:    true,
		Part: world.PartInfo{
			Spec:       spec.partSpec(),
			Length:     float32(spec.Length),
			Path:       spec.Path,
			ConvexHull: spec.ConvexHull,
			Color:      spec.Color,
		},
	})

	c, _ := colorful.Hex(spec.Color)
	w.SpawnChild(root, world.Record{
		Name:      "body",
		Kind:      world.KindMesh,
		Transform: geom.Identity(),
		Pickable:  true,
		Visible:   true,
		Bounds:    s.bodyBounds(spec),
		Tint:      gizmo.ToRGBA(c, 1),
	})
	spawnGizmo(w, root)

	if s.Log != nil {
		s.Log.Logf("spawned %s %v at %v", name(spec), root, t.Translation)
	}
	return root, nil
}

func (sp Spec) partSpec() string {
	if sp.Kind == world.KindPanel {
		return sp.Source
	}
	return sp.Size
}

func name(spec Spec) string {
	switch spec.Kind {
	case world.KindScrew:
		return fmt.Sprintf("%s x %dmm screw", spec.Size, spec.Length)
	case world.KindPanel:
		return filepath.Base(spec.Path)
	default:
		return fmt.Sprintf("%s %v", spec.Size, spec.Kind)
	}
}

// bodyBounds are the M3 model extents in mm; M5 comes from the root's scale.
func (s *Spawner) bodyBounds(spec Spec) geom.AABB {
	switch spec.Kind {
	case world.KindScrew:
		// Shaft from z=0 to the pan head at z=length.
		return geom.AABB{Min: mgl32.Vec3{-2.75, -2.75, 0}, Max: mgl32.Vec3{2.75, 2.75, float32(spec.Length) + 2}}
	case world.KindWasher:
		return geom.Box(mgl32.Vec3{}, mgl32.Vec3{3.5, 3.5, 0.25})
	case world.KindNut:
		return geom.Box(mgl32.Vec3{}, mgl32.Vec3{3.2, 3.2, 1.2})
	default:
		p := s.Catalog.Panel
		return geom.AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{p.Width, p.Height, p.Thickness}}
	}
}

// spawnGizmo adds a handle and an arm per axis under root. They start hidden
// and are shown while root is selected.
func spawnGizmo(w *world.World, root world.Entity) {
	for _, h := range gizmo.Handles {
		tint := gizmo.ToRGBA(gizmo.Tint(h), 1)
		w.SpawnChild(root, world.Record{
			Name:                 "handle-" + h.String(),
			Kind:                 world.KindHandle,
			Transform:            geom.FromTranslation(h.Axis().Mul(gizmo.HandleRadius)),
			Pickable:             true,
			Bounds:               geom.Box(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}.Mul(gizmo.HandleSize/2)),
			Handle:               h,
			HasHandle:            true,
			Tint:                 tint,
			IgnoreParentRotation: true,
		})

		half := mgl32.Vec3{1, 1, 1}.Mul(gizmo.ArmThickness / 2)
		half[h.Index()] = gizmo.ArmLength / 2
		w.SpawnChild(root, world.Record{
			Name:                 "arm-" + h.String(),
			Kind:                 world.KindArm,
			Transform:            geom.FromTranslation(h.Axis().Mul(gizmo.ArmOffset)),
			Bounds:               geom.Box(mgl32.Vec3{}, half),
			Tint:                 tint,
			IgnoreParentRotation: true,
		})
	}
}
