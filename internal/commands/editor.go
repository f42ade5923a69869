package commands

import (
	"flag"
	"fmt"
	"image"
	"io"
	"math"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"mp-assembler/internal/capture"
	"mp-assembler/internal/editor"
	"mp-assembler/internal/engineconfig"
	"mp-assembler/internal/geom"
	"mp-assembler/internal/gizmo"
	"mp-assembler/internal/input"
	"mp-assembler/internal/parts"
	"mp-assembler/internal/selection"
	"mp-assembler/internal/storage"
	"mp-assembler/internal/world"
)

// RotationStep is the angle applied by one rotate +/- step.
const RotationStep = math.Pi / 20

// Logger is satisfied by *logger.Logger.
type Logger interface {
	Logf(format string, args ...any)
}

// Deps is what the editor subcommands act on.
type Deps struct {
	Engine  *editor.Engine
	Spawner *parts.Spawner
	Log     Logger
	// ScenePath is the default for save and load.
	ScenePath string
	// SetGrid toggles the editor grid. May be nil.
	SetGrid func(bool)
	// SetFont switches the overlay font by name. May be nil.
	SetFont func(name string) error
	// Screenshot grabs the last drawn frame. May be nil.
	Screenshot func() (image.Image, error)
	// Prefs are updated by grid and font and written to PrefsPath when it is set.
	Prefs     *engineconfig.EnginePrefs
	PrefsPath string
}

func (d Deps) logf(format string, args ...any) {
	if d.Log != nil {
		d.Log.Logf(format, args...)
	}
}

// savePrefs applies fn to the shared prefs and persists them.
func (d Deps) savePrefs(fn func(*engineconfig.EnginePrefs)) error {
	if d.Prefs == nil {
		return nil
	}
	fn(d.Prefs)
	if d.PrefsPath == "" {
		return nil
	}
	if err := engineconfig.SaveTo(d.PrefsPath, *d.Prefs); err != nil {
		return fmt.Errorf("save prefs: %w", err)
	}
	return nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// NewEditorRegistry returns a registry with every editor subcommand bound to d.
func NewEditorRegistry(d Deps) *Registry {
	r := NewRegistry()
	registerSpawn(r, d)
	registerScene(r, d)
	registerTransform(r, d)
	registerSelection(r, d)

	grid := newFlagSet("grid")
	show := grid.Bool("show", true, "show the editor grid")
	r.Register("grid", grid, func() error {
		if d.SetGrid != nil {
			d.SetGrid(*show)
		}
		return d.savePrefs(func(p *engineconfig.EnginePrefs) { p.GridVisible = *show })
	})

	font := newFlagSet("font")
	fontName := font.String("name", "", "font name under assets/fonts")
	r.Register("font", font, func() error {
		if d.SetFont == nil {
			return fmt.Errorf("font: not available")
		}
		if err := d.SetFont(*fontName); err != nil {
			return err
		}
		d.logf("font %s", *fontName)
		return d.savePrefs(func(p *engineconfig.EnginePrefs) { p.Font = *fontName })
	})

	shot := newFlagSet("screenshot")
	shotPath := shot.String("path", "", "output .webp file (default screenshots/<time>.webp)")
	shotScale := shot.Float64("scale", 1, "resize factor")
	r.Register("screenshot", shot, func() error {
		if d.Screenshot == nil {
			return fmt.Errorf("screenshot: not available")
		}
		img, err := d.Screenshot()
		if err != nil {
			return err
		}
		path := *shotPath
		if path == "" {
			path = capture.DefaultPath(time.Now())
		}
		if err := capture.Save(path, img, *shotScale); err != nil {
			return err
		}
		d.logf("saved %s", path)
		return nil
	})

	help := newFlagSet("help")
	r.Register("help", help, func() error {
		d.logf("commands: %s", strings.Join(r.Names(), ", "))
		return nil
	})
	return r
}

func registerSpawn(r *Registry, d Deps) {
	fs := newFlagSet("spawn")
	kind := fs.String("kind", "screw", "screw, washer, nut or panel")
	size := fs.String("size", "", "thread size, e.g. M3")
	length := fs.Int("length", 0, "screw length in mm")
	path := fs.String("path", "", "panel outline file")
	hull := fs.Bool("convex", false, "panel uses its convex hull")
	color := fs.String("color", "", "hex colour override")
	x := fs.Float64("x", 0, "x position")
	y := fs.Float64("y", 0, "y position")
	z := fs.Float64("z", 0, "z position")
	r.Register("spawn", fs, func() error {
		k, err := parts.ParseKind(*kind)
		if err != nil {
			return err
		}
		spec := parts.Spec{Kind: k, Size: *size, Length: *length, Path: *path, ConvexHull: *hull, Color: *color}
		at := geom.FromTranslation(mgl32.Vec3{float32(*x), float32(*y), float32(*z)})
		e, err := d.Spawner.Spawn(d.Engine.World, spec, at)
		if err != nil {
			return err
		}
		d.logf("spawned %v %v", k, e)
		return nil
	})
}

func registerScene(r *Registry, d Deps) {
	save := newFlagSet("save")
	savePath := save.String("path", d.ScenePath, "scene file")
	r.Register("save", save, func() error {
		if err := storage.SaveFile(*savePath, d.Engine.World); err != nil {
			return err
		}
		d.logf("saved %s", *savePath)
		return nil
	})

	load := newFlagSet("load")
	loadPath := load.String("path", d.ScenePath, "scene file")
	r.Register("load", load, func() error {
		reps, err := storage.LoadFile(*loadPath)
		if err != nil {
			return err
		}
		ClearParts(d.Engine.World)
		spawned, err := storage.Restore(d.Engine.World, d.Spawner, reps)
		d.logf("loaded %d of %d objects from %s", len(spawned), len(reps), *loadPath)
		return err
	})

	clr := newFlagSet("clear")
	r.Register("clear", clr, func() error {
		d.logf("removed %d parts", ClearParts(d.Engine.World))
		return nil
	})
}

// ClearParts despawns every root part with its subtree and returns how many were removed.
func ClearParts(w *world.World) int {
	var roots []world.Entity
	w.Each(func(e world.Entity, rec world.Record) {
		if _, ok := w.Parent(e); !ok && rec.Kind.IsPart() {
			roots = append(roots, e)
		}
	})
	for _, e := range roots {
		w.DespawnRecursive(e)
	}
	return len(roots)
}

func registerTransform(r *Registry, d Deps) {
	tr := newFlagSet("translate")
	trAxis := tr.String("axis", "x", "x, y or z")
	value := tr.Float64("value", 0, "new coordinate")
	r.Register("translate", tr, func() error {
		h, err := gizmo.ParseHandle(*trAxis)
		if err != nil {
			return err
		}
		return d.updateSelected(func(t *geom.Transform) {
			t.Translation[h.Index()] = float32(*value)
		})
	})

	rot := newFlagSet("rotate")
	rotAxis := rot.String("axis", "x", "x, y or z")
	step := rot.String("step", "+", "+, -, reset or negate")
	r.Register("rotate", rot, func() error {
		h, err := gizmo.ParseHandle(*rotAxis)
		if err != nil {
			return err
		}
		var apply func(q mgl32.Quat) mgl32.Quat
		switch *step {
		case "+":
			apply = func(q mgl32.Quat) mgl32.Quat { return mgl32.QuatRotate(RotationStep, h.Axis()).Mul(q) }
		case "-":
			apply = func(q mgl32.Quat) mgl32.Quat { return mgl32.QuatRotate(-RotationStep, h.Axis()).Mul(q) }
		case "reset":
			apply = func(mgl32.Quat) mgl32.Quat { return mgl32.QuatIdent() }
		case "negate":
			apply = func(q mgl32.Quat) mgl32.Quat { return q.Conjugate() }
		default:
			return fmt.Errorf("rotate: unknown step %q", *step)
		}
		return d.updateSelected(func(t *geom.Transform) {
			t.Rotation = geom.SanitizeRotation(apply(t.Rotation))
		})
	})
}

// updateSelected edits the local transform of the selected part.
func (d Deps) updateSelected(fn func(*geom.Transform)) error {
	st := d.Engine.Status()
	if !st.HasEntity {
		return ErrNoSelection
	}
	w := d.Engine.World
	t, ok := w.Transform(st.Entity)
	if !ok {
		return ErrNoSelection
	}
	fn(&t)
	w.SetTransform(st.Entity, t)
	d.logf("%v -> %v", st.Entity, t.Translation)
	// A hotkey drag resolves from its start transform; re-lock so it continues from the edit.
	if st.HasHandle && st.Dragging == selection.Hotkey {
		d.Engine.Queue(lockHotkey(st.Handle))
	}
	return nil
}

func lockHotkey(h gizmo.TranslateHandle) input.Hotkey {
	return input.LockAxisX + input.Hotkey(h.Index())
}

func registerSelection(r *Registry, d Deps) {
	del := newFlagSet("delete")
	r.Register("delete", del, func() error {
		if !d.Engine.Status().HasEntity {
			return ErrNoSelection
		}
		d.Engine.Queue(input.Delete)
		return nil
	})

	lock := newFlagSet("lock")
	lockAxis := lock.String("axis", "x", "x, y or z")
	r.Register("lock", lock, func() error {
		h, err := gizmo.ParseHandle(*lockAxis)
		if err != nil {
			return err
		}
		d.Engine.Queue(lockHotkey(h))
		return nil
	})

	deselect := newFlagSet("deselect")
	r.Register("deselect", deselect, func() error {
		d.Engine.Queue(input.Escape)
		return nil
	})
}
