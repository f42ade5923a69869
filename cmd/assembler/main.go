package main

import (
	"errors"
	"fmt"
	"image"
	"io/fs"

	"mp-assembler/internal/commands"
	"mp-assembler/internal/debug"
	"mp-assembler/internal/editor"
	"mp-assembler/internal/engineconfig"
	"mp-assembler/internal/fonts"
	"mp-assembler/internal/geom"
	"mp-assembler/internal/graphics"
	"mp-assembler/internal/input"
	"mp-assembler/internal/logger"
	"mp-assembler/internal/parts"
	"mp-assembler/internal/scene"
	"mp-assembler/internal/storage"
	"mp-assembler/internal/terminal"
	"mp-assembler/internal/ui"
	"mp-assembler/internal/ui/render"
	"mp-assembler/internal/viewport"
	"mp-assembler/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const stylesheetPath = "assets/ui/editor.css"

func main() {
	prefs, _ := engineconfig.Load()
	log := logger.New(prefs.LogPath)

	keymap, err := prefs.Keymap()
	if err != nil {
		log.Log(err.Error())
		keymap = input.DefaultKeymap()
	}
	catalog, err := parts.LoadCatalog(prefs.CatalogPath)
	if err != nil {
		log.Log(err.Error())
		catalog = parts.DefaultCatalog()
	}

	w := world.New()
	eng := editor.New(w)
	eng.Classifier = input.NewClassifier(keymap)
	eng.Drag.Conventions = prefs.Conventions()
	eng.SetLogger(log)

	spawner := parts.NewSpawner(catalog)
	spawner.Log = log
	restoreScene(log, w, spawner, prefs.ScenePath)

	scn := scene.New()
	scn.SetGridVisible(prefs.GridVisible)

	dbg := debug.New()
	dbg.SetShowFPS(prefs.ShowFPS)
	dbg.SetShowMemAlloc(prefs.ShowMemAlloc)

	sheet, err := ui.LoadStylesheet(stylesheetPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Log(err.Error())
	}
	inspector := ui.NewInspector(sheet)
	panel := render.New()
	var (
		boxes         []ui.Box
		inspected     ui.Selection
		showInspector bool
	)

	var term *terminal.Terminal
	// setFont needs the GL context, so it only runs from inside the loop.
	setFont := func(name string) error {
		path, err := fonts.Find(fonts.BaseDirs(), name)
		if err != nil {
			return err
		}
		f := rl.LoadFont(path)
		if f.Texture.ID == 0 {
			return fmt.Errorf("load font %s: no texture", path)
		}
		panel.SetFont(f)
		term.SetFont(f)
		dbg.SetFont(f)
		return nil
	}

	reg := commands.NewEditorRegistry(commands.Deps{
		Engine:    eng,
		Spawner:   spawner,
		Log:       log,
		ScenePath: prefs.ScenePath,
		SetGrid:   scn.SetGridVisible,
		SetFont:   setFont,
		Screenshot: func() (image.Image, error) {
			shot := rl.LoadImageFromScreen()
			if shot == nil || shot.Width == 0 {
				return nil, errors.New("screenshot: no frame")
			}
			defer rl.UnloadImage(shot)
			return shot.ToImage(), nil
		},
		Prefs:     &prefs,
		PrefsPath: engineconfig.EngineConfigPath,
	})
	term = terminal.New(log, reg)

	fontPending := prefs.Font != ""
	update := func() {
		if fontPending {
			fontPending = false
			if err := setFont(prefs.Font); err != nil {
				log.Log(err.Error())
			}
		}
		wasOpen := term.IsOpen()
		term.Update()
		scn.Update(!term.IsOpen())
		eng.Cameras = []viewport.Camera{scn.ViewportCamera()}

		frame := pollFrame(wasOpen || term.IsOpen())
		rep := eng.Step(frame, rl.GetFrameTime())
		if rep.FocusAxisInput {
			if h, ok := rep.Selection.Handle(); ok {
				term.OpenPrefilled(fmt.Sprintf("cmd translate -axis %s -value ", h))
			}
		}
		if rep.OpenFileDialog {
			term.OpenPrefilled("cmd load -path ")
		}

		inspected, showInspector = inspectorSelection(eng)
		dbg.SetStatus(rep.Selection.String())
	}
	draw := func() {
		scn.Draw(w)
		if showInspector {
			boxes = inspector.Layout(boxes[:0], inspected, float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
			panel.Draw(boxes)
		}
		term.Draw()
		dbg.Draw()
	}
	graphics.Run("mp-assembler", update, draw)
}

// restoreScene loads the last saved scene. A missing file starts an empty scene.
func restoreScene(log *logger.Logger, w *world.World, spawner *parts.Spawner, path string) {
	reps, err := storage.LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err != nil {
		log.Log(err.Error())
		return
	}
	spawned, err := storage.Restore(w, spawner, reps)
	if err != nil {
		log.Log(err.Error())
	}
	log.Logf("restored %d objects from %s", len(spawned), path)
}

func inspectorSelection(eng *editor.Engine) (ui.Selection, bool) {
	st := eng.Status()
	if !st.HasEntity {
		return ui.Selection{}, false
	}
	rec, err := eng.World.Get(st.Entity)
	if err != nil {
		return ui.Selection{}, false
	}
	t := rec.Transform
	sel := ui.Selection{
		Name:     rec.Name,
		Kind:     rec.Kind.String(),
		Spec:     rec.Part.Spec,
		Length:   rec.Part.Length,
		Position: t.Translation,
		Rotation: geom.EulerDegrees(t.Rotation),
		Scale:    t.Scale,
		Dragging: st.Dragging.String(),
	}
	if st.HasHandle {
		sel.Axis = st.Handle.String()
	}
	return sel, true
}
