package engineconfig

import (
	"encoding/json"
	"os"
	"path/filepath"

	"mp-assembler/internal/gizmo"
	"mp-assembler/internal/input"
	"mp-assembler/internal/logger"
	"mp-assembler/internal/parts"
	"mp-assembler/internal/storage"
)

// EngineConfigPath is the path to the editor config file, relative to the process working directory.
const EngineConfigPath = "config/editor.json"

// EnginePrefs holds editor preferences (overlays, grid, drag behaviour, data file locations). Persisted across runs.
// Scene contents are separate and handled by the storage package.
type EnginePrefs struct {
	ShowFPS      bool `json:"show_fps"`
	ShowMemAlloc bool `json:"show_memalloc"`
	GridVisible  bool `json:"grid_visible"`
	// GizmoDrag and HotkeyDrag are "absolute" or "relative".
	GizmoDrag   string `json:"gizmo_drag"`
	HotkeyDrag  string `json:"hotkey_drag"`
	KeymapPath  string `json:"keymap_path,omitempty"`
	CatalogPath string `json:"catalog_path"`
	ScenePath   string `json:"scene_path"`
	LogPath     string `json:"log_path"`
	// Font is a font name searched under assets/fonts; empty keeps raylib's default.
	Font string `json:"font,omitempty"`
}

// Default returns default preferences (overlays off, grid on, handle drags absolute, hotkey drags relative).
func Default() EnginePrefs {
	conv := gizmo.DefaultConventions()
	return EnginePrefs{
		ShowFPS:      false,
		ShowMemAlloc: false,
		GridVisible:  true,
		GizmoDrag:    conv.Gizmo.String(),
		HotkeyDrag:   conv.Hotkey.String(),
		CatalogPath:  parts.CatalogPath,
		ScenePath:    storage.ScenePath,
		LogPath:      logger.LogFilePath,
	}
}

// Conventions returns the drag conventions named by the prefs. Unknown names fall back to the defaults.
func (p EnginePrefs) Conventions() gizmo.Conventions {
	def := gizmo.DefaultConventions()
	g, err := gizmo.ParseConvention(p.GizmoDrag, def.Gizmo)
	if err != nil {
		g = def.Gizmo
	}
	h, err := gizmo.ParseConvention(p.HotkeyDrag, def.Hotkey)
	if err != nil {
		h = def.Hotkey
	}
	return gizmo.Conventions{Gizmo: g, Hotkey: h}
}

// Keymap loads the configured keymap, or the default bindings when none is set.
func (p EnginePrefs) Keymap() (input.Keymap, error) {
	return input.LoadKeymap(p.KeymapPath)
}

// Load reads preferences from config/editor.json. If the file is missing or invalid,
// returns Default() and does not create a file.
func Load() (EnginePrefs, error) {
	return LoadFrom(EngineConfigPath)
}

// LoadFrom is Load for an explicit path. Fields missing from the file keep their defaults.
func LoadFrom(path string) (EnginePrefs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), nil
	}
	p := Default()
	if err := json.Unmarshal(data, &p); err != nil {
		return Default(), nil
	}
	return p, nil
}

// SaveTo writes preferences to path, creating its directory if needed.
func SaveTo(path string, p EnginePrefs) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
