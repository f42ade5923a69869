package input

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Key is a keyboard key code. Values match raylib's KeyboardKey.
type Key int32

const (
	KeyEscape    Key = 256
	KeyEnter     Key = 257
	KeyBackspace Key = 259
	KeyDelete    Key = 261
	KeyF1        Key = 290
	KeyF2        Key = 291
	KeyF3        Key = 292
	KeyF4        Key = 293
	KeyF5        Key = 294
	KeyGrave     Key = 96
	KeyA         Key = 65
	KeyR         Key = 82
	KeyV         Key = 86
	KeyW         Key = 87
	KeyX         Key = 88
	KeyY         Key = 89
	KeyZ         Key = 90
)

var namedKeys = map[string]Key{
	"escape":    KeyEscape,
	"esc":       KeyEscape,
	"enter":     KeyEnter,
	"backspace": KeyBackspace,
	"delete":    KeyDelete,
	"del":       KeyDelete,
	"grave":     KeyGrave,
}

// ParseKey accepts names like "escape", "f3", "r" or a numeric key code.
func ParseKey(s string) (Key, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if k, ok := namedKeys[s]; ok {
		return k, nil
	}
	if len(s) == 1 && s[0] >= 'a' && s[0] <= 'z' {
		return KeyA + Key(s[0]-'a'), nil
	}
	if len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
		return Key(s[0]), nil
	}
	if strings.HasPrefix(s, "f") {
		if n, err := strconv.Atoi(s[1:]); err == nil && n >= 1 && n <= 12 {
			return KeyF1 + Key(n-1), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil {
		return Key(n), nil
	}
	return 0, fmt.Errorf("input: unknown key %q", s)
}

// Keymap binds keys to hotkeys.
type Keymap map[Key]Hotkey

// DefaultKeymap is Escape, Delete, F1/F2/F3 for the X/Y/Z axis lock, R to edit
// the locked axis and F5 to open a scene.
func DefaultKeymap() Keymap {
	return Keymap{
		KeyEscape: Escape,
		KeyDelete: Delete,
		KeyF1:     LockAxisX,
		KeyF2:     LockAxisY,
		KeyF3:     LockAxisZ,
		KeyR:      Edit,
		KeyF5:     OpenFileDialog,
	}
}

// keymapFile is the YAML layout:
//
//	hotkeys:
//	  lock_axis_x: [f1, x]
//	  escape: [escape]
type keymapFile struct {
	Hotkeys map[string][]string `yaml:"hotkeys"`
}

// ParseKeymap decodes a YAML keymap. Hotkeys not mentioned keep their default
// bindings; a hotkey listed with no keys is unbound. A key listed under two
// hotkeys is an error.
func ParseKeymap(data []byte) (Keymap, error) {
	var f keymapFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse keymap: %w", err)
	}
	km := DefaultKeymap()
	owner := map[Key]string{}
	for _, name := range slices.Sorted(maps.Keys(f.Hotkeys)) {
		h, ok := hotkeyByName(name)
		if !ok {
			return nil, fmt.Errorf("parse keymap: unknown hotkey %q", name)
		}
		for k, bound := range km {
			if bound == h {
				delete(km, k)
			}
		}
		for _, s := range f.Hotkeys[name] {
			k, err := ParseKey(s)
			if err != nil {
				return nil, fmt.Errorf("parse keymap: %s: %w", name, err)
			}
			if prev, ok := owner[k]; ok && prev != name {
				return nil, fmt.Errorf("parse keymap: key %q bound to both %s and %s", s, prev, name)
			}
			owner[k] = name
			km[k] = h
		}
	}
	return km, nil
}

// LoadKeymap reads a YAML keymap from path. A missing file yields DefaultKeymap.
func LoadKeymap(path string) (Keymap, error) {
	if path == "" {
		return DefaultKeymap(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultKeymap(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load keymap: %w", err)
	}
	return ParseKeymap(data)
}

func hotkeyByName(name string) (Hotkey, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range hotkeyNames {
		if n == name {
			return Hotkey(i), true
		}
	}
	return 0, false
}
