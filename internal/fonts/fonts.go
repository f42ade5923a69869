// Package fonts finds TTF/OTF files under the editor's font directories so the
// overlays can switch away from raylib's pixel font.
package fonts

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Exts are the file extensions treated as fonts.
var Exts = []string{".ttf", ".otf"}

// ErrNotFound is returned when no font matches a search.
var ErrNotFound = fmt.Errorf("font not found: %w", fs.ErrNotExist)

// BaseDirs returns candidate font directories relative to the process cwd.
func BaseDirs() []string {
	return []string{"assets/fonts", "../../assets/fonts"}
}

// ScanDir returns relative paths of all font files under dir (e.g. "Inter/Inter-Regular.ttf").
// Paths use forward slashes. A missing dir yields no paths.
func ScanDir(dir string) ([]string, error) {
	var out []string
	dir = filepath.Clean(dir)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() || !isFont(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	return out, err
}

func isFont(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Exts {
		if ext == e {
			return true
		}
	}
	return false
}

// normalize lowercases and removes spaces, dashes, and underscores for fuzzy matching.
func normalize(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(s))
}

// Find searches dirs in order for a font whose relative path contains search, ignoring case,
// spaces, dashes and underscores. When several match, a "Regular" face wins.
// Returns the path to load.
func Find(dirs []string, search string) (string, error) {
	norm := normalize(search)
	if norm == "" {
		return "", ErrNotFound
	}
	var first string
	for _, base := range dirs {
		list, err := ScanDir(base)
		if err != nil {
			continue
		}
		for _, rel := range list {
			if !strings.Contains(normalize(rel), norm) {
				continue
			}
			full := filepath.Join(base, filepath.FromSlash(rel))
			if strings.Contains(strings.ToLower(rel), "regular") {
				return full, nil
			}
			if first == "" {
				first = full
			}
		}
	}
	if first == "" {
		return "", fmt.Errorf("%q: %w", search, ErrNotFound)
	}
	return first, nil
}
