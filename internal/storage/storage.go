// Package storage saves and restores the parts of a scene as JSON.
//
// A scene file is an array of objects, one per part:
//
//	[
//	  {"pos": {"x": 0, "y": 0, "z": 0, "quat": [0, 0, 0, 1]}, "screw": "M3", "length": 12},
//	  {"pos": {...}, "nut": "M5"},
//	  {"pos": {...}, "washer": "M3"},
//	  {"pos": {...}, "path": "panels/front.txt", "spec": "R(50,30)", "convex_hull": false}
//	]
//
// quat is stored x, y, z, w.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"mp-assembler/internal/geom"
	"mp-assembler/internal/parts"
	"mp-assembler/internal/world"
)

// ScenePath is the default scene file.
const ScenePath = "scenes/scene.json"

// Pos is a stored placement.
type Pos struct {
	X    float32    `json:"x"`
	Y    float32    `json:"y"`
	Z    float32    `json:"z"`
	Quat [4]float32 `json:"quat"`
}

// PosOf converts a transform. Scale is not stored.
func PosOf(t geom.Transform) Pos {
	r := t.Rotation
	return Pos{
		X: t.Translation[0], Y: t.Translation[1], Z: t.Translation[2],
		Quat: [4]float32{r.V[0], r.V[1], r.V[2], r.W},
	}
}

// Transform converts p back, sanitizing the rotation.
func (p Pos) Transform() geom.Transform {
	t := geom.FromTranslation(mgl32.Vec3{p.X, p.Y, p.Z})
	t.Rotation = geom.SanitizeRotation(mgl32.Quat{W: p.Quat[3], V: mgl32.Vec3{p.Quat[0], p.Quat[1], p.Quat[2]}})
	return t
}

// ObjectRep is one stored part.
type ObjectRep struct {
	Pos        Pos
	Kind       world.Kind
	Size       string
	Length     int
	Path       string
	Spec       string
	ConvexHull bool
}

// MarshalJSON writes the kind-specific layout.
func (o ObjectRep) MarshalJSON() ([]byte, error) {
	switch o.Kind {
	case world.KindScrew:
		return json.Marshal(struct {
			Pos    Pos    `json:"pos"`
			Screw  string `json:"screw"`
			Length int    `json:"length"`
		}{o.Pos, o.Size, o.Length})
	case world.KindNut:
		return json.Marshal(struct {
			Pos Pos    `json:"pos"`
			Nut string `json:"nut"`
		}{o.Pos, o.Size})
	case world.KindWasher:
		return json.Marshal(struct {
			Pos    Pos    `json:"pos"`
			Washer string `json:"washer"`
		}{o.Pos, o.Size})
	case world.KindPanel:
		return json.Marshal(struct {
			Pos        Pos    `json:"pos"`
			Path       string `json:"path"`
			Spec       string `json:"spec"`
			ConvexHull bool   `json:"convex_hull"`
		}{o.Pos, o.Path, o.Spec, o.ConvexHull})
	}
	return nil, fmt.Errorf("storage: cannot encode %v", o.Kind)
}

// PartSpec is the spawner input for o.
func (o ObjectRep) PartSpec() parts.Spec {
	return parts.Spec{
		Kind:       o.Kind,
		Size:       o.Size,
		Length:     o.Length,
		Path:       o.Path,
		Source:     o.Spec,
		ConvexHull: o.ConvexHull,
	}
}

// Collect returns a rep for every selectable part in w, in entity order. It
// reads a detached snapshot, so the reps never alias live records.
func Collect(w *world.World) ([]ObjectRep, error) {
	snaps, err := w.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("collect parts: %w", err)
	}
	var reps []ObjectRep
	for _, s := range snaps {
		rec := s.Record
		if !rec.Selectable || !rec.Kind.IsPart() {
			continue
		}
		rep := ObjectRep{Pos: PosOf(rec.Transform), Kind: rec.Kind}
		switch rec.Kind {
		case world.KindPanel:
			rep.Path = rec.Part.Path
			rep.Spec = rec.Part.Spec
			rep.ConvexHull = rec.Part.ConvexHull
		default:
			rep.Size = rec.Part.Spec
			rep.Length = int(rec.Part.Length)
		}
		reps = append(reps, rep)
	}
	return reps, nil
}

// prettyOptions keeps short values such as quat on one line.
var prettyOptions = &pretty.Options{Width: 100, Indent: "\t"}

// Encode serializes the parts of w, one array element per part.
func Encode(w *world.World) ([]byte, error) {
	reps, err := Collect(w)
	if err != nil {
		return nil, fmt.Errorf("encode scene: %w", err)
	}
	out := []byte("[]")
	for i, rep := range reps {
		obj, err := json.Marshal(rep)
		if err != nil {
			return nil, fmt.Errorf("encode scene: object %d: %w", i, err)
		}
		if out, err = sjson.SetRawBytes(out, "-1", obj); err != nil {
			return nil, fmt.Errorf("encode scene: object %d: %w", i, err)
		}
	}
	if len(out) == 2 {
		return out, nil
	}
	return pretty.PrettyOptions(out, prettyOptions), nil
}

// Decode parses a scene. Invalid JSON yields no objects; entries that match no
// known part layout are skipped.
func Decode(data []byte) []ObjectRep {
	if !gjson.ValidBytes(data) {
		return nil
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil
	}
	var reps []ObjectRep
	root.ForEach(func(_, obj gjson.Result) bool {
		if rep, ok := decodeObject(obj); ok {
			reps = append(reps, rep)
		}
		return true
	})
	return reps
}

func decodeObject(obj gjson.Result) (ObjectRep, bool) {
	if !obj.IsObject() {
		return ObjectRep{}, false
	}
	pos, ok := decodePos(obj.Get("pos"))
	if !ok {
		return ObjectRep{}, false
	}
	rep := ObjectRep{Pos: pos}
	switch {
	case obj.Get("screw").Exists():
		length := obj.Get("length")
		if length.Type != gjson.Number {
			return ObjectRep{}, false
		}
		rep.Kind, rep.Size, rep.Length = world.KindScrew, obj.Get("screw").String(), int(length.Int())
	case obj.Get("nut").Exists():
		rep.Kind, rep.Size = world.KindNut, obj.Get("nut").String()
	case obj.Get("washer").Exists():
		rep.Kind, rep.Size = world.KindWasher, obj.Get("washer").String()
	case obj.Get("path").Exists() && obj.Get("spec").Exists():
		rep.Kind = world.KindPanel
		rep.Path = obj.Get("path").String()
		rep.Spec = obj.Get("spec").String()
		rep.ConvexHull = obj.Get("convex_hull").Bool()
	default:
		return ObjectRep{}, false
	}
	return rep, true
}

func decodePos(p gjson.Result) (Pos, bool) {
	if !p.IsObject() {
		return Pos{}, false
	}
	var pos Pos
	for i, key := range []string{"x", "y", "z"} {
		v := p.Get(key)
		if v.Type != gjson.Number {
			return Pos{}, false
		}
		f := float32(v.Float())
		switch i {
		case 0:
			pos.X = f
		case 1:
			pos.Y = f
		case 2:
			pos.Z = f
		}
	}
	q := p.Get("quat").Array()
	if len(q) != 4 {
		return Pos{}, false
	}
	for i, v := range q {
		pos.Quat[i] = float32(v.Float())
	}
	return pos, true
}

// Restore spawns every rep into w. Parts that fail to spawn are skipped and
// reported together in the returned error.
func Restore(w *world.World, s *parts.Spawner, reps []ObjectRep) ([]world.Entity, error) {
	var spawned []world.Entity
	var errs []error
	for i, rep := range reps {
		e, err := s.Spawn(w, rep.PartSpec(), rep.Pos.Transform())
		if err != nil {
			errs = append(errs, fmt.Errorf("object %d: %w", i, err))
			continue
		}
		spawned = append(spawned, e)
	}
	return spawned, errors.Join(errs...)
}

// SaveFile writes the parts of w to path, creating its directory.
func SaveFile(path string, w *world.World) error {
	data, err := Encode(w)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("save scene: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("save scene: %w", err)
	}
	return nil
}

// LoadFile reads and decodes path.
func LoadFile(path string) ([]ObjectRep, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}
	return Decode(data), nil
}
