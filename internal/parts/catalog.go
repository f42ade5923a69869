package parts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// CatalogPath is the default part catalog, relative to the working directory.
const CatalogPath = "assets/parts.yaml"

// Catalog lists the part sizes and appearance the spawner accepts.
type Catalog struct {
	Sizes         []string   `yaml:"sizes"`
	MinLength     int        `yaml:"min_length"`
	MaxLength     int        `yaml:"max_length"`
	DefaultLength int        `yaml:"default_length"`
	HardwareColor string     `yaml:"hardware_color"`
	PanelColor    string     `yaml:"panel_color"`
	Panel         PanelShape `yaml:"panel"`
}

// PanelShape is the box used for panels whose outline is not known.
type PanelShape struct {
	Width     float32 `yaml:"width"`
	Height    float32 `yaml:"height"`
	Thickness float32 `yaml:"thickness"`
}

// DefaultCatalog holds M3 and M5 hardware, screws 6 to 60mm, stainless
// hardware and green panels.
func DefaultCatalog() Catalog {
	return Catalog{
		Sizes:         []string{"M3", "M5"},
		MinLength:     6,
		MaxLength:     60,
		DefaultLength: 8,
		HardwareColor: "#c9ccce",
		PanelColor:    "#1b5e20",
		Panel:         PanelShape{Width: 50, Height: 30, Thickness: 1.6},
	}
}

// ParseCatalog decodes YAML over DefaultCatalog, so omitted fields keep their
// defaults.
func ParseCatalog(data []byte) (Catalog, error) {
	c := DefaultCatalog()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	return c, nil
}

// LoadCatalog reads path. A missing file yields DefaultCatalog.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultCatalog(), nil
	}
	if err != nil {
		return Catalog{}, fmt.Errorf("load catalog: %w", err)
	}
	return ParseCatalog(data)
}

func (c Catalog) validate() error {
	if len(c.Sizes) == 0 {
		return errors.New("no sizes")
	}
	if c.MinLength <= 0 || c.MaxLength < c.MinLength {
		return fmt.Errorf("bad length range %d..%d", c.MinLength, c.MaxLength)
	}
	if c.DefaultLength < c.MinLength || c.DefaultLength > c.MaxLength {
		return fmt.Errorf("default length %d outside %d..%d", c.DefaultLength, c.MinLength, c.MaxLength)
	}
	return nil
}

// HasSize reports whether size (e.g. "m3") is in the catalog.
func (c Catalog) HasSize(size string) bool {
	return slices.ContainsFunc(c.Sizes, func(s string) bool { return strings.EqualFold(s, size) })
}
