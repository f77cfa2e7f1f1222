package assets

import (
	_ "embed"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// Asset roles.
const (
	RoleCharacter = "character"
	RoleSpirit    = "spirit"
)

//go:embed manifest.yaml
var defaultManifest []byte

// GridSpec is a sprite sheet layout in the manifest.
type GridSpec struct {
	Cols int `yaml:"cols"`
	Rows int `yaml:"rows"`
}

// Entry declares one image.
type Entry struct {
	Name  string    `yaml:"name"`
	File  string    `yaml:"file"`
	Label string    `yaml:"label"`
	Role  string    `yaml:"role"` // "character" (default) or "spirit"
	Grid  *GridSpec `yaml:"grid"`
}

// Manifest is the asset table.
type Manifest struct {
	Assets []Entry `yaml:"assets"`
}

// DefaultManifest returns the built-in table.
func DefaultManifest() Manifest {
	m, err := ParseManifest(defaultManifest)
	if err != nil {
		panic(fmt.Sprintf("built-in manifest: %v", err))
	}
	return m
}

// LoadManifest reads and validates a manifest from fsys.
func LoadManifest(fsys fs.FS, path string) (Manifest, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest decodes YAML, fills default roles and validates the table.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	for i := range m.Assets {
		if m.Assets[i].Role == "" {
			m.Assets[i].Role = RoleCharacter
		}
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Validate checks names are unique, files are set, grids are positive and at
// most one spirit is declared.
func (m Manifest) Validate() error {
	seen := make(map[string]bool, len(m.Assets))
	spirits := 0
	for _, e := range m.Assets {
		if e.Name == "" {
			return fmt.Errorf("manifest entry with empty name")
		}
		if seen[e.Name] {
			return fmt.Errorf("duplicate asset %q", e.Name)
		}
		seen[e.Name] = true
		if e.File == "" {
			return fmt.Errorf("asset %q has no file", e.Name)
		}
		if e.Grid != nil && (e.Grid.Cols <= 0 || e.Grid.Rows <= 0) {
			return fmt.Errorf("asset %q has invalid grid %dx%d", e.Name, e.Grid.Cols, e.Grid.Rows)
		}
		switch e.Role {
		case RoleCharacter:
		case RoleSpirit:
			spirits++
		default:
			return fmt.Errorf("asset %q has unknown role %q", e.Name, e.Role)
		}
	}
	if spirits > 1 {
		return fmt.Errorf("manifest declares %d spirits, want at most 1", spirits)
	}
	return nil
}

// Spirit returns the spirit entry name, or "" if none is declared.
func (m Manifest) Spirit() string {
	for _, e := range m.Assets {
		if e.Role == RoleSpirit {
			return e.Name
		}
	}
	return ""
}

// Characters returns character entry names in manifest order.
func (m Manifest) Characters() []string {
	out := make([]string, 0, len(m.Assets))
	for _, e := range m.Assets {
		if e.Role == RoleCharacter {
			out = append(out, e.Name)
		}
	}
	return out
}
