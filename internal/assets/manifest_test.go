package assets

import (
	"testing"
	"testing/fstest"
)

// TestDefaultManifest verifies the built-in character table
func TestDefaultManifest(t *testing.T) {
	m := DefaultManifest()
	if len(m.Assets) != 9 {
		t.Fatalf("%d entries, want 9", len(m.Assets))
	}
	if m.Spirit() != "baikinman" {
		t.Errorf("spirit %q, want baikinman", m.Spirit())
	}
	chars := m.Characters()
	if len(chars) != 8 {
		t.Fatalf("%d characters, want 8", len(chars))
	}
	for _, c := range chars {
		if c == "baikinman" {
			t.Error("spirit listed as a character")
		}
	}

	grids := map[string]GridSpec{}
	labels := 0
	for _, e := range m.Assets {
		if e.Grid != nil {
			grids[e.Name] = *e.Grid
		}
		if e.Label != "" {
			labels++
		}
	}
	if grids["char5"] != (GridSpec{Cols: 7, Rows: 8}) || grids["char6"] != (GridSpec{Cols: 4, Rows: 3}) {
		t.Errorf("sprite sheet grids %v", grids)
	}
	if labels != 6 {
		t.Errorf("%d labelled characters, want 6", labels)
	}
}

// TestParseManifestErrors verifies validation failures
func TestParseManifestErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "assets: [name: x"},
		{"empty name", "assets:\n  - file: a.png\n"},
		{"duplicate", "assets:\n  - {name: a, file: a.png}\n  - {name: a, file: b.png}\n"},
		{"no file", "assets:\n  - name: a\n"},
		{"bad grid", "assets:\n  - {name: a, file: a.png, grid: {cols: 0, rows: 2}}\n"},
		{"bad role", "assets:\n  - {name: a, file: a.png, role: boss}\n"},
		{"two spirits", "assets:\n  - {name: a, file: a.png, role: spirit}\n  - {name: b, file: b.png, role: spirit}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseManifest([]byte(tt.yaml)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

// TestLoadManifest verifies reading from a filesystem and default roles
func TestLoadManifest(t *testing.T) {
	fsys := fstest.MapFS{
		"pack/manifest.yaml": {Data: []byte("assets:\n  - {name: hero, file: hero.png, label: Hero}\n")},
	}
	m, err := LoadManifest(fsys, "pack/manifest.yaml")
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Assets[0].Role != RoleCharacter {
		t.Errorf("role %q, want character", m.Assets[0].Role)
	}
	if m.Spirit() != "" {
		t.Error("no spirit was declared")
	}

	if _, err := LoadManifest(fsys, "missing.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
