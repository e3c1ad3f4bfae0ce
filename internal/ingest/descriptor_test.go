package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/coddog/coddog/internal/coderr"
)

func writeTempDescriptor(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "descriptor.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write descriptor: %v", err)
	}
	return path
}

func writeTempObject(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("\x7fELF"), 0o644); err != nil {
		t.Fatalf("write object: %v", err)
	}
	return path
}

func TestLoadValidDescriptor(t *testing.T) {
	dir := t.TempDir()
	objPath := writeTempObject(t, dir, "game.elf")
	yaml := `
project:
  name: Mario64
version:
  name: US 1.0
  platform: n64
sources:
  - name: main
    object: ` + objPath + `
`
	descPath := filepath.Join(dir, "descriptor.yaml")
	if err := os.WriteFile(descPath, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write descriptor: %v", err)
	}

	d, err := Load(descPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Project.Name != "Mario64" {
		t.Errorf("Project.Name = %q", d.Project.Name)
	}
	if len(d.Sources) != 1 || d.Sources[0].Object != objPath {
		t.Errorf("Sources = %+v", d.Sources)
	}
}

func TestLoadRejectsMissingProjectName(t *testing.T) {
	path := writeTempDescriptor(t, "sources:\n  - name: a\n    object: /tmp/x\n")
	_, err := Load(path)
	if !errors.Is(err, coderr.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestLoadRejectsNoSources(t *testing.T) {
	path := writeTempDescriptor(t, "project:\n  name: x\n")
	_, err := Load(path)
	if !errors.Is(err, coderr.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestLoadRejectsMissingObjectFile(t *testing.T) {
	path := writeTempDescriptor(t, "project:\n  name: x\nsources:\n  - name: a\n    object: /no/such/file\n")
	_, err := Load(path)
	if !errors.Is(err, coderr.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestLoadRejectsUnreadablePath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, coderr.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestPlatformCode(t *testing.T) {
	cases := map[string]int16{
		"n64":     1,
		"psx":     2,
		"ps2":     3,
		"gcwii":   4,
		"psp":     5,
		"unknown": 0,
		"amiga":   0,
	}
	for name, want := range cases {
		if got := PlatformCode(name); got != want {
			t.Errorf("PlatformCode(%q) = %d, want %d", name, got, want)
		}
	}
}
