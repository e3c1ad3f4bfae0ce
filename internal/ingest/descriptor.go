// File path: internal/ingest/descriptor.go
// Package ingest implements the ingestion CLI contract (§6): parsing a
// YAML project descriptor and driving each listed Object through the
// disassembler adapter, the normalizer/hasher, and store.InsertSource.
package ingest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coddog/coddog/internal/coderr"
)

// Descriptor is the YAML document the ingestion CLI reads: a project, an
// optional version/platform tag shared by every listed Source, and the
// Sources themselves.
type Descriptor struct {
	Project ProjectSpec  `yaml:"project"`
	Version *VersionSpec `yaml:"version,omitempty"`
	Sources []SourceSpec `yaml:"sources"`
}

// ProjectSpec names the owning Project.
type ProjectSpec struct {
	Name string `yaml:"name"`
	Repo string `yaml:"repo,omitempty"`
}

// VersionSpec names the Version and platform every listed Source belongs
// to, recovered from the original tool's per-project version/platform
// pairing (crates/core/src/lib.rs Platform enum).
type VersionSpec struct {
	Name     string `yaml:"name"`
	Platform string `yaml:"platform"`
}

// SourceSpec names one Object to ingest as a Source.
type SourceSpec struct {
	Name        string `yaml:"name"`
	Object      string `yaml:"object"`
	UpstreamURL string `yaml:"upstream_url,omitempty"`
	Decompiled  bool   `yaml:"decompiled,omitempty"`
}

// Load parses a project descriptor from path.
func Load(path string) (Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Descriptor{}, fmt.Errorf("%w: read descriptor %s: %v", coderr.ErrInvalidArgument, path, err)
	}
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Descriptor{}, fmt.Errorf("%w: parse descriptor %s: %v", coderr.ErrInvalidArgument, path, err)
	}
	if d.Project.Name == "" {
		return Descriptor{}, fmt.Errorf("%w: descriptor missing project.name", coderr.ErrInvalidArgument)
	}
	if len(d.Sources) == 0 {
		return Descriptor{}, fmt.Errorf("%w: descriptor lists no sources", coderr.ErrInvalidArgument)
	}
	for _, src := range d.Sources {
		if src.Object == "" {
			return Descriptor{}, fmt.Errorf("%w: source %q missing object path", coderr.ErrInvalidArgument, src.Name)
		}
		if _, err := os.Stat(src.Object); err != nil {
			return Descriptor{}, fmt.Errorf("%w: object %s: %v", coderr.ErrInvalidArgument, src.Object, err)
		}
	}
	return d, nil
}

// platformCodes names the small integer tags recovered from the original
// tool's Platform enum (crates/core/src/lib.rs): N64, Psx, Ps2, GcWii, Psp.
// An unrecognized name maps to the generic "unknown" tag rather than
// failing the whole descriptor, since platform is advisory metadata, not
// load-bearing for fingerprinting.
var platformCodes = map[string]int16{
	"unknown": 0,
	"n64":     1,
	"psx":     2,
	"ps2":     3,
	"gcwii":   4,
	"psp":     5,
}

// PlatformCode resolves a descriptor's platform name to its stored tag.
func PlatformCode(name string) int16 {
	if code, ok := platformCodes[name]; ok {
		return code
	}
	return platformCodes["unknown"]
}
