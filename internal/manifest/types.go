package manifest

import (
	"maps"
	"slices"
	"strings"
)

// FileName is the manifest file read in every package directory.
const FileName = "package.json"

// ExtensionKey is the reserved top-level key holding shiplane state.
const ExtensionKey = "shiplane"

// SchemaVersion is written into the extension object on every save.
const SchemaVersion = 1

// Extension is shiplane's persisted state inside a manifest.
type Extension struct {
	Schema          int      `json:"schema,omitempty"`
	ReferenceCommit string   `json:"reference_commit,omitempty"`
	Assets          []string `json:"assets,omitempty"`
}

// Descriptor is the typed view of a package manifest.
type Descriptor struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	Dependencies     map[string]string `json:"dependencies,omitempty"`
	DevDependencies  map[string]string `json:"devDependencies,omitempty"`
	PeerDependencies map[string]string `json:"peerDependencies,omitempty"`
	Extension        Extension         `json:"shiplane"`

	// Dir is the package directory the manifest was loaded from.
	Dir string `json:"-"`
}

// Path returns the manifest file path.
func (d *Descriptor) Path() string {
	return joinPath(d.Dir, FileName)
}

// DependencyNames returns the sorted union of every dependency section.
func (d *Descriptor) DependencyNames() []string {
	set := make(map[string]struct{})
	for _, deps := range []map[string]string{d.Dependencies, d.DevDependencies, d.PeerDependencies} {
		for name := range deps {
			set[name] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(set))
}

// DependsOn reports whether name appears in any dependency section.
func (d *Descriptor) DependsOn(name string) bool {
	for _, deps := range []map[string]string{d.Dependencies, d.DevDependencies, d.PeerDependencies} {
		if _, ok := deps[name]; ok {
			return true
		}
	}
	return false
}

// MissingFields lists required fields that are empty.
func (d *Descriptor) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(d.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(d.Version) == "" {
		missing = append(missing, "version")
	}
	return missing
}
