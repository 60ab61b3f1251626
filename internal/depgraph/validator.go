package depgraph

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/indaco/shiplane/internal/logging"
	"github.com/indaco/shiplane/internal/manifest"
)

// Graph maps a local package name to its loaded manifest.
type Graph map[string]*manifest.Descriptor

// Names returns the local dependency names in sorted order.
func (g Graph) Names() []string {
	return slices.Sorted(maps.Keys(g))
}

// Validator checks a package for self and mutual dependency cycles.
type Validator struct {
	store   manifest.Store
	aliases AliasMap
	log     logging.Logger
}

// NewValidator creates a Validator. A nil aliases map limits validation to the
// self check.
func NewValidator(store manifest.Store, aliases AliasMap, log logging.Logger) *Validator {
	if log == nil {
		log = logging.NewNop()
	}
	return &Validator{store: store, aliases: aliases, log: log}
}

// Validate returns a *CircularDependencyError when target depends on itself
// or on a local package that depends back on it. The returned graph holds
// every local dependency that was loaded.
func (v *Validator) Validate(ctx context.Context, target *manifest.Descriptor) (Graph, error) {
	graph := Graph{}

	if target.DependsOn(target.Name) {
		return graph, &CircularDependencyError{Package: target.Name}
	}

	if v.aliases == nil {
		v.log.Warn("no local dependency map available, skipping mutual dependency check", "package", target.Name)
		return graph, nil
	}

	for _, name := range target.DependencyNames() {
		dir, ok := v.aliases[name]
		if !ok {
			continue
		}

		dep, err := v.store.Load(ctx, dir)
		if err != nil {
			var notFound *manifest.NotFoundError
			if errors.As(err, &notFound) {
				v.log.Warn("local dependency has no manifest", "dependency", name, "dir", dir)
				continue
			}
			return graph, fmt.Errorf("failed to load local dependency %q: %w", name, err)
		}
		graph[name] = dep

		if dep.DependsOn(target.Name) {
			return graph, &CircularDependencyError{Package: target.Name, Via: name}
		}
	}

	return graph, nil
}
