// Package processors provides the built-in document transformation steps:
// field mutation (set, remove, rename, append), string casing, the join-field
// mapper, and the fail processor used to exercise failure-recovery chains.
package processors

import (
	"github.com/kbukum/ingestd/ingest"
)

// Register adds every built-in processor factory to the registry.
func Register(registry *ingest.Registry) error {
	builtins := map[string]ingest.Factory{
		TypeSet:        NewSetFactory(),
		TypeRemove:     NewRemoveFactory(),
		TypeRename:     NewRenameFactory(),
		TypeAppend:     NewAppendFactory(),
		TypeUppercase:  NewCasingFactory(TypeUppercase),
		TypeLowercase:  NewCasingFactory(TypeLowercase),
		TypeJoin:       NewJoinFactory(),
		TypeFailAlways: NewFailFactory(),
	}
	for name, factory := range builtins {
		if err := registry.Register(name, factory); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry builds a registry preloaded with every built-in processor.
func NewRegistry() (*ingest.Registry, error) {
	registry := ingest.NewRegistry()
	if err := Register(registry); err != nil {
		return nil, err
	}
	return registry, nil
}
