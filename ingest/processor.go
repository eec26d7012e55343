package ingest

import (
	"context"
	"sort"
	"sync"

	"github.com/kbukum/ingestd/errors"
)

// Processor is a single document-transformation capability. Implementations
// are stateless and immutable once constructed from their validated
// configuration; a failed Execute must leave no partial engine state behind.
type Processor interface {
	// Type returns the processor type name this processor was registered under.
	Type() string

	// Execute transforms the document in place, or fails.
	Execute(ctx context.Context, doc *Document) error
}

// ConfigRenderer is optionally implemented by processors that can render the
// configuration block they were built from, enabling pipeline round-trips.
type ConfigRenderer interface {
	Config() map[string]interface{}
}

// Factory validates a raw configuration block and produces a Processor.
// The factory must consume every key it recognizes from cfg.
type Factory func(cfg *RawConfig) (Processor, error)

// Registry maps processor type names to factories. It is built once at
// startup and treated as immutable thereafter.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under the given type name. Registering the same
// name twice is an error.
func (r *Registry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return errors.InvalidPipeline(name, "processor type already registered")
	}
	r.factories[name] = factory
	return nil
}

// Get retrieves a factory by type name.
func (r *Registry) Get(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// Types returns sorted names of all registered processor types.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
