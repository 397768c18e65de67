package providers

import (
	"fmt"
	"sort"
	"sync"

	"github.com/quill-labs/relay/core"
)

// Factory builds a provider adapter from per-call configuration.
type Factory func(cfg Config) core.Provider

// Registry maps provider names to factories. It is an explicit table:
// nothing registers itself at import time, callers assemble the registry
// they want (Default covers the built-ins). Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register binds name to factory. Registering an existing name replaces
// the previous factory.
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Create instantiates the adapter registered under name. Unknown names
// return an unsupported-provider error.
func (r *Registry) Create(name string, cfg Config) (core.Provider, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &core.Error{
			Kind:     core.KindUnsupportedProvider,
			Message:  fmt.Sprintf("no provider registered under %q", name),
			Provider: name,
		}
	}
	return factory(cfg), nil
}

// IsRegistered reports whether name has a factory.
func (r *Registry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// Providers returns the registered names, sorted.
func (r *Registry) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
