// Package registry implements a name -> ReasoningEngine lookup with dynamic
// availability, mirroring the shape of agent/tools.Registry (read-mostly,
// exclusive lock briefly at registration).
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/njfio/fluent-agent-core/agent/model"
)

// Registry maps engine names (e.g. "anthropic", "openai", "bedrock") to
// model.Engine implementations.
type Registry struct {
	mu sync.RWMutex
	engines map[string]model.Engine
	def string
}

// New builds an empty registry.
func New() *Registry {
	return &Registry{engines: make(map[string]model.Engine)}
}

// Register adds or replaces an engine under name. The first registered
// engine becomes the default.
func (r *Registry) Register(name string, engine model.Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[name] = engine
	if r.def == "" {
		r.def = name
	}
}

// SetDefault designates the default engine name Get uses when it is called
// with an empty name.
func (r *Registry) SetDefault(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.def = name
}

// Get returns the named engine, or the default engine if name is empty.
func (r *Registry) Get(name string) (model.Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name == "" {
		name = r.def
	}
	e, ok := r.engines[name]
	if !ok {
		return nil, fmt.Errorf("engine %q not registered", name)
	}
	return e, nil
}

// Available returns the sorted list of registered engine names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
