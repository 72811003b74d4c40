package tool

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	errNameRequired        = errors.New("tool name is required")
	errDescriptionRequired = errors.New("tool description is required")
)

// Registry keeps callable tools in registration order.
type Registry struct {
	mu    sync.RWMutex
	order []string
	tools map[string]Tool
}

// NewRegistry creates a registry holding the given tools.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool)}
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a tool. A tool without a name or description is rejected;
// registering an existing name replaces it in place.
func (r *Registry) Register(t Tool) error {
	if t == nil || strings.TrimSpace(t.Name()) == "" {
		return errNameRequired
	}
	if strings.TrimSpace(t.Description()) == "" {
		return fmt.Errorf("%w: %s", errDescriptionRequired, t.Name())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[t.Name()]; !exists {
		r.order = append(r.order, t.Name())
	}
	r.tools[t.Name()] = t
	return nil
}

// Get returns a tool by its exact name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Find returns a tool by name (case-insensitive search) or nil.
func (r *Registry) Find(name string) Tool {
	if t, ok := r.Get(name); ok {
		return t
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range r.order {
		if strings.EqualFold(n, name) {
			return r.tools[n]
		}
	}
	return nil
}

// List returns all tools in registration order.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]Tool, 0, len(r.order))
	for _, n := range r.order {
		list = append(list, r.tools[n])
	}
	return list
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Remove deletes a tool from the registry.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[name]; !ok {
		return
	}
	delete(r.tools, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Reset removes every tool.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = nil
	r.tools = make(map[string]Tool)
}

// Definitions returns the function descriptors of all tools.
func (r *Registry) Definitions() []Function {
	return ToDefinitions(r.List())
}

// Clone returns an independent registry with the same tools.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := &Registry{
		order: append([]string(nil), r.order...),
		tools: make(map[string]Tool, len(r.tools)),
	}
	for k, v := range r.tools {
		c.tools[k] = v
	}
	return c
}
