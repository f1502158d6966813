// Package plugin provides named registries through which a host selects
// pluggable implementations, such as citation styles, by name.
package plugin

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrNotFound is returned by Lookup for an unregistered name.
var ErrNotFound = errors.New("plugin not found")

// ErrDuplicate is returned by Register when a name is already taken.
var ErrDuplicate = errors.New("plugin already registered")

// Registry maps plugin names to values of one kind. Names are case
// insensitive. It is safe for concurrent use.
type Registry[T any] struct {
	kind    string
	mu      sync.RWMutex
	entries map[string]T
}

// NewRegistry creates an empty registry. kind names the plugin group
// ("style", "backend") in error messages.
func NewRegistry[T any](kind string) *Registry[T] {
	return &Registry[T]{
		kind:    kind,
		entries: make(map[string]T),
	}
}

// Kind returns the plugin group name.
func (r *Registry[T]) Kind() string {
	return r.kind
}

// Register adds a plugin under name.
func (r *Registry[T]) Register(name string, v T) error {
	key := normalize(name)
	if key == "" {
		return fmt.Errorf("registering %s: empty name", r.kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[key]; exists {
		return fmt.Errorf("%w: %s %q", ErrDuplicate, r.kind, key)
	}
	r.entries[key] = v
	return nil
}

// MustRegister is like Register but panics on error. It is meant for
// startup registration of built-in plugins.
func (r *Registry[T]) MustRegister(name string, v T) {
	if err := r.Register(name, v); err != nil {
		panic(err)
	}
}

// Lookup returns the plugin registered under name.
func (r *Registry[T]) Lookup(name string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.entries[normalize(name)]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s %q (available: %s)",
			ErrNotFound, r.kind, name, strings.Join(r.namesLocked(), ", "))
	}
	return v, nil
}

// Names returns the registered names in sorted order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry[T]) namesLocked() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
