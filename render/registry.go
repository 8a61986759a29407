// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"os"
	"sort"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/gogpu/deckcanvas"
)

// Factory creates a renderer with the given options.
type Factory func(opts Options) (Renderer, error)

// Backend priorities of the built-in renderers.
const (
	PriorityDevice   = 100
	PriorityTerminal = 50
	PriorityDebug    = 10
)

// RegistryEntry is a registered renderer backend.
type RegistryEntry struct {
	// Name is the unique identifier, as used in config files and --backend.
	Name string

	// Priority determines selection order (higher = preferred).
	Priority int

	Factory Factory

	// Available reports whether the backend can be used right now, for
	// example whether a device is plugged in.
	Available func() bool
}

var globalRegistry = &Registry{}

// Registry holds renderer backends by name.
//
// Packages providing an output register themselves from init:
//
//	func init() {
//		render.Register("streamdeck", render.PriorityDevice, open, present)
//	}
//
// and callers pick one by name or let New choose:
//
//	r, err := render.NewByName("debug", opts)
//	r, err := render.New(opts)
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// NewRegistry creates an empty registry.
// Most code should use the global registry via Register and New.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*RegistryEntry)}
}

// Register adds a backend to the global registry. A nil available means
// always available. Registering an existing name replaces it.
func Register(name string, priority int, factory Factory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Unregister removes a backend from the global registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// List returns all registered backend names, highest priority first.
func List() []string {
	return globalRegistry.List()
}

// Available returns the names of available backends, highest priority
// first.
func Available() []string {
	return globalRegistry.Available()
}

// Get returns a copy of a registered backend.
func Get(name string) (*RegistryEntry, bool) {
	return globalRegistry.Get(name)
}

// New creates a renderer with the best available backend.
func New(opts Options) (Renderer, error) {
	return globalRegistry.New(opts)
}

// NewByName creates a renderer with a specific backend.
func NewByName(name string, opts Options) (Renderer, error) {
	return globalRegistry.NewByName(name, opts)
}

// Register adds a backend to this registry.
func (r *Registry) Register(name string, priority int, factory Factory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*RegistryEntry)
	}
	if available == nil {
		available = func() bool { return true }
	}
	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a backend from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// List returns all registered backend names sorted by priority.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames(false)
}

// Available returns names of all available backends sorted by priority.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames(true)
}

// Get returns a copy of a registered backend.
func (r *Registry) Get(name string) (*RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	entryCopy := *entry
	return &entryCopy, true
}

// New tries each available backend in priority order and returns the
// first renderer created. Failures are logged and the next backend is
// tried; if all fail, the errors are returned joined.
func (r *Registry) New(opts Options) (Renderer, error) {
	r.mu.RLock()
	available := r.sortedNames(true)
	r.mu.RUnlock()

	if len(available) == 0 {
		return nil, ErrNoBackendAvailable
	}

	var errs []error
	for _, name := range available {
		rd, err := r.NewByName(name, opts)
		if err == nil {
			return rd, nil
		}
		deckcanvas.Logger().Warn("render backend failed, trying next", "backend", name, "error", err)
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}

// NewByName creates a renderer with a specific backend.
func (r *Registry) NewByName(name string, opts Options) (Renderer, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &BackendNotFoundError{Name: name}
	}
	if !entry.Available() {
		return nil, &BackendUnavailableError{Name: name}
	}
	return entry.Factory(opts)
}

// sortedNames returns backend names sorted by priority (highest first),
// ties broken by name. Must be called with lock held.
func (r *Registry) sortedNames(onlyAvailable bool) []string {
	if len(r.entries) == 0 {
		return nil
	}

	entries := make([]*RegistryEntry, 0, len(r.entries))
	for _, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority > entries[j].Priority
		}
		return entries[i].Name < entries[j].Name
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// ErrNoBackendAvailable is returned when no backend is registered or
// available.
var ErrNoBackendAvailable = errors.New("render: no backend available")

// BackendNotFoundError indicates a named backend is not registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "render: backend not found: " + e.Name
}

// BackendUnavailableError indicates a backend exists but is not available.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return "render: backend unavailable: " + e.Name
}

func stdoutIsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}

func init() {
	Register("terminal", PriorityTerminal, func(opts Options) (Renderer, error) {
		return NewTerminalRenderer(opts)
	}, stdoutIsTerminal)
	Register("debug", PriorityDebug, func(opts Options) (Renderer, error) {
		return NewDebugRenderer(opts)
	}, nil)
}
