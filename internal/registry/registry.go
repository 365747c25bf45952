// Package registry implements the element registry: a built-in
// constructor table plus dynamic loading of Go plugins (.so files) from
// a configured directory. Grounded on
// `original_source/physim-core/src/plugin/discover.rs` (`element_db`,
// `discover`, `validate_plugin_abi`, `get_plugin_meta`), adapted from
// libloading's C-ABI dlopen to Go's standard `plugin` package.
package registry

import (
	"runtime"
	"sync"

	"github.com/physim/physim/internal/apierr"
	"github.com/physim/physim/internal/bus"
	"github.com/physim/physim/internal/element"
	"github.com/physim/physim/internal/logger"
)

// ABIVersion is the physim element API version embedded in every
// built-in and plugin-exported ABI tag. Bumped when the element
// contract (Descriptor/Creator shape) changes incompatibly.
const ABIVersion = "1"

// ExpectedABITag is the exact string a loadable plugin's exported
// PhysimABI variable must match, except for the literal "C" sentinel
// which is always accepted (spec.md §6, carried from the original's
// C-plugin escape hatch even though a Go plugin can never present a
// real C ABI).
func ExpectedABITag() string {
	return runtime.Version() + ":physim-" + ABIVersion
}

// Entry is one registered element: its metadata plus the constructor
// that builds an instance from a property map.
type Entry struct {
	Meta    element.Meta
	Creator element.Creator
}

// Registry holds every known element, built-in and plugin-loaded,
// keyed by name.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// New constructs an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// RegisterBuiltin adds a statically-linked element. Built-ins never fail
// an ABI check; they ship with the host binary by construction.
func (r *Registry) RegisterBuiltin(meta element.Meta, creator element.Creator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	meta.Plugin = "builtin"
	r.entries[meta.Name] = Entry{Meta: meta, Creator: creator}
}

// Lookup resolves an element by name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

// Create constructs an element instance by name, handing it b (may be
// nil for callers that never construct bus-aware elements, e.g. tests).
// Returns apierr.ElementNotFound(name) if name is unregistered.
func (r *Registry) Create(name string, props element.Properties, b *bus.Bus) (interface{}, error) {
	entry, ok := r.Lookup(name)
	if !ok {
		return nil, apierr.ElementNotFound(name)
	}
	return entry.Creator(props, b)
}

// register is used internally by Discover to add a plugin-sourced entry,
// logging at debug level the way the original's discover() does per scan.
func (r *Registry) register(meta element.Meta, creator element.Creator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	logger.Debug("registering plugin element", "name", meta.Name, "plugin", meta.Plugin, "kind", string(meta.Kind))
	r.entries[meta.Name] = Entry{Meta: meta, Creator: creator}
}

// Names returns every registered element name, for diagnostics.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.entries))
	for name := range r.entries {
		out = append(out, name)
	}
	return out
}
