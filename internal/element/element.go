// Package element defines the uniform capability contract every pipeline
// element — built in or loaded from a plugin — satisfies, plus the
// metadata record a registry materialises for each one.
package element

import "github.com/physim/physim/internal/bus"

// Kind tags which pipeline role an element fills.
type Kind string

const (
	KindGenerator Kind = "Generator"
	KindForce     Kind = "ForceStage"
	KindIntegrate Kind = "Integrator"
	KindTransmute Kind = "Transmute"
	KindRender    Kind = "Render"
)

// Properties is a name-to-value map parsed from a pipeline description
// line; values are JSON scalars (bool, float64, string, nil).
type Properties map[string]interface{}

// Meta is the metadata record a registry materialises for one element
// offered by a module: {kind, name, plugin, version, license, author,
// blurb, repo}.
type Meta struct {
	Kind    Kind
	Name    string
	Plugin  string
	Version string
	License string
	Author  string
	Blurb   string
	Repo    string
}

// Descriptor is the uniform contract every element instance satisfies.
// SetProperties/GetProperty/GetPropertyDescriptions expose the same
// runtime introspection the original plugin ABI offered through its
// registration table.
type Descriptor interface {
	SetProperties(props Properties) error
	GetProperty(key string) (interface{}, bool)
	GetPropertyDescriptions() map[string]string
}

// MessageClient lets an element participate in the process-wide bus.
// Most elements embed bus.NoopClient and never override Receive.
type MessageClient interface {
	Receive(msg bus.Message)
}

// Creator builds one element instance from its property map. b is the
// process-wide bus, owned by the pipeline and handed to every element at
// construction (spec.md's "Message bus globality" design note); most
// elements embed bus.NoopClient and never touch it. Registered per
// element name by whatever provides the element (built-in table or
// plugin registration entry point).
type Creator func(props Properties, b *bus.Bus) (interface{}, error)
