// Package unleash defines the boundary to the feature-flag evaluation
// engine. The proxy never evaluates toggles itself; it delegates the four
// data operations to a Client and only shapes the results into responses.
package unleash

import "context"

// Context carries the attributes toggle evaluation is performed against.
// The well-known fields mirror the Unleash context; any other inbound
// attribute travels in Properties.
type Context struct {
	UserID        string            `json:"userId,omitempty"`
	SessionID     string            `json:"sessionId,omitempty"`
	RemoteAddress string            `json:"remoteAddress,omitempty"`
	Environment   string            `json:"environment,omitempty"`
	AppName       string            `json:"appName,omitempty"`
	Properties    map[string]string `json:"properties,omitempty"`
}

// ToggleStatus is the evaluated state of a single toggle for a context.
type ToggleStatus struct {
	Name    string   `json:"name"`
	Enabled bool     `json:"enabled"`
	Variant *Variant `json:"variant,omitempty"`
}

// Variant is the variant assigned to a context, if the toggle has any.
type Variant struct {
	Name    string   `json:"name"`
	Enabled bool     `json:"enabled"`
	Payload *Payload `json:"payload,omitempty"`
}

// Payload is an opaque variant payload.
type Payload struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// FeatureDefinition is a raw toggle definition as served to server-side
// SDKs. The proxy treats it as opaque.
type FeatureDefinition struct {
	Name       string              `json:"name"`
	Type       string              `json:"type,omitempty"`
	Enabled    bool                `json:"enabled"`
	Stale      bool                `json:"stale,omitempty"`
	Project    string              `json:"project,omitempty"`
	Strategies []Strategy          `json:"strategies,omitempty"`
	Variants   []VariantDefinition `json:"variants,omitempty"`
}

// Strategy is an activation strategy attached to a feature definition.
type Strategy struct {
	Name       string            `json:"name"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

// VariantDefinition is a weighted variant attached to a feature definition.
type VariantDefinition struct {
	Name    string   `json:"name"`
	Weight  int      `json:"weight"`
	Payload *Payload `json:"payload,omitempty"`
}

// Client is the evaluation engine the proxy fronts.
//
// Implementations own synchronization with the upstream flag source,
// targeting semantics, and variant assignment. The proxy only cares about
// the readiness signal and the four data operations.
type Client interface {
	// Ready returns a channel that is closed once the client has completed
	// its initial synchronization. The channel never reopens; a client that
	// is already ready returns an already-closed channel.
	Ready() <-chan struct{}

	// EnabledToggles returns the toggles enabled for the given context.
	EnabledToggles(ctx context.Context, ec Context) ([]ToggleStatus, error)

	// DefinedToggles returns the status of the named toggles for the given
	// context, skipping names the client has no definition for.
	DefinedToggles(ctx context.Context, names []string, ec Context) ([]ToggleStatus, error)

	// RegisterMetrics ingests a validated client metrics payload.
	RegisterMetrics(ctx context.Context, m ClientMetrics) error

	// FeatureDefinitions exports the raw toggle definitions.
	FeatureDefinitions(ctx context.Context) ([]FeatureDefinition, error)
}
