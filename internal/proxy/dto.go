package proxy

import "github.com/guscost-opensea/unleash-proxy/internal/unleash"

// lookupRequest is the body of POST {base}/ — a defined-toggle lookup for
// an explicit name list against a JSON context.
type lookupRequest struct {
	Context unleash.Context `json:"context"`
	Toggles []string        `json:"toggles"`
}

type togglesResponse struct {
	Toggles []unleash.ToggleStatus `json:"toggles"`
}

type featuresResponse struct {
	Version  int                         `json:"version"`
	Features []unleash.FeatureDefinition `json:"features"`
}
