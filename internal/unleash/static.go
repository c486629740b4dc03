package unleash

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// StaticClient is an in-memory implementation of the Client interface.
// It serves a fixed set of feature definitions, loaded from a bootstrap
// file or seeded programmatically, and reports a toggle enabled iff its
// definition says so. It performs no targeting and no upstream sync, which
// makes it suitable for development, testing, or air-gapped deployments.
type StaticClient struct {
	mu       sync.RWMutex
	features map[string]FeatureDefinition
	order    []string // definition order, kept stable for exports

	readyOnce sync.Once
	ready     chan struct{}

	metricsMu sync.Mutex
	counts    map[string]ToggleCounts
}

// NewStaticClient creates a static client seeded with the given features.
// The client is not ready until MarkReady is called.
func NewStaticClient(features ...FeatureDefinition) *StaticClient {
	c := &StaticClient{
		features: make(map[string]FeatureDefinition, len(features)),
		ready:    make(chan struct{}),
		counts:   make(map[string]ToggleCounts),
	}
	c.SetFeatures(features)
	return c
}

// bootstrapDocument matches both the /client/features export shape and a
// bare feature array.
type bootstrapDocument struct {
	Version  int                 `json:"version"`
	Features []FeatureDefinition `json:"features"`
}

// LoadBootstrap reads feature definitions from a JSON file. The file may be
// either a {"version":2,"features":[...]} document or a plain array.
func LoadBootstrap(path string) ([]FeatureDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bootstrap file: %w", err)
	}

	var doc bootstrapDocument
	if err := json.Unmarshal(data, &doc); err == nil && len(doc.Features) > 0 {
		return doc.Features, nil
	}

	var features []FeatureDefinition
	if err := json.Unmarshal(data, &features); err != nil {
		return nil, fmt.Errorf("failed to parse bootstrap file %s: %w", path, err)
	}
	return features, nil
}

// MarkReady closes the ready channel. Idempotent.
func (c *StaticClient) MarkReady() {
	c.readyOnce.Do(func() { close(c.ready) })
}

// Ready implements Client.
func (c *StaticClient) Ready() <-chan struct{} {
	return c.ready
}

// SetFeatures replaces the full feature set.
func (c *StaticClient) SetFeatures(features []FeatureDefinition) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.features = make(map[string]FeatureDefinition, len(features))
	c.order = make([]string, 0, len(features))
	for _, f := range features {
		if _, seen := c.features[f.Name]; !seen {
			c.order = append(c.order, f.Name)
		}
		c.features[f.Name] = f
	}
}

// EnabledToggles implements Client. Only enabled definitions are returned.
func (c *StaticClient) EnabledToggles(ctx context.Context, ec Context) ([]ToggleStatus, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]ToggleStatus, 0, len(c.order))
	for _, name := range c.order {
		if f := c.features[name]; f.Enabled {
			result = append(result, ToggleStatus{Name: f.Name, Enabled: true})
		}
	}
	return result, nil
}

// DefinedToggles implements Client. Names without a definition are skipped.
func (c *StaticClient) DefinedToggles(ctx context.Context, names []string, ec Context) ([]ToggleStatus, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]ToggleStatus, 0, len(names))
	for _, name := range names {
		f, exists := c.features[name]
		if !exists {
			continue
		}
		result = append(result, ToggleStatus{Name: f.Name, Enabled: f.Enabled})
	}
	return result, nil
}

// RegisterMetrics implements Client by accumulating counts in memory.
func (c *StaticClient) RegisterMetrics(ctx context.Context, m ClientMetrics) error {
	c.metricsMu.Lock()
	defer c.metricsMu.Unlock()

	for name, counts := range m.Bucket.Toggles {
		total := c.counts[name]
		total.Yes += counts.Yes
		total.No += counts.No
		c.counts[name] = total
	}
	return nil
}

// FeatureDefinitions implements Client.
func (c *StaticClient) FeatureDefinitions(ctx context.Context) ([]FeatureDefinition, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]FeatureDefinition, 0, len(c.order))
	for _, name := range c.order {
		result = append(result, c.features[name])
	}
	return result, nil
}

// MetricsCounts returns a copy of the accumulated per-toggle counts.
func (c *StaticClient) MetricsCounts() map[string]ToggleCounts {
	c.metricsMu.Lock()
	defer c.metricsMu.Unlock()

	result := make(map[string]ToggleCounts, len(c.counts))
	for name, counts := range c.counts {
		result[name] = counts
	}
	return result
}
