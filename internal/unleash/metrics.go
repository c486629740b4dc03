package unleash

import "time"

// ClientMetrics is a usage report flushed by a client SDK. The proxy
// validates the shape (see internal/validation) and forwards it untouched;
// it does not interpret the counts.
type ClientMetrics struct {
	AppName     string        `json:"appName" validate:"required"`
	InstanceID  string        `json:"instanceId,omitempty"`
	Environment string        `json:"environment,omitempty"`
	Bucket      MetricsBucket `json:"bucket" validate:"required"`
}

// MetricsBucket is the time window the counts were collected in.
type MetricsBucket struct {
	Start   time.Time               `json:"start" validate:"required"`
	Stop    time.Time               `json:"stop" validate:"required"`
	Toggles map[string]ToggleCounts `json:"toggles" validate:"dive"`
}

// ToggleCounts is the per-toggle evaluation tally within a bucket.
type ToggleCounts struct {
	Yes      int64            `json:"yes" validate:"gte=0"`
	No       int64            `json:"no" validate:"gte=0"`
	Variants map[string]int64 `json:"variants,omitempty"`
}
