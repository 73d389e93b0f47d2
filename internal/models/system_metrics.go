package models

import "time"

// ProcessTelemetry captures resource usage of the running synchronizer for
// the health endpoint.
type ProcessTelemetry struct {
	PID       int32     `json:"pid"`
	RSSBytes  uint64    `json:"rss_bytes"`
	Threads   int32     `json:"threads,omitempty"`
	Uptime    string    `json:"uptime"`
	SampledAt time.Time `json:"sampled_at"`
}
