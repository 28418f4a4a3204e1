// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime stats collector for pool-level monitoring.
// Exposes static values and live probes in a thread-safe map.

package control

import (
	"sync"
	"time"
)

// MetricsRegistry holds static metrics and live probe functions. Probes
// are evaluated at snapshot time, so pool stats are always current.
type MetricsRegistry struct {
	mu      sync.RWMutex
	metrics map[string]any
	probes  map[string]func() any
	updated time.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		metrics: make(map[string]any),
		probes:  make(map[string]func() any),
	}
}

// Set sets or updates a static metric key.
func (mr *MetricsRegistry) Set(key string, value any) {
	mr.mu.Lock()
	mr.metrics[key] = value
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// RegisterProbe inserts a named live probe, evaluated on every snapshot.
func (mr *MetricsRegistry) RegisterProbe(name string, fn func() any) {
	mr.mu.Lock()
	mr.probes[name] = fn
	mr.mu.Unlock()
}

// GetSnapshot returns the static metrics merged with fresh probe output.
func (mr *MetricsRegistry) GetSnapshot() map[string]any {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]any, len(mr.metrics)+len(mr.probes))
	for k, v := range mr.metrics {
		out[k] = v
	}
	for k, fn := range mr.probes {
		out[k] = fn()
	}
	return out
}
