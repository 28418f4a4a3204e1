// File: facade/rtos.go
// Unified facade layer for the rtospool library.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// This file defines the RTOS struct, which aggregates the four resource
// pools behind a single facade over one kernel: mutex pool, timer pool,
// message-queue pool, and observer registry. It derives every pool
// capacity from the task and observer counts in the immutable Config,
// wires the unrecoverable-error policy to the diagnostic sink, and
// exposes a stats registry with one live probe per pool.

package facade

import (
	"time"

	"go.uber.org/zap"

	"github.com/momentics/rtospool/api"
	"github.com/momentics/rtospool/control"
	"github.com/momentics/rtospool/internal/diag"
	"github.com/momentics/rtospool/pool"
	"github.com/momentics/rtospool/registry"
)

// Multipliers deriving pool capacities from the task count. These mirror
// the static sizing of the generated build configuration: seven mutexes
// and four queues per task, queue depth equal to the queue count.
const (
	mutexesPerTask = 7
	queuesPerTask  = 4
	itemsPerQueue  = 4
)

// DefaultItemSize is the queue item size used when Config leaves it zero.
const DefaultItemSize = 8

// Config holds parameters immutable per run. Pool capacities never change
// after New; a mis-sized config surfaces at run time as pool exhaustion.
type Config struct {
	NumTasks     int         // Concurrent logical tasks; sizes the timer pool
	NumObservers int         // Observer registry capacity
	ItemSize     int         // Queue item size used by AcquireQueue (0 = DefaultItemSize)
	Logger       *zap.Logger // Structured logger; nil disables logging
}

// DefaultConfig returns default configuration values.
func DefaultConfig() *Config {
	return &Config{
		NumTasks:     8,               // Eight logical tasks
		NumObservers: 16,              // Sixteen one-shot observer entries
		ItemSize:     DefaultItemSize, // 8-byte queue items
		Logger:       nil,
	}
}

// NumMutexes returns the derived mutex pool capacity.
func (c *Config) NumMutexes() int { return mutexesPerTask * c.NumTasks }

// NumQueues returns the derived message-queue pool capacity.
func (c *Config) NumQueues() int { return queuesPerTask * c.NumTasks }

// QueueDepth returns the derived per-queue item capacity.
func (c *Config) QueueDepth() int { return itemsPerQueue * c.NumTasks }

// RTOS is the main facade type. Through it, a caller with no right to
// create kernel objects at run time acquires, uses, and releases them as
// if they were dynamic.
type RTOS struct {
	kernel    api.Kernel
	log       *zap.Logger
	sink      *diag.Sink
	itemSize  int
	mutexes   *pool.MutexPool
	timers    *pool.TimerPool
	queues    *pool.QueuePool
	observers *registry.Observers
	metrics   *control.MetricsRegistry
}

// New builds every pool over kernel per cfg. Kernel timers are constructed
// here; mutexes and queues stay unconstructed until first use.
func New(kernel api.Kernel, cfg *Config) (*RTOS, error) {
	if kernel == nil {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "nil kernel")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.NumTasks <= 0 || cfg.NumObservers <= 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "pool capacities must be positive").
			WithContext("num_tasks", cfg.NumTasks).
			WithContext("num_observers", cfg.NumObservers)
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	sink := diag.NewSink(log)

	itemSize := cfg.ItemSize
	if itemSize <= 0 {
		itemSize = DefaultItemSize
	}

	r := &RTOS{
		kernel:    kernel,
		log:       log,
		sink:      sink,
		itemSize:  itemSize,
		mutexes:   pool.NewMutexPool(kernel, cfg.NumMutexes(), log),
		timers:    pool.NewTimerPool(kernel, cfg.NumTasks, log),
		queues:    pool.NewQueuePool(kernel, cfg.NumQueues(), cfg.QueueDepth(), log),
		observers: registry.NewObservers(kernel.Bus(), cfg.NumObservers, log),
		metrics:   control.NewMetricsRegistry(),
	}

	// Facade policy: unrecoverable conditions halt in place.
	r.timers.OnFatal(sink.Fail)
	r.observers.OnFatal(sink.Fail)

	r.metrics.Set("num_tasks", cfg.NumTasks)
	r.metrics.RegisterProbe("mutex_pool", func() any { return r.mutexes.Stats() })
	r.metrics.RegisterProbe("timer_pool", func() any { return r.timers.Stats() })
	r.metrics.RegisterProbe("queue_pool", func() any { return r.queues.Stats() })
	r.metrics.RegisterProbe("observers", func() any { return r.observers.Stats() })

	return r, nil
}

// Mutexes returns the mutex pool.
func (r *RTOS) Mutexes() *pool.MutexPool { return r.mutexes }

// Timers returns the timer pool.
func (r *RTOS) Timers() *pool.TimerPool { return r.timers }

// Queues returns the message-queue pool.
func (r *RTOS) Queues() *pool.QueuePool { return r.queues }

// AcquireQueue claims the next queue instance using the configured item
// size. The first call fixes the size for the whole arena; the handle is
// the owner's for the process lifetime.
func (r *RTOS) AcquireQueue() pool.QueueHandle {
	return r.queues.Acquire(r.itemSize)
}

// Observers returns the observer registry.
func (r *RTOS) Observers() *registry.Observers { return r.observers }

// Metrics returns the stats registry for probe registration.
func (r *RTOS) Metrics() *control.MetricsRegistry { return r.metrics }

// Stats returns a snapshot across all pools.
func (r *RTOS) Stats() map[string]any { return r.metrics.GetSnapshot() }

// MustSchedule schedules a one-shot timer and halts through the diagnostic
// sink if the pool is exhausted. Callers preferring to handle the error
// use Timers().Schedule directly.
func (r *RTOS) MustSchedule(callback api.TimerCallback, state any, delay time.Duration) {
	if err := r.timers.Schedule(callback, state, delay); err != nil {
		r.sink.Fail(err)
	}
}

// MustRegister arms a one-shot observer and halts through the diagnostic
// sink if the registry is exhausted.
func (r *RTOS) MustRegister(id uint32, state any, callback api.ObserverCallback) {
	if err := r.observers.Register(id, state, callback); err != nil {
		r.sink.Fail(err)
	}
}
