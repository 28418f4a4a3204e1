// Package pool
// Author: momentics <momentics@gmail.com>
//
// Fixed-capacity pools virtualizing a kernel's statically-sized resources.
// Every pool is a flat slot array with deterministic first-fit allocation:
// scans run in increasing index order, so low indexes win ties and
// allocation is reproducible. Claims go through a per-slot atomic
// compare-and-swap (internal/slot), never a bare flag write.
// See mutex_pool.go, timer_pool.go, msgq_pool.go for the three disciplines.
package pool
