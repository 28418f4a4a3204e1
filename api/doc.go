// Package api
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Contracts shared by all rtospool packages: the kernel capability
// interfaces the pools are built on, the status-code convention of
// pass-through operations, callback types, and structured errors.
//
// The pools never reach into a concrete kernel; they consume these
// interfaces only. The fake package provides an in-process kernel for
// tests and examples, a real deployment adapts its RTOS bindings.
package api
