// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime introspection layer for the pools: a concurrent-safe stats
// registry with dynamic probe registration. Pool capacities are fixed at
// configuration time, so unlike a hot-reloadable service there is nothing
// to mutate here; the surface is read-only snapshots.
package control
