// Package runtime is the rendering core: it owns component instances,
// reconciles element trees against a live host tree through a dom.Adapter,
// and batches signal-driven re-renders into one coalesced flush per tick.
//
// Execution is single-threaded and cooperative. All tree and instance
// mutation happens on one logical thread: event handlers, Dispatch
// continuations, and scheduler flushes never overlap. Goroutines hand
// results back through Runtime.Dispatch; they never touch the host tree
// directly.
package runtime
