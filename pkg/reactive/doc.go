// Package reactive provides the fine-grained reactivity primitives of the
// rendering core: Signal, a mutable value cell with subscriber
// notification, and Computed, an eagerly maintained derived value that
// tracks exactly the dependencies read by its most recent computation.
//
// Reads and writes are safe from any goroutine, but notification and
// dependency tracking assume the single logical thread of execution the
// runtime package establishes. Subscriber sets are snapshotted before
// iteration, so a subscriber may unsubscribe itself or trigger further
// writes without corrupting the pass that is notifying it.
package reactive
