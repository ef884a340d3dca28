package reactive

import "fmt"

// Listener is anything that can be notified when a cell it subscribed to
// changes. Component instances, computed values, and plain callback
// subscriptions all implement it.
type Listener interface {
	// MarkDirty notifies the listener that a dependency changed.
	MarkDirty()

	// ID returns a unique identifier, used for subscriber deduplication.
	ID() uint64
}

// TextCell is the type-erased face of a Signal or Computed that the
// reconciler binds directly into host text leaves. Writes to the cell
// update the leaf without any tree diffing.
type TextCell interface {
	fmt.Stringer

	// Watch registers fn to run after every value change and returns a
	// cancel function that removes exactly that registration.
	Watch(fn func()) (cancel func())
}

// tracker is a listener that also records its dependency set, so stale
// subscriptions can be dropped before the next computation.
type tracker interface {
	Listener
	addSource(s *signalBase)
}

// funcListener adapts a plain callback to the Listener interface.
type funcListener struct {
	id uint64
	fn func()
}

func newFuncListener(fn func()) *funcListener {
	return &funcListener{id: nextID(), fn: fn}
}

func (l *funcListener) MarkDirty() { l.fn() }
func (l *funcListener) ID() uint64 { return l.id }
