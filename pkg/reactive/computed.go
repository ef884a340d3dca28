package reactive

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Computed is an eagerly maintained derived value. It recomputes whenever
// a dependency changes, and it subscribes to exactly the set of cells read
// during its most recent computation: before each recomputation every
// subscription from the previous run is removed, so a computed that stops
// reading a signal stops being notified by it.
type Computed[T any] struct {
	base signalBase

	compute func() T

	value T
	mu    sync.RWMutex

	sources   []*signalBase
	sourcesMu sync.Mutex

	equal func(T, T) bool

	schedule func()

	// computing breaks recursion on circular dependencies.
	computing atomic.Bool

	disposed atomic.Bool
}

// NewComputed creates a derived value and computes it immediately so the
// initial dependency set is established.
func NewComputed[T any](compute func() T) *Computed[T] {
	c := &Computed[T]{
		base:    signalBase{id: nextID()},
		compute: compute,
	}
	c.recompute(false)
	return c
}

// Get returns the current derived value, registering the ambient tracker
// as a subscriber.
func (c *Computed[T]) Get() T {
	c.base.track()

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Peek returns the current derived value without creating a dependency.
func (c *Computed[T]) Peek() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// MarkDirty recomputes the value. Implements Listener; invoked by the
// cells this computed depends on.
func (c *Computed[T]) MarkDirty() {
	c.recompute(true)
}

// ID returns the unique identifier for this computed.
func (c *Computed[T]) ID() uint64 { return c.base.id }

// addSource records a dependency. Implements the tracker interface.
func (c *Computed[T]) addSource(s *signalBase) {
	c.sourcesMu.Lock()
	defer c.sourcesMu.Unlock()
	for _, existing := range c.sources {
		if existing == s {
			return
		}
	}
	c.sources = append(c.sources, s)
}

// recompute drops the previous dependency set, reruns the computation
// while tracking reads, and propagates only if the value changed.
func (c *Computed[T]) recompute(notify bool) {
	if c.disposed.Load() {
		return
	}
	if c.computing.Swap(true) {
		return
	}
	defer c.computing.Store(false)

	c.dropSources()

	var next T
	withTracker(c, func() {
		next = c.compute()
	})

	c.mu.Lock()
	changed := !c.equals(c.value, next)
	if changed {
		c.value = next
	}
	c.mu.Unlock()

	if changed && notify {
		if c.schedule != nil {
			c.schedule()
		}
		c.base.notifySubscribers()
	}
}

func (c *Computed[T]) dropSources() {
	c.sourcesMu.Lock()
	sources := c.sources
	c.sources = nil
	c.sourcesMu.Unlock()

	for _, s := range sources {
		s.unsubscribe(c)
	}
}

// Dispose removes every remaining dependency subscription. A computed
// created inside a component instance must be disposed when the instance
// unmounts, otherwise the cells it once read retain it forever.
func (c *Computed[T]) Dispose() {
	if c.disposed.Swap(true) {
		return
	}
	c.dropSources()
}

// Subscribe registers fn to receive every new derived value.
func (c *Computed[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	l := newFuncListener(func() { fn(c.Peek()) })
	c.base.subscribe(l)
	return func() { c.base.unsubscribe(l) }
}

// Watch registers fn to run after every change of the derived value.
func (c *Computed[T]) Watch(fn func()) (cancel func()) {
	l := newFuncListener(fn)
	c.base.subscribe(l)
	return func() { c.base.unsubscribe(l) }
}

// Bind installs the scheduling hook for the owning component instance.
func (c *Computed[T]) Bind(schedule func()) {
	c.schedule = schedule
}

// WithEquals configures a custom change check.
func (c *Computed[T]) WithEquals(fn func(T, T) bool) *Computed[T] {
	c.equal = fn
	return c
}

// String renders the current derived value.
func (c *Computed[T]) String() string {
	return fmt.Sprint(c.Peek())
}

func (c *Computed[T]) equals(a, b T) bool {
	if c.equal != nil {
		return c.equal(a, b)
	}
	return defaultEquals(a, b)
}

var (
	_ tracker  = (*Computed[int])(nil)
	_ TextCell = (*Computed[int])(nil)
)
