package runtime

import (
	"sync/atomic"

	"github.com/lumen-ui/lumen/pkg/dom"
	"github.com/lumen-ui/lumen/pkg/ui"
)

// Cleanup is a teardown callback registered by a hook. The instance owns
// its cleanups exclusively and runs each exactly once at unmount, in
// registration order.
type Cleanup func()

// instanceIDCounter generates unique instance IDs.
var instanceIDCounter atomic.Uint64

// Instance is the mutable runtime record for one mounted occurrence of a
// component function. Hook state is index-addressed: callers must call
// hooks unconditionally and in the same order on every invocation, since
// slot identity is purely positional.
type Instance struct {
	id uint64
	rt *Runtime

	fn   ui.Component
	fnID uintptr

	// element is the wrapping element this instance currently renders.
	element *ui.Element

	// props is what the component function receives, children included
	// under ui.PropChildren.
	props ui.Props

	// subtree is the last normalized output of the component function.
	subtree *ui.Element

	// node is the host node owning the subtree, or the placeholder while
	// an asynchronous render is in flight.
	node dom.Node

	parent   *Instance
	children []*Instance

	// Positional hook state. Signals keep a slot list of their own.
	hookSlots   []any
	hookIdx     int
	signalSlots []any
	signalIdx   int

	// effects queued by the latest invocation, drained post-commit.
	effects []func() Cleanup

	// cleanups accumulated over the instance's lifetime.
	cleanups []Cleanup

	// values holds context associations set by Provide on this instance.
	// Lookup walks the parent chain, so inheritance is by reference and
	// a provider never mutates its ancestors.
	values map[any]any

	mounted  atomic.Bool
	dirty    atomic.Bool
	invoking bool

	// generation is the render identity: an async continuation only
	// commits if the generation it captured is still current.
	generation atomic.Uint64
}

func newInstance(rt *Runtime, el *ui.Element, parent *Instance) *Instance {
	inst := &Instance{
		id:      instanceIDCounter.Add(1),
		rt:      rt,
		fn:      el.Fn,
		fnID:    el.FnID(),
		element: el,
		parent:  parent,
	}
	inst.setElement(el)
	if parent != nil {
		parent.children = append(parent.children, inst)
	}
	return inst
}

// ID returns the unique identifier of this instance.
func (c *Instance) ID() uint64 { return c.id }

// Mounted reports whether the instance is live in the tree.
func (c *Instance) Mounted() bool { return c.mounted.Load() }

// Node returns the host node currently owned by this instance.
func (c *Instance) Node() dom.Node { return c.node }

// setElement installs a new wrapping element and rebuilds the props the
// component function will see, flattened children included.
func (c *Instance) setElement(el *ui.Element) {
	c.element = el

	props := make(ui.Props, len(el.Props)+1)
	for k, v := range el.Props {
		props[k] = v
	}
	props[ui.PropChildren] = ui.Flatten(el.Children)
	c.props = props
}

// invalidate marks the instance dirty with the scheduler. Writes against
// unmounted instances are silent no-ops.
func (c *Instance) invalidate() {
	c.rt.sched.markDirty(c)
}

func (c *Instance) beginInvoke() {
	c.hookIdx = 0
	c.signalIdx = 0
	c.effects = nil
	c.invoking = true
	c.generation.Add(1)
}

func (c *Instance) endInvoke() {
	c.invoking = false
}

func (c *Instance) addCleanup(fn Cleanup) {
	c.cleanups = append(c.cleanups, fn)
}

// removeChild unlinks a direct child instance.
func (c *Instance) removeChild(child *Instance) {
	for i, ch := range c.children {
		if ch == child {
			c.children = append(c.children[:i], c.children[i+1:]...)
			return
		}
	}
}

// unmount transitions the instance to its terminal state: descendants
// first, then this instance's cleanups exactly once in registration
// order, each isolated so one throwing cleanup cannot block the rest.
// After unmount the instance is never re-entered; a pending dirty entry
// is retracted so a stale flush skips it silently.
func (c *Instance) unmount() {
	if !c.mounted.Swap(false) {
		return
	}

	children := c.children
	c.children = nil
	for _, child := range children {
		child.unmount()
	}

	cleanups := c.cleanups
	c.cleanups = nil
	for _, fn := range cleanups {
		c.rt.runIsolated("cleanup", fn)
	}

	c.rt.sched.retract(c)
	if c.node != nil {
		c.rt.forgetInstance(c.node)
	}
	if c.parent != nil {
		c.parent.removeChild(c)
		c.parent = nil
	}
	c.effects = nil
	c.hookSlots = nil
	c.signalSlots = nil
	c.values = nil
}
