package runtime

import (
	"fmt"

	"github.com/lumen-ui/lumen/pkg/reactive"
)

// UseSignal returns this call site's signal, creating it with initial on
// the first invocation. Writes to the signal mark the owning instance
// dirty; the scheduler coalesces repeated writes into one re-render per
// tick. Slot identity is positional and type-checked across renders.
func UseSignal[T any](initial T) *reactive.Signal[T] {
	inst := Current()

	idx := inst.signalIdx
	inst.signalIdx++

	if idx < len(inst.signalSlots) {
		sig, ok := inst.signalSlots[idx].(*reactive.Signal[T])
		if !ok {
			panic(fmt.Sprintf("lumen: signal slot %d changed type across renders (hooks must run in a stable order)", idx))
		}
		return sig
	}

	sig := reactive.NewSignal(initial)
	sig.Bind(inst.invalidate)
	inst.signalSlots = append(inst.signalSlots, sig)
	return sig
}

// UseComputed returns this call site's derived value, creating it on the
// first invocation. The computed eagerly tracks exactly the cells read by
// its latest computation, marks the owning instance dirty when its value
// changes, and is disposed — all remaining dependency subscriptions
// removed — when the instance unmounts.
func UseComputed[T any](compute func() T) *reactive.Computed[T] {
	inst := Current()

	idx := inst.hookIdx
	inst.hookIdx++

	if idx < len(inst.hookSlots) {
		c, ok := inst.hookSlots[idx].(*reactive.Computed[T])
		if !ok {
			panic(fmt.Sprintf("lumen: hook slot %d changed type across renders (hooks must run in a stable order)", idx))
		}
		return c
	}

	c := reactive.NewComputed(compute)
	c.Bind(inst.invalidate)
	inst.hookSlots = append(inst.hookSlots, c)
	inst.addCleanup(c.Dispose)
	return c
}

// UseEffect queues fn to run after the current render pass commits its
// host mutations. Effects queue on every invocation. A non-nil returned
// Cleanup is registered for unmount.
func UseEffect(fn func() Cleanup) {
	inst := Current()
	inst.effects = append(inst.effects, fn)
}

// OnCleanup registers fn to run exactly once when the instance unmounts.
func OnCleanup(fn Cleanup) {
	Current().addCleanup(fn)
}

// Provide associates a context value with the current instance. All
// descendants read it through UseContext; a nearer provider shadows a
// farther one. The association is written only on this instance, never
// on an ancestor.
func Provide(key, value any) {
	inst := Current()
	if inst.values == nil {
		inst.values = make(map[any]any)
	}
	inst.values[key] = value
}

// UseContext reads the context value for key from the nearest ancestor
// provider (the current instance included). The second result reports
// whether any provider was found.
func UseContext(key any) (any, bool) {
	for inst := Current(); inst != nil; inst = inst.parent {
		if inst.values != nil {
			if v, ok := inst.values[key]; ok {
				return v, true
			}
		}
	}
	return nil, false
}
