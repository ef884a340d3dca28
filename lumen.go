// Package lumen provides the public API for the Lumen UI runtime.
//
// This is the recommended import for most applications:
//
//	import "github.com/lumen-ui/lumen"
//
// Usage:
//
//	func Counter(props lumen.Props) any {
//		count := lumen.UseSignal(0)
//		return lumen.El("button",
//			lumen.Attr{Key: "onclick", Value: func() { count.Set(count.Peek() + 1) }},
//			"count: ", count,
//		)
//	}
//
//	doc := memdom.NewDocument()
//	rt := lumen.New(doc)
//	rt.Mount(doc.Root, Counter)
package lumen

import (
	"github.com/lumen-ui/lumen/pkg/reactive"
	"github.com/lumen-ui/lumen/pkg/runtime"
	"github.com/lumen-ui/lumen/pkg/ui"
)

// =============================================================================
// Element construction (re-export from pkg/ui)
// =============================================================================

// Element is one node of a declarative tree description.
type Element = ui.Element

// Props is the property bag a component function receives.
type Props = ui.Props

// Attr is a single key/value property for element constructors.
type Attr = ui.Attr

// Component is a render function: props in, tree description out.
type Component = ui.Component

// Deferred is the promise-like result of an asynchronous component.
type Deferred = ui.Deferred

// El constructs a host element description.
var El = ui.El

// Comp constructs a component element description.
var Comp = ui.Comp

// Text constructs a static text leaf.
var Text = ui.Text

// Textf constructs a formatted static text leaf.
var Textf = ui.Textf

// Fragment groups children without introducing a host node.
var Fragment = ui.Fragment

// Live binds a reactive cell directly to a host text leaf.
var Live = ui.Live

// Key tags an element for keyed reconciliation.
var Key = ui.Key

// If, IfElse, When, Unless, Range, Repeat, and Nothing are conditional
// and list helpers for building children.
var (
	If      = ui.If
	IfElse  = ui.IfElse
	When    = ui.When
	Unless  = ui.Unless
	Nothing = ui.Nothing
)

// Async runs fn on its own goroutine and returns a settling Deferred.
var Async = ui.Async

// NewDeferred creates an unsettled Deferred.
var NewDeferred = ui.NewDeferred

// Range maps a slice to elements, dropping nil results.
func Range[T any](items []T, fn func(item T, index int) *Element) []*Element {
	return ui.Range(items, fn)
}

// Repeat creates n elements using the given function.
func Repeat(n int, fn func(i int) *Element) []*Element {
	return ui.Repeat(n, fn)
}

// =============================================================================
// Reactive primitives (re-export from pkg/reactive)
// =============================================================================

// Signal is a mutable reactive cell.
type Signal[T any] = reactive.Signal[T]

// Computed is an eagerly-maintained derived cell.
type Computed[T any] = reactive.Computed[T]

// NewSignal creates a standalone signal. Inside components prefer
// UseSignal, which ties the signal to the instance's re-render.
func NewSignal[T any](initial T) *Signal[T] {
	return reactive.NewSignal(initial)
}

// NewComputed creates a standalone derived cell.
func NewComputed[T any](compute func() T) *Computed[T] {
	return reactive.NewComputed(compute)
}

// Batch coalesces notifications from all writes inside fn.
var Batch = reactive.Batch

// Untracked runs fn without dependency tracking.
var Untracked = reactive.Untracked

// =============================================================================
// Runtime and hooks (re-export from pkg/runtime)
// =============================================================================

// Runtime drives one host tree.
type Runtime = runtime.Runtime

// Instance is the mounted occurrence of a component function.
type Instance = runtime.Instance

// Cleanup is a teardown callback registered by a hook.
type Cleanup = runtime.Cleanup

// Option configures a Runtime.
type Option = runtime.Option

// New creates a runtime over a host adapter.
var New = runtime.New

// WithLogger, WithMetrics, and WithTracerName configure a Runtime.
var (
	WithLogger     = runtime.WithLogger
	WithMetrics    = runtime.WithMetrics
	WithTracerName = runtime.WithTracerName
)

// UseSignal returns the current call site's signal, creating it on the
// first render of the instance.
func UseSignal[T any](initial T) *Signal[T] {
	return runtime.UseSignal(initial)
}

// UseComputed returns the current call site's derived cell.
func UseComputed[T any](compute func() T) *Computed[T] {
	return runtime.UseComputed(compute)
}

// UseEffect queues fn to run after the current render pass commits.
var UseEffect = runtime.UseEffect

// OnCleanup registers fn to run when the current instance unmounts.
var OnCleanup = runtime.OnCleanup

// Provide associates a context value with the current instance.
var Provide = runtime.Provide

// UseContext reads a context value from the nearest provider.
var UseContext = runtime.UseContext
