package runtime

import (
	"context"
	"log/slog"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/lumen-ui/lumen/pkg/dom"
	"github.com/lumen-ui/lumen/pkg/metrics"
	"github.com/lumen-ui/lumen/pkg/ui"
)

// Runtime drives one host tree: it owns the node↔instance side table, the
// live-leaf bindings, the scheduler, and the dispatch queue that
// serializes all work onto a single logical thread.
type Runtime struct {
	adapter dom.Adapter
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	sched   *scheduler

	// instances maps a component's owning host node to its instance.
	// An explicit side table: host nodes stay free of injected metadata
	// and lookup/lifetime are both visible here.
	instances map[dom.Node]*Instance

	// bindings maps live text leaves to their watch cancel functions.
	bindings map[dom.Node]func()

	// handlerRemovers tracks event registrations per node and event type
	// so prop diffing can detach them.
	handlerRemovers map[dom.Node]map[string]func()

	roots map[dom.Node]*Instance

	// effectQueue holds post-commit effects of the current pass.
	effectQueue []effectEntry

	onFlush []func()

	dispatchCh  chan func()
	loopRunning atomic.Bool

	// tickDepth nests event handlers and dispatched continuations; the
	// coalesced flush runs when the outermost tick exits.
	tickDepth int
}

type effectEntry struct {
	inst *Instance
	fn   func() Cleanup
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the structured logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(rt *Runtime) { rt.logger = l }
}

// WithMetrics attaches a metrics set; nil disables instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(rt *Runtime) { rt.metrics = m }
}

// WithTracerName sets the OpenTelemetry tracer name (default "lumen").
// The tracer resolves from the global tracer provider.
func WithTracerName(name string) Option {
	return func(rt *Runtime) { rt.tracer = otel.Tracer(name) }
}

// New creates a runtime over the given host adapter.
func New(adapter dom.Adapter, opts ...Option) *Runtime {
	rt := &Runtime{
		adapter:         adapter,
		logger:          slog.Default(),
		tracer:          otel.Tracer("lumen"),
		instances:       make(map[dom.Node]*Instance),
		bindings:        make(map[dom.Node]func()),
		handlerRemovers: make(map[dom.Node]map[string]func()),
		roots:           make(map[dom.Node]*Instance),
		dispatchCh:      make(chan func(), 256),
	}
	rt.sched = newScheduler(rt)
	for _, opt := range opts {
		opt(rt)
	}
	rt.logger = rt.logger.With("component", "lumen.runtime")
	return rt
}

// Adapter returns the host adapter this runtime mutates.
func (rt *Runtime) Adapter() dom.Adapter { return rt.adapter }

// OnFlush registers fn to run after every completed scheduler flush.
// Used by observers such as the dev preview server.
func (rt *Runtime) OnFlush(fn func()) {
	rt.onFlush = append(rt.onFlush, fn)
}

func (rt *Runtime) notifyFlush() {
	for _, fn := range rt.onFlush {
		rt.runIsolated("flush observer", fn)
	}
}

// Mount renders the component into root. If root already has children,
// the existing host subtree is hydrated node-by-node instead of being
// rebuilt. A nil root is caller misuse and fails loudly.
func (rt *Runtime) Mount(root dom.Node, fn ui.Component) error {
	if root == nil {
		return ErrNilRoot
	}
	if _, ok := rt.roots[root]; ok {
		return ErrAlreadyMounted
	}

	rt.enterTick()
	defer rt.exitTick()

	el := ui.Comp(fn)
	var inst *Instance
	if rt.adapter.ChildCount(root) > 0 {
		inst = rt.hydrateRoot(root, el)
	} else {
		node, mounted := rt.renderComponent(el, nil)
		rt.adapter.AppendChild(root, node)
		inst = mounted
	}
	rt.roots[root] = inst

	if m := rt.metrics; m != nil {
		m.Mounts.Inc()
	}
	rt.runPendingEffects()
	rt.logger.Info("mounted component tree", "root_instances", 1)
	return nil
}

// Unmount tears down the instance tree rooted at root and empties the
// host node. Unmounting a root with nothing mounted is a no-op.
func (rt *Runtime) Unmount(root dom.Node) {
	if root == nil {
		return
	}
	if _, ok := rt.roots[root]; !ok {
		return
	}

	rt.enterTick()
	defer rt.exitTick()

	for rt.adapter.ChildCount(root) > 0 {
		child := rt.adapter.ChildAt(root, 0)
		rt.teardownNode(child)
		rt.adapter.RemoveChild(root, child)
	}
	delete(rt.roots, root)
}

// Dispatch runs fn on the runtime's logical thread as one tick: signal
// writes inside fn coalesce into a single flush when the tick exits.
// This is the only safe way for goroutines — async component loaders
// included — to touch signals owned by mounted instances.
func (rt *Runtime) Dispatch(fn func()) {
	if rt.loopRunning.Load() {
		rt.dispatchCh <- fn
		return
	}
	rt.enterTick()
	defer rt.exitTick()
	fn()
}

// Run drains dispatched work until ctx is done. While the loop runs,
// Dispatch enqueues instead of executing inline.
func (rt *Runtime) Run(ctx context.Context) error {
	if rt.loopRunning.Swap(true) {
		panic("lumen: Run called twice")
	}
	defer rt.loopRunning.Store(false)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-rt.dispatchCh:
			rt.enterTick()
			fn()
			rt.exitTick()
		}
	}
}

// Flush forces a scheduler flush now. Tests and manual drivers use this;
// event handlers and Dispatch flush automatically at tick exit.
func (rt *Runtime) Flush() {
	rt.sched.flush()
}

func (rt *Runtime) enterTick() { rt.tickDepth++ }

func (rt *Runtime) exitTick() {
	rt.tickDepth--
	if rt.tickDepth != 0 {
		return
	}
	// Drain to quiescence: a render through any entry point may have
	// queued effects without dirtying anything, and an effect's own
	// signal writes re-arm the flush. All of it commits before the tick
	// boundary closes rather than waiting on the next external event.
	for rt.sched.pending() || len(rt.effectQueue) > 0 {
		rt.sched.flush()
		rt.runPendingEffects()
	}
}

// requestTick asks for a flush on the next tick boundary. Inside a tick
// the exit handles it; under a running loop an empty task wakes the
// drain; otherwise the flush stays pending until the caller ticks.
func (rt *Runtime) requestTick() {
	if rt.tickDepth > 0 {
		return
	}
	if rt.loopRunning.Load() {
		select {
		case rt.dispatchCh <- func() {}:
		default:
		}
	}
}

// runIsolated invokes fn behind a recover boundary. Errors never cross
// from one instance's render, effect, or cleanup into a sibling's.
func (rt *Runtime) runIsolated(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			rt.logger.Error("recovered panic", "during", what, "panic", r)
			if m := rt.metrics; m != nil {
				m.RenderErrors.Inc()
			}
		}
	}()
	fn()
}

// runPendingEffects drains the post-commit effect queue. Effects of
// unmounted instances are dropped; a cleanup returned by an effect is
// registered on its instance for unmount.
func (rt *Runtime) runPendingEffects() {
	for len(rt.effectQueue) > 0 {
		queue := rt.effectQueue
		rt.effectQueue = nil

		for _, e := range queue {
			if !e.inst.Mounted() {
				continue
			}
			fn := e.fn
			inst := e.inst
			rt.runIsolated("effect", func() {
				if cleanup := fn(); cleanup != nil {
					if inst.Mounted() {
						inst.addCleanup(cleanup)
					} else {
						rt.runIsolated("cleanup", cleanup)
					}
				}
			})
			if m := rt.metrics; m != nil {
				m.Effects.Inc()
			}
		}
	}
}

func (rt *Runtime) queueEffects(inst *Instance) {
	for _, fn := range inst.effects {
		rt.effectQueue = append(rt.effectQueue, effectEntry{inst: inst, fn: fn})
	}
	inst.effects = nil
}

// InstanceFor returns the component instance owning a host node, if any.
func (rt *Runtime) InstanceFor(n dom.Node) (*Instance, bool) {
	inst, ok := rt.instances[n]
	return inst, ok
}

func (rt *Runtime) bindInstance(n dom.Node, inst *Instance) {
	if inst.node != nil && inst.node != n {
		delete(rt.instances, inst.node)
	}
	inst.node = n
	rt.instances[n] = inst
}

func (rt *Runtime) forgetInstance(n dom.Node) {
	delete(rt.instances, n)
}
