package runtime

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lumen-ui/lumen/pkg/dom"
	"github.com/lumen-ui/lumen/pkg/reactive"
	"github.com/lumen-ui/lumen/pkg/ui"
)

// Render constructs a fresh host subtree for v under the given reactive
// context (the instance that owns signals created along the way; nil at
// the root). This is the pure construction path used by replacement and
// insertion cases — it never diffs.
func (rt *Runtime) Render(v any, owner *Instance) dom.Node {
	rt.enterTick()
	defer rt.exitTick()
	return rt.render(normalizeChild(v), owner)
}

func (rt *Runtime) render(el *ui.Element, owner *Instance) dom.Node {
	switch el.Kind {
	case ui.KindText:
		return rt.adapter.CreateText(el.Text)

	case ui.KindLive:
		return rt.bindLiveLeaf(el.Cell)

	case ui.KindComponent:
		node, _ := rt.renderComponent(el, owner)
		return node

	default:
		node := rt.adapter.CreateElement(el.Tag)
		for key, value := range el.Props {
			rt.setProp(node, key, value)
		}
		for _, child := range ui.Flatten(el.Children) {
			rt.adapter.AppendChild(node, rt.render(child, owner))
		}
		if m := rt.metrics; m != nil {
			m.Renders.Inc()
		}
		return node
	}
}

// bindLiveLeaf creates a text node driven directly by a reactive cell.
// Writes to the cell update the leaf in place — no tree diffing.
func (rt *Runtime) bindLiveLeaf(cell reactive.TextCell) dom.Node {
	node := rt.adapter.CreateText(cell.String())
	cancel := cell.Watch(func() {
		rt.adapter.SetText(node, cell.String())
	})
	rt.bindings[node] = cancel
	return node
}

// renderComponent mounts a new instance for a component element and
// returns its host node. An asynchronous component mounts an empty text
// placeholder immediately; the continuation swaps in the real subtree on
// settle, but only if the instance is still live and not superseded.
func (rt *Runtime) renderComponent(el *ui.Element, parent *Instance) (dom.Node, *Instance) {
	inst := newInstance(rt, el, parent)
	out := rt.invoke(inst)

	if deferred, ok := out.(*ui.Deferred); ok {
		placeholder := rt.adapter.CreateText("")
		inst.subtree = ui.Text("")
		rt.bindInstance(placeholder, inst)
		inst.mounted.Store(true)
		rt.awaitDeferred(inst, deferred)
		// An already-settled deferred swaps the subtree in synchronously,
		// so hand back whatever node the instance owns now.
		return inst.node, inst
	}

	subtree := normalizeOutput(out)
	node := rt.render(subtree, inst)
	inst.subtree = subtree
	rt.bindInstance(node, inst)
	inst.mounted.Store(true)
	rt.queueEffects(inst)
	return node, inst
}

// awaitDeferred registers the continuation for an async render. The
// continuation runs as a dispatched tick and re-checks both liveness and
// the render generation it captured: an instance unmounted or re-invoked
// while the value was in flight discards the result untouched.
func (rt *Runtime) awaitDeferred(inst *Instance, deferred *ui.Deferred) {
	gen := inst.generation.Load()

	deferred.OnSettle(func(result any, err error) {
		rt.Dispatch(func() {
			if !inst.Mounted() || inst.generation.Load() != gen {
				return
			}

			var subtree *ui.Element
			if err != nil {
				rt.logger.Error("async component failed", "instance", inst.id, "err", err)
				if m := rt.metrics; m != nil {
					m.RenderErrors.Inc()
				}
				subtree = fallbackElement(err)
			} else {
				subtree = normalizeOutput(result)
			}

			rt.patchOwnSubtree(inst, subtree)
			rt.runPendingEffects()
		})
	})
}

// patchOwnSubtree reconciles an instance's root node against new output.
// The node is unbound for the duration of the patch: a structural
// replacement of the root must tear down the old subtree's contents, not
// the instance doing the replacing.
func (rt *Runtime) patchOwnSubtree(inst *Instance, subtree *ui.Element) {
	parent := rt.adapter.Parent(inst.node)
	old := inst.subtree
	node := inst.node
	inst.subtree = subtree

	rt.forgetInstance(node)
	fresh := rt.patch(parent, old, subtree, node, inst)
	rt.bindInstance(fresh, inst)
	rt.queueEffects(inst)
}

// invoke runs the component function with this instance as the ambient
// current instance. A panic during invocation is contained here: it is
// logged and the instance renders a fallback text output for this pass.
func (rt *Runtime) invoke(inst *Instance) (out any) {
	defer func() {
		if r := recover(); r != nil {
			rt.logger.Error("component panicked during render",
				"instance", inst.id, "panic", r)
			if m := rt.metrics; m != nil {
				m.RenderErrors.Inc()
			}
			out = fallbackElement(r)
		}
	}()

	inst.beginInvoke()
	defer inst.endInvoke()

	withInstance(inst, func() {
		out = inst.fn(inst.props)
	})
	if m := rt.metrics; m != nil {
		m.Renders.Inc()
	}
	return out
}

// rerenderInstance re-invokes a mounted instance and reconciles its new
// output against the previous subtree. Used by the scheduler flush and
// the component-update patch path.
func (rt *Runtime) rerenderInstance(inst *Instance) {
	if !inst.Mounted() {
		return
	}

	out := rt.invoke(inst)
	if deferred, ok := out.(*ui.Deferred); ok {
		// Keep the current subtree until the new render settles.
		rt.awaitDeferred(inst, deferred)
		return
	}

	rt.patchOwnSubtree(inst, normalizeOutput(out))
}

// fallbackElement is the degraded output substituted for a failed render.
func fallbackElement(cause any) *ui.Element {
	return ui.Text(fmt.Sprintf("render error: %v", cause))
}

// normalizeOutput reduces a component function's return value to one
// element. Multi-child output gets an implicit div container so every
// instance owns exactly one host node.
func normalizeOutput(out any) *ui.Element {
	flat := ui.Flatten([]any{out})
	switch len(flat) {
	case 0:
		return ui.Text("")
	case 1:
		return flat[0]
	default:
		children := make([]any, len(flat))
		for i, c := range flat {
			children[i] = c
		}
		return ui.El("div", children...)
	}
}

// normalizeChild reduces an arbitrary child value to one element for
// patching. Null and boolean sides normalize to an empty text
// placeholder, per the reconciler's comparison rules.
func normalizeChild(v any) *ui.Element {
	if el, ok := v.(*ui.Element); ok && el != nil && el.Kind != ui.KindFragment {
		return el
	}
	return normalizeOutput(v)
}

// =============================================================================
// Property application
// =============================================================================

// setProp applies one property to a host node. Event props register
// tick-wrapped handlers; style maps serialize deterministically.
func (rt *Runtime) setProp(node dom.Node, key string, value any) {
	switch {
	case key == ui.PropKey || key == ui.PropChildren:
		return
	case isEventProp(key):
		rt.setEventProp(node, key, value)
	case key == "style":
		rt.adapter.SetAttribute(node, "style", styleString(value))
	default:
		rt.adapter.SetAttribute(node, key, propToString(value))
	}
}

// removeProp detaches one property, including event registrations, and
// blanks removed style declarations.
func (rt *Runtime) removeProp(node dom.Node, key string) {
	switch {
	case key == ui.PropKey || key == ui.PropChildren:
		return
	case isEventProp(key):
		rt.removeEventProp(node, key)
	default:
		rt.adapter.RemoveAttribute(node, key)
	}
}

func (rt *Runtime) setEventProp(node dom.Node, key string, value any) {
	rt.removeEventProp(node, key)

	h := rt.normalizeHandler(value)
	if h == nil {
		return
	}
	event := strings.ToLower(key[2:])
	remove := rt.adapter.AddEventListener(node, event, h)

	removers := rt.handlerRemovers[node]
	if removers == nil {
		removers = make(map[string]func())
		rt.handlerRemovers[node] = removers
	}
	removers[key] = remove
}

func (rt *Runtime) removeEventProp(node dom.Node, key string) {
	if removers := rt.handlerRemovers[node]; removers != nil {
		if remove, ok := removers[key]; ok {
			remove()
			delete(removers, key)
		}
	}
}

// normalizeHandler wraps a handler so the whole invocation is one tick:
// every signal write inside it coalesces into a single post-handler
// flush, and a panic is contained to this handler.
func (rt *Runtime) normalizeHandler(value any) dom.EventHandler {
	var call func(dom.Event)
	switch h := value.(type) {
	case nil:
		return nil
	case dom.EventHandler:
		call = h
	case func(dom.Event):
		call = h
	case func():
		call = func(dom.Event) { h() }
	default:
		rt.logger.Warn("unsupported event handler type", "type", fmt.Sprintf("%T", value))
		return nil
	}

	return func(e dom.Event) {
		rt.enterTick()
		defer rt.exitTick()
		rt.runIsolated("event handler", func() { call(e) })
	}
}

func isEventProp(key string) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on")
}

// styleString serializes a style prop. Maps render as sorted
// "key: value" declarations; strings pass through.
func styleString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case map[string]string:
		keys := make([]string, 0, len(s))
		for k := range s {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		for i, k := range keys {
			if i > 0 {
				b.WriteString("; ")
			}
			b.WriteString(k)
			b.WriteString(": ")
			b.WriteString(s[k])
		}
		return b.String()
	default:
		return propToString(v)
	}
}

// propToString converts a prop value to its attribute form.
func propToString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// =============================================================================
// Teardown
// =============================================================================

// teardownNode releases everything owned under a host subtree before the
// node leaves the tree: component instances unmount (cleanups cascade
// depth-first) and live-leaf bindings are cancelled. Host removal itself
// is the caller's last step, so instance teardown always precedes it.
func (rt *Runtime) teardownNode(node dom.Node) {
	if node == nil {
		return
	}

	if cancel, ok := rt.bindings[node]; ok {
		cancel()
		delete(rt.bindings, node)
	}
	if removers, ok := rt.handlerRemovers[node]; ok {
		for _, remove := range removers {
			remove()
		}
		delete(rt.handlerRemovers, node)
	}
	if inst, ok := rt.instances[node]; ok {
		inst.unmount()
		delete(rt.instances, node)
	}

	for i := 0; i < rt.adapter.ChildCount(node); i++ {
		rt.teardownNode(rt.adapter.ChildAt(node, i))
	}
}

// removeNode tears down and detaches a child of parent.
func (rt *Runtime) removeNode(parent, node dom.Node) {
	rt.teardownNode(node)
	if parent != nil {
		rt.adapter.RemoveChild(parent, node)
	}
}

// replaceNode tears down old and swaps fresh into its place.
func (rt *Runtime) replaceNode(parent, fresh, old dom.Node) {
	rt.teardownNode(old)
	if parent != nil {
		rt.adapter.ReplaceChild(parent, fresh, old)
	}
}
