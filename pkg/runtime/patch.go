package runtime

import (
	"github.com/lumen-ui/lumen/pkg/dom"
	"github.com/lumen-ui/lumen/pkg/ui"
)

// Patch reconciles the host subtree at node from the old element
// description to the new one, reusing host nodes wherever identity
// allows, and returns the node now representing new. Patching identical
// descriptions performs zero host mutations.
func (rt *Runtime) Patch(parent dom.Node, old, new any, node dom.Node) dom.Node {
	rt.enterTick()
	defer rt.exitTick()
	return rt.patch(parent, normalizeChild(old), normalizeChild(new), node, nil)
}

func (rt *Runtime) patch(parent dom.Node, old, new *ui.Element, node dom.Node, owner *Instance) dom.Node {
	if old == nil || node == nil {
		fresh := rt.render(new, owner)
		if parent != nil {
			rt.adapter.AppendChild(parent, fresh)
		}
		return fresh
	}

	// Text and live leaves interconvert in place: both occupy one host
	// text node, only the binding changes hands.
	if old.IsTextLike() && new.IsTextLike() {
		rt.patchTextLeaf(old, new, node)
		return node
	}

	if !ui.SameTag(old, new) {
		fresh := rt.render(new, owner)
		rt.replaceNode(parent, fresh, node)
		return fresh
	}

	if new.Kind == ui.KindComponent {
		return rt.patchComponent(parent, new, node, owner)
	}

	rt.diffProps(node, old.Props, new.Props)
	rt.diffChildren(node, ui.Flatten(old.Children), ui.Flatten(new.Children), owner)
	return node
}

// patchTextLeaf updates a text-position host node across the four
// static/live combinations without replacing the node.
func (rt *Runtime) patchTextLeaf(old, new *ui.Element, node dom.Node) {
	if old.Kind == ui.KindLive {
		if new.Kind == ui.KindLive && old.Cell == new.Cell {
			return
		}
		if cancel, ok := rt.bindings[node]; ok {
			cancel()
			delete(rt.bindings, node)
		}
	}

	if new.Kind == ui.KindLive {
		rt.adapter.SetText(node, new.Cell.String())
		cancel := new.Cell.Watch(func() {
			rt.adapter.SetText(node, new.Cell.String())
		})
		rt.bindings[node] = cancel
		return
	}

	if old.Kind == ui.KindLive || old.Text != new.Text {
		rt.adapter.SetText(node, new.Text)
	}
}

// patchComponent reconciles a component position whose function identity
// is unchanged. The existing instance absorbs the new props and
// re-invokes; hook state survives because the instance survives. A
// missing instance record means the node was not produced by this
// runtime, so the position rebuilds from scratch.
func (rt *Runtime) patchComponent(parent dom.Node, new *ui.Element, node dom.Node, owner *Instance) dom.Node {
	inst, ok := rt.instances[node]
	if !ok || inst.fnID != new.FnID() {
		fresh := rt.render(new, owner)
		rt.replaceNode(parent, fresh, node)
		return fresh
	}

	inst.setElement(new)
	rt.sched.retract(inst)
	rt.rerenderInstance(inst)
	return inst.node
}

// diffProps applies the minimal attribute and handler changes between
// two prop sets. Event handlers always re-register on change so a stale
// closure never fires; a style prop that disappears blanks out rather
// than lingering.
func (rt *Runtime) diffProps(node dom.Node, old, new ui.Props) {
	for key := range old {
		if key == ui.PropKey || key == ui.PropChildren {
			continue
		}
		if _, kept := new[key]; !kept {
			rt.removeProp(node, key)
		}
	}
	for key, newVal := range new {
		if key == ui.PropKey || key == ui.PropChildren {
			continue
		}
		oldVal, had := old[key]
		if had && propsEqual(key, oldVal, newVal) {
			continue
		}
		rt.setProp(node, key, newVal)
	}
}

// propsEqual reports whether a prop is unchanged for diffing purposes.
// Handler values compare by rendered identity only when comparable;
// funcs are never comparable, so event props always count as changed.
func propsEqual(key string, a, b any) bool {
	if isEventProp(key) {
		return false
	}
	if key == "style" {
		return styleString(a) == styleString(b)
	}
	return propToString(a) == propToString(b)
}
