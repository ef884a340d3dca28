package runtime

import (
	"strings"

	"github.com/lumen-ui/lumen/pkg/dom"
	"github.com/lumen-ui/lumen/pkg/ui"
)

// hydrateRoot adopts the pre-rendered host subtree under root instead of
// rebuilding it. Formatting whitespace between elements is pruned so the
// adopted tree lines up one-to-one with the element descriptions the
// reconciler will diff against later.
func (rt *Runtime) hydrateRoot(root dom.Node, el *ui.Element) *Instance {
	for rt.adapter.ChildCount(root) > 0 {
		first := rt.adapter.ChildAt(root, 0)
		if !isIgnorableText(rt.adapter, first) {
			break
		}
		rt.adapter.RemoveChild(root, first)
	}

	if rt.adapter.ChildCount(root) == 0 {
		node, inst := rt.renderComponent(el, nil)
		rt.adapter.AppendChild(root, node)
		return inst
	}

	_, inst := rt.hydrateComponent(root, rt.adapter.ChildAt(root, 0), el, nil)

	for rt.adapter.ChildCount(root) > 1 {
		rt.removeNode(root, rt.adapter.ChildAt(root, 1))
	}
	return inst
}

// hydrate reconciles one element description against one existing host
// node, reusing the node when identity matches and replacing it locally
// when it does not. A single mismatched node never forces the rest of
// the tree to rebuild.
func (rt *Runtime) hydrate(parent, node dom.Node, el *ui.Element, owner *Instance) dom.Node {
	switch el.Kind {
	case ui.KindText:
		if !node.IsText() {
			return rt.hydrateMismatch(parent, node, el, owner)
		}
		if rt.adapter.Text(node) != el.Text {
			rt.adapter.SetText(node, el.Text)
		}
		return node

	case ui.KindLive:
		if !node.IsText() {
			return rt.hydrateMismatch(parent, node, el, owner)
		}
		cell := el.Cell
		rt.adapter.SetText(node, cell.String())
		cancel := cell.Watch(func() {
			rt.adapter.SetText(node, cell.String())
		})
		rt.bindings[node] = cancel
		return node

	case ui.KindComponent:
		adopted, _ := rt.hydrateComponent(parent, node, el, owner)
		return adopted

	default:
		if node.IsText() || rt.adapter.TagName(node) != el.Tag {
			return rt.hydrateMismatch(parent, node, el, owner)
		}
		for key, value := range el.Props {
			rt.setProp(node, key, value)
		}
		rt.hydrateChildren(node, ui.Flatten(el.Children), owner)
		return node
	}
}

// hydrateComponent mounts an instance over an existing host node. An
// asynchronous first render cannot adopt meaningfully, so the node is
// replaced with the usual empty placeholder and the settle continuation
// takes over from there.
func (rt *Runtime) hydrateComponent(parent, node dom.Node, el *ui.Element, owner *Instance) (dom.Node, *Instance) {
	inst := newInstance(rt, el, owner)
	out := rt.invoke(inst)

	if deferred, ok := out.(*ui.Deferred); ok {
		placeholder := rt.adapter.CreateText("")
		rt.replaceNode(parent, placeholder, node)
		inst.subtree = ui.Text("")
		rt.bindInstance(placeholder, inst)
		inst.mounted.Store(true)
		rt.awaitDeferred(inst, deferred)
		return inst.node, inst
	}

	subtree := normalizeOutput(out)
	adopted := rt.hydrate(parent, node, subtree, inst)
	inst.subtree = subtree
	rt.bindInstance(adopted, inst)
	inst.mounted.Store(true)
	rt.queueEffects(inst)
	return adopted, inst
}

// hydrateChildren lines the expected children up against the existing
// host children, pruning formatting whitespace and appending anything
// the pre-rendered tree is missing. Surplus host children are removed.
func (rt *Runtime) hydrateChildren(parent dom.Node, expected []*ui.Element, owner *Instance) {
	for i, el := range expected {
		// Drop whitespace-only text at this slot unless a text leaf is
		// actually expected here.
		for i < rt.adapter.ChildCount(parent) {
			host := rt.adapter.ChildAt(parent, i)
			if el.IsTextLike() || !isIgnorableText(rt.adapter, host) {
				break
			}
			rt.adapter.RemoveChild(parent, host)
		}

		if i >= rt.adapter.ChildCount(parent) {
			rt.adapter.AppendChild(parent, rt.render(el, owner))
			continue
		}
		rt.hydrate(parent, rt.adapter.ChildAt(parent, i), el, owner)
	}

	for rt.adapter.ChildCount(parent) > len(expected) {
		rt.removeNode(parent, rt.adapter.ChildAt(parent, len(expected)))
	}
}

// hydrateMismatch replaces one host node whose shape does not match its
// description. The mismatch is logged and contained to this position.
func (rt *Runtime) hydrateMismatch(parent, node dom.Node, el *ui.Element, owner *Instance) dom.Node {
	rt.logger.Debug("hydration mismatch, replacing node",
		"expected", describeElement(el), "got", describeNode(rt.adapter, node))
	fresh := rt.render(el, owner)
	rt.replaceNode(parent, fresh, node)
	return fresh
}

func isIgnorableText(a dom.Adapter, n dom.Node) bool {
	return n.IsText() && strings.TrimSpace(a.Text(n)) == ""
}

func describeElement(el *ui.Element) string {
	if el.IsTextLike() {
		return "#text"
	}
	return el.Tag
}

func describeNode(a dom.Adapter, n dom.Node) string {
	if n.IsText() {
		return "#text"
	}
	return a.TagName(n)
}
