package runtime

import (
	"github.com/lumen-ui/lumen/pkg/dom"
	"github.com/lumen-ui/lumen/pkg/ui"
)

// childEntry pairs one old child description with the host node that
// currently represents it. Nodes are snapshotted up front because the
// pass itself rearranges the parent's child list.
type childEntry struct {
	el   *ui.Element
	node dom.Node
	used bool
}

// diffChildren reconciles the children of one host element. Keys drive
// identity when present: a keyed child matches exclusively by key and
// keeps its host node across reorders. An unkeyed child may only reuse
// an unkeyed old child, by position. Old children never matched by the
// end of the pass are torn down and removed.
func (rt *Runtime) diffChildren(parent dom.Node, old, new []*ui.Element, owner *Instance) {
	entries := make([]childEntry, 0, len(old))
	byKey := make(map[string]int)
	for i, el := range old {
		if i >= rt.adapter.ChildCount(parent) {
			break
		}
		entries = append(entries, childEntry{el: el, node: rt.adapter.ChildAt(parent, i)})
		if el.Key != "" {
			byKey[el.Key] = i
		}
	}

	// seq walks the unkeyed old entries in order for positional reuse.
	seq := 0

	for pos, newEl := range new {
		var entry *childEntry
		if newEl.Key != "" {
			if i, ok := byKey[newEl.Key]; ok && !entries[i].used {
				entry = &entries[i]
			}
		} else {
			for seq < len(entries) {
				cand := &entries[seq]
				seq++
				if cand.used || cand.el.Key != "" {
					continue
				}
				entry = cand
				break
			}
		}

		if entry == nil {
			fresh := rt.render(newEl, owner)
			rt.insertAt(parent, fresh, pos)
			continue
		}

		entry.used = true
		node := rt.patch(parent, entry.el, newEl, entry.node, owner)
		entry.node = node
		rt.moveTo(parent, node, pos)
	}

	for i := range entries {
		if !entries[i].used {
			rt.removeNode(parent, entries[i].node)
		}
	}

	// Anything beyond the new length was never described by old — a
	// hydration leftover — and goes the same way.
	for rt.adapter.ChildCount(parent) > len(new) {
		rt.removeNode(parent, rt.adapter.ChildAt(parent, len(new)))
	}
}

// insertAt attaches node as the pos-th child of parent.
func (rt *Runtime) insertAt(parent, node dom.Node, pos int) {
	if pos >= rt.adapter.ChildCount(parent) {
		rt.adapter.AppendChild(parent, node)
		return
	}
	rt.adapter.InsertBefore(parent, node, rt.adapter.ChildAt(parent, pos))
}

// moveTo repositions node to index pos, touching the host only when the
// node is not already there.
func (rt *Runtime) moveTo(parent, node dom.Node, pos int) {
	if pos < rt.adapter.ChildCount(parent) && rt.adapter.ChildAt(parent, pos) == node {
		return
	}
	rt.insertAt(parent, node, pos)
}
