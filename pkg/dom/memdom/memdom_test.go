package memdom

import (
	"strings"
	"testing"

	"github.com/lumen-ui/lumen/pkg/dom"
)

func TestTreeOperations(t *testing.T) {
	d := NewDocument()

	div := d.CreateElement("div")
	a := d.CreateText("a")
	b := d.CreateText("b")
	c := d.CreateText("c")

	d.AppendChild(d.Root, div)
	d.AppendChild(div, a)
	d.AppendChild(div, c)
	d.InsertBefore(div, b, c)

	if d.ChildCount(div) != 3 {
		t.Fatalf("expected 3 children, got %d", d.ChildCount(div))
	}
	if d.Text(d.ChildAt(div, 1)) != "b" {
		t.Errorf("InsertBefore misplaced node: %q", d.Text(d.ChildAt(div, 1)))
	}
	if d.Parent(b) != div {
		t.Error("parent link not set")
	}

	// Inserting an attached node moves it.
	d.InsertBefore(div, c, a)
	if d.ChildCount(div) != 3 {
		t.Fatalf("move must not duplicate, got %d children", d.ChildCount(div))
	}
	if d.Text(d.ChildAt(div, 0)) != "c" {
		t.Errorf("expected c first after move, got %q", d.Text(d.ChildAt(div, 0)))
	}

	d.RemoveChild(div, c)
	if d.ChildCount(div) != 2 || d.Parent(c) != nil {
		t.Error("RemoveChild did not detach")
	}

	repl := d.CreateText("r")
	d.ReplaceChild(div, repl, a)
	if d.Text(d.ChildAt(div, 0)) != "r" {
		t.Errorf("ReplaceChild misplaced node: %q", d.Text(d.ChildAt(div, 0)))
	}
}

func TestMutationCounting(t *testing.T) {
	d := NewDocument()
	div := d.CreateElement("div")
	d.AppendChild(d.Root, div)
	d.SetAttribute(div, "class", "x")

	d.ResetMutations()

	// Idempotent writes never count.
	d.SetAttribute(div, "class", "x")
	d.SetText(d.CreateText("t"), "t")
	d.RemoveAttribute(div, "missing")
	if d.Mutations() != 0 {
		t.Errorf("expected 0 mutations for idempotent writes, got %d", d.Mutations())
	}

	d.SetAttribute(div, "class", "y")
	d.RemoveAttribute(div, "class")
	if d.Mutations() != 2 {
		t.Errorf("expected 2 mutations, got %d", d.Mutations())
	}
}

func TestNodeByID(t *testing.T) {
	d := NewDocument()
	div := d.CreateElement("div").(*Node)

	if got := d.NodeByID(div.ID()); got != div {
		t.Errorf("NodeByID(%q) = %v", div.ID(), got)
	}
	if d.NodeByID("nope") != nil {
		t.Error("unknown ID should resolve to nil")
	}
}

func TestEventDispatch(t *testing.T) {
	d := NewDocument()
	btn := d.CreateElement("button")

	var events []dom.Event
	remove := d.AddEventListener(btn, "click", func(e dom.Event) {
		events = append(events, e)
	})

	node := btn.(*Node)
	node.Fire("click", map[string]any{"x": 1})
	if len(events) != 1 || events[0].Type != "click" || events[0].Data["x"] != 1 {
		t.Fatalf("unexpected events: %v", events)
	}

	remove()
	node.Fire("click", nil)
	if len(events) != 1 {
		t.Errorf("removed handler fired, got %d events", len(events))
	}
	if node.HandlerCount("click") != 0 {
		t.Errorf("expected 0 handlers, got %d", node.HandlerCount("click"))
	}
}

func TestFireSnapshotsHandlers(t *testing.T) {
	d := NewDocument()
	btn := d.CreateElement("button").(*Node)

	fired := 0
	var remove func()
	remove = d.AddEventListener(btn, "click", func(dom.Event) {
		fired++
		remove() // self-removal must not disturb this delivery
	})
	d.AddEventListener(btn, "click", func(dom.Event) { fired++ })

	btn.Fire("click", nil)
	if fired != 2 {
		t.Errorf("expected both handlers to fire, got %d", fired)
	}
}

func TestHTMLSerialization(t *testing.T) {
	d := NewDocument()
	div := d.CreateElement("div")
	d.SetAttribute(div, "class", "a<b")
	d.AppendChild(d.Root, div)
	d.AppendChild(div, d.CreateText("x < y & z"))
	d.AppendChild(div, d.CreateElement("br"))

	html := d.HTML(d.Root)
	if !strings.Contains(html, `class="a&lt;b"`) {
		t.Errorf("attribute not escaped: %s", html)
	}
	if !strings.Contains(html, "x &lt; y &amp; z") {
		t.Errorf("text not escaped: %s", html)
	}
	if !strings.Contains(html, "<br/>") || strings.Contains(html, "</br>") {
		t.Errorf("void element serialized wrong: %s", html)
	}
}

func TestHTMLEmitsNodeIDForHandlers(t *testing.T) {
	d := NewDocument()
	btn := d.CreateElement("button")
	d.AppendChild(d.Root, btn)
	d.AddEventListener(btn, "click", func(dom.Event) {})

	html := d.HTML(d.Root)
	id := btn.(*Node).ID()
	if !strings.Contains(html, `data-node="`+id+`"`) {
		t.Errorf("expected data-node=%q in %s", id, html)
	}
}
