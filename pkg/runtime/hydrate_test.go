package runtime

import (
	"strings"
	"testing"

	"github.com/lumen-ui/lumen/pkg/reactive"
	"github.com/lumen-ui/lumen/pkg/ui"
)

func TestHydrationAdoptsExistingNodes(t *testing.T) {
	doc, rt := newTestRuntime(t)

	// Pre-rendered server output matching the component exactly.
	div := doc.CreateElement("div")
	doc.SetAttribute(div, "class", "box")
	span := doc.CreateElement("span")
	doc.AppendChild(span, doc.CreateText("hi"))
	doc.AppendChild(div, span)
	doc.AppendChild(doc.Root, div)

	comp := func(props ui.Props) any {
		return ui.El("div", ui.Attr{Key: "class", Value: "box"},
			ui.El("span", "hi"),
		)
	}

	doc.ResetMutations()
	if err := rt.Mount(doc.Root, comp); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	if doc.ChildAt(doc.Root, 0) != div {
		t.Error("matching host node must be adopted, not rebuilt")
	}
	if doc.ChildAt(div, 0) != span {
		t.Error("nested node must be adopted")
	}
	if doc.Mutations() != 0 {
		t.Errorf("matching hydration must not mutate the host, got %d mutations", doc.Mutations())
	}
}

func TestHydrationSkipsFormattingWhitespace(t *testing.T) {
	doc, rt := newTestRuntime(t)

	div := doc.CreateElement("div")
	doc.AppendChild(doc.Root, doc.CreateText("\n  "))
	doc.AppendChild(doc.Root, div)
	doc.AppendChild(div, doc.CreateText("\n    "))
	span := doc.CreateElement("span")
	doc.AppendChild(span, doc.CreateText("x"))
	doc.AppendChild(div, span)
	doc.AppendChild(div, doc.CreateText("\n  "))

	comp := func(props ui.Props) any {
		return ui.El("div", ui.El("span", "x"))
	}
	if err := rt.Mount(doc.Root, comp); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	if doc.ChildAt(doc.Root, 0) != div {
		t.Error("element after leading whitespace must be adopted")
	}
	if doc.ChildCount(div) != 1 || doc.ChildAt(div, 0) != span {
		t.Errorf("whitespace children must be pruned, div has %d children", doc.ChildCount(div))
	}
}

func TestHydrationMismatchReplacesLocally(t *testing.T) {
	doc, rt := newTestRuntime(t)

	div := doc.CreateElement("div")
	wrong := doc.CreateElement("b")
	doc.AppendChild(wrong, doc.CreateText("first"))
	doc.AppendChild(div, wrong)
	span := doc.CreateElement("span")
	doc.AppendChild(span, doc.CreateText("second"))
	doc.AppendChild(div, span)
	doc.AppendChild(doc.Root, div)

	comp := func(props ui.Props) any {
		return ui.El("div",
			ui.El("em", "first"),
			ui.El("span", "second"),
		)
	}
	if err := rt.Mount(doc.Root, comp); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	if doc.ChildAt(doc.Root, 0) != div {
		t.Error("matching parent must survive a child mismatch")
	}
	if doc.TagName(doc.ChildAt(div, 0)) != "em" {
		t.Errorf("mismatched child must be replaced, got %q", doc.TagName(doc.ChildAt(div, 0)))
	}
	if doc.ChildAt(div, 1) != span {
		t.Error("sibling after the mismatch must still be adopted")
	}
}

func TestHydrationAppendsMissingAndTrimsSurplus(t *testing.T) {
	doc, rt := newTestRuntime(t)

	div := doc.CreateElement("div")
	doc.AppendChild(div, doc.CreateElement("span"))
	doc.AppendChild(div, doc.CreateElement("i")) // surplus
	doc.AppendChild(doc.Root, div)

	comp := func(props ui.Props) any {
		return ui.El("div",
			ui.El("span"),
			ui.El("b"), // missing from the pre-rendered tree
		)
	}
	if err := rt.Mount(doc.Root, comp); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	if doc.ChildCount(div) != 2 {
		t.Fatalf("expected 2 children, got %d", doc.ChildCount(div))
	}
	if doc.TagName(doc.ChildAt(div, 1)) != "b" {
		t.Errorf("expected appended b, got %q", doc.TagName(doc.ChildAt(div, 1)))
	}
}

func TestHydratedTreeStaysInteractive(t *testing.T) {
	doc, rt := newTestRuntime(t)

	p := doc.CreateElement("p")
	doc.AppendChild(p, doc.CreateText("n=0"))
	doc.AppendChild(doc.Root, p)

	var count *reactive.Signal[int]
	comp := func(props ui.Props) any {
		sig := UseSignal(0)
		count = sig
		return ui.El("p", ui.Textf("n=%d", sig.Get()))
	}
	if err := rt.Mount(doc.Root, comp); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	rt.Dispatch(func() { count.Set(3) })

	if doc.ChildAt(doc.Root, 0) != p {
		t.Error("adopted node must survive the update")
	}
	if html := doc.HTML(doc.Root); !strings.Contains(html, "n=3") {
		t.Errorf("expected n=3 in %s", html)
	}
}
