package runtime

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lumen-ui/lumen/pkg/dom"
	"github.com/lumen-ui/lumen/pkg/dom/memdom"
	"github.com/lumen-ui/lumen/pkg/reactive"
	"github.com/lumen-ui/lumen/pkg/ui"
)

func newTestRuntime(t *testing.T) (*memdom.Document, *Runtime) {
	t.Helper()
	doc := memdom.NewDocument()
	return doc, New(doc)
}

// findByTag walks the host tree depth-first for the first element with
// the given tag.
func findByTag(d *memdom.Document, n dom.Node, tag string) dom.Node {
	if !n.IsText() && d.TagName(n) == tag {
		return n
	}
	for i := 0; i < d.ChildCount(n); i++ {
		if found := findByTag(d, d.ChildAt(n, i), tag); found != nil {
			return found
		}
	}
	return nil
}

func collectByTag(d *memdom.Document, n dom.Node, tag string, out *[]dom.Node) {
	if !n.IsText() && d.TagName(n) == tag {
		*out = append(*out, n)
	}
	for i := 0; i < d.ChildCount(n); i++ {
		collectByTag(d, d.ChildAt(n, i), tag, out)
	}
}

func TestMountRendersComponent(t *testing.T) {
	doc, rt := newTestRuntime(t)

	comp := func(props ui.Props) any {
		return ui.El("div", ui.Attr{Key: "class", Value: "hello"},
			ui.El("span", "world"),
		)
	}
	if err := rt.Mount(doc.Root, comp); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	html := doc.HTML(doc.Root)
	if !strings.Contains(html, `<div class="hello"><span>world</span></div>`) {
		t.Errorf("unexpected html: %s", html)
	}
}

func TestMountErrors(t *testing.T) {
	doc, rt := newTestRuntime(t)
	comp := func(ui.Props) any { return ui.Text("x") }

	if err := rt.Mount(nil, comp); err != ErrNilRoot {
		t.Errorf("expected ErrNilRoot, got %v", err)
	}
	if err := rt.Mount(doc.Root, comp); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if err := rt.Mount(doc.Root, comp); err != ErrAlreadyMounted {
		t.Errorf("expected ErrAlreadyMounted, got %v", err)
	}
}

func TestWritesCoalesceIntoOneRender(t *testing.T) {
	doc, rt := newTestRuntime(t)

	renders := 0
	var count *reactive.Signal[int]
	comp := func(props ui.Props) any {
		renders++
		count = UseSignal(0)
		return ui.El("p", ui.Textf("n=%d", count.Get()))
	}
	if err := rt.Mount(doc.Root, comp); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if renders != 1 {
		t.Fatalf("expected 1 render after mount, got %d", renders)
	}

	rt.Dispatch(func() {
		count.Set(1)
		count.Set(2)
		count.Set(3)
	})

	if renders != 2 {
		t.Errorf("three writes in one tick must re-render once, got %d renders", renders)
	}
	if html := doc.HTML(doc.Root); !strings.Contains(html, "n=3") {
		t.Errorf("expected n=3 in %s", html)
	}
}

func TestEqualWriteDoesNotRender(t *testing.T) {
	doc, rt := newTestRuntime(t)

	renders := 0
	var count *reactive.Signal[int]
	comp := func(props ui.Props) any {
		renders++
		count = UseSignal(5)
		return ui.El("p", ui.Textf("n=%d", count.Get()))
	}
	if err := rt.Mount(doc.Root, comp); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	rt.Dispatch(func() { count.Set(5) })
	if renders != 1 {
		t.Errorf("equal write must not re-render, got %d renders", renders)
	}
}

func TestIdenticalOutputPatchesWithZeroMutations(t *testing.T) {
	doc, rt := newTestRuntime(t)

	var tick *reactive.Signal[int]
	comp := func(props ui.Props) any {
		tick = UseSignal(0)
		_ = tick.Get()
		return ui.El("div", ui.Attr{Key: "class", Value: "stable"},
			ui.El("span", "fixed"),
			ui.El("b", ui.Attr{Key: "id", Value: "x"}),
		)
	}
	if err := rt.Mount(doc.Root, comp); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	doc.ResetMutations()
	rt.Dispatch(func() { tick.Set(1) })

	if doc.Mutations() != 0 {
		t.Errorf("identical output must patch with zero host mutations, got %d", doc.Mutations())
	}
}

func TestTextUpdatesInPlace(t *testing.T) {
	doc, rt := newTestRuntime(t)

	var label *reactive.Signal[string]
	comp := func(props ui.Props) any {
		label = UseSignal("before")
		return ui.El("p", label.Get())
	}
	if err := rt.Mount(doc.Root, comp); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	p := findByTag(doc, doc.Root, "p")
	textNode := doc.ChildAt(p, 0)

	rt.Dispatch(func() { label.Set("after") })

	if doc.ChildAt(p, 0) != textNode {
		t.Error("text change must reuse the host text node")
	}
	if got := doc.Text(textNode); got != "after" {
		t.Errorf("expected %q, got %q", "after", got)
	}
}

func TestLiveLeafUpdatesWithoutRerender(t *testing.T) {
	doc, rt := newTestRuntime(t)

	renders := 0
	var count *reactive.Signal[int]
	comp := func(props ui.Props) any {
		renders++
		count = UseSignal(0)
		// The signal itself is the child: a live leaf, no re-render on write.
		return ui.El("p", "n=", ui.Live(count))
	}
	if err := rt.Mount(doc.Root, comp); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	count.Set(42)
	if html := doc.HTML(doc.Root); !strings.Contains(html, "n=42") {
		t.Errorf("expected n=42 in %s", html)
	}
	if renders != 1 {
		t.Errorf("live leaf write re-rendered the component %d times", renders-1)
	}
}

func TestEventHandlerFormsOneTick(t *testing.T) {
	doc, rt := newTestRuntime(t)

	renders := 0
	comp := func(props ui.Props) any {
		renders++
		count := UseSignal(0)
		return ui.El("button",
			ui.Attr{Key: "onclick", Value: func() {
				count.Set(count.Peek() + 1)
				count.Set(count.Peek() + 1)
			}},
			ui.Textf("n=%d", count.Get()),
		)
	}
	if err := rt.Mount(doc.Root, comp); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	btn := findByTag(doc, doc.Root, "button").(*memdom.Node)
	btn.Fire("click", nil)

	if renders != 2 {
		t.Errorf("two writes in one handler must flush once, got %d renders", renders)
	}
	if html := doc.HTML(doc.Root); !strings.Contains(html, "n=2") {
		t.Errorf("expected n=2 in %s", html)
	}
}

func TestHandlerPanicIsContained(t *testing.T) {
	doc, rt := newTestRuntime(t)

	comp := func(props ui.Props) any {
		count := UseSignal(0)
		return ui.El("div",
			ui.El("button", ui.Attr{Key: "onclick", Value: func() { panic("boom") }}),
			ui.Textf("n=%d", count.Get()),
		)
	}
	if err := rt.Mount(doc.Root, comp); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	btn := findByTag(doc, doc.Root, "button").(*memdom.Node)
	btn.Fire("click", nil) // must not panic the test
}

func TestRenderPanicProducesFallback(t *testing.T) {
	doc, rt := newTestRuntime(t)

	bad := func(props ui.Props) any { panic("kaboom") }
	comp := func(props ui.Props) any {
		return ui.El("div",
			ui.El("span", "before"),
			ui.Comp(bad),
			ui.El("span", "after"),
		)
	}
	if err := rt.Mount(doc.Root, comp); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	html := doc.HTML(doc.Root)
	if !strings.Contains(html, "before") || !strings.Contains(html, "after") {
		t.Errorf("siblings of a failed component must render: %s", html)
	}
	if !strings.Contains(html, "render error") {
		t.Errorf("expected fallback output in %s", html)
	}
}

func TestUnmountEmptiesRootAndRunsCleanups(t *testing.T) {
	doc, rt := newTestRuntime(t)

	cleanups := 0
	comp := func(props ui.Props) any {
		OnCleanup(func() { cleanups++ })
		return ui.El("div", "content")
	}
	if err := rt.Mount(doc.Root, comp); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	rt.Unmount(doc.Root)
	if doc.ChildCount(doc.Root) != 0 {
		t.Errorf("root should be empty, has %d children", doc.ChildCount(doc.Root))
	}
	if cleanups != 1 {
		t.Errorf("expected 1 cleanup, got %d", cleanups)
	}

	// Idempotent.
	rt.Unmount(doc.Root)
	if cleanups != 1 {
		t.Errorf("second unmount must be a no-op, got %d cleanups", cleanups)
	}
}

func TestWriteAfterUnmountIsSilent(t *testing.T) {
	doc, rt := newTestRuntime(t)

	renders := 0
	var count *reactive.Signal[int]
	comp := func(props ui.Props) any {
		renders++
		count = UseSignal(0)
		return ui.El("p", ui.Textf("n=%d", count.Get()))
	}
	if err := rt.Mount(doc.Root, comp); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	rt.Unmount(doc.Root)

	rt.Dispatch(func() { count.Set(99) })
	if renders != 1 {
		t.Errorf("write to unmounted instance must not render, got %d", renders)
	}
}

func TestRunLoopExecutesDispatchedWork(t *testing.T) {
	doc, rt := newTestRuntime(t)

	var count *reactive.Signal[int]
	comp := func(props ui.Props) any {
		count = UseSignal(0)
		return ui.El("p", ui.Textf("n=%d", count.Get()))
	}

	flushed := make(chan struct{}, 1)
	rt.OnFlush(func() {
		select {
		case flushed <- struct{}{}:
		default:
		}
	})

	if err := rt.Mount(doc.Root, comp); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- rt.Run(ctx) }()

	// Give the loop a moment to start so Dispatch enqueues.
	time.Sleep(10 * time.Millisecond)
	rt.Dispatch(func() { count.Set(7) })

	select {
	case <-flushed:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for flush")
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	if html := doc.HTML(doc.Root); !strings.Contains(html, "n=7") {
		t.Errorf("expected n=7 in %s", html)
	}
}
