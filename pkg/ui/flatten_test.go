package ui

import (
	"testing"

	"github.com/lumen-ui/lumen/pkg/reactive"
)

func TestFlattenSplicesAndDrops(t *testing.T) {
	out := Flatten([]any{
		"a",
		nil,
		true,
		false,
		[]any{"b", []any{"c"}},
		[]*Element{El("div"), nil},
		42,
	})

	want := []string{"a", "b", "c", "", "42"}
	if len(out) != len(want) {
		t.Fatalf("expected %d elements, got %d", len(want), len(out))
	}
	for i, el := range out {
		if el.Kind == KindText && el.Text != want[i] {
			t.Errorf("element %d: expected text %q, got %q", i, want[i], el.Text)
		}
	}
	if out[3].Kind != KindElement || out[3].Tag != "div" {
		t.Errorf("expected div at index 3, got %v", out[3].Kind)
	}
}

func TestFlattenInlinesFragments(t *testing.T) {
	out := Flatten([]any{
		Fragment("a", Fragment("b", "c"), El("hr")),
		"d",
	})

	if len(out) != 5 {
		t.Fatalf("expected 5 elements, got %d", len(out))
	}
	for _, el := range out {
		if el.Kind == KindFragment {
			t.Error("fragments must never survive flattening")
		}
	}
}

func TestFlattenReactiveCellBecomesLive(t *testing.T) {
	count := reactive.NewSignal(3)
	out := Flatten([]any{count})

	if len(out) != 1 || out[0].Kind != KindLive {
		t.Fatalf("expected one live leaf, got %v", out)
	}
	if out[0].TextPayload() != "3" {
		t.Errorf("expected payload %q, got %q", "3", out[0].TextPayload())
	}
}

func TestFlattenComponentValue(t *testing.T) {
	fn := func(Props) any { return Text("x") }
	out := Flatten([]any{fn})

	if len(out) != 1 || out[0].Kind != KindComponent {
		t.Fatalf("expected one component element, got %v", out)
	}
	if out[0].FnID() == 0 {
		t.Error("component element must carry a function identity")
	}
}
