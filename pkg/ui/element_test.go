package ui

import "testing"

func TestElConstruction(t *testing.T) {
	e := El("div",
		Attr{Key: "class", Value: "box"},
		Props{"id": "main"},
		"hello",
	)

	if e.Kind != KindElement || e.Tag != "div" {
		t.Fatalf("expected div element, got kind=%v tag=%q", e.Kind, e.Tag)
	}
	if e.Props["class"] != "box" || e.Props["id"] != "main" {
		t.Errorf("props not merged: %v", e.Props)
	}
	if len(e.Children) != 1 || e.Children[0] != "hello" {
		t.Errorf("expected one raw child, got %v", e.Children)
	}
}

func TestKeyExtraction(t *testing.T) {
	e := El("li", Key(42), "row")

	if e.Key != "42" {
		t.Errorf("expected key %q, got %q", "42", e.Key)
	}
	if _, ok := e.Props[PropKey]; ok {
		t.Errorf("key must not leak into props: %v", e.Props)
	}
}

func TestSameTag(t *testing.T) {
	compA := func(Props) any { return nil }
	compB := func(Props) any { return nil }

	cases := []struct {
		name string
		a, b *Element
		want bool
	}{
		{"same host tag", El("div"), El("div"), true},
		{"different host tag", El("div"), El("span"), false},
		{"host vs text", El("div"), Text("x"), false},
		{"same component", Comp(compA), Comp(compA), true},
		{"different component", Comp(compA), Comp(compB), false},
		{"text vs text", Text("a"), Text("b"), true},
	}
	for _, tc := range cases {
		if got := SameTag(tc.a, tc.b); got != tc.want {
			t.Errorf("%s: SameTag = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestTextf(t *testing.T) {
	e := Textf("n=%d", 7)
	if e.Kind != KindText || e.Text != "n=7" {
		t.Errorf("expected text %q, got kind=%v text=%q", "n=7", e.Kind, e.Text)
	}
}

func TestHelpers(t *testing.T) {
	yes := El("span")
	no := El("div")

	if If(true, yes) != yes || If(false, yes) != nil {
		t.Error("If misbehaved")
	}
	if IfElse(false, yes, no) != no {
		t.Error("IfElse misbehaved")
	}
	if Unless(false, yes) != yes || Unless(true, yes) != nil {
		t.Error("Unless misbehaved")
	}
	if When(false, func() *Element { t.Fatal("When must be lazy"); return nil }) != nil {
		t.Error("When misbehaved")
	}
	if Nothing() != nil {
		t.Error("Nothing must return nil")
	}

	rows := Range([]string{"a", "b"}, func(s string, i int) *Element {
		if s == "b" {
			return nil
		}
		return El("li", s)
	})
	if len(rows) != 1 {
		t.Errorf("Range should drop nils, got %d rows", len(rows))
	}

	if got := Repeat(3, func(i int) *Element { return El("i") }); len(got) != 3 {
		t.Errorf("Repeat(3) returned %d elements", len(got))
	}
}
