// Package demo holds the sample components served by the dev preview
// server and rendered by the CLI. They exercise the major runtime paths:
// state and derived state, keyed lists, effects, and async rendering.
package demo

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lumen-ui/lumen/pkg/runtime"
	"github.com/lumen-ui/lumen/pkg/ui"
)

// Registry maps demo names to their root components.
func Registry() map[string]ui.Component {
	return map[string]ui.Component{
		"counter": Counter,
		"todos":   TodoList,
		"greet":   AsyncGreeting,
		"app":     App,
	}
}

// Names returns the demo names in stable order.
func Names() []string {
	reg := Registry()
	names := make([]string, 0, len(reg))
	for name := range reg {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// App composes every demo onto one page.
func App(props ui.Props) any {
	return ui.El("div", ui.Attr{Key: "class", Value: "app"},
		ui.El("h1", "lumen demos"),
		ui.Comp(Counter),
		ui.Comp(TodoList),
		ui.Comp(AsyncGreeting),
	)
}

// Counter is the canonical signal demo: two buttons, a live count, and a
// derived doubled value.
func Counter(props ui.Props) any {
	count := runtime.UseSignal(0)
	doubled := runtime.UseComputed(func() int {
		return count.Get() * 2
	})

	return ui.El("div", ui.Attr{Key: "class", Value: "counter"},
		ui.El("button",
			ui.Attr{Key: "onclick", Value: func() { count.Update(func(n int) int { return n - 1 }) }},
			"-",
		),
		ui.El("span", "count: ", count, " doubled: ", doubled),
		ui.El("button",
			ui.Attr{Key: "onclick", Value: func() { count.Update(func(n int) int { return n + 1 }) }},
			"+",
		),
	)
}

type todo struct {
	ID   int
	Text string
	Done bool
}

// TodoList exercises keyed reconciliation: adding, toggling, and
// removing items while every row keeps its host node identity.
func TodoList(props ui.Props) any {
	nextID := runtime.UseSignal(4)
	items := runtime.UseSignal([]todo{
		{ID: 1, Text: "write components"},
		{ID: 2, Text: "wire the scheduler"},
		{ID: 3, Text: "ship it"},
	})

	add := func() {
		id := nextID.Peek()
		nextID.Set(id + 1)
		items.Update(func(ts []todo) []todo {
			out := append(append([]todo(nil), ts...), todo{ID: id, Text: fmt.Sprintf("task %d", id)})
			return out
		})
	}
	toggle := func(id int) func() {
		return func() {
			items.Update(func(ts []todo) []todo {
				out := append([]todo(nil), ts...)
				for i := range out {
					if out[i].ID == id {
						out[i].Done = !out[i].Done
					}
				}
				return out
			})
		}
	}
	remove := func(id int) func() {
		return func() {
			items.Update(func(ts []todo) []todo {
				out := make([]todo, 0, len(ts))
				for _, t := range ts {
					if t.ID != id {
						out = append(out, t)
					}
				}
				return out
			})
		}
	}

	list := items.Get()
	return ui.El("div", ui.Attr{Key: "class", Value: "todos"},
		ui.El("button", ui.Attr{Key: "onclick", Value: add}, "add"),
		ui.El("ul",
			ui.Range(list, func(t todo, _ int) *ui.Element {
				label := t.Text
				if t.Done {
					label = strings.ToUpper(label)
				}
				return ui.El("li", ui.Key(t.ID),
					ui.El("span", label),
					ui.El("button", ui.Attr{Key: "onclick", Value: toggle(t.ID)}, "toggle"),
					ui.El("button", ui.Attr{Key: "onclick", Value: remove(t.ID)}, "x"),
				)
			}),
		),
		ui.El("p", "total: ", len(list)),
	)
}

// AsyncGreeting renders a placeholder first and the greeting once the
// simulated fetch settles.
func AsyncGreeting(props ui.Props) any {
	name := "world"
	if n, ok := props["name"].(string); ok && n != "" {
		name = n
	}

	return ui.Async(func() (any, error) {
		time.Sleep(10 * time.Millisecond)
		return ui.El("p", ui.Attr{Key: "class", Value: "greeting"},
			"hello, ", name, "!",
		), nil
	})
}
