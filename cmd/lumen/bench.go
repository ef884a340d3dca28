package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/lumen-ui/lumen/pkg/dom/memdom"
	"github.com/lumen-ui/lumen/pkg/reactive"
	"github.com/lumen-ui/lumen/pkg/runtime"
	"github.com/lumen-ui/lumen/pkg/ui"
)

func benchCmd() *cobra.Command {
	var iters int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark signal propagation and reconciliation",
		RunE: func(cmd *cobra.Command, args []string) error {
			benchPropagation(iters)
			benchFlush(iters)
			return nil
		},
	}

	cmd.Flags().IntVarP(&iters, "iters", "n", 100, "Iterations per benchmark")

	return cmd
}

// benchPropagation measures one write rippling through a W x H grid of
// derived values.
func benchPropagation(iters int) {
	widths := []int{1, 10, 100}
	heights := []int{1, 10, 100}

	tbl := table.NewWriter()
	tbl.SetTitle("Signal Propagation")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, w := range widths {
		for _, h := range heights {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			src := reactive.NewSignal(1)
			sinks := make([]*reactive.Computed[int], 0, w)
			for i := 0; i < w; i++ {
				var last reactive.TextCell = src
				for j := 0; j < h; j++ {
					prev := last
					last = reactive.NewComputed(func() int {
						switch c := prev.(type) {
						case *reactive.Signal[int]:
							return c.Get() + 1
						case *reactive.Computed[int]:
							return c.Get() + 1
						default:
							panic("unreachable")
						}
					})
				}
				sinks = append(sinks, last.(*reactive.Computed[int]))
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				src.Set(i + 2)
				tach.AddTime(time.Since(start))
			}

			m := tach.Calc()
			tbl.AppendRow(table.Row{
				fmt.Sprintf("%dx%d", w, h),
				m.Time.Avg, m.Time.Min, m.Time.P75, m.Time.P99, m.Time.Max,
			})

			for _, c := range sinks {
				c.Dispose()
			}
		}
	}
	tbl.Render()
}

// benchFlush measures a full update cycle: event handler, signal write,
// scheduler flush, and keyed reconciliation against the in-memory host.
func benchFlush(iters int) {
	sizes := []int{10, 100, 1_000}

	tbl := table.NewWriter()
	tbl.SetTitle("Render Flush")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, size := range sizes {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})

		var offset *reactive.Signal[int]
		list := func(props ui.Props) any {
			sig := runtime.UseSignal(0)
			offset = sig
			n := sig.Get()
			return ui.El("ul", ui.Repeat(size, func(i int) *ui.Element {
				return ui.El("li", ui.Key((i+n)%size), "item ", (i+n)%size)
			}))
		}

		doc := memdom.NewDocument()
		rt := runtime.New(doc)
		if err := rt.Mount(doc.Root, list); err != nil {
			panic(err)
		}

		for i := 0; i < iters; i++ {
			n := i + 1
			start := time.Now()
			rt.Dispatch(func() { offset.Set(n) })
			tach.AddTime(time.Since(start))
		}

		m := tach.Calc()
		tbl.AppendRow(table.Row{
			fmt.Sprintf("list %d", size),
			m.Time.Avg, m.Time.Min, m.Time.P75, m.Time.P99, m.Time.Max,
		})
	}
	tbl.Render()
}
