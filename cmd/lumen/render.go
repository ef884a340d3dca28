package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lumen-ui/lumen/internal/demo"
	"github.com/lumen-ui/lumen/pkg/dom/memdom"
	"github.com/lumen-ui/lumen/pkg/runtime"
)

func renderCmd() *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "render [component]",
		Short: "Render a demo component to HTML on stdout",
		Long: `Render one of the demo components against an in-memory host
tree and print the resulting HTML. The --wait window lets asynchronous
components settle before the snapshot.

Available components: ` + strings.Join(demo.Names(), ", "),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "app"
			if len(args) > 0 {
				name = args[0]
			}
			fn, ok := demo.Registry()[name]
			if !ok {
				return fmt.Errorf("unknown component %q (have: %s)", name, strings.Join(demo.Names(), ", "))
			}

			doc := memdom.NewDocument()
			rt := runtime.New(doc)
			if err := rt.Mount(doc.Root, fn); err != nil {
				return err
			}

			// Run the dispatch loop for the wait window so async
			// continuations land on the runtime's thread.
			ctx, cancel := context.WithTimeout(cmd.Context(), wait)
			defer cancel()
			if err := rt.Run(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), doc.HTML(doc.Root))
			return nil
		},
	}

	cmd.Flags().DurationVarP(&wait, "wait", "w", 100*time.Millisecond, "How long to let async components settle")

	return cmd
}
