package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dndsidebar/internal/dnd"
)

func newReorderCmd(app *App) *cobra.Command {
	var (
		target   string
		position string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "reorder --target NICK [--position above|below] NICK...",
		Short: "Drop connections above or below a target connection",
		Long: `Reorder applies the same drop the sidebar performs when connections are
dragged onto a row. The dragged connections keep their relative order and
join the target's group. Unknown dragged connections are ignored.`,
		Example: `  dndsidebar reorder --target web-1 --position below bastion laptop`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			pos, err := dnd.ParsePosition(position)
			if err != nil {
				return err
			}

			svc, cfg, manager, err := loadManager(ctx, app)
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			plan, err := manager.ReorderConnections(target, args, pos)
			if err != nil {
				return err
			}
			prog.done("Planned drop")

			group := plan.ConnectionToGroup[target]
			conns := plan.GroupConnections[group]
			out := cmd.OutOrStdout()
			if !plan.Changed {
				fmt.Fprintln(out, "no change")
				return nil
			}
			fmt.Fprintf(out, "%s: %s\n", groupLabel(manager, group), strings.Join(conns, ", "))

			if dryRun {
				return nil
			}
			cfg.SetGroupState(manager.State())
			if err := svc.Save(cfg); err != nil {
				return err
			}
			logger.Info("Saved config", "path", svc.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "connection to drop next to (required)")
	cmd.Flags().StringVar(&position, "position", dnd.Above.String(), "insert above or below the target")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the result without saving")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}
