package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"dndsidebar/internal/dnd"
)

var errRowSpec = errors.New("row must be key:top:height")

func newHitCmd() *cobra.Command {
	var (
		pointerY float64
		viewport float64
		margin   float64
		velocity float64
	)

	cmd := &cobra.Command{
		Use:   "hit --y Y ROW...",
		Short: "Hit-test a pointer against row geometry",
		Long: `Hit reports the insertion slot for a pointer at Y over the given rows.
Each row is written key:top:height. With --viewport, the autoscroll
velocity for the same pointer is printed too.`,
		Example: `  dndsidebar hit --y 25 a:0:20 b:20:20 c:40:20
  dndsidebar hit --y 95 --viewport 100 a:0:20`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := parseRows(args)
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("hit test", "rows", len(rows), "y", pointerY)

			out := cmd.OutOrStdout()
			hit, ok := dnd.HitTest(rows, pointerY)
			if !ok {
				fmt.Fprintln(out, "no rows")
			} else {
				fmt.Fprintf(out, "%s %s\n", hit.Key, hit.Position)
			}

			if viewport > 0 {
				v := dnd.AutoscrollVelocity(dnd.AutoscrollParams{
					ViewportHeight: viewport,
					PointerY:       pointerY,
					Margin:         margin,
					MaxVelocity:    velocity,
				})
				fmt.Fprintf(out, "velocity %s\n", strconv.FormatFloat(v, 'f', -1, 64))
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&pointerY, "y", 0, "pointer Y in list coordinates")
	cmd.Flags().Float64Var(&viewport, "viewport", 0, "viewport height for the autoscroll velocity")
	cmd.Flags().Float64Var(&margin, "margin", 48, "autoscroll margin")
	cmd.Flags().Float64Var(&velocity, "max-velocity", 28, "autoscroll maximum velocity")

	return cmd
}

func parseRows(args []string) ([]dnd.RowBounds, error) {
	rows := make([]dnd.RowBounds, 0, len(args))
	for _, arg := range args {
		i := strings.LastIndex(arg, ":")
		if i < 0 {
			return nil, fmt.Errorf("%w: %q", errRowSpec, arg)
		}
		j := strings.LastIndex(arg[:i], ":")
		if j <= 0 {
			return nil, fmt.Errorf("%w: %q", errRowSpec, arg)
		}

		top, err := strconv.ParseFloat(arg[j+1:i], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", errRowSpec, arg, err)
		}
		height, err := strconv.ParseFloat(arg[i+1:], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", errRowSpec, arg, err)
		}
		rows = append(rows, dnd.RowBounds{Key: arg[:j], Top: top, Height: height})
	}
	return rows, nil
}
