package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"dndsidebar/internal/dnd"
	"dndsidebar/internal/groups"
)

func newGroupsCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Print the grouped connection list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, manager, err := loadManager(cmd.Context(), app)
			if err != nil {
				return err
			}
			if all {
				printTree(cmd.OutOrStdout(), manager.Hierarchy(), 0)
				printConnections(cmd.OutOrStdout(), manager.Snapshot().GroupConnections[dnd.Ungrouped], 0)
				return nil
			}
			printRows(cmd.OutOrStdout(), manager.Rows())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include the contents of collapsed groups")
	return cmd
}

// printRows prints what the sidebar shows
func printRows(w io.Writer, rows []groups.Row) {
	for _, r := range rows {
		indent := strings.Repeat("  ", r.Depth)
		if r.Kind == groups.RowGroup {
			marker := "+"
			if r.Expanded {
				marker = "-"
			}
			fmt.Fprintf(w, "%s%s %s (%d)\n", indent, marker, r.Label, r.Count)
			continue
		}
		fmt.Fprintf(w, "%s  %s\n", indent, r.Label)
	}
}

// printTree prints every group with its connections, collapsed or not
func printTree(w io.Writer, nodes []groups.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		fmt.Fprintf(w, "%s- %s (%d)\n", indent, n.Group.Name, len(n.Group.Connections))
		printConnections(w, n.Group.Connections, depth+1)
		printTree(w, n.Children, depth+1)
	}
}

func printConnections(w io.Writer, conns []string, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, c := range conns {
		fmt.Fprintf(w, "%s  %s\n", indent, c)
	}
}

// groupLabel names a bucket for output
func groupLabel(manager groups.GroupManager, key dnd.GroupKey) string {
	id, ok := key.ID()
	if !ok {
		return "ungrouped"
	}
	for _, node := range flatten(manager.Hierarchy()) {
		if node.Group.ID == id {
			return node.Group.Name
		}
	}
	return id
}

func flatten(nodes []groups.Node) []groups.Node {
	var out []groups.Node
	for _, n := range nodes {
		out = append(out, n)
		out = append(out, flatten(n.Children)...)
	}
	return out
}
