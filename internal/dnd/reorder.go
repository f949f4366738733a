package dnd

import "fmt"

// Reorder plans the grouping that results from dropping dragged next to
// target. The input is never modified; the plan holds fresh maps and slices.
//
// An unknown target or an invalid position is an error. Dragged connections
// that are unknown, or equal to the target, are skipped, and a drop left with
// nothing to move is a no-op plan with Changed set to false.
func Reorder(g Grouping, target string, dragged []string, pos Position) (ReorderPlan, error) {
	if !pos.Valid() {
		return ReorderPlan{}, fmt.Errorf("%w: %s", ErrInvalidPosition, pos)
	}
	if _, ok := g.ConnectionToGroup[target]; !ok {
		return ReorderPlan{}, fmt.Errorf("%w: %q", ErrUnknownTarget, target)
	}

	base := g.Clone()
	if _, ok := base.GroupConnections[Ungrouped]; !ok {
		base.GroupConnections[Ungrouped] = []string{}
	}

	moving := filterDragged(base.ConnectionToGroup, target, dragged)
	if len(moving) == 0 {
		return ReorderPlan{Grouping: base, Changed: false}, nil
	}

	targetGroup := base.ConnectionToGroup[target]
	movingSet := make(map[string]struct{}, len(moving))
	for _, conn := range moving {
		movingSet[conn] = struct{}{}
	}

	next := Grouping{
		ConnectionToGroup: make(map[string]GroupKey, len(base.ConnectionToGroup)),
		GroupConnections:  make(map[GroupKey][]string, len(base.GroupConnections)+1),
	}
	for conn, group := range base.ConnectionToGroup {
		next.ConnectionToGroup[conn] = group
	}
	for group, conns := range base.GroupConnections {
		next.GroupConnections[group] = without(conns, movingSet)
	}

	// Vacated groups stay present, even if they end up empty
	for _, conn := range moving {
		source := base.ConnectionToGroup[conn]
		if _, ok := next.GroupConnections[source]; !ok {
			next.GroupConnections[source] = []string{}
		}
	}

	dest := next.GroupConnections[targetGroup]
	if !contains(dest, target) {
		dest = append(dest, target)
	}
	dest = without(dest, movingSet)

	anchor := indexOf(dest, target)
	if anchor < 0 {
		return ReorderPlan{}, fmt.Errorf("%w: %q", ErrTargetMissing, target)
	}

	insertAt := anchor
	if pos == Below {
		insertAt = anchor + 1
	}

	result := make([]string, 0, len(dest)+len(moving))
	result = append(result, dest[:insertAt]...)
	result = append(result, moving...)
	result = append(result, dest[insertAt:]...)
	next.GroupConnections[targetGroup] = result

	for _, conn := range moving {
		next.ConnectionToGroup[conn] = targetGroup
	}

	return ReorderPlan{Grouping: next, Changed: !base.Equal(next)}, nil
}

// filterDragged keeps known connections other than target, in their original
// order, dropping repeats.
func filterDragged(known map[string]GroupKey, target string, dragged []string) []string {
	out := make([]string, 0, len(dragged))
	seen := make(map[string]struct{}, len(dragged))
	for _, conn := range dragged {
		if conn == target {
			continue
		}
		if _, ok := known[conn]; !ok {
			continue
		}
		if _, dup := seen[conn]; dup {
			continue
		}
		seen[conn] = struct{}{}
		out = append(out, conn)
	}
	return out
}

func without(conns []string, drop map[string]struct{}) []string {
	out := make([]string, 0, len(conns))
	for _, conn := range conns {
		if _, skip := drop[conn]; !skip {
			out = append(out, conn)
		}
	}
	return out
}

func contains(conns []string, conn string) bool {
	return indexOf(conns, conn) >= 0
}

func indexOf(conns []string, conn string) int {
	for i, c := range conns {
		if c == conn {
			return i
		}
	}
	return -1
}
