// Package dnd holds the pure drag-and-drop logic behind the sidebar list:
// hit-testing a pointer against row geometry, autoscroll velocity near the
// viewport edges, and planning the new grouping once items are dropped.
//
// Nothing in this package keeps state between calls. Inputs are read-only
// snapshots and every result is a fresh value the caller owns.
package dnd

import (
	"fmt"
	"strings"
)

// Position says on which side of the target row the dragged items land
type Position int

const (
	Above Position = iota
	Below
)

// String returns the lowercase name used in config and on the command line
func (p Position) String() string {
	switch p {
	case Above:
		return "above"
	case Below:
		return "below"
	default:
		return fmt.Sprintf("Position(%d)", int(p))
	}
}

// Valid reports whether p is Above or Below
func (p Position) Valid() bool {
	return p == Above || p == Below
}

// ParsePosition converts "above" or "below" (case-insensitive) into a Position
func ParsePosition(s string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "above":
		return Above, nil
	case "below":
		return Below, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}
}

// RowBounds is the geometry of one rendered row
type RowBounds struct {
	Key    string
	Top    float64
	Height float64
}

// HitTestResult is the row an insertion indicator attaches to
type HitTestResult struct {
	Key      string
	Position Position
}

// AutoscrollParams describes the viewport and pointer during a drag
type AutoscrollParams struct {
	ViewportHeight float64
	PointerY       float64
	Margin         float64
	MaxVelocity    float64
}

// GroupKey identifies the bucket a connection lives in: either a named group
// or the ungrouped bucket. The zero value is Ungrouped.
type GroupKey struct {
	id      string
	grouped bool
}

// Ungrouped is the bucket for connections that belong to no group
var Ungrouped = GroupKey{}

// Group returns the key of the group with the given id
func Group(id string) GroupKey {
	return GroupKey{id: id, grouped: true}
}

// ID returns the group id and true, or "" and false for Ungrouped
func (k GroupKey) ID() (string, bool) {
	return k.id, k.grouped
}

// IsUngrouped reports whether k is the ungrouped bucket
func (k GroupKey) IsUngrouped() bool {
	return !k.grouped
}

func (k GroupKey) String() string {
	if !k.grouped {
		return "<ungrouped>"
	}
	return k.id
}

// Grouping is the membership and ordering state of the sidebar.
//
// Invariant: for every connection c with ConnectionToGroup[c] == g, c appears
// exactly once in GroupConnections[g] and in no other list.
type Grouping struct {
	ConnectionToGroup map[string]GroupKey
	GroupConnections  map[GroupKey][]string
}

// Clone returns a deep copy of g. Nil maps come back as empty maps.
func (g Grouping) Clone() Grouping {
	out := Grouping{
		ConnectionToGroup: make(map[string]GroupKey, len(g.ConnectionToGroup)),
		GroupConnections:  make(map[GroupKey][]string, len(g.GroupConnections)),
	}
	for conn, group := range g.ConnectionToGroup {
		out.ConnectionToGroup[conn] = group
	}
	for group, conns := range g.GroupConnections {
		out.GroupConnections[group] = append([]string{}, conns...)
	}
	return out
}

// Equal reports whether g and other hold the same membership and the same
// order in every group. A missing group equals an empty one.
func (g Grouping) Equal(other Grouping) bool {
	if len(g.ConnectionToGroup) != len(other.ConnectionToGroup) {
		return false
	}
	for conn, group := range g.ConnectionToGroup {
		if otherGroup, ok := other.ConnectionToGroup[conn]; !ok || otherGroup != group {
			return false
		}
	}

	for group, conns := range g.GroupConnections {
		if !equalStrings(conns, other.GroupConnections[group]) {
			return false
		}
	}
	for group, conns := range other.GroupConnections {
		if _, seen := g.GroupConnections[group]; !seen && len(conns) > 0 {
			return false
		}
	}
	return true
}

// ReorderPlan is the outcome of a drop. It never aliases the input Grouping.
type ReorderPlan struct {
	Grouping
	Changed bool
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
