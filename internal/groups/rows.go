package groups

import (
	"strings"

	"dndsidebar/internal/domain"
)

// Node is one group in the hierarchy with its child groups
type Node struct {
	Group    *domain.Group
	Children []Node
}

// RowKind tells the sidebar how to draw and treat a row
type RowKind int

const (
	RowGroup RowKind = iota
	RowConnection
)

// Row is one visible line of the sidebar
type Row struct {
	Key      string
	Kind     RowKind
	Depth    int
	Label    string
	GroupID  string // owning group for connections, the group itself for headers
	Nickname string
	Expanded bool
	Count    int // connections in a group header's group
}

const (
	groupKeyPrefix      = "group:"
	connectionKeyPrefix = "conn:"
)

// GroupRowKey returns the row key of a group header
func GroupRowKey(id string) string { return groupKeyPrefix + id }

// ConnectionRowKey returns the row key of a connection
func ConnectionRowKey(nickname string) string { return connectionKeyPrefix + nickname }

// ParseRowKey splits a row key into its kind and id
func ParseRowKey(key string) (RowKind, string, bool) {
	switch {
	case strings.HasPrefix(key, groupKeyPrefix):
		return RowGroup, strings.TrimPrefix(key, groupKeyPrefix), true
	case strings.HasPrefix(key, connectionKeyPrefix):
		return RowConnection, strings.TrimPrefix(key, connectionKeyPrefix), true
	default:
		return 0, "", false
	}
}

// Hierarchy returns the group tree sorted by order. Groups are copies.
func (gm *groupManager) Hierarchy() []Node {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return gm.buildTreeLocked("")
}

func (gm *groupManager) buildTreeLocked(parentID string) []Node {
	ids := gm.siblingsLocked(parentID)
	nodes := make([]Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, Node{
			Group:    gm.groups[id].Clone(),
			Children: gm.buildTreeLocked(id),
		})
	}
	return nodes
}

// Rows flattens the hierarchy into what the sidebar shows: each group header
// followed, when expanded, by its connections and then its child groups.
// Ungrouped connections come last.
func (gm *groupManager) Rows() []Row {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	var rows []Row
	var walk func(parentID string, depth int)
	walk = func(parentID string, depth int) {
		for _, id := range gm.siblingsLocked(parentID) {
			g := gm.groups[id]
			rows = append(rows, Row{
				Key:      GroupRowKey(id),
				Kind:     RowGroup,
				Depth:    depth,
				Label:    g.Name,
				GroupID:  id,
				Expanded: g.Expanded,
				Count:    len(g.Connections),
			})
			if !g.Expanded {
				continue
			}
			for _, nick := range g.Connections {
				rows = append(rows, connectionRow(nick, id, depth+1))
			}
			walk(id, depth+1)
		}
	}
	walk("", 0)

	for _, nick := range gm.root {
		rows = append(rows, connectionRow(nick, "", 0))
	}
	return rows
}

func connectionRow(nickname, groupID string, depth int) Row {
	return Row{
		Key:      ConnectionRowKey(nickname),
		Kind:     RowConnection,
		Depth:    depth,
		Label:    nickname,
		GroupID:  groupID,
		Nickname: nickname,
	}
}
