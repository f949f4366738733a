package domain

// Connection represents a saved host entry shown in the sidebar
type Connection struct {
	Nickname string
	Host     string
	User     string
	Port     int
}

// Group represents a folder of connections. ParentID is "" for top-level groups.
type Group struct {
	ID          string
	Name        string
	ParentID    string
	Children    []string // child group IDs
	Connections []string // connection nicknames, in display order
	Expanded    bool
	Order       int // position among siblings
}

// Clone returns a deep copy of the group
func (g *Group) Clone() *Group {
	if g == nil {
		return nil
	}
	c := *g
	c.Children = append([]string{}, g.Children...)
	c.Connections = append([]string{}, g.Connections...)
	return &c
}

// GroupState is the persisted shape of the sidebar grouping
type GroupState struct {
	Groups          map[string]*Group // group ID -> group
	Connections     map[string]string // nickname -> group ID ("" if ungrouped)
	RootConnections []string          // ungrouped nicknames, in display order
}

// Clone returns a deep copy of the state
func (s GroupState) Clone() GroupState {
	out := GroupState{
		Groups:          make(map[string]*Group, len(s.Groups)),
		Connections:     make(map[string]string, len(s.Connections)),
		RootConnections: append([]string{}, s.RootConnections...),
	}
	for id, g := range s.Groups {
		out.Groups[id] = g.Clone()
	}
	for nick, id := range s.Connections {
		out.Connections[nick] = id
	}
	return out
}
