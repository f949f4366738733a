package groups

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"dndsidebar/internal/dnd"
	"dndsidebar/internal/domain"
	"dndsidebar/internal/eventbus"
)

var (
	ErrGroupNotFound      = errors.New("group does not exist")
	ErrConnectionNotFound = errors.New("connection does not exist")
	ErrCycle              = errors.New("group cannot be moved into itself or its descendants")
	ErrNotSiblings        = errors.New("groups do not share a parent")
	ErrEmptyName          = errors.New("group name is empty")
)

// GroupManager manages connection grouping and ordering
type GroupManager interface {
	CreateGroup(name, parentID string) (string, error)
	DeleteGroup(id string) error
	RenameGroup(id, name string) error
	AddConnection(nickname string)
	RemoveConnection(nickname string) error
	MoveConnection(nickname string, target dnd.GroupKey) error
	ReorderConnections(target string, dragged []string, pos dnd.Position) (dnd.ReorderPlan, error)
	ReorderGroup(id, targetID string, pos dnd.Position) error
	MoveGroup(id, parentID string) error
	SetExpanded(id string, expanded bool) error
	Snapshot() dnd.Grouping
	State() domain.GroupState
	Hierarchy() []Node
	Rows() []Row
	ConnectionGroup(nickname string) (dnd.GroupKey, bool)
}

// groupManager is the concrete implementation
type groupManager struct {
	bus         eventbus.EventBus
	mu          sync.RWMutex
	groups      map[string]*domain.Group // group ID -> group
	connections map[string]string        // nickname -> group ID ("" if ungrouped)
	root        []string                 // ungrouped nicknames, in order
}

// NewGroupManager creates a group manager seeded from persisted state.
// The state is repaired on the way in: connections pointing at missing groups
// become ungrouped, and every connection ends up listed exactly once.
// bus may be nil.
func NewGroupManager(bus eventbus.EventBus, initial domain.GroupState) GroupManager {
	gm := &groupManager{
		bus:         bus,
		groups:      make(map[string]*domain.Group),
		connections: make(map[string]string),
	}

	state := initial.Clone()
	for id, g := range state.Groups {
		if g == nil {
			continue
		}
		g.ID = id
		gm.groups[id] = g
	}
	for _, g := range gm.groups {
		if g.ParentID != "" {
			if _, ok := gm.groups[g.ParentID]; !ok {
				g.ParentID = ""
			}
		}
	}
	for _, id := range gm.sortedGroupIDsLocked() {
		if gm.inCycleLocked(id) {
			gm.groups[id].ParentID = ""
		}
	}
	gm.rebuildChildrenLocked()

	// Lists first, so explicit order wins over map iteration
	claimed := make(map[string]bool)
	for _, id := range gm.sortedGroupIDsLocked() {
		g := gm.groups[id]
		kept := make([]string, 0, len(g.Connections))
		for _, nick := range g.Connections {
			if claimed[nick] {
				continue
			}
			if owner, ok := state.Connections[nick]; ok && owner != id {
				continue
			}
			claimed[nick] = true
			kept = append(kept, nick)
			gm.connections[nick] = id
		}
		g.Connections = kept
	}
	for _, nick := range state.RootConnections {
		if claimed[nick] {
			continue
		}
		if owner := state.Connections[nick]; owner != "" {
			if _, ok := gm.groups[owner]; ok {
				continue
			}
		}
		claimed[nick] = true
		gm.root = append(gm.root, nick)
		gm.connections[nick] = ""
	}

	// Mapped but unlisted connections are appended where they belong
	unlisted := make([]string, 0)
	for nick := range state.Connections {
		if !claimed[nick] {
			unlisted = append(unlisted, nick)
		}
	}
	sort.Strings(unlisted)
	for _, nick := range unlisted {
		owner := state.Connections[nick]
		if g, ok := gm.groups[owner]; ok {
			g.Connections = append(g.Connections, nick)
			gm.connections[nick] = owner
			continue
		}
		gm.root = append(gm.root, nick)
		gm.connections[nick] = ""
	}

	return gm
}

// CreateGroup creates a new group and returns its ID
func (gm *groupManager) CreateGroup(name, parentID string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}

	gm.mu.Lock()
	if parentID != "" {
		if _, ok := gm.groups[parentID]; !ok {
			gm.mu.Unlock()
			return "", fmt.Errorf("%w: %s", ErrGroupNotFound, parentID)
		}
	}

	id := uuid.NewString()
	order := len(gm.groups)
	gm.groups[id] = &domain.Group{
		ID:          id,
		Name:        name,
		ParentID:    parentID,
		Children:    []string{},
		Connections: []string{},
		Expanded:    true,
		Order:       order,
	}
	if parentID != "" {
		parent := gm.groups[parentID]
		parent.Children = append(parent.Children, id)
	}
	state := gm.stateLocked()
	gm.mu.Unlock()

	gm.publish(
		eventbus.GroupAddedEvent{ID: id, Name: name, ParentID: parentID},
		eventbus.ConfigChangedEvent{State: state},
	)
	return id, nil
}

// DeleteGroup removes a group. Its connections and child groups move up to
// the parent, or to the top level when there is none.
func (gm *groupManager) DeleteGroup(id string) error {
	gm.mu.Lock()
	group, ok := gm.groups[id]
	if !ok {
		gm.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrGroupNotFound, id)
	}

	parentID := group.ParentID
	events := make([]eventbus.DomainEvent, 0, len(group.Connections)+3)

	for _, nick := range group.Connections {
		gm.connections[nick] = parentID
		if parentID == "" {
			gm.root = append(gm.root, nick)
		} else {
			parent := gm.groups[parentID]
			parent.Connections = append(parent.Connections, nick)
		}
		events = append(events, eventbus.ConnectionMovedEvent{Nickname: nick, FromGroup: id, ToGroup: parentID})
	}

	for _, childID := range group.Children {
		if child, ok := gm.groups[childID]; ok {
			child.ParentID = parentID
		}
	}

	delete(gm.groups, id)
	gm.rebuildChildrenLocked()
	state := gm.stateLocked()
	gm.mu.Unlock()

	events = append(events, eventbus.GroupRemovedEvent{ID: id}, eventbus.ConfigChangedEvent{State: state})
	gm.publish(events...)
	return nil
}

// RenameGroup changes the display name of a group
func (gm *groupManager) RenameGroup(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	gm.mu.Lock()
	group, ok := gm.groups[id]
	if !ok {
		gm.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrGroupNotFound, id)
	}
	old := group.Name
	if old == name {
		gm.mu.Unlock()
		return nil
	}
	group.Name = name
	state := gm.stateLocked()
	gm.mu.Unlock()

	gm.publish(
		eventbus.GroupRenamedEvent{ID: id, OldName: old, NewName: name},
		eventbus.ConfigChangedEvent{State: state},
	)
	return nil
}

// AddConnection registers a connection as ungrouped. Known connections are left alone.
func (gm *groupManager) AddConnection(nickname string) {
	gm.mu.Lock()
	if _, ok := gm.connections[nickname]; ok {
		gm.mu.Unlock()
		return
	}
	gm.connections[nickname] = ""
	gm.root = append(gm.root, nickname)
	state := gm.stateLocked()
	gm.mu.Unlock()

	gm.publish(eventbus.ConfigChangedEvent{State: state})
}

// RemoveConnection forgets a connection entirely
func (gm *groupManager) RemoveConnection(nickname string) error {
	gm.mu.Lock()
	if _, ok := gm.connections[nickname]; !ok {
		gm.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrConnectionNotFound, nickname)
	}
	gm.detachLocked(nickname)
	delete(gm.connections, nickname)
	state := gm.stateLocked()
	gm.mu.Unlock()

	gm.publish(eventbus.ConfigChangedEvent{State: state})
	return nil
}

// MoveConnection moves a connection to the end of another group, or to the
// ungrouped bucket.
func (gm *groupManager) MoveConnection(nickname string, target dnd.GroupKey) error {
	gm.mu.Lock()
	from, ok := gm.connections[nickname]
	if !ok {
		gm.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrConnectionNotFound, nickname)
	}

	to, grouped := target.ID()
	if grouped {
		if _, ok := gm.groups[to]; !ok {
			gm.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrGroupNotFound, to)
		}
	}
	if from == to {
		gm.mu.Unlock()
		return nil
	}

	gm.detachLocked(nickname)
	gm.connections[nickname] = to
	if grouped {
		g := gm.groups[to]
		g.Connections = append(g.Connections, nickname)
	} else {
		gm.root = append(gm.root, nickname)
	}
	state := gm.stateLocked()
	gm.mu.Unlock()

	gm.publish(
		eventbus.ConnectionMovedEvent{Nickname: nickname, FromGroup: from, ToGroup: to},
		eventbus.ConfigChangedEvent{State: state},
	)
	return nil
}

// ReorderConnections applies a drop of dragged next to target. The plan is
// only committed when it changes something.
func (gm *groupManager) ReorderConnections(target string, dragged []string, pos dnd.Position) (dnd.ReorderPlan, error) {
	gm.mu.Lock()
	plan, err := dnd.Reorder(gm.snapshotLocked(), target, dragged, pos)
	if err != nil {
		gm.mu.Unlock()
		return dnd.ReorderPlan{}, fmt.Errorf("reorder connections: %w", err)
	}
	if !plan.Changed {
		gm.mu.Unlock()
		return plan, nil
	}

	var events []eventbus.DomainEvent
	for nick, key := range plan.ConnectionToGroup {
		to, _ := key.ID()
		if from := gm.connections[nick]; from != to {
			events = append(events, eventbus.ConnectionMovedEvent{Nickname: nick, FromGroup: from, ToGroup: to})
		}
		gm.connections[nick] = to
	}
	for key, conns := range plan.GroupConnections {
		id, grouped := key.ID()
		if !grouped {
			gm.root = append([]string{}, conns...)
			continue
		}
		if g, ok := gm.groups[id]; ok {
			g.Connections = append([]string{}, conns...)
		}
	}

	destination, _ := plan.ConnectionToGroup[target].ID()
	state := gm.stateLocked()
	gm.mu.Unlock()

	sort.Slice(events, func(i, j int) bool {
		return events[i].(eventbus.ConnectionMovedEvent).Nickname < events[j].(eventbus.ConnectionMovedEvent).Nickname
	})
	events = append(events,
		eventbus.ConnectionsReorderedEvent{
			Target:   target,
			Dragged:  append([]string{}, dragged...),
			Position: pos.String(),
			Group:    destination,
		},
		eventbus.ConfigChangedEvent{State: state},
	)
	gm.publish(events...)
	return plan, nil
}

// ReorderGroup moves a group above or below a sibling
func (gm *groupManager) ReorderGroup(id, targetID string, pos dnd.Position) error {
	if !pos.Valid() {
		return fmt.Errorf("reorder group: %w: %s", dnd.ErrInvalidPosition, pos)
	}

	gm.mu.Lock()
	group, ok := gm.groups[id]
	if !ok {
		gm.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrGroupNotFound, id)
	}
	target, ok := gm.groups[targetID]
	if !ok {
		gm.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrGroupNotFound, targetID)
	}
	if id == targetID {
		gm.mu.Unlock()
		return nil
	}
	if group.ParentID != target.ParentID {
		gm.mu.Unlock()
		return fmt.Errorf("%w: %s and %s", ErrNotSiblings, id, targetID)
	}

	siblings := gm.siblingsLocked(group.ParentID)
	ordered := make([]string, 0, len(siblings))
	for _, sib := range siblings {
		if sib != id {
			ordered = append(ordered, sib)
		}
	}
	at := indexOf(ordered, targetID)
	if pos == dnd.Below {
		at++
	}
	ordered = append(ordered[:at], append([]string{id}, ordered[at:]...)...)
	for i, sib := range ordered {
		gm.groups[sib].Order = i
	}
	gm.rebuildChildrenLocked()
	state := gm.stateLocked()
	gm.mu.Unlock()

	gm.publish(
		eventbus.GroupReorderedEvent{ID: id, TargetID: targetID, Position: pos.String()},
		eventbus.ConfigChangedEvent{State: state},
	)
	return nil
}

// MoveGroup re-parents a group. parentID "" moves it to the top level.
func (gm *groupManager) MoveGroup(id, parentID string) error {
	gm.mu.Lock()
	group, ok := gm.groups[id]
	if !ok {
		gm.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrGroupNotFound, id)
	}
	if parentID != "" {
		if _, ok := gm.groups[parentID]; !ok {
			gm.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrGroupNotFound, parentID)
		}
	}

	if gm.isAncestorLocked(id, parentID) {
		gm.mu.Unlock()
		return fmt.Errorf("%w: %s into %s", ErrCycle, id, parentID)
	}

	from := group.ParentID
	if from == parentID {
		gm.mu.Unlock()
		return nil
	}
	group.ParentID = parentID
	group.Order = len(gm.siblingsLocked(parentID))
	gm.rebuildChildrenLocked()
	state := gm.stateLocked()
	gm.mu.Unlock()

	gm.publish(
		eventbus.GroupMovedEvent{ID: id, FromParent: from, ToParent: parentID},
		eventbus.ConfigChangedEvent{State: state},
	)
	return nil
}

// SetExpanded sets whether a group shows its contents
func (gm *groupManager) SetExpanded(id string, expanded bool) error {
	gm.mu.Lock()
	group, ok := gm.groups[id]
	if !ok {
		gm.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrGroupNotFound, id)
	}
	if group.Expanded == expanded {
		gm.mu.Unlock()
		return nil
	}
	group.Expanded = expanded
	state := gm.stateLocked()
	gm.mu.Unlock()

	gm.publish(
		eventbus.GroupExpandedEvent{ID: id, Expanded: expanded},
		eventbus.ConfigChangedEvent{State: state},
	)
	return nil
}

// Snapshot returns the grouping in the shape the reorder planner expects
func (gm *groupManager) Snapshot() dnd.Grouping {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return gm.snapshotLocked()
}

// State returns a copy of the persisted state
func (gm *groupManager) State() domain.GroupState {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return gm.stateLocked()
}

// ConnectionGroup returns the bucket a connection lives in
func (gm *groupManager) ConnectionGroup(nickname string) (dnd.GroupKey, bool) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	id, ok := gm.connections[nickname]
	if !ok {
		return dnd.Ungrouped, false
	}
	return toKey(id), true
}

func (gm *groupManager) snapshotLocked() dnd.Grouping {
	g := dnd.Grouping{
		ConnectionToGroup: make(map[string]dnd.GroupKey, len(gm.connections)),
		GroupConnections:  make(map[dnd.GroupKey][]string, len(gm.groups)+1),
	}
	for nick, id := range gm.connections {
		g.ConnectionToGroup[nick] = toKey(id)
	}
	for id, group := range gm.groups {
		g.GroupConnections[dnd.Group(id)] = append([]string{}, group.Connections...)
	}
	g.GroupConnections[dnd.Ungrouped] = append([]string{}, gm.root...)
	return g
}

func (gm *groupManager) stateLocked() domain.GroupState {
	return domain.GroupState{
		Groups:          gm.groups,
		Connections:     gm.connections,
		RootConnections: gm.root,
	}.Clone()
}

// detachLocked removes a connection from whichever list holds it
func (gm *groupManager) detachLocked(nickname string) {
	gm.root = removeString(gm.root, nickname)
	for _, g := range gm.groups {
		g.Connections = removeString(g.Connections, nickname)
	}
}

// isAncestorLocked reports whether ancestor is id itself or sits above it
func (gm *groupManager) isAncestorLocked(ancestor, id string) bool {
	seen := make(map[string]bool)
	for cur := id; cur != "" && !seen[cur]; {
		if cur == ancestor {
			return true
		}
		seen[cur] = true
		g, ok := gm.groups[cur]
		if !ok {
			return false
		}
		cur = g.ParentID
	}
	return false
}

// inCycleLocked reports whether following parents from id leads back to id
func (gm *groupManager) inCycleLocked(id string) bool {
	g, ok := gm.groups[id]
	if !ok || g.ParentID == "" {
		return false
	}
	return gm.isAncestorLocked(id, g.ParentID)
}

// siblingsLocked returns the IDs of the groups under parentID in display order
func (gm *groupManager) siblingsLocked(parentID string) []string {
	var ids []string
	for id, g := range gm.groups {
		if g.ParentID == parentID {
			ids = append(ids, id)
		}
	}
	gm.sortByOrderLocked(ids)
	return ids
}

func (gm *groupManager) sortedGroupIDsLocked() []string {
	ids := make([]string, 0, len(gm.groups))
	for id := range gm.groups {
		ids = append(ids, id)
	}
	gm.sortByOrderLocked(ids)
	return ids
}

func (gm *groupManager) sortByOrderLocked(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := gm.groups[ids[i]], gm.groups[ids[j]]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
}

// rebuildChildrenLocked derives every Children list from ParentID
func (gm *groupManager) rebuildChildrenLocked() {
	for _, g := range gm.groups {
		g.Children = []string{}
	}
	for _, id := range gm.sortedGroupIDsLocked() {
		g := gm.groups[id]
		if parent, ok := gm.groups[g.ParentID]; ok {
			parent.Children = append(parent.Children, id)
		}
	}
}

func (gm *groupManager) publish(events ...eventbus.DomainEvent) {
	if gm.bus == nil {
		return
	}
	for _, e := range events {
		gm.bus.Publish(e)
	}
}

func toKey(id string) dnd.GroupKey {
	if id == "" {
		return dnd.Ungrouped
	}
	return dnd.Group(id)
}

func removeString(list []string, s string) []string {
	out := list[:0:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
