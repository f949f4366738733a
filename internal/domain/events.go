package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventError                EventType = "Error"
	EventGroupAdded           EventType = "GroupAdded"
	EventGroupRemoved         EventType = "GroupRemoved"
	EventGroupRenamed         EventType = "GroupRenamed"
	EventGroupMoved           EventType = "GroupMoved"
	EventGroupReordered       EventType = "GroupReordered"
	EventGroupExpanded        EventType = "GroupExpanded"
	EventConnectionMoved      EventType = "ConnectionMoved"
	EventConnectionsReordered EventType = "ConnectionsReordered"
	EventConfigLoaded         EventType = "ConfigLoaded"
	EventConfigSaved          EventType = "ConfigSaved"
	EventConfigChanged        EventType = "ConfigChanged"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// GroupAddedEvent is emitted when a new group is created
type GroupAddedEvent struct {
	ID       string
	Name     string
	ParentID string
}

func (e GroupAddedEvent) Type() EventType { return EventGroupAdded }

// GroupRemovedEvent is emitted when a group is deleted
type GroupRemovedEvent struct {
	ID string
}

func (e GroupRemovedEvent) Type() EventType { return EventGroupRemoved }

// GroupRenamedEvent is emitted when a group gets a new name
type GroupRenamedEvent struct {
	ID      string
	OldName string
	NewName string
}

func (e GroupRenamedEvent) Type() EventType { return EventGroupRenamed }

// GroupMovedEvent is emitted when a group gets a new parent
type GroupMovedEvent struct {
	ID         string
	FromParent string
	ToParent   string
}

func (e GroupMovedEvent) Type() EventType { return EventGroupMoved }

// GroupReorderedEvent is emitted when a group moves among its siblings
type GroupReorderedEvent struct {
	ID       string
	TargetID string
	Position string
}

func (e GroupReorderedEvent) Type() EventType { return EventGroupReordered }

// GroupExpandedEvent is emitted when a group is expanded or collapsed
type GroupExpandedEvent struct {
	ID       string
	Expanded bool
}

func (e GroupExpandedEvent) Type() EventType { return EventGroupExpanded }

// ConnectionMovedEvent is emitted when a connection changes group
type ConnectionMovedEvent struct {
	Nickname  string
	FromGroup string
	ToGroup   string
}

func (e ConnectionMovedEvent) Type() EventType { return EventConnectionMoved }

// ConnectionsReorderedEvent is emitted after a drop changed the sidebar order
type ConnectionsReorderedEvent struct {
	Target   string
	Dragged  []string
	Position string
	Group    string // destination group ID ("" if ungrouped)
}

func (e ConnectionsReorderedEvent) Type() EventType { return EventConnectionsReordered }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path  string
	State GroupState
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// ConfigChangedEvent is emitted when the grouping needs to be saved
type ConfigChangedEvent struct {
	State GroupState
}

func (e ConfigChangedEvent) Type() EventType { return EventConfigChanged }
