package eventbus

import (
	"runtime/debug"
	"sync"

	"github.com/charmbracelet/log"

	"dndsidebar/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventError                = domain.EventError
	EventGroupAdded           = domain.EventGroupAdded
	EventGroupRemoved         = domain.EventGroupRemoved
	EventGroupRenamed         = domain.EventGroupRenamed
	EventGroupMoved           = domain.EventGroupMoved
	EventGroupReordered       = domain.EventGroupReordered
	EventGroupExpanded        = domain.EventGroupExpanded
	EventConnectionMoved      = domain.EventConnectionMoved
	EventConnectionsReordered = domain.EventConnectionsReordered
	EventConfigLoaded         = domain.EventConfigLoaded
	EventConfigSaved          = domain.EventConfigSaved
	EventConfigChanged        = domain.EventConfigChanged
)

// Re-export domain event types
type ErrorEvent = domain.ErrorEvent
type GroupAddedEvent = domain.GroupAddedEvent
type GroupRemovedEvent = domain.GroupRemovedEvent
type GroupRenamedEvent = domain.GroupRenamedEvent
type GroupMovedEvent = domain.GroupMovedEvent
type GroupReorderedEvent = domain.GroupReorderedEvent
type GroupExpandedEvent = domain.GroupExpandedEvent
type ConnectionMovedEvent = domain.ConnectionMovedEvent
type ConnectionsReorderedEvent = domain.ConnectionsReorderedEvent
type ConfigLoadedEvent = domain.ConfigLoadedEvent
type ConfigSavedEvent = domain.ConfigSavedEvent
type ConfigChangedEvent = domain.ConfigChangedEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

const queueSize = 1000

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	nextID    uint64
	logger    *log.Logger
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
}

// New creates a new event bus. A nil logger falls back to log.Default().
func New(logger *log.Logger) EventBus {
	if logger == nil {
		logger = log.Default()
	}
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		logger:    logger.WithPrefix("eventbus"),
		eventChan: make(chan DomainEvent, queueSize),
		quit:      make(chan struct{}),
	}

	// Start the event dispatcher
	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers. It never blocks: when the
// queue is full the event is dropped and logged.
func (b *bus) Publish(event DomainEvent) {
	select {
	case <-b.quit:
		b.logger.Warn("publish after close", "event", event.Type())
		return
	default:
	}

	b.logger.Debug("publishing", "event", event.Type())

	select {
	case b.eventChan <- event:
	default:
		b.logger.Warn("channel full, dropping event", "event", event.Type())
	}
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close stops the dispatcher and discards queued events
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
		b.wg.Wait()
	})
}

// dispatch handles event distribution to subscribers
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.mu.RLock()
			subs := make([]subscription, len(b.handlers[event.Type()]))
			copy(subs, b.handlers[event.Type()])
			b.mu.RUnlock()

			for _, s := range subs {
				// Call handler in a goroutine to avoid blocking
				go b.invoke(s.handler, event)
			}

		case <-b.quit:
			// Drain remaining events
			for {
				select {
				case <-b.eventChan:
				default:
					return
				}
			}
		}
	}
}

func (b *bus) invoke(h EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panic", "event", event.Type(), "panic", r, "stack", string(debug.Stack()))
		}
	}()
	h(event)
}
