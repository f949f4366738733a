package ui

import "dndsidebar/internal/domain"

// EventMsg wraps a domain event forwarded from the bus
type EventMsg struct {
	Event domain.DomainEvent
}

// autoscrollTickMsg fires while an autoscroll velocity is active
type autoscrollTickMsg struct{}

// helpPagerMsg contains the result of a help pager command
type helpPagerMsg struct {
	err error
}
