package events

import "sync"

// Collector gathers events produced by concurrent workers so they can be
// published together once a unit of work finishes.
type Collector struct {
	events []DomainEvent
	mu     sync.Mutex
}

// Record appends events.
func (c *Collector) Record(events ...DomainEvent) {
	c.mu.Lock()
	c.events = append(c.events, events...)
	c.mu.Unlock()
}

// Len returns the number of events held.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

// Drain returns the collected events and empties the collector.
func (c *Collector) Drain() []DomainEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	collected := c.events
	c.events = nil
	return collected
}
