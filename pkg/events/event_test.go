package events

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewBaseEvent(t *testing.T) {
	aggregateID := uuid.New()

	before := time.Now().UTC()
	event := NewBaseEvent("kycrisk.assessment.completed", aggregateID, "RiskAssessment", []byte(`{}`))
	after := time.Now().UTC()

	if event.EventID() == uuid.Nil {
		t.Error("expected non-nil event ID")
	}
	if event.EventType() != "kycrisk.assessment.completed" {
		t.Errorf("unexpected event type %q", event.EventType())
	}
	if event.AggregateID() != aggregateID {
		t.Errorf("expected aggregate ID %v, got %v", aggregateID, event.AggregateID())
	}
	if event.AggregateType() != "RiskAssessment" {
		t.Errorf("unexpected aggregate type %q", event.AggregateType())
	}
	if event.OccurredAt().Before(before) || event.OccurredAt().After(after) {
		t.Errorf("expected occurredAt between %v and %v, got %v", before, after, event.OccurredAt())
	}
	if string(event.Payload()) != `{}` {
		t.Errorf("unexpected payload %s", event.Payload())
	}
}

func TestNewBaseEventAtUsesUTC(t *testing.T) {
	loc := time.FixedZone("IRST", 3*3600+1800)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, loc)

	event := NewBaseEventAt("x", uuid.New(), "X", nil, at)

	if !event.OccurredAt().Equal(at) {
		t.Errorf("expected %v, got %v", at, event.OccurredAt())
	}
	if event.OccurredAt().Location() != time.UTC {
		t.Errorf("expected UTC, got %v", event.OccurredAt().Location())
	}
}

func TestBaseEventImplementsDomainEvent(t *testing.T) {
	var _ DomainEvent = BaseEvent{}
}

func TestCollectorDrain(t *testing.T) {
	c := &Collector{}
	c.Record(NewBaseEvent("a", uuid.New(), "A", nil), NewBaseEvent("b", uuid.New(), "B", nil))

	if c.Len() != 2 {
		t.Fatalf("expected 2 events, got %d", c.Len())
	}
	drained := c.Drain()
	if len(drained) != 2 || drained[0].EventType() != "a" || drained[1].EventType() != "b" {
		t.Errorf("unexpected drained events %v", drained)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty collector after drain, got %d", c.Len())
	}
	if c.Drain() != nil {
		t.Error("expected nil from draining an empty collector")
	}
}

func TestCollectorConcurrentRecord(t *testing.T) {
	c := &Collector{}
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Record(NewBaseEvent("e", uuid.New(), "E", nil))
		}()
	}
	wg.Wait()

	if c.Len() != 100 {
		t.Errorf("expected 100 events, got %d", c.Len())
	}
}
