package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TopicPrefix namespaces every topic this module writes to.
const TopicPrefix = "qzstores"

// DefaultSource is stamped on events unless WithSource overrides it.
const DefaultSource = "storefront"

// Topic builds a topic name such as "qzstores.cart.updated".
func Topic(aggregate, action string) string {
	return fmt.Sprintf("%s.%s.%s", TopicPrefix, aggregate, action)
}

// Aggregate names what an event is about. Its ID is the partition key.
type Aggregate struct {
	Type string
	ID   string
}

// Event is the envelope written to every topic.
type Event struct {
	ID            string          `json:"event_id"`
	Type          string          `json:"event_type"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	Version       int             `json:"version"`
	OccurredAt    time.Time       `json:"timestamp"`
	Source        string          `json:"source"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Data          json.RawMessage `json:"data"`
}

// EventOption customises an envelope built by NewEvent.
type EventOption func(*Event)

// WithCorrelationID ties the event to the request that caused it. Empty ids
// are ignored.
func WithCorrelationID(id string) EventOption {
	return func(e *Event) {
		if id != "" {
			e.CorrelationID = id
		}
	}
}

func WithSource(source string) EventOption {
	return func(e *Event) { e.Source = source }
}

// NewEvent marshals data into a fresh version-1 envelope.
func NewEvent(eventType string, agg Aggregate, data any, opts ...EventOption) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	e := &Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		AggregateID:   agg.ID,
		AggregateType: agg.Type,
		Version:       1,
		OccurredAt:    time.Now().UTC(),
		Source:        DefaultSource,
		Data:          raw,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// DecodeEvent parses an envelope read back from a topic.
func DecodeEvent(b []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return &e, nil
}

// Decode unmarshals the payload into target.
func (e *Event) Decode(target any) error {
	if err := json.Unmarshal(e.Data, target); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return nil
}
