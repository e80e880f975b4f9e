package events

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Event types carried on the bus.
const (
	TypeCaseCreated         = "CASE_CREATED"
	TypeCaseUpdated         = "CASE_UPDATED"
	TypeSubmissionCompleted = "SUBMISSION_COMPLETED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CASE_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now().UTC()}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// envelope is the wire form of an event.
type envelope struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func Encode(e Event) ([]byte, error) {
	return json.Marshal(envelope{Type: e.EventType(), Data: e.Payload(), OccurredAt: e.Timestamp()})
}

// Decode reads an envelope. Messages published as a bare payload are still
// accepted; their type is taken from the subject.
func Decode(subject string, raw []byte) (BaseEvent, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return BaseEvent{}, fmt.Errorf("decode event on %s: %w", subject, err)
	}
	if env.Type != "" && env.Data != nil {
		return BaseEvent{Type: env.Type, Data: env.Data, OccurredAt: env.OccurredAt}, nil
	}

	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return BaseEvent{}, fmt.Errorf("decode event on %s: %w", subject, err)
	}
	return BaseEvent{
		Type:       TypeFromSubject(subject),
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}, nil
}

// TypeFromSubject strips the stream prefix from a subject.
func TypeFromSubject(subject string) string {
	return strings.TrimPrefix(subject, "events.")
}
