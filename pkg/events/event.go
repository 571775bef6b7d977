package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Ledger event types.
const (
	TransactionRecorded = "TRANSACTION_RECORDED"
	BalanceSet          = "BALANCE_SET"
	SalarySet           = "SALARY_SET"
	ExpenseChanged      = "EXPENSE_CHANGED"
)

// Event defines the contract for all domain events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "BALANCE_SET").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
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

// String reads a payload value as a string, empty when absent.
func (e BaseEvent) String(key string) string {
	if v, ok := e.Data[key]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return ""
}

// Encode serializes any Event into the wire envelope shared by the
// in-process bus and NATS.
func Encode(e Event) ([]byte, error) {
	return json.Marshal(BaseEvent{
		Type:       e.EventType(),
		Data:       e.Payload(),
		OccurredAt: e.Timestamp(),
	})
}

func Decode(data []byte) (BaseEvent, error) {
	var evt BaseEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		return BaseEvent{}, fmt.Errorf("failed to decode event: %w", err)
	}
	if evt.Type == "" {
		return BaseEvent{}, fmt.Errorf("event without type")
	}
	return evt, nil
}
