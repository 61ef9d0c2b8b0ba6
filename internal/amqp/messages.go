package amqp

import (
	"encoding/json"
	"time"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// TransactionEvent is published after a successful transaction write.
// It carries the reporting period so consumers know which month to
// refresh without a database round-trip.
type TransactionEvent struct {
	TransactionID int64     `json:"transaction_id"`
	Action        string    `json:"action"`
	Year          int       `json:"year"`
	Month         int       `json:"month"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewTransactionEvent builds an event stamped with the current time.
func NewTransactionEvent(id int64, action string, year, month int) *TransactionEvent {
	return &TransactionEvent{
		TransactionID: id,
		Action:        action,
		Year:          year,
		Month:         month,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionEventFromJSON decodes an event from JSON bytes.
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var ev TransactionEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
