package amqp

import (
	"encoding/json"
	"time"
)

// SnapshotSavedMessage announces that one month's budget was saved locally.
// It carries only the month coordinates; the worker fetches the snapshot
// from the database, so a stale message always syncs the latest data.
type SnapshotSavedMessage struct {
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSnapshotSavedMessage(year, month int) *SnapshotSavedMessage {
	return &SnapshotSavedMessage{
		Year:      year,
		Month:     month,
		Timestamp: time.Now(),
	}
}

func (m *SnapshotSavedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SnapshotSavedMessageFromJSON(data []byte) (*SnapshotSavedMessage, error) {
	var msg SnapshotSavedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
