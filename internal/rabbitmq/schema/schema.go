package schema

import (
	"encoding/json"
	"time"
)

// InboundMessage is the queue representation of a chat message waiting to
// be processed.
type InboundMessage struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Text       string    `json:"text"`
	ReceivedAt time.Time `json:"receivedAt"`
}

func (m *InboundMessage) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

func (m *InboundMessage) Unmarshal(data []byte) error {
	return json.Unmarshal(data, m)
}
