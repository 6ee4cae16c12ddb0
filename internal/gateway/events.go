package gateway

import (
	"encoding/json"

	"social-app/internal/model"
)

type EventType string

const (
	EventSendMessage    EventType = "sendMessage"
	EventSuccessMessage EventType = "successMessage"
	EventNewMessage     EventType = "newMessage"
	EventError          EventType = "custom_error"
)

// Envelope : кадр websocket в обе стороны
type Envelope struct {
	Event EventType       `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type SendMessagePayload struct {
	To      string `json:"to"`
	Content string `json:"content"`
}

type ErrorPayload struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type MessagePayload struct {
	Message *model.Message `json:"message"`
}

func encode(event EventType, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
