package realtime

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType identifies a realtime event on the wire.
type EventType string

// Inbound events pushed by the backend.
const (
	EventNewMessage  EventType = "new_message"
	EventChatUpdated EventType = "chat_updated"
	EventReadReceipt EventType = "read_receipt"
	EventTyping      EventType = "typing"
)

// Lifecycle events emitted locally by the client itself. They never cross
// the wire.
const (
	EventConnected    EventType = "connect"
	EventDisconnected EventType = "disconnect"
	EventConnectError EventType = "connect_error"
)

// Outbound events emitted by the client.
const (
	EmitJoinRoom  EventType = "join_room"
	EmitLeaveRoom EventType = "leave_room"
	EmitTyping    EventType = "typing_state"
)

// Envelope is the wire frame for every realtime event.
type Envelope struct {
	Type      EventType       `json:"type"`
	RoomID    string          `json:"room_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"ts"`
}

// MessagePayload accompanies EventNewMessage.
type MessagePayload struct {
	MessageID string    `json:"message_id"`
	ChatID    string    `json:"chat_id"`
	SenderID  string    `json:"sender_id"`
	Text      string    `json:"text"`
	IsLetter  bool      `json:"is_letter"`
	SentAt    time.Time `json:"sent_at"`
}

// ChatUpdatePayload accompanies EventChatUpdated.
type ChatUpdatePayload struct {
	ChatID      string    `json:"chat_id"`
	LastMessage string    `json:"last_message"`
	UpdatedAt   time.Time `json:"updated_at"`
	UnreadCount int       `json:"unread_count"`
}

// ReadReceiptPayload accompanies EventReadReceipt.
type ReadReceiptPayload struct {
	ChatID   string    `json:"chat_id"`
	ReaderID string    `json:"reader_id"`
	ReadAt   time.Time `json:"read_at"`
}

// TypingPayload accompanies EventTyping inbound and EmitTyping outbound.
type TypingPayload struct {
	ChatID   string `json:"chat_id"`
	UserID   string `json:"user_id,omitempty"`
	IsTyping bool   `json:"is_typing"`
}

// ParsePayload decodes an envelope's payload into the struct matching its
// event type.
func ParsePayload(env Envelope) (interface{}, error) {
	switch env.Type {
	case EventNewMessage:
		var payload MessagePayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventChatUpdated:
		var payload ChatUpdatePayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventReadReceipt:
		var payload ReadReceiptPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTyping:
		var payload TypingPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	default:
		return nil, fmt.Errorf("unknown event type: %s", env.Type)
	}
}
