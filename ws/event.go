// Package ws is the notification channel: one shared broadcast group
// carrying chat traffic and server-pushed file events to every
// connected client. Delivery is best-effort with no acknowledgments.
package ws

import (
	"encoding/json"

	"go.uber.org/zap"
)

// Event names pushed by the server.
const (
	EvConnected      = "connected"
	EvChatHistory    = "chat_history"
	EvNewMessage     = "new_message"
	EvUserTyping     = "user_typing"
	EvUserStopTyping = "user_stop_typing"
	EvFileUploaded   = "file_uploaded"
	EvFileDownloaded = "file_downloaded"
	EvFileDeleted    = "file_deleted"
)

// Event names accepted from clients.
const (
	EvChatMessage = "chat_message"
)

// Event is the wire envelope, both directions.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func encodeEvent(event string, data any) ([]byte, bool) {
	payload, err := json.Marshal(data)
	if err != nil {
		zap.L().Error("Failed to encode event payload", zap.String("event", event), zap.Error(err))
		return nil, false
	}

	raw, err := json.Marshal(Event{Event: event, Data: payload})
	if err != nil {
		zap.L().Error("Failed to encode event", zap.String("event", event), zap.Error(err))
		return nil, false
	}
	return raw, true
}
