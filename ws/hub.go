package ws

import (
	"context"
	"encoding/json"

	"sharebox/model"

	"go.uber.org/zap"
)

type outbound struct {
	data    []byte
	exclude *Client
}

// Hub owns the set of connected clients and fans every event out to all
// of them. There are no rooms and no per-client filtering.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan outbound
	register   chan *Client
	unregister chan *Client

	transcript  *Transcript
	replayCount int
}

func NewHub(transcript *Transcript, replayCount int) *Hub {
	if replayCount <= 0 {
		replayCount = 20
	}
	return &Hub{
		clients:     make(map[*Client]bool),
		broadcast:   make(chan outbound, 256),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		transcript:  transcript,
		replayCount: replayCount,
	}
}

func (h *Hub) Transcript() *Transcript {
	return h.transcript
}

// Broadcast queues event for every connected client. Fire-and-forget:
// when the queue is full the event is dropped.
func (h *Hub) Broadcast(event string, data any) {
	h.send(event, data, nil)
}

func (h *Hub) broadcastExcept(c *Client, event string, data any) {
	h.send(event, data, c)
}

func (h *Hub) send(event string, data any, exclude *Client) {
	raw, ok := encodeEvent(event, data)
	if !ok {
		return
	}

	select {
	case h.broadcast <- outbound{data: raw, exclude: exclude}:
	default:
		zap.L().Warn("Broadcast queue full, dropping event", zap.String("event", event))
	}
}

// Run is the hub's single goroutine; it owns the clients map for its
// whole lifetime. Stops when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.welcome(client)
			zap.L().Debug("Socket client connected", zap.Int("connected", len(h.clients)))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				zap.L().Debug("Socket client disconnected", zap.Int("connected", len(h.clients)))
			}

		case msg := <-h.broadcast:
			for client := range h.clients {
				if client == msg.exclude {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					// Slow consumer, drop it rather than block the hub
					delete(h.clients, client)
					close(client.send)
				}
			}

		case <-ctx.Done():
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			return
		}
	}
}

// welcome greets a fresh connection and replays the newest chat
// messages to it, and to it only.
func (h *Hub) welcome(c *Client) {
	if raw, ok := encodeEvent(EvConnected, map[string]string{
		"message": "Connected to file sharing server",
	}); ok {
		c.send <- raw
	}

	if raw, ok := encodeEvent(EvChatHistory, map[string]any{
		"messages": h.transcript.Recent(h.replayCount),
	}); ok {
		c.send <- raw
	}
}

// handleInbound dispatches one client event.
func (h *Hub) handleInbound(c *Client, raw []byte) {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		zap.L().Debug("Ignoring malformed socket event", zap.Error(err))
		return
	}

	switch ev.Event {
	case EvChatMessage:
		var in struct {
			Username string `json:"username"`
			Message  string `json:"message"`
		}
		if err := json.Unmarshal(ev.Data, &in); err != nil {
			return
		}
		h.PostMessage(in.Username, in.Message)

	case EvUserTyping, EvUserStopTyping:
		var in struct {
			Username string `json:"username"`
		}
		if err := json.Unmarshal(ev.Data, &in); err != nil {
			return
		}
		if in.Username == "" {
			in.Username = "Anonymous"
		}
		h.broadcastExcept(c, ev.Event, map[string]string{"username": in.Username})

	default:
		zap.L().Debug("Ignoring unknown socket event", zap.String("event", ev.Event))
	}
}

// PostMessage appends a text message to the transcript and broadcasts
// it. Also used by the HTTP chat-upload path for file messages.
func (h *Hub) PostMessage(username, message string) {
	if username == "" {
		username = "Anonymous"
	}

	if message == "" {
		return
	}

	msg := h.transcript.Append(model.ChatMessage{
		Username: username,
		Message:  message,
		Type:     model.ChatText,
	})
	h.Broadcast(EvNewMessage, msg)
}

// PostFileMessage appends a file-attachment message and broadcasts it.
func (h *Hub) PostFileMessage(msg model.ChatMessage) model.ChatMessage {
	stamped := h.transcript.Append(msg)
	h.Broadcast(EvNewMessage, stamped)
	return stamped
}
