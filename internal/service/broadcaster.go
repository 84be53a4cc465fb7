package service

import "brainstorm/internal/model"

// Broadcaster delivers outbound events to connections (avoids import cycle
// with the websocket hub). Sends never block.
type Broadcaster interface {
	SendTo(connID string, msgType model.EventType, payload interface{})
	SendToMany(connIDs []string, msgType model.EventType, payload interface{})
}
