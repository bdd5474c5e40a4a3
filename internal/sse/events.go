// Package sse streams view state changes to the clients displaying them.
package sse

import (
	"time"
)

// EventType is the SSE event name.
type EventType string

const (
	// EventViewReplaced carries the new URL query for a view. Clients replace
	// their current history entry with it.
	EventViewReplaced EventType = "view.replaced"
	// EventFullscreenRequest asks the displaying client to enter or exit
	// fullscreen. The client answers through the fullscreen status endpoint.
	EventFullscreenRequest EventType = "fullscreen.request"
	// EventViewClosed is sent when a view is deleted or expires.
	EventViewClosed EventType = "view.closed"
	// EventPaletteAdded is broadcast to every client when a custom palette
	// is saved.
	EventPaletteAdded EventType = "palette.added"

	// EventHeartbeat keeps idle connections open.
	EventHeartbeat EventType = "heartbeat"
)

// Event is one message to clients.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`

	// ViewID limits delivery to clients of one view. Empty means all.
	ViewID string `json:"-"`
}

// ViewReplacedEventData is the payload of view.replaced.
type ViewReplacedEventData struct {
	ViewID string `json:"view_id"`
	Query  string `json:"query"`
	Index  int    `json:"index"`
	Style  string `json:"style"`
}

// FullscreenRequestEventData is the payload of fullscreen.request.
type FullscreenRequestEventData struct {
	ViewID string `json:"view_id"`
	Enter  bool   `json:"enter"`
}

// ViewClosedEventData is the payload of view.closed.
type ViewClosedEventData struct {
	ViewID string `json:"view_id"`
	Reason string `json:"reason"`
}

// PaletteAddedEventData is the payload of palette.added.
type PaletteAddedEventData struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// HeartbeatEventData is the payload of heartbeat.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewViewReplacedEvent creates a view.replaced event for one view.
func NewViewReplacedEvent(viewID, query string, index int, style string) Event {
	return Event{
		Type:      EventViewReplaced,
		ViewID:    viewID,
		Data:      ViewReplacedEventData{ViewID: viewID, Query: query, Index: index, Style: style},
		Timestamp: time.Now(),
	}
}

// NewFullscreenRequestEvent creates a fullscreen.request event for one view.
func NewFullscreenRequestEvent(viewID string, enter bool) Event {
	return Event{
		Type:      EventFullscreenRequest,
		ViewID:    viewID,
		Data:      FullscreenRequestEventData{ViewID: viewID, Enter: enter},
		Timestamp: time.Now(),
	}
}

// NewViewClosedEvent creates a view.closed event for one view.
func NewViewClosedEvent(viewID, reason string) Event {
	return Event{
		Type:      EventViewClosed,
		ViewID:    viewID,
		Data:      ViewClosedEventData{ViewID: viewID, Reason: reason},
		Timestamp: time.Now(),
	}
}

// NewPaletteAddedEvent creates a palette.added event for all clients.
func NewPaletteAddedEvent(index int, name string) Event {
	return Event{
		Type:      EventPaletteAdded,
		Data:      PaletteAddedEventData{Index: index, Name: name},
		Timestamp: time.Now(),
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return Event{
		Type: EventHeartbeat,
		Data: HeartbeatEventData{
			ServerTime: time.Now(),
		},
		Timestamp: time.Now(),
	}
}
