// Package domain holds the observer session vocabulary shared by the hub, the
// websocket transport and the analytics sink
package domain

import (
	reports "resolveit/internal/services/api/reports/domain"
)

// Wire frame names
const (
	FrameCount  = "reports:count"
	FrameRecent = "reports:recent"
	FrameStats  = "reports:stats"
	FrameError  = "error"
)

// Client messages
const (
	MsgJoin  = "admin:join"
	MsgLeave = "admin:leave"
)

// Frame is one message pushed to an observer. Seq is the store sequence the frame
// belongs to; the initial sync frames carry the sequence of the snapshot
type Frame struct {
	Type string `json:"type" cbor:"type"`
	Seq  uint64 `json:"seq" cbor:"seq"`
	Data any    `json:"data" cbor:"data"`

	// Event is set on mutation and stats frames for in-process consumers
	Event *reports.Event `json:"-" cbor:"-"`
}

// Count is the body of a reports:count frame
type Count struct {
	Total int `json:"total" cbor:"total"`
}

// ClientMessage is what an observer may send
type ClientMessage struct {
	Type string `json:"type" cbor:"type"`
}

// State is where a session is in its lifecycle
type State int32

// Session states; Disconnected is terminal
const (
	Connecting State = iota
	Synced
	Disconnected
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Synced:
		return "synced"
	case Disconnected:
		return "disconnected"
	}
	return "unknown"
}

// SessionsInfo answers GET /realtime/sessions
type SessionsInfo struct {
	Sessions int    `json:"sessions" example:"3"`
	Group    string `json:"group" example:"admin-dashboard"`
	Members  int    `json:"members" example:"3"`
	Lagged   uint64 `json:"lagged" example:"0"`
	Seq      uint64 `json:"seq" example:"42"`
}
