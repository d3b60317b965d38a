package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventMount       EventType = "mount"
	EventNavigate    EventType = "navigate"
	EventAutoAdvance EventType = "auto_advance"
	EventGateChange  EventType = "gate_change"
)

// Action names the controller operation behind a navigation.
type Action string

const (
	ActionReveal   Action = "reveal"
	ActionNext     Action = "next"
	ActionPrev     Action = "prev"
	ActionGoTo     Action = "goto"
	ActionKey      Action = "key"
	ActionAuto     Action = "auto"
	ActionContinue Action = "continue"
	ActionBack     Action = "back"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Layout    Layout    `json:"layout"`
}

// NavigationEvent is emitted after a successful index change.
type NavigationEvent struct {
	EventBase
	Action    Action    `json:"action"`
	From      int       `json:"from"`
	To        int       `json:"to"`
	Direction Direction `json:"direction,omitempty"`
	Epoch     uint64    `json:"epoch,omitempty"`
}

// GateEvent is emitted when a watched gate variable changes readiness.
type GateEvent struct {
	EventBase
	Index int    `json:"index"`
	Key   string `json:"key"`
	Ready bool   `json:"ready"`
}

// LifecycleHooks defines callbacks for controller observability.
// Every field is optional.
type LifecycleHooks struct {
	OnMount       func(context.Context, *Snapshot)
	OnNavigate    func(context.Context, *NavigationEvent)
	OnAutoAdvance func(context.Context, *NavigationEvent)
	OnGateChange  func(context.Context, *GateEvent)
}
