package models

import "slices"

// EventTypes lists every type the controller writes.
var EventTypes = []string{
	EventTelemetry,
	EventModeChange,
	EventTargetSet,
	EventTargetCleared,
	EventFetchFailed,
	EventCommandFailed,
}

// IsEventType reports whether typ is one of EventTypes.
func IsEventType(typ string) bool {
	return slices.Contains(EventTypes, typ)
}
