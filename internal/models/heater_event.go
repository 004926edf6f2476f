package models

import "time"

// Event types written to the heater log.
const (
	EventTelemetry     = "TELEMETRY"
	EventModeChange    = "MODE_CHANGE"
	EventTargetSet     = "TARGET_SET"
	EventTargetCleared = "TARGET_CLEARED"
	EventFetchFailed   = "FETCH_FAILED"
	EventCommandFailed = "COMMAND_FAILED"
)

// HeaterEvent is a single log entry.
type HeaterEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
