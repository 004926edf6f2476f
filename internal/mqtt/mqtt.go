// Package mqtt fans heater events and state snapshots out to an MQTT broker.
package mqtt

import (
	"encoding/json"
	"strings"
	"time"

	"water_heater/internal/models"
)

// DefaultTopicPrefix is used when no prefix is configured.
const DefaultTopicPrefix = "home/water-heater"

// Publisher publishes controller output to MQTT.
type Publisher interface {
	// PublishEvent sends one log entry. Failures are reported, never fatal.
	PublishEvent(ev models.HeaterEvent) error

	// PublishState sends the latest heater snapshot as a retained message.
	PublishState(st models.HeaterState) error

	// Close disconnects from the broker.
	Close() error
}

// Topics holds the two topics derived from a prefix.
type Topics struct {
	Events string
	State  string
}

func NewTopics(prefix string) Topics {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return Topics{
		Events: prefix + "/events",
		State:  prefix + "/state",
	}
}

// EventPayload is the message body on the events topic.
type EventPayload struct {
	Timestamp   string `json:"timestamp"`
	ID          string `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Metadata    any    `json:"metadata,omitempty"`
}

// FormatEventPayload creates the JSON payload for a heater event.
func FormatEventPayload(ev models.HeaterEvent) ([]byte, error) {
	return json.Marshal(EventPayload{
		Timestamp:   ev.OccurredAt.UTC().Format(time.RFC3339),
		ID:          ev.EventID,
		Type:        ev.Type,
		Description: ev.Description,
		Metadata:    ev.Metadata,
	})
}

// StatePayload is the retained message body on the state topic.
type StatePayload struct {
	Timestamp    string      `json:"timestamp"`
	Gateway      string      `json:"gateway,omitempty"`
	Mode         models.Mode `json:"mode"`
	TemperatureC float64     `json:"temperature_c"`
	TargetC      *float64    `json:"target_c"`
	On           bool        `json:"on"`
}

// FormatStatePayload creates the JSON payload for a heater snapshot.
func FormatStatePayload(st models.HeaterState) ([]byte, error) {
	return json.Marshal(StatePayload{
		Timestamp:    st.UpdatedAt.UTC().Format(time.RFC3339),
		Gateway:      st.GatewayID,
		Mode:         st.Mode,
		TemperatureC: st.CurrentTempC,
		TargetC:      st.TargetTempC,
		On:           st.IsOn,
	})
}
