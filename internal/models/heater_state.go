package models

import "time"

// HeaterState is the last observed snapshot of the heater, kept for display.
type HeaterState struct {
	ID           int       `json:"id"`
	GatewayID    string    `json:"gateway_id,omitempty"`
	Mode         Mode      `json:"mode"`                    // GREEN | BOOST
	CurrentTempC float64   `json:"current_temp_c"`          // °C
	TargetTempC  *float64  `json:"target_temp_c,omitempty"` // nil when no boost target is active
	IsOn         bool      `json:"is_on"`
	UpdatedAt    time.Time `json:"updated_at"`
}
