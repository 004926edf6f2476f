package models

// Telemetry is one plant data snapshot reported by the remote service.
// Only Temperature and Mode drive control decisions; the rest is carried
// through to events and the persisted state.
type Telemetry struct {
	GatewayID          string  `json:"gw"`
	On                 bool    `json:"on"`
	Mode               Mode    `json:"mode"`
	Temperature        float64 `json:"temp"`                   // °C
	ProcReqTemperature float64 `json:"procReqTemp,omitempty"`  // °C
	ReqTemperature     float64 `json:"reqTemp,omitempty"`      // °C
	BoostReqTemp       float64 `json:"boostReqTemp,omitempty"` // °C
	AntiLegionella     bool    `json:"antiLeg"`
	HeatRequest        bool    `json:"heatReq"`
	AvailableShowers   int     `json:"avShw"`
}
