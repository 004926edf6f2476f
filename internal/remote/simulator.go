package remote

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"water_heater/internal/logger"
	"water_heater/internal/models"
)

// Tank model constants.
const (
	ColdWaterC       = 15.0 // inlet temperature the tank never drops below
	ElementCutoffC   = 75.0 // element thermostat cut-off while boosting
	EcoHoldC         = 45.0 // heat-pump hold temperature in GREEN
	BoostRampCPerMin = 0.5  // °C per minute with the element on
	EcoRampCPerMin   = 0.1  // °C per minute from the heat pump alone
	StandingLossCMin = 0.02 // °C per minute lost through insulation
	showerBandC      = 10.0 // °C above cold water per available shower
)

var errSimulatorOffline = errors.New("simulated heater offline")

// Simulator is an in-process water heater that honours the remote contract.
// Time advances only through Run or Advance.
type Simulator struct {
	log *logger.Logger

	mu          sync.Mutex
	gateway     string
	temperature float64
	mode        models.Mode
	offline     bool
	updatedAt   time.Time
}

// NewSimulator returns a heater at startTempC in GREEN mode. A nil log
// discards output.
func NewSimulator(gateway string, startTempC float64, log *logger.Logger) *Simulator {
	if log == nil {
		log = logger.NewNop()
	}
	return &Simulator{
		log:         log,
		gateway:     gateway,
		temperature: startTempC,
		mode:        models.ModeGreen,
		updatedAt:   time.Now(),
	}
}

// Run advances the tank model every tick until ctx is canceled.
func (s *Simulator) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.advanceTo(now)
		}
	}
}

// advanceTo integrates the time elapsed since the previous call. A clock that
// has not moved forward leaves the model untouched.
func (s *Simulator) advanceTo(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elapsed := now.Sub(s.updatedAt)
	if elapsed <= 0 {
		return
	}
	s.updatedAt = now
	s.advanceLocked(elapsed)
}

// Advance integrates the tank model over d.
func (s *Simulator) Advance(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advanceLocked(d)
}

func (s *Simulator) advanceLocked(d time.Duration) {
	minutes := d.Minutes()
	prev := s.temperature

	switch {
	case s.mode == models.ModeBoost:
		s.temperature = math.Min(s.temperature+(BoostRampCPerMin-StandingLossCMin)*minutes, ElementCutoffC)
	case s.temperature < EcoHoldC:
		s.temperature = math.Min(s.temperature+(EcoRampCPerMin-StandingLossCMin)*minutes, EcoHoldC)
	default:
		// the heat pump stays idle until the tank cools to the hold point
		s.temperature = math.Max(s.temperature-StandingLossCMin*minutes, EcoHoldC)
	}
	s.temperature = math.Max(s.temperature, ColdWaterC)

	if s.temperature != prev {
		s.log.Debugw("simulator_tick", "mode", s.mode, "from", prev, "to", s.temperature)
	}
}

// SetOffline makes both remote calls fail until cleared.
func (s *Simulator) SetOffline(offline bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offline = offline
}

func (s *Simulator) FetchTelemetry(ctx context.Context) (*models.Telemetry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.offline {
		return nil, errSimulatorOffline
	}

	req := EcoHoldC
	if s.mode == models.ModeBoost {
		req = ElementCutoffC
	}
	return &models.Telemetry{
		GatewayID:          s.gateway,
		On:                 true,
		Mode:               s.mode,
		Temperature:        math.Round(s.temperature*10) / 10,
		ProcReqTemperature: req,
		ReqTemperature:     EcoHoldC,
		BoostReqTemp:       ElementCutoffC,
		AntiLegionella:     false,
		HeatRequest:        s.temperature < req,
		AvailableShowers:   availableShowers(s.temperature),
	}, nil
}

func (s *Simulator) ApplyMode(ctx context.Context, mode models.Mode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.offline {
		return errSimulatorOffline
	}
	if mode != s.mode {
		s.log.Infow("simulator_mode_changed", "from", s.mode, "to", mode)
	}
	s.mode = mode
	return nil
}

func availableShowers(tempC float64) int {
	if tempC <= ColdWaterC {
		return 0
	}
	return int((tempC - ColdWaterC) / showerBandC)
}
