package service

import (
	"context"
	"time"

	"water_heater/internal/models"
	"water_heater/internal/repository"
)

type MonitoringService struct {
	stateRepo repository.StateRepo
}

func NewMonitoringService(stateRepo repository.StateRepo) *MonitoringService {
	return &MonitoringService{stateRepo: stateRepo}
}

// GetState returns the latest persisted heater state.
// Before the first heartbeat it returns a GREEN baseline with no target.
func (s *MonitoringService) GetState(ctx context.Context) (models.HeaterState, error) {
	state, err := s.stateRepo.Load(ctx)
	if err != nil {
		return models.HeaterState{}, err
	}
	if state.ID == 0 {
		return s.baselineState(), nil
	}
	state.UpdatedAt = toUTC(state.UpdatedAt)
	return state, nil
}

// baselineState mirrors a freshly started controller.
func (s *MonitoringService) baselineState() models.HeaterState {
	return models.HeaterState{
		ID:           1, // DB schema enforces single-row state with id=1
		Mode:         models.ModeGreen,
		CurrentTempC: 0,
		TargetTempC:  nil,
		UpdatedAt:    time.Now().UTC(),
	}
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
