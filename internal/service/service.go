package service

import (
	"context"
	"time"

	"water_heater/internal/logger"
	"water_heater/internal/models"
	"water_heater/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Thermo is the controller surface: manual overrides plus the control cycle.
type Thermo interface {
	SetTargetTemperature(ctx context.Context, value float64) (float64, error)
	Boost(ctx context.Context) error
	Green(ctx context.Context) error
	Heartbeat(ctx context.Context) error
	Snapshot() ControllerState
}

// Monitoring exposes the last persisted heater snapshot.
type Monitoring interface {
	GetState(ctx context.Context) (models.HeaterState, error)
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.HeaterEvent, error)
}

// Worker runs heartbeats on a fixed cadence until ctx is canceled.
type Worker interface {
	Run(ctx context.Context, interval time.Duration)
	Start(ctx context.Context, interval time.Duration) <-chan struct{}
}

// Service aggregates all sub-services.
type Service struct {
	Thermo
	Monitoring
	EventLog
	Worker
	Authorization
}

// NewService wires the repository layer and the remote heater into concrete services.
func NewService(repos *repository.Repository, remote RemoteHeater, thermoCfg ThermoConfig, authCfg AuthConfig) *Service {
	thermo := NewThermoService(remote, repos.StateRepo, repos.EventRepo, thermoCfg)
	log := thermoCfg.Log
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		Thermo:        thermo,
		Monitoring:    NewMonitoringService(repos.StateRepo),
		EventLog:      NewEventLogService(repos.EventRepo),
		Worker:        NewWorkerService(thermo, log),
		Authorization: NewAuthService(repos.Auth, authCfg),
	}
}
