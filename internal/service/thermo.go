package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"water_heater/internal/logger"
	"water_heater/internal/metrics"
	"water_heater/internal/models"
	"water_heater/internal/repository"

	"github.com/google/uuid"
)

// DefaultFetchAttempts is one initial telemetry fetch plus three retries.
const DefaultFetchAttempts = 4

var (
	// ErrFetchExhausted means every telemetry attempt of a heartbeat failed.
	ErrFetchExhausted = errors.New("telemetry fetch exhausted")
	// ErrModeCommand wraps a failed mode change sent to the remote service.
	ErrModeCommand = errors.New("mode command failed")

	errNoTelemetry = errors.New("remote returned no telemetry")
)

// RemoteHeater is the remote service the controller reads and commands.
// Both calls may fail; a nil snapshot with a nil error counts as no data.
type RemoteHeater interface {
	FetchTelemetry(ctx context.Context) (*models.Telemetry, error)
	ApplyMode(ctx context.Context, mode models.Mode) error
}

// EventPublisher fans controller events and snapshots out to subscribers.
type EventPublisher interface {
	PublishEvent(ev models.HeaterEvent) error
	PublishState(st models.HeaterState) error
}

// ThermoConfig carries the controller's policy knobs and optional collaborators.
// Zero values fall back to the defaults.
type ThermoConfig struct {
	Schedule      ScheduleTable
	FetchAttempts int
	FetchBackoff  time.Duration
	Now           func() time.Time

	Publisher EventPublisher
	Metrics   *metrics.Metrics
	Log       *logger.Logger
}

// ControllerState is the in-memory view the controller decides on.
type ControllerState struct {
	Temperature float64     `json:"temperature_c"`
	Mode        models.Mode `json:"mode"`
	TargetTempC *float64    `json:"target_temp_c,omitempty"`
}

// ThermoService is the heater controller. Each public method holds mu for its
// whole decision, so manual overrides never interleave with a heartbeat.
// Events and snapshots are queued under mu and published after it is released.
type ThermoService struct {
	remote    RemoteHeater
	stateRepo repository.StateRepo
	eventRepo repository.EventRepo
	publisher EventPublisher
	metrics   *metrics.Metrics
	log       *logger.Logger

	schedule      ScheduleTable
	fetchAttempts int
	fetchBackoff  time.Duration
	now           func() time.Time

	mu          sync.Mutex
	temperature float64
	mode        models.Mode
	target      *TargetTemperature
	isOn        bool
	gatewayID   string

	outEvents []models.HeaterEvent
	outState  *models.HeaterState
}

// NewThermoService builds a controller around remote. The repos and every
// ThermoConfig collaborator may be nil.
func NewThermoService(remote RemoteHeater, stateRepo repository.StateRepo, eventRepo repository.EventRepo, cfg ThermoConfig) *ThermoService {
	s := &ThermoService{
		remote:        remote,
		stateRepo:     stateRepo,
		eventRepo:     eventRepo,
		publisher:     cfg.Publisher,
		metrics:       cfg.Metrics,
		log:           cfg.Log,
		schedule:      cfg.Schedule,
		fetchAttempts: cfg.FetchAttempts,
		fetchBackoff:  cfg.FetchBackoff,
		now:           cfg.Now,
	}
	if s.schedule == nil {
		s.schedule = DefaultSchedule()
	}
	if s.fetchAttempts < 1 {
		s.fetchAttempts = DefaultFetchAttempts
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = logger.NewNop()
	}
	return s
}

// heartbeatCycle tracks commands that failed during one heartbeat so the same
// mode is not sent twice in a cycle.
type heartbeatCycle struct {
	failed map[models.Mode]bool
	errs   []error
}

func newHeartbeatCycle() *heartbeatCycle {
	return &heartbeatCycle{failed: make(map[models.Mode]bool)}
}

// SetTargetTemperature validates and stores value as the active target,
// replacing any previous one.
func (s *ThermoService) SetTargetTemperature(ctx context.Context, value float64) (float64, error) {
	target, err := NewTargetTemperature(value)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.unlockAndPublish()

	s.setTargetLocked(ctx, target, "manual")
	s.saveStateLocked(ctx)
	return target.Value(), nil
}

// Boost requests BOOST mode and sets the target to BoostCeilingC.
// The target is kept even when the command fails so the next heartbeat retries it.
func (s *ThermoService) Boost(ctx context.Context) error {
	s.mu.Lock()
	defer s.unlockAndPublish()

	err := s.boostLocked(ctx, nil)
	s.saveStateLocked(ctx)
	return err
}

// Green requests GREEN mode.
func (s *ThermoService) Green(ctx context.Context) error {
	s.mu.Lock()
	defer s.unlockAndPublish()

	err := s.applyModeLocked(ctx, models.ModeGreen, nil)
	s.saveStateLocked(ctx)
	return err
}

// Heartbeat runs one control cycle: fetch, target-reached check, boost check,
// schedule evaluation, green check. A schedule match that introduces a target
// is acted on by the next heartbeat, not this one.
//
// It returns an ErrFetchExhausted error when no telemetry could be read (no
// decision is made), or the joined ErrModeCommand failures of this cycle.
func (s *ThermoService) Heartbeat(ctx context.Context) error {
	s.mu.Lock()
	defer s.unlockAndPublish()

	tel, err := s.fetchTelemetryLocked(ctx)
	if err != nil {
		s.log.Warnw("heartbeat_fetch_exhausted", "attempts", s.fetchAttempts, "err", err)
		s.recordLocked(ctx, models.EventFetchFailed, "Unable to fetch telemetry", map[string]any{
			"attempts": s.fetchAttempts,
			"error":    err.Error(),
		})
		s.metrics.Heartbeat(metrics.ResultFetchFailed)
		return err
	}
	s.observeLocked(ctx, tel)

	cycle := newHeartbeatCycle()

	s.checkTargetReachedLocked(ctx, cycle)

	if s.target != nil && s.mode != models.ModeBoost {
		_ = s.boostLocked(ctx, cycle)
	}

	s.applyScheduleLocked(ctx)

	if s.target == nil && s.mode != models.ModeGreen {
		_ = s.applyModeLocked(ctx, models.ModeGreen, cycle)
	}

	s.saveStateLocked(ctx)

	if len(cycle.errs) > 0 {
		s.metrics.Heartbeat(metrics.ResultCommandFailed)
		return errors.Join(cycle.errs...)
	}
	s.metrics.Heartbeat(metrics.ResultOK)
	return nil
}

// Snapshot returns the controller's current in-memory state.
func (s *ThermoService) Snapshot() ControllerState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return ControllerState{
		Temperature: s.temperature,
		Mode:        s.mode,
		TargetTempC: s.targetValueLocked(),
	}
}

// fetchTelemetryLocked tries up to fetchAttempts times and stops at the first snapshot.
func (s *ThermoService) fetchTelemetryLocked(ctx context.Context) (*models.Telemetry, error) {
	var lastErr error
	for attempt := 1; attempt <= s.fetchAttempts; attempt++ {
		if attempt > 1 && s.fetchBackoff > 0 {
			t := time.NewTimer(s.fetchBackoff)
			select {
			case <-ctx.Done():
				t.Stop()
				return nil, fmt.Errorf("%w after %d attempts: %w", ErrFetchExhausted, attempt-1, ctx.Err())
			case <-t.C:
			}
		}

		s.metrics.FetchAttempt()
		tel, err := s.remote.FetchTelemetry(ctx)
		if err == nil && tel != nil {
			return tel, nil
		}
		if err == nil {
			err = errNoTelemetry
		}
		lastErr = err
		s.log.Warnw("telemetry_fetch_attempt_failed", "attempt", attempt, "err", err)
	}
	return nil, fmt.Errorf("%w after %d attempts: %w", ErrFetchExhausted, s.fetchAttempts, lastErr)
}

func (s *ThermoService) observeLocked(ctx context.Context, tel *models.Telemetry) {
	s.temperature = tel.Temperature
	s.mode = tel.Mode
	s.isOn = tel.On
	s.gatewayID = tel.GatewayID

	s.recordLocked(ctx, models.EventTelemetry, fmt.Sprintf("%.1f °C, %s", tel.Temperature, tel.Mode), map[string]any{
		"temp_c":          tel.Temperature,
		"mode":            tel.Mode,
		"on":              tel.On,
		"req_temp_c":      tel.ReqTemperature,
		"anti_legionella": tel.AntiLegionella,
		"heat_request":    tel.HeatRequest,
		"showers":         tel.AvailableShowers,
	})
}

// checkTargetReachedLocked clears the target and requests GREEN once the water
// is hot enough: at the target when one is set, at BoostCeilingC otherwise.
// Nothing happens while the heater already reports GREEN.
func (s *ThermoService) checkTargetReachedLocked(ctx context.Context, cycle *heartbeatCycle) {
	if (s.target == nil && s.temperature < BoostCeilingC) || s.mode == models.ModeGreen {
		return
	}
	if s.target != nil && s.temperature < s.target.Value() {
		return
	}

	s.clearTargetLocked(ctx)
	_ = s.applyModeLocked(ctx, models.ModeGreen, cycle)
}

func (s *ThermoService) applyScheduleLocked(ctx context.Context) {
	target, ok := s.schedule.Evaluate(s.now())
	if !ok {
		return
	}
	s.setTargetLocked(ctx, target, "schedule")
}

func (s *ThermoService) boostLocked(ctx context.Context, cycle *heartbeatCycle) error {
	err := s.applyModeLocked(ctx, models.ModeBoost, cycle)
	s.setTargetLocked(ctx, mustTargetTemperature(BoostCeilingC), "boost")
	return err
}

// applyModeLocked sends mode unless it equals the last observed mode. On
// success the observed mode advances; on failure it is left as is.
func (s *ThermoService) applyModeLocked(ctx context.Context, mode models.Mode, cycle *heartbeatCycle) error {
	if mode == s.mode {
		s.log.Infow("mode_already_set", "mode", mode)
		return nil
	}
	if cycle != nil && cycle.failed[mode] {
		s.log.Infow("mode_command_skipped", "mode", mode, "reason", "failed earlier this cycle")
		return nil
	}

	if err := s.remote.ApplyMode(ctx, mode); err != nil {
		err = fmt.Errorf("%w: set %s: %w", ErrModeCommand, mode, err)
		s.log.Errorw("mode_command_failed", "mode", mode, "err", err)
		s.metrics.ModeCommand(mode.String(), false)
		s.recordLocked(ctx, models.EventCommandFailed, "Failed to set mode "+mode.String(), map[string]any{
			"mode":  mode,
			"error": err.Error(),
		})
		if cycle != nil {
			cycle.failed[mode] = true
			cycle.errs = append(cycle.errs, err)
		}
		return err
	}

	from := s.mode
	s.mode = mode
	s.log.Infow("mode_changed", "from", from, "to", mode)
	s.metrics.ModeCommand(mode.String(), true)
	s.recordLocked(ctx, models.EventModeChange, "Mode changed to "+mode.String(), map[string]any{
		"from":   from,
		"to":     mode,
		"temp_c": s.temperature,
	})
	return nil
}

// setTargetLocked records an event only when the target actually changes.
func (s *ThermoService) setTargetLocked(ctx context.Context, target TargetTemperature, source string) {
	if s.target != nil && s.target.Value() == target.Value() {
		return
	}
	s.target = &target
	s.recordLocked(ctx, models.EventTargetSet, fmt.Sprintf("Target set to %.1f °C", target.Value()), map[string]any{
		"target_temp_c": target.Value(),
		"source":        source,
	})
}

func (s *ThermoService) clearTargetLocked(ctx context.Context) {
	if s.target == nil {
		return
	}
	prev := s.target.Value()
	s.target = nil
	s.recordLocked(ctx, models.EventTargetCleared, "Target reached", map[string]any{
		"target_temp_c": prev,
		"temp_c":        s.temperature,
	})
}

func (s *ThermoService) targetValueLocked() *float64 {
	if s.target == nil {
		return nil
	}
	v := s.target.Value()
	return &v
}

// recordLocked appends ev to the log and queues it for publishing. Failures are logged only.
func (s *ThermoService) recordLocked(ctx context.Context, typ, description string, meta map[string]any) {
	ev := models.HeaterEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  s.now().UTC(),
		Type:        typ,
		Description: description,
		Metadata:    meta,
	}
	if s.eventRepo != nil {
		if err := s.eventRepo.Append(ctx, ev); err != nil {
			s.log.Warnw("event_append_failed", "type", typ, "err", err)
		}
	}
	if s.publisher != nil {
		s.outEvents = append(s.outEvents, ev)
	}
}

// saveStateLocked persists the observed snapshot and queues it for publishing.
// Failures are logged only.
func (s *ThermoService) saveStateLocked(ctx context.Context) {
	st := models.HeaterState{
		ID:           1,
		GatewayID:    s.gatewayID,
		Mode:         s.mode,
		CurrentTempC: s.temperature,
		TargetTempC:  s.targetValueLocked(),
		IsOn:         s.isOn,
		UpdatedAt:    s.now().UTC(),
	}
	s.metrics.ObserveState(st.CurrentTempC, st.Mode == models.ModeBoost, st.TargetTempC)

	if s.stateRepo != nil {
		if err := s.stateRepo.Save(ctx, st); err != nil {
			s.log.Warnw("state_save_failed", "err", err)
		}
	}
	if s.publisher != nil {
		s.outState = &st
	}
}

// unlockAndPublish releases mu, then hands the queued events and the latest
// snapshot to the publisher. A slow broker delays only the caller.
func (s *ThermoService) unlockAndPublish() {
	events, state := s.outEvents, s.outState
	s.outEvents, s.outState = nil, nil
	s.mu.Unlock()

	if s.publisher == nil {
		return
	}
	for _, ev := range events {
		if err := s.publisher.PublishEvent(ev); err != nil {
			s.log.Warnw("event_publish_failed", "type", ev.Type, "err", err)
		}
	}
	if state != nil {
		if err := s.publisher.PublishState(*state); err != nil {
			s.log.Warnw("state_publish_failed", "err", err)
		}
	}
}
