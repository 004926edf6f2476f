package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"water_heater/internal/models"
	"water_heater/internal/repository"
)

var (
	// ErrInvalidTimeRange means From is after To.
	ErrInvalidTimeRange = errors.New("invalid time range: from must be <= to")
	// ErrUnknownEventType means the type filter names no heater event.
	ErrUnknownEventType = errors.New("unknown event type")
)

// EventLogService reads the heater audit log.
type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

// normalize returns f with UTC bounds and a canonical type, or the reason it
// cannot be queried.
func (f LogFilter) normalize() (LogFilter, error) {
	out := LogFilter{
		From: toUTC(f.From),
		To:   toUTC(f.To),
		Type: strings.ToUpper(strings.TrimSpace(f.Type)),
	}
	if !out.From.IsZero() && !out.To.IsZero() && out.From.After(out.To) {
		return LogFilter{}, ErrInvalidTimeRange
	}
	if out.Type != "" && !models.IsEventType(out.Type) {
		return LogFilter{}, fmt.Errorf("%w: %q", ErrUnknownEventType, out.Type)
	}
	return out, nil
}

// List returns matching events in chronological order.
func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.HeaterEvent, error) {
	nf, err := f.normalize()
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, nf.From, nf.To, nf.Type)
}
