package service

import (
	"fmt"
	"slices"
	"time"
)

// BoostWindow asks for a target temperature between StartHour and EndHour
// (both inclusive, local wall-clock hours) on the listed weekdays.
type BoostWindow struct {
	StartHour int
	EndHour   int
	Target    TargetTemperature
	Days      []time.Weekday
}

// NewBoostWindow validates the hour bounds, the day set and the target.
func NewBoostWindow(startHour, endHour int, target float64, days ...time.Weekday) (BoostWindow, error) {
	if startHour < 0 || startHour > 23 || endHour < 0 || endHour > 23 {
		return BoostWindow{}, fmt.Errorf("boost window hours must be within 0..23, got %d..%d", startHour, endHour)
	}
	if startHour > endHour {
		return BoostWindow{}, fmt.Errorf("boost window start hour %d is after end hour %d", startHour, endHour)
	}
	if len(days) == 0 {
		return BoostWindow{}, fmt.Errorf("boost window %d..%d has no days", startHour, endHour)
	}
	for _, d := range days {
		if d < time.Sunday || d > time.Saturday {
			return BoostWindow{}, fmt.Errorf("invalid weekday %d", int(d))
		}
	}
	t, err := NewTargetTemperature(target)
	if err != nil {
		return BoostWindow{}, err
	}
	return BoostWindow{
		StartHour: startHour,
		EndHour:   endHour,
		Target:    t,
		Days:      slices.Clone(days),
	}, nil
}

// Matches reports whether now falls on one of the window's days and inside its hours.
// The weekday and hour are read in now's own location.
func (w BoostWindow) Matches(now time.Time) bool {
	if !slices.Contains(w.Days, now.Weekday()) {
		return false
	}
	h := now.Hour()
	return h >= w.StartHour && h <= w.EndHour
}

// ScheduleTable is evaluated in order; when several windows match, the last one wins.
type ScheduleTable []BoostWindow

var (
	weekdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
	weekend  = []time.Weekday{time.Saturday, time.Sunday}
)

// DefaultSchedule returns the built-in table: weekdays 6..22 and weekends 8..22, both at 70 °C.
func DefaultSchedule() ScheduleTable {
	return ScheduleTable{
		{StartHour: 6, EndHour: 22, Target: mustTargetTemperature(70), Days: slices.Clone(weekdays)},
		{StartHour: 8, EndHour: 22, Target: mustTargetTemperature(70), Days: slices.Clone(weekend)},
	}
}

// Evaluate returns the target of the last window matching now.
func (t ScheduleTable) Evaluate(now time.Time) (TargetTemperature, bool) {
	var (
		target  TargetTemperature
		matched bool
	)
	for _, w := range t {
		if w.Matches(now) {
			target = w.Target
			matched = true
		}
	}
	return target, matched
}
