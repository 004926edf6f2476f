package service

import (
	"errors"
	"fmt"
	"math"
)

// Accepted target range, inclusive, and the fixed ceiling used by Boost.
const (
	MinTargetC    = 40.0
	MaxTargetC    = 70.0
	BoostCeilingC = 70.0
)

// ErrTargetOutOfRange is returned when a setpoint falls outside [MinTargetC, MaxTargetC].
var ErrTargetOutOfRange = errors.New("target temperature out of range")

// TargetTemperature is a validated boost setpoint. Replace it, don't mutate it.
type TargetTemperature struct {
	value float64
}

// NewTargetTemperature validates v. Out-of-range values are rejected, never clamped.
func NewTargetTemperature(v float64) (TargetTemperature, error) {
	if math.IsNaN(v) || v < MinTargetC || v > MaxTargetC {
		return TargetTemperature{}, fmt.Errorf("%w: %.1f must be between %.0f and %.0f", ErrTargetOutOfRange, v, MinTargetC, MaxTargetC)
	}
	return TargetTemperature{value: v}, nil
}

func mustTargetTemperature(v float64) TargetTemperature {
	t, err := NewTargetTemperature(v)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TargetTemperature) Value() float64 { return t.value }
