package models

import (
	"fmt"
	"strings"
)

// Mode is the coarse operating state of the water heater.
// The zero value is ModeGreen, which is also what a freshly started
// controller assumes before the first telemetry arrives.
type Mode int

const (
	ModeGreen Mode = iota
	ModeBoost
)

const (
	modeGreenText = "GREEN"
	modeBoostText = "BOOST"
)

func (m Mode) String() string {
	switch m {
	case ModeGreen:
		return modeGreenText
	case ModeBoost:
		return modeBoostText
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts GREEN or BOOST, case-insensitive.
func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case modeGreenText:
		return ModeGreen, nil
	case modeBoostText:
		return ModeBoost, nil
	default:
		return ModeGreen, fmt.Errorf("invalid mode %q: must be GREEN or BOOST", s)
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	if m != ModeGreen && m != ModeBoost {
		return nil, fmt.Errorf("invalid mode %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
