package mqtt

import (
	"sync"

	"water_heater/internal/models"
)

// FakePublisher records published messages for test assertions.
type FakePublisher struct {
	mu sync.Mutex

	// Events contains all heater events that were published.
	Events []models.HeaterEvent
	// EventPayloads contains the JSON payloads for events.
	EventPayloads [][]byte

	// States contains all snapshots that were published.
	States []models.HeaterState
	// StatePayloads contains the JSON payloads for snapshots.
	StatePayloads [][]byte

	// PublishError, if set, is returned by both publish methods.
	PublishError error

	// Closed tracks if Close was called.
	Closed bool
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

func (f *FakePublisher) PublishEvent(ev models.HeaterEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatEventPayload(ev)
	if err != nil {
		return err
	}
	f.Events = append(f.Events, ev)
	f.EventPayloads = append(f.EventPayloads, payload)
	return nil
}

func (f *FakePublisher) PublishState(st models.HeaterState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatStatePayload(st)
	if err != nil {
		return err
	}
	f.States = append(f.States, st)
	f.StatePayloads = append(f.StatePayloads, payload)
	return nil
}

func (f *FakePublisher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// Reset clears recorded messages.
func (f *FakePublisher) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Events = nil
	f.EventPayloads = nil
	f.States = nil
	f.StatePayloads = nil
	f.PublishError = nil
	f.Closed = false
}
