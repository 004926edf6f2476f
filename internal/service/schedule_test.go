package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(weekday time.Weekday, hour int) time.Time {
	// 2025-01-12 is a Sunday.
	return time.Date(2025, time.January, 12+int(weekday), hour, 30, 0, 0, time.UTC)
}

func TestDefaultSchedule_Evaluate(t *testing.T) {
	sched := DefaultSchedule()

	cases := []struct {
		name  string
		now   time.Time
		match bool
	}{
		{name: "weekday before window", now: at(time.Monday, 5), match: false},
		{name: "weekday window start", now: at(time.Monday, 6), match: true},
		{name: "weekday window end inclusive", now: at(time.Friday, 22), match: true},
		{name: "weekday after window", now: at(time.Friday, 23), match: false},
		{name: "weekend early morning", now: at(time.Saturday, 7), match: false},
		{name: "weekend window start", now: at(time.Saturday, 8), match: true},
		{name: "weekend window end", now: at(time.Sunday, 22), match: true},
		{name: "weekend midnight", now: at(time.Sunday, 0), match: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target, ok := sched.Evaluate(tc.now)
			assert.Equal(t, tc.match, ok)
			if tc.match {
				assert.Equal(t, 70.0, target.Value())
			}
		})
	}
}

func TestScheduleTable_LastMatchWins(t *testing.T) {
	first, err := NewBoostWindow(6, 22, 70, time.Monday)
	require.NoError(t, err)
	second, err := NewBoostWindow(10, 12, 50, time.Monday)
	require.NoError(t, err)
	sched := ScheduleTable{first, second}

	target, ok := sched.Evaluate(at(time.Monday, 11))
	require.True(t, ok)
	assert.Equal(t, 50.0, target.Value())

	target, ok = sched.Evaluate(at(time.Monday, 15))
	require.True(t, ok)
	assert.Equal(t, 70.0, target.Value())
}

func TestScheduleTable_EmptyNeverMatches(t *testing.T) {
	_, ok := ScheduleTable{}.Evaluate(at(time.Monday, 12))
	assert.False(t, ok)
}

func TestNewBoostWindow_Validation(t *testing.T) {
	cases := []struct {
		name   string
		start  int
		end    int
		target float64
		days   []time.Weekday
	}{
		{name: "negative start", start: -1, end: 5, target: 60, days: []time.Weekday{time.Monday}},
		{name: "end past 23", start: 1, end: 24, target: 60, days: []time.Weekday{time.Monday}},
		{name: "start after end", start: 10, end: 9, target: 60, days: []time.Weekday{time.Monday}},
		{name: "no days", start: 1, end: 2, target: 60},
		{name: "bad weekday", start: 1, end: 2, target: 60, days: []time.Weekday{time.Weekday(9)}},
		{name: "target out of range", start: 1, end: 2, target: 80, days: []time.Weekday{time.Monday}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBoostWindow(tc.start, tc.end, tc.target, tc.days...)
			assert.Error(t, err)
		})
	}
}

func TestBoostWindow_DaysAreCopied(t *testing.T) {
	days := []time.Weekday{time.Tuesday}
	w, err := NewBoostWindow(0, 23, 60, days...)
	require.NoError(t, err)

	days[0] = time.Wednesday

	assert.True(t, w.Matches(at(time.Tuesday, 12)))
	assert.False(t, w.Matches(at(time.Wednesday, 12)))
}
