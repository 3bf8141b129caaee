package schedule

import (
	"testing"
	"time"
)

func TestEvery(t *testing.T) {
	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	next := Every(10 * time.Minute).Next(now)
	if expected := now.Add(10 * time.Minute); !next.Equal(expected) {
		t.Errorf("next = %v, expected %v", next, expected)
	}
}

func TestDailyAt(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		expected time.Time
	}{
		{
			"before today's slot",
			time.Date(2026, 3, 9, 6, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 9, 7, 30, 0, 0, time.UTC),
		},
		{
			"after today's slot",
			time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 10, 7, 30, 0, 0, time.UTC),
		},
		{
			"exactly at the slot rolls over",
			time.Date(2026, 3, 9, 7, 30, 0, 0, time.UTC),
			time.Date(2026, 3, 10, 7, 30, 0, 0, time.UTC),
		},
	}

	trigger := DailyAt(7, 30)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if next := trigger.Next(tt.now); !next.Equal(tt.expected) {
				t.Errorf("next = %v, expected %v", next, tt.expected)
			}
		})
	}
}

func TestWeeklyAt(t *testing.T) {
	// 2026-03-09 is a Monday
	tests := []struct {
		name     string
		now      time.Time
		expected time.Time
	}{
		{
			"earlier in the week",
			time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC), // Saturday
			time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC),
		},
		{
			"same day before the slot",
			time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC),
		},
		{
			"same day after the slot",
			time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC),
		},
		{
			"later in the week",
			time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC), // Wednesday
			time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC),
		},
	}

	trigger := WeeklyAt(time.Monday, 9, 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if next := trigger.Next(tt.now); !next.Equal(tt.expected) {
				t.Errorf("next = %v, expected %v", next, tt.expected)
			}
		})
	}
}

func TestNextAlwaysAdvances(t *testing.T) {
	now := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
	for _, trigger := range []Trigger{
		Every(time.Minute),
		DailyAt(9, 0),
		WeeklyAt(time.Monday, 9, 0),
	} {
		if next := trigger.Next(now); !next.After(now) {
			t.Errorf("%T.Next(%v) = %v, expected a later time", trigger, now, next)
		}
	}
}
