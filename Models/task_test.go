package Models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// day mirrors how due dates are stored: noon UTC of the chosen calendar day.
func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 12, 0, 0, 0, time.UTC)
}

func TestTaskStatusColor(t *testing.T) {
	now := time.Date(2025, time.June, 15, 10, 30, 0, 0, time.UTC)

	cases := []struct {
		name   string
		due    time.Time
		status TaskStatus
		want   StatusColor
	}{
		{"completed is blue regardless of due date", day(2020, time.January, 1), StatusCompleted, ColorBlue},
		{"completed far in the future is still blue", day(2030, time.January, 1), StatusCompleted, ColorBlue},
		{"validated is gray regardless of due date", day(2020, time.January, 1), StatusValidated, ColorGray},
		{"validated in the future is still gray", day(2030, time.January, 1), StatusValidated, ColorGray},
		{"pending overdue is red", day(2025, time.June, 14), StatusPending, ColorRed},
		{"pending long overdue is red", day(2024, time.December, 31), StatusPending, ColorRed},
		{"pending due today is yellow", day(2025, time.June, 15), StatusPending, ColorYellow},
		{"pending due in 15 days is yellow", day(2025, time.June, 30), StatusPending, ColorYellow},
		{"pending due in 16 days is green", day(2025, time.July, 1), StatusPending, ColorGreen},
		{"pending due far out is green", day(2025, time.December, 25), StatusPending, ColorGreen},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TaskStatusColor(tc.due, tc.status, now))
		})
	}
}

func TestTaskStatusColorIgnoresTimeOfDay(t *testing.T) {
	// Late in the evening a task due "today" must still be yellow, not red
	now := time.Date(2025, time.June, 15, 23, 50, 0, 0, time.UTC)
	due := time.Date(2025, time.June, 15, 0, 5, 0, 0, time.UTC)

	assert.Equal(t, ColorYellow, TaskStatusColor(due, StatusPending, now))
}

func TestTaskStatusColorAcrossDSTTransition(t *testing.T) {
	location, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Spring-forward (2026-03-08) sits inside the window, so the span to the
	// 16th day is one hour short of 16*24h; the boundary must still hold
	now := time.Date(2026, time.March, 1, 10, 0, 0, 0, location)

	assert.Equal(t, ColorGreen, TaskStatusColor(day(2026, time.March, 17), StatusPending, now))
	assert.Equal(t, ColorYellow, TaskStatusColor(day(2026, time.March, 16), StatusPending, now))
}

func TestNextDueDate(t *testing.T) {
	base := day(2025, time.March, 1)

	cases := []struct {
		frequency Frequency
		want      time.Time
	}{
		{FrequencyWeekly, day(2025, time.March, 8)},
		{FrequencyBiweekly, day(2025, time.March, 15)},
		{FrequencyMonthly, day(2025, time.April, 1)},
		{FrequencyBimonthly, day(2025, time.May, 1)},
		{FrequencyQuarterly, day(2025, time.June, 1)},
		{FrequencySemiannual, day(2025, time.September, 1)},
		{FrequencyAnnual, day(2026, time.March, 1)},
	}

	for _, tc := range cases {
		t.Run(string(tc.frequency), func(t *testing.T) {
			next := NextDueDate(base, tc.frequency)
			require.NotNil(t, next)
			assert.True(t, tc.want.Equal(*next), "want %s, got %s", tc.want, next)
		})
	}
}

func TestNextDueDateTerminalFrequencies(t *testing.T) {
	for _, frequency := range []Frequency{FrequencyNone, FrequencyEventual} {
		t.Run(string(frequency), func(t *testing.T) {
			assert.Nil(t, NextDueDate(day(2025, time.March, 1), frequency))
			assert.Nil(t, NextDueDate(day(2024, time.December, 31), frequency))
		})
	}
}

func TestNextDueDateMonthEndNormalization(t *testing.T) {
	// AddDate normalizes overflow instead of clamping: Jan 31 + 1 month runs
	// past the end of February
	leap := NextDueDate(day(2024, time.January, 31), FrequencyMonthly)
	require.NotNil(t, leap)
	assert.True(t, day(2024, time.March, 2).Equal(*leap))

	nonLeap := NextDueDate(day(2025, time.January, 31), FrequencyMonthly)
	require.NotNil(t, nonLeap)
	assert.True(t, day(2025, time.March, 3).Equal(*nonLeap))
}
