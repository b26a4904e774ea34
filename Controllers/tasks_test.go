package Controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskWindowMonth(t *testing.T) {
	start, end := taskWindow("month", 6, 2025)

	assert.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.June, end.Month())
	assert.Equal(t, 30, end.Day())
	assert.True(t, end.Before(time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)))
}

func TestTaskWindowDecember(t *testing.T) {
	start, end := taskWindow("month", 12, 2025)

	assert.Equal(t, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 2025, end.Year())
	assert.Equal(t, time.December, end.Month())
	assert.Equal(t, 31, end.Day())
}

func TestTaskWindowYear(t *testing.T) {
	start, end := taskWindow("year", 6, 2025)

	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 2025, end.Year())
	assert.Equal(t, time.December, end.Month())
	assert.Equal(t, 31, end.Day())

	// A task due at noon on Dec 31 falls inside the window
	lastDue := time.Date(2025, time.December, 31, 12, 0, 0, 0, time.UTC)
	assert.False(t, lastDue.After(end))
	assert.False(t, lastDue.Before(start))
}
