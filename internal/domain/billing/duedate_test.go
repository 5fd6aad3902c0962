package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestFirstBusinessDay(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		want  time.Time
	}{
		{"month starting on weekday", 2024, time.February, date(2024, time.February, 1)},
		{"month starting on Saturday", 2024, time.June, date(2024, time.June, 3)},
		{"month starting on Sunday", 2024, time.December, date(2024, time.December, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FirstBusinessDay(tt.year, tt.month)
			assert.Equal(t, tt.want, got)
			assert.NotEqual(t, time.Saturday, got.Weekday())
			assert.NotEqual(t, time.Sunday, got.Weekday())
		})
	}
}

func TestDefaultDueDate(t *testing.T) {
	t.Run("rolls to first weekday of next month", func(t *testing.T) {
		// Dec 1 2024 is a Sunday, so the first weekday is Dec 2
		got := DefaultDueDate(date(2024, time.November, 20))
		assert.Equal(t, date(2024, time.December, 2), got)
	})

	t.Run("january order due first weekday of february", func(t *testing.T) {
		got := DefaultDueDate(date(2024, time.January, 10))
		assert.Equal(t, date(2024, time.February, 1), got)
		assert.Equal(t, time.Thursday, got.Weekday())
	})

	t.Run("december rolls to january of next year", func(t *testing.T) {
		got := DefaultDueDate(date(2024, time.December, 15))
		assert.Equal(t, 2025, got.Year())
		assert.Equal(t, time.January, got.Month())
		assert.Equal(t, date(2025, time.January, 1), got)
	})

	t.Run("always lands in the following month", func(t *testing.T) {
		for m := time.January; m <= time.November; m++ {
			got := DefaultDueDate(date(2023, m, 15))
			assert.Equal(t, m+1, got.Month(), "order month %s", m)
			assert.Equal(t, 2023, got.Year())
		}
	})
}

func TestResolveDueInstant(t *testing.T) {
	due := date(2024, time.February, 1)

	t.Run("combines date and time", func(t *testing.T) {
		got := ResolveDueInstant(due, "14:30")
		assert.Equal(t, 14, got.Hour())
		assert.Equal(t, 30, got.Minute())
		assert.Equal(t, due.Day(), got.Day())
	})

	t.Run("defaults to 09:00 when time missing", func(t *testing.T) {
		got := ResolveDueInstant(due, "")
		assert.Equal(t, 9, got.Hour())
		assert.Equal(t, 0, got.Minute())
	})

	t.Run("defaults to 09:00 on malformed time", func(t *testing.T) {
		for _, bad := range []string{"9am", "25:00", "12:61", "1:5", "banana"} {
			got := ResolveDueInstant(due, bad)
			assert.Equal(t, 9, got.Hour(), "input %q", bad)
		}
	})
}

func TestValidDueTime(t *testing.T) {
	assert.True(t, ValidDueTime("09:00"))
	assert.True(t, ValidDueTime("23:59"))
	assert.False(t, ValidDueTime("24:00"))
	assert.False(t, ValidDueTime("9:00"))
	assert.False(t, ValidDueTime(""))
}
