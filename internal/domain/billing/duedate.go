// Package billing holds the pure overdue-billing arithmetic: the due-date
// policy that assigns a default due date to an order, and the simple daily
// interest accrual applied to overdue principal.
package billing

import (
	"regexp"
	"time"
)

// DefaultDueTime is the time-of-day applied when an order has no explicit
// due time, or when the stored value cannot be parsed.
const DefaultDueTime = "09:00"

var dueTimePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// FirstBusinessDay returns the first Monday-Friday day of the given month.
func FirstBusinessDay(year int, month time.Month) time.Time {
	day := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		day = day.AddDate(0, 0, 1)
	}
	return day
}

// DefaultDueDate returns the default due date for an order placed on
// orderDate: the first business day of the following month. December rolls
// over to January of the next year.
func DefaultDueDate(orderDate time.Time) time.Time {
	year, month := orderDate.Year(), orderDate.Month()
	if month == time.December {
		return FirstBusinessDay(year+1, time.January)
	}
	return FirstBusinessDay(year, month+1)
}

// ValidDueTime reports whether s is a usable HH:MM time-of-day.
func ValidDueTime(s string) bool {
	if !dueTimePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// ResolveDueInstant combines a due date with an HH:MM time-of-day into the
// instant at which an order becomes collectible. A missing or malformed
// time falls back to DefaultDueTime. Total over valid calendar dates.
func ResolveDueInstant(dueDate time.Time, dueTime string) time.Time {
	if !ValidDueTime(dueTime) {
		dueTime = DefaultDueTime
	}
	t, _ := time.Parse("15:04", dueTime)
	return time.Date(
		dueDate.Year(), dueDate.Month(), dueDate.Day(),
		t.Hour(), t.Minute(), 0, 0, time.Local,
	)
}
