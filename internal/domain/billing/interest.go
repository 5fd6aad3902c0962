package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultDailyRate is the fallback simple daily interest rate (3% per day).
// The effective rate comes from configuration; this is only the default.
var DefaultDailyRate = decimal.NewFromFloat(0.03)

// Charge is the amount due for one order at a given moment.
type Charge struct {
	Principal decimal.Decimal
	Interest  decimal.Decimal
	Total     decimal.Decimal
	DaysLate  int
}

// InterestCalculator computes simple daily interest on overdue principal.
// All arithmetic is fixed-point decimal; rounding to two digits happens
// only when amounts are formatted for display or messages.
type InterestCalculator struct {
	DailyRate decimal.Decimal
}

// NewInterestCalculator creates a calculator with the given daily rate.
// A zero or negative rate falls back to DefaultDailyRate.
func NewInterestCalculator(dailyRate decimal.Decimal) InterestCalculator {
	if dailyRate.LessThanOrEqual(decimal.Zero) {
		dailyRate = DefaultDailyRate
	}
	return InterestCalculator{DailyRate: dailyRate}
}

// DaysLate returns the number of whole calendar days now is past the due
// date. Orders not yet due contribute zero; the result is never negative.
func DaysLate(now, dueDate time.Time) int {
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dueDay := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, time.UTC)
	days := int(nowDay.Sub(dueDay).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// Accrue returns the simple interest on principal after daysLate days.
// Exactly zero when the order is not late, so on-time orders never pick up
// rounding artifacts.
func (c InterestCalculator) Accrue(principal decimal.Decimal, daysLate int) decimal.Decimal {
	if daysLate <= 0 {
		return decimal.Zero
	}
	return principal.Mul(c.DailyRate).Mul(decimal.NewFromInt(int64(daysLate)))
}

// ChargeAt computes the full amount due for the given principal and due
// instant as of now.
func (c InterestCalculator) ChargeAt(principal decimal.Decimal, dueInstant, now time.Time) Charge {
	days := DaysLate(now, dueInstant)
	interest := c.Accrue(principal, days)
	return Charge{
		Principal: principal,
		Interest:  interest,
		Total:     principal.Add(interest),
		DaysLate:  days,
	}
}
