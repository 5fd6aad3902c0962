package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDaysLate(t *testing.T) {
	due := time.Date(2024, time.February, 1, 9, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"before due date", time.Date(2024, time.January, 20, 12, 0, 0, 0, time.Local), 0},
		{"on due date", time.Date(2024, time.February, 1, 23, 0, 0, 0, time.Local), 0},
		{"one day late", time.Date(2024, time.February, 2, 0, 30, 0, 0, time.Local), 1},
		{"three days late", time.Date(2024, time.February, 4, 9, 0, 0, 0, time.Local), 3},
		{"far in the past never negative", time.Date(2023, time.June, 1, 0, 0, 0, 0, time.Local), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysLate(tt.now, due))
		})
	}
}

func TestInterestCalculator_Accrue(t *testing.T) {
	calc := NewInterestCalculator(decimal.NewFromFloat(0.03))
	principal := decimal.NewFromInt(100)

	t.Run("zero when not late", func(t *testing.T) {
		assert.True(t, calc.Accrue(principal, 0).IsZero())
		assert.True(t, calc.Accrue(principal, -2).IsZero())
	})

	t.Run("simple daily interest", func(t *testing.T) {
		// 100 x 0.03 x 5 = 15.00
		got := calc.Accrue(principal, 5)
		assert.True(t, got.Equal(decimal.NewFromInt(15)), "got %s", got)
	})

	t.Run("strictly increasing in days late", func(t *testing.T) {
		prev := decimal.Zero
		for days := 1; days <= 30; days++ {
			cur := calc.Accrue(principal, days)
			assert.True(t, cur.GreaterThan(prev), "day %d", days)
			prev = cur
		}
	})
}

func TestInterestCalculator_ChargeAt(t *testing.T) {
	calc := NewInterestCalculator(decimal.NewFromFloat(0.03))

	t.Run("order three days late", func(t *testing.T) {
		// Order 2024-01-10, qty 2 x 50.00 = 100.00 principal, due 2024-02-01
		// 09:00, observed 2024-02-04: 3 days late, interest 9.00, total 109.00.
		principal := decimal.NewFromInt(50).Mul(decimal.NewFromInt(2))
		due := ResolveDueInstant(DefaultDueDate(date(2024, time.January, 10)), "")
		now := time.Date(2024, time.February, 4, 10, 0, 0, 0, time.Local)

		charge := calc.ChargeAt(principal, due, now)
		assert.Equal(t, 3, charge.DaysLate)
		assert.Equal(t, "9", charge.Interest.String())
		assert.Equal(t, "109", charge.Total.String())
	})

	t.Run("on-time order pays exactly the principal", func(t *testing.T) {
		principal := decimal.NewFromFloat(33.33)
		due := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.Local)
		now := due.Add(-48 * time.Hour)

		charge := calc.ChargeAt(principal, due, now)
		assert.True(t, charge.Interest.IsZero())
		assert.True(t, charge.Total.Equal(principal))
	})

	t.Run("settling later never yields less", func(t *testing.T) {
		principal := decimal.NewFromInt(200)
		due := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.Local)

		prev := decimal.Zero
		for i := 0; i < 10; i++ {
			now := due.AddDate(0, 0, i)
			total := calc.ChargeAt(principal, due, now).Total
			assert.True(t, total.GreaterThanOrEqual(prev), "offset %d", i)
			prev = total
		}
	})

	t.Run("invalid rate falls back to default", func(t *testing.T) {
		c := NewInterestCalculator(decimal.Zero)
		assert.True(t, c.DailyRate.Equal(DefaultDailyRate))
	})
}
