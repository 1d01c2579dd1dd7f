package amortization

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputePenalty_WithinGrace(t *testing.T) {
	res := ComputePenalty(date(2024, 1, 1), GracePeriodDays, date(2024, 1, 3), decimal.NewFromInt(10000))

	assert.Equal(t, 0, res.DaysOverdue)
	assert.True(t, res.Penalty.IsZero(), "penalty must be zero inside grace, got %s", res.Penalty)
	assert.Equal(t, date(2024, 1, 4), res.GraceEnd)
}

func TestComputePenalty_OnGraceEnd(t *testing.T) {
	res := ComputePenalty(date(2024, 1, 1), GracePeriodDays, date(2024, 1, 4), decimal.NewFromInt(10000))

	assert.Equal(t, 0, res.DaysOverdue)
	assert.True(t, res.Penalty.IsZero())
}

func TestComputePenalty_TenDaysOverdue(t *testing.T) {
	// Grace ends 2024-01-04; 2024-01-14 is 10 days past it.
	// 10000 * 0.03 * (10/30) = 100.00
	res := ComputePenalty(date(2024, 1, 1), GracePeriodDays, date(2024, 1, 14), decimal.NewFromInt(10000))

	assert.Equal(t, 10, res.DaysOverdue)
	assert.True(t, res.Penalty.Equal(decimal.NewFromInt(100)), "want 100, got %s", res.Penalty)
}

func TestComputePenalty_FullMonthOverdue(t *testing.T) {
	// 30 days past grace: full 3% of the base.
	res := ComputePenalty(date(2024, 1, 1), GracePeriodDays, date(2024, 2, 3), decimal.NewFromInt(10000))

	assert.Equal(t, 30, res.DaysOverdue)
	assert.True(t, res.Penalty.Equal(decimal.NewFromInt(300)), "want 300, got %s", res.Penalty)
}

func TestComputePenalty_ZeroDueDate(t *testing.T) {
	res := ComputePenalty(time.Time{}, GracePeriodDays, date(2024, 6, 1), decimal.NewFromInt(5000))

	assert.Equal(t, 0, res.DaysOverdue)
	assert.True(t, res.Penalty.IsZero())
}

func TestComputePenalty_FractionalDaysTruncate(t *testing.T) {
	// 10 days and 20 hours past grace still counts as 10 days.
	asOf := date(2024, 1, 14).Add(20 * time.Hour)
	res := ComputePenalty(date(2024, 1, 1), GracePeriodDays, asOf, decimal.NewFromInt(10000))

	assert.Equal(t, 10, res.DaysOverdue)
}

func TestComputePenalty_Deterministic(t *testing.T) {
	a := ComputePenalty(date(2024, 1, 1), GracePeriodDays, date(2024, 1, 20), decimal.NewFromInt(7500))
	b := ComputePenalty(date(2024, 1, 1), GracePeriodDays, date(2024, 1, 20), decimal.NewFromInt(7500))

	assert.Equal(t, a.DaysOverdue, b.DaysOverdue)
	assert.True(t, a.Penalty.Equal(b.Penalty))
}

func TestComputePenalty_MonotonicInDaysOverdue(t *testing.T) {
	base := decimal.NewFromInt(10000)
	prev := decimal.Zero
	for day := 0; day < 120; day++ {
		asOf := date(2024, 1, 4).AddDate(0, 0, day)
		res := ComputePenalty(date(2024, 1, 1), GracePeriodDays, asOf, base)
		assert.False(t, res.Penalty.LessThan(prev),
			"penalty decreased at day %d: %s < %s", day, res.Penalty, prev)
		prev = res.Penalty
	}
}

func TestComputeBaseAmount(t *testing.T) {
	m := decimal.NewFromInt(5000)

	tests := []struct {
		name      string
		t         PaymentType
		remaining decimal.Decimal
		monthly   decimal.Decimal
		custom    decimal.Decimal
		want      decimal.Decimal
	}{
		{"full pays remaining", PaymentTypeFull, decimal.NewFromInt(12345), m, decimal.Zero, decimal.NewFromInt(12345)},
		{"monthly pays installment", PaymentTypeMonthly, decimal.NewFromInt(100000), m, decimal.Zero, m},
		{"monthly clamped to remaining", PaymentTypeMonthly, decimal.NewFromInt(3000), m, decimal.Zero, decimal.NewFromInt(3000)},
		{"weekly divides by 4.33", PaymentTypeWeekly, decimal.NewFromInt(100000), decimal.NewFromInt(4330), decimal.Zero, decimal.NewFromInt(1000)},
		{"daily divides by 30", PaymentTypeDaily, decimal.NewFromInt(100000), decimal.NewFromInt(4500), decimal.Zero, decimal.NewFromInt(150)},
		{"partial uses custom", PaymentTypePartial, decimal.NewFromInt(100000), m, decimal.NewFromInt(750), decimal.NewFromInt(750)},
		{"partial clamped to remaining", PaymentTypePartial, decimal.NewFromInt(600), m, decimal.NewFromInt(750), decimal.NewFromInt(600)},
		{"negative custom floors at zero", PaymentTypePartial, decimal.NewFromInt(600), m, decimal.NewFromInt(-10), decimal.Zero},
		{"unknown type is zero", PaymentType("yearly"), decimal.NewFromInt(600), m, decimal.Zero, decimal.Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeBaseAmount(tt.t, tt.remaining, tt.monthly, tt.custom)
			assert.True(t, got.Equal(tt.want), "want %s, got %s", tt.want, got)
			assert.False(t, got.GreaterThan(tt.remaining), "base must never exceed remaining")
		})
	}
}

func TestValidatePayment(t *testing.T) {
	m := decimal.NewFromInt(5000) // partial floor = 500

	tests := []struct {
		name      string
		t         PaymentType
		base      decimal.Decimal
		remaining decimal.Decimal
		wantErr   string
	}{
		{"zero amount", PaymentTypePartial, decimal.Zero, decimal.NewFromInt(10000), "amount must be greater than zero"},
		{"negative amount", PaymentTypeMonthly, decimal.NewFromInt(-5), decimal.NewFromInt(10000), "amount must be greater than zero"},
		{"exceeds remaining", PaymentTypeMonthly, decimal.NewFromInt(10001), decimal.NewFromInt(10000), "payment exceeds remaining balance"},
		{"partial below floor", PaymentTypePartial, decimal.NewFromInt(400), decimal.NewFromInt(10000), "amount below minimum partial payment"},
		{"partial at floor ok", PaymentTypePartial, decimal.NewFromInt(500), decimal.NewFromInt(10000), ""},
		{"partial clears small remainder below floor ok", PaymentTypePartial, decimal.NewFromInt(120), decimal.NewFromInt(120), ""},
		{"monthly ok", PaymentTypeMonthly, decimal.NewFromInt(5000), decimal.NewFromInt(10000), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePayment(tt.t, tt.base, tt.remaining, m)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantErr, verr.Reason)
		})
	}
}

func TestApplyPayment_Partial(t *testing.T) {
	res := ApplyPayment(decimal.NewFromInt(10000), decimal.NewFromInt(4000), decimal.NewFromInt(100))

	assert.True(t, res.TotalAmount.Equal(decimal.NewFromInt(4100)))
	assert.True(t, res.RemainingAfter.Equal(decimal.NewFromInt(6000)))
	assert.Equal(t, StatusPartial, res.ResultingStatus)
}

func TestApplyPayment_ClearsBalance(t *testing.T) {
	res := ApplyPayment(decimal.NewFromInt(3000), decimal.NewFromInt(3000), decimal.Zero)

	assert.True(t, res.RemainingAfter.IsZero())
	assert.Equal(t, StatusPaid, res.ResultingStatus)
}

func TestApplyPayment_NeverNegative(t *testing.T) {
	res := ApplyPayment(decimal.NewFromInt(100), decimal.NewFromFloat(100.004), decimal.Zero)

	assert.False(t, res.RemainingAfter.IsNegative())
}

func TestMonthlyThatClearsBalanceIsPaid(t *testing.T) {
	// Scenario: monthly installment 5000, remaining 3000 -> pays 3000, paid.
	remaining := decimal.NewFromInt(3000)
	base := ComputeBaseAmount(PaymentTypeMonthly, remaining, decimal.NewFromInt(5000), decimal.Zero)

	require.NoError(t, ValidatePayment(PaymentTypeMonthly, base, remaining, decimal.NewFromInt(5000)))
	res := ApplyPayment(remaining, base, decimal.Zero)

	assert.True(t, res.BaseAmount.Equal(remaining))
	assert.Equal(t, StatusPaid, res.ResultingStatus)
	assert.True(t, res.RemainingAfter.IsZero())
}

func TestPaymentTypeValid(t *testing.T) {
	for _, pt := range []PaymentType{PaymentTypeFull, PaymentTypeMonthly, PaymentTypeWeekly, PaymentTypeDaily, PaymentTypePartial} {
		assert.True(t, pt.Valid(), "%s should be valid", pt)
	}
	assert.False(t, PaymentType("biweekly").Valid())
	assert.False(t, PaymentType("").Valid())
}
