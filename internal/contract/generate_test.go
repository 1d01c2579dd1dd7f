package contract

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SolterraRealty/api-backoffice/internal/schedule"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestInstallmentAmount_EvenSplit(t *testing.T) {
	base, first, err := InstallmentAmount(decimal.NewFromInt(360000), decimal.Zero, 36)

	require.NoError(t, err)
	assert.True(t, base.Equal(decimal.NewFromInt(10000)), "want 10000, got %s", base)
	assert.True(t, first.Equal(base), "even split should not need a remainder")
}

func TestInstallmentAmount_RemainderGoesToFirst(t *testing.T) {
	// 100000 / 36 = 2777.77 rounded down; the first installment absorbs
	// the 0.28 left over so the plan sums back to the financed balance.
	base, first, err := InstallmentAmount(decimal.NewFromInt(100000), decimal.Zero, 36)

	require.NoError(t, err)
	assert.Equal(t, "2777.77", base.StringFixed(2))
	assert.Equal(t, "2778.05", first.StringFixed(2))

	total := first.Add(base.Mul(decimal.NewFromInt(35)))
	assert.True(t, total.Equal(decimal.NewFromInt(100000)), "schedule must sum to financed balance, got %s", total)
}

func TestInstallmentAmount_DownPaymentReducesFinanced(t *testing.T) {
	base, _, err := InstallmentAmount(decimal.NewFromInt(500000), decimal.NewFromInt(140000), 12)

	require.NoError(t, err)
	assert.True(t, base.Equal(decimal.NewFromInt(30000)), "want 30000, got %s", base)
}

func TestInstallmentAmount_InvalidTerm(t *testing.T) {
	_, _, err := InstallmentAmount(decimal.NewFromInt(100000), decimal.Zero, 0)
	assert.Error(t, err)

	_, _, err = InstallmentAmount(decimal.NewFromInt(100000), decimal.Zero, -3)
	assert.Error(t, err)
}

func TestInstallmentAmount_NothingFinanced(t *testing.T) {
	// Fully paid up front, nothing to amortize.
	_, _, err := InstallmentAmount(decimal.NewFromInt(100000), decimal.NewFromInt(100000), 12)
	assert.Error(t, err)

	_, _, err = InstallmentAmount(decimal.NewFromInt(100000), decimal.NewFromInt(120000), 12)
	assert.Error(t, err)
}

func TestInstallmentAmount_BalanceTooSmallForTerm(t *testing.T) {
	// 0.20 financed over 36 months rounds down to a 0.00 installment; such a
	// plan could never be settled, so it must be rejected up front.
	_, _, err := InstallmentAmount(decimal.NewFromFloat(100000.20), decimal.NewFromInt(100000), 36)
	assert.Error(t, err)

	// One cent per installment is the smallest plan that still works.
	base, first, err := InstallmentAmount(decimal.NewFromFloat(0.36), decimal.Zero, 36)
	require.NoError(t, err)
	assert.Equal(t, "0.01", base.StringFixed(2))
	assert.Equal(t, "0.01", first.StringFixed(2))
}

func TestGenerateSchedule_BalanceTooSmallForTerm(t *testing.T) {
	c := &Contract{
		TotalPrice:  decimal.NewFromFloat(100000.20),
		DownPayment: decimal.NewFromInt(100000),
		TermMonths:  36,
		StartDate:   date(2024, 1, 15),
	}

	_, err := GenerateSchedule(c)
	assert.Error(t, err)
}

func TestGenerateSchedule(t *testing.T) {
	c := &Contract{
		TotalPrice:  decimal.NewFromInt(100000),
		DownPayment: decimal.Zero,
		TermMonths:  36,
		StartDate:   date(2024, 1, 15),
	}
	c.ID = 7

	installments, err := GenerateSchedule(c)
	require.NoError(t, err)
	require.Len(t, installments, 36)

	sum := decimal.Zero
	for i, inst := range installments {
		assert.Equal(t, uint(7), inst.ContractID)
		assert.Equal(t, i+1, inst.InstallmentNumber)
		assert.Equal(t, date(2024, 1, 15).AddDate(0, i+1, 0), inst.DueDate)
		assert.Equal(t, schedule.StatusPending, inst.PaymentStatus)
		assert.True(t, inst.PaidAmount.IsZero())
		assert.True(t, inst.PenaltyAmount.IsZero())
		assert.True(t, inst.RemainingAmount.Equal(inst.ScheduledAmount))
		sum = sum.Add(inst.ScheduledAmount)
	}

	assert.True(t, sum.Equal(decimal.NewFromInt(100000)), "schedule must sum to financed balance, got %s", sum)
	assert.True(t, installments[0].ScheduledAmount.GreaterThan(installments[1].ScheduledAmount),
		"first installment should carry the rounding remainder")
}

func TestGenerateSchedule_InvalidContract(t *testing.T) {
	c := &Contract{
		TotalPrice: decimal.NewFromInt(100000),
		TermMonths: 0,
		StartDate:  date(2024, 1, 15),
	}

	_, err := GenerateSchedule(c)
	assert.Error(t, err)
}

func TestNextDueDate(t *testing.T) {
	installments := []schedule.PaymentSchedule{
		{DueDate: date(2024, 2, 1), PaymentStatus: schedule.StatusPaid},
		{DueDate: date(2024, 3, 1), PaymentStatus: schedule.StatusPartial},
		{DueDate: date(2024, 4, 1), PaymentStatus: schedule.StatusPending},
	}

	assert.Equal(t, date(2024, 3, 1), NextDueDate(installments))
}

func TestNextDueDate_AllPaid(t *testing.T) {
	installments := []schedule.PaymentSchedule{
		{DueDate: date(2024, 2, 1), PaymentStatus: schedule.StatusPaid},
	}

	assert.True(t, NextDueDate(installments).IsZero())
}

func TestContractStatusTransitions(t *testing.T) {
	active := &Contract{Status: StatusActive}
	assert.True(t, active.MayComplete())
	assert.True(t, active.MayCancel())
	assert.True(t, active.MayDefault())
	assert.True(t, active.MayTransfer())

	defaulted := &Contract{Status: StatusDefaulted}
	assert.True(t, defaulted.MayCancel())
	assert.False(t, defaulted.MayComplete())
	assert.False(t, defaulted.MayTransfer())

	completed := &Contract{Status: StatusCompleted}
	assert.False(t, completed.MayCancel())
	assert.False(t, completed.MayDefault())
	assert.False(t, completed.MayTransfer())
}
