// internal/contract/generate.go
package contract

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SolterraRealty/api-backoffice/internal/schedule"
)

// InstallmentAmount splits the financed balance evenly across the term,
// rounded down to whole cents. The first installment absorbs the remainder
// so the schedule sums to the financed balance exactly.
func InstallmentAmount(totalPrice, downPayment decimal.Decimal, termMonths int) (base, first decimal.Decimal, err error) {
	if termMonths <= 0 {
		return decimal.Zero, decimal.Zero, fmt.Errorf("term must be at least 1 month")
	}
	financed := totalPrice.Sub(downPayment)
	if financed.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, decimal.Zero, fmt.Errorf("financed balance must be positive")
	}

	term := decimal.NewFromInt(int64(termMonths))
	base = financed.Div(term).RoundDown(2)
	if base.IsZero() {
		// Less than one cent per installment: every installment after the
		// first would be created unpayable at 0.00.
		return decimal.Zero, decimal.Zero, fmt.Errorf("financed balance too small for a %d-month term", termMonths)
	}
	first = financed.Sub(base.Mul(term.Sub(decimal.NewFromInt(1))))
	return base, first, nil
}

// GenerateSchedule builds the full installment plan for a contract. Pure:
// the caller persists the result and owns the surrounding transaction.
// Installment n falls due n months after the start date.
func GenerateSchedule(c *Contract) ([]*schedule.PaymentSchedule, error) {
	base, first, err := InstallmentAmount(c.TotalPrice, c.DownPayment, c.TermMonths)
	if err != nil {
		return nil, err
	}

	out := make([]*schedule.PaymentSchedule, 0, c.TermMonths)
	for i := 1; i <= c.TermMonths; i++ {
		amount := base
		if i == 1 {
			amount = first
		}
		out = append(out, &schedule.PaymentSchedule{
			ContractID:        c.ID,
			InstallmentNumber: i,
			DueDate:           c.StartDate.AddDate(0, i, 0),
			ScheduledAmount:   amount,
			PaidAmount:        decimal.Zero,
			RemainingAmount:   amount,
			PenaltyAmount:     decimal.Zero,
			PaymentStatus:     schedule.StatusPending,
		})
	}
	return out, nil
}

// NextDueDate is a helper for display: the earliest unsettled due date, or
// zero when everything is paid.
func NextDueDate(installments []schedule.PaymentSchedule) time.Time {
	for _, s := range installments {
		if s.PaymentStatus != schedule.StatusPaid {
			return s.DueDate
		}
	}
	return time.Time{}
}
