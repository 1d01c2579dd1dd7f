// internal/amortization/calculator.go
//
// Pure walk-in payment arithmetic: overdue penalty, base amount per payment
// type, validation and projected post-payment state. No I/O, no clock reads;
// the caller supplies "as of" so server and pre-fill computations agree.
// All currency values are rounded half-up to 2 decimal places.
package amortization

import (
	"time"

	"github.com/shopspring/decimal"
)

// GracePeriodDays is the number of days after the due date during which no
// penalty accrues.
const GracePeriodDays = 3

var (
	// 3% per month on the outstanding base, accrued daily after grace.
	monthlyPenaltyRate = decimal.NewFromFloat(0.03)
	// Minimum partial payment: 10% of the monthly installment.
	minPartialRate = decimal.NewFromFloat(0.10)

	weeksPerMonth = decimal.NewFromFloat(4.33)
	daysPerMonth  = decimal.NewFromInt(30)
)

// PaymentType selects how the base amount is derived.
type PaymentType string

const (
	PaymentTypeFull    PaymentType = "full"
	PaymentTypeMonthly PaymentType = "monthly"
	PaymentTypeWeekly  PaymentType = "weekly"
	PaymentTypeDaily   PaymentType = "daily"
	PaymentTypePartial PaymentType = "partial"
)

// Valid reports whether t is one of the five known payment types.
func (t PaymentType) Valid() bool {
	switch t {
	case PaymentTypeFull, PaymentTypeMonthly, PaymentTypeWeekly, PaymentTypeDaily, PaymentTypePartial:
		return true
	}
	return false
}

// ValidationError is a user-correctable precondition failure. Callers surface
// the reason verbatim and must not retry without changing the input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// PenaltyResult carries the penalty figure together with the values the
// payment form displays alongside it.
type PenaltyResult struct {
	Penalty     decimal.Decimal `json:"penalty"`
	DaysOverdue int             `json:"daysOverdue"`
	GraceEnd    time.Time       `json:"gracePeriodEnd"`
}

// Result is the projected outcome of applying a payment to an installment.
// Penalty is tracked separately and never subtracted from the remaining
// balance.
type Result struct {
	BaseAmount      decimal.Decimal `json:"baseAmount"`
	PenaltyAmount   decimal.Decimal `json:"penaltyAmount"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	RemainingAfter  decimal.Decimal `json:"remainingAfter"`
	ResultingStatus string          `json:"resultingStatus"`
}

// Statuses produced by ApplyPayment. They match the persisted
// payment_status values of the schedule table.
const (
	StatusPartial = "partial"
	StatusPaid    = "paid"
)

// ComputePenalty returns the overdue penalty on base as of asOf.
//
// The grace period ends gracePeriodDays after the due date; days overdue are
// counted from the end of grace and truncated to whole days. The rate is 3%
// of base per 30-day month. A zero due date yields no penalty: missing data
// degrades gracefully instead of blocking payment entry.
func ComputePenalty(dueDate time.Time, gracePeriodDays int, asOf time.Time, base decimal.Decimal) PenaltyResult {
	if dueDate.IsZero() {
		return PenaltyResult{Penalty: decimal.Zero}
	}

	graceEnd := dueDate.AddDate(0, 0, gracePeriodDays)
	daysOverdue := int(asOf.Sub(graceEnd).Hours() / 24)
	if daysOverdue < 0 {
		daysOverdue = 0
	}
	if daysOverdue == 0 {
		return PenaltyResult{Penalty: decimal.Zero, GraceEnd: graceEnd}
	}

	penalty := base.
		Mul(monthlyPenaltyRate).
		Mul(decimal.NewFromInt(int64(daysOverdue))).
		Div(daysPerMonth).
		Round(2)

	return PenaltyResult{Penalty: penalty, DaysOverdue: daysOverdue, GraceEnd: graceEnd}
}

// ComputeBaseAmount derives the amount to apply toward the installment for
// the given payment type, clamped to the remaining balance.
//
// Weekly and daily amounts divide the monthly installment by 4.33 and 30.
// Both divisors are deliberate approximations, not calendar-accurate.
func ComputeBaseAmount(t PaymentType, remaining, monthlyInstallment, custom decimal.Decimal) decimal.Decimal {
	var base decimal.Decimal
	switch t {
	case PaymentTypeFull:
		base = remaining
	case PaymentTypeMonthly:
		base = monthlyInstallment
	case PaymentTypeWeekly:
		base = monthlyInstallment.Div(weeksPerMonth)
	case PaymentTypeDaily:
		base = monthlyInstallment.Div(daysPerMonth)
	case PaymentTypePartial:
		base = custom
	default:
		return decimal.Zero
	}

	base = base.Round(2)
	if base.GreaterThan(remaining) {
		base = remaining
	}
	if base.IsNegative() {
		base = decimal.Zero
	}
	return base
}

// ValidatePayment checks the base amount against the installment before it
// is applied. The 10% partial floor is waived when the payment clears the
// full remaining balance; the floor is a minimum-contribution rule, not a
// rule that blocks settling small remainders.
func ValidatePayment(t PaymentType, base, remaining, monthlyInstallment decimal.Decimal) error {
	if base.LessThanOrEqual(decimal.Zero) {
		return &ValidationError{Reason: "amount must be greater than zero"}
	}
	if base.GreaterThan(remaining) {
		return &ValidationError{Reason: "payment exceeds remaining balance"}
	}
	if t == PaymentTypePartial && base.LessThan(remaining) {
		floor := monthlyInstallment.Mul(minPartialRate).Round(2)
		if base.LessThan(floor) {
			return &ValidationError{Reason: "amount below minimum partial payment"}
		}
	}
	return nil
}

// ApplyPayment projects the post-payment state of an installment. It assumes
// ValidatePayment passed; persistence of the result is the caller's job.
func ApplyPayment(remaining, base, penalty decimal.Decimal) Result {
	after := remaining.Sub(base).Round(2)
	if after.IsNegative() {
		after = decimal.Zero
	}

	status := StatusPartial
	if after.IsZero() {
		status = StatusPaid
	}

	return Result{
		BaseAmount:      base,
		PenaltyAmount:   penalty,
		TotalAmount:     base.Add(penalty).Round(2),
		RemainingAfter:  after,
		ResultingStatus: status,
	}
}
