// internal/payment/dto.go
package payment

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/SolterraRealty/api-backoffice/internal/schedule"
	"github.com/SolterraRealty/api-backoffice/internal/transaction"
)

// WalkInPaymentRequest records a payment taken in person by staff.
// AmountPaid is only authoritative for the partial type; for every other
// type the server derives the amount from the strategy.
type WalkInPaymentRequest struct {
	ScheduleID      uint            `json:"scheduleId"`
	ContractID      uint            `json:"contractId"`
	PaymentType     string          `json:"paymentType"`
	AmountPaid      decimal.Decimal `json:"amountPaid"`
	PaymentMethod   string          `json:"paymentMethod"`
	ReferenceNumber string          `json:"referenceNumber,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

// PaymentDetailsResponse pre-populates the walk-in payment form. The penalty
// here comes from the same pure calculator the submit path re-runs, so the
// two always agree for identical inputs.
type PaymentDetailsResponse struct {
	Schedule           schedule.PaymentSchedule `json:"schedule"`
	MonthlyInstallment decimal.Decimal          `json:"monthlyInstallment"`

	CalculatedPenalty decimal.Decimal `json:"calculatedPenalty"`
	DaysOverdue       int             `json:"daysOverdue"`
	GracePeriodEnd    time.Time       `json:"gracePeriodEnd"`

	// Candidate base amounts per payment type, penalty excluded.
	SuggestedAmounts map[string]decimal.Decimal `json:"suggestedAmounts"`
}

// WalkInPaymentResponse returns the persisted transaction together with the
// computation that produced it.
type WalkInPaymentResponse struct {
	Transaction     transaction.Transaction  `json:"transaction"`
	Schedule        schedule.PaymentSchedule `json:"schedule"`
	RemainingAfter  decimal.Decimal          `json:"remainingAfter"`
	ResultingStatus string                   `json:"resultingStatus"`
}
