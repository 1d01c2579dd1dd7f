// internal/schedule/model.go
package schedule

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment status lifecycle: pending -> partial -> paid. The administrative
// revert is the only backward transition (paid -> pending).
const (
	StatusPending = "pending"
	StatusPartial = "partial"
	StatusPaid    = "paid"
)

// PaymentSchedule is one installment due under a contract.
type PaymentSchedule struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ContractID uint `gorm:"not null;index;uniqueIndex:idx_contract_installment" json:"contractId"`

	InstallmentNumber int       `gorm:"not null;uniqueIndex:idx_contract_installment" json:"installmentNumber"`
	DueDate           time.Time `gorm:"not null;index" json:"dueDate"`

	ScheduledAmount decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"scheduledAmount"`
	PaidAmount      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"paidAmount"`
	RemainingAmount decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"remainingAmount"`
	PenaltyAmount   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"penaltyAmount"`

	PaymentStatus string     `gorm:"size:20;not null;default:'pending';index" json:"paymentStatus"`
	PaidDate      *time.Time `json:"paidDate"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsOverdue reports whether the installment is past its grace period and not
// yet settled, as of the given date.
func (s *PaymentSchedule) IsOverdue(asOf time.Time, gracePeriodDays int) bool {
	if s.PaymentStatus == StatusPaid || s.DueDate.IsZero() {
		return false
	}
	return asOf.After(s.DueDate.AddDate(0, 0, gracePeriodDays))
}

// Migrate creates the table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&PaymentSchedule{})
}
