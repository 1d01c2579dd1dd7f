// internal/transaction/model.go
package transaction

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment method constants
const (
	MethodCash         = "cash"
	MethodCheck        = "check"
	MethodBankTransfer = "bank_transfer"
	MethodGCash        = "gcash"
)

// ValidMethod reports whether m is an accepted walk-in payment method.
func ValidMethod(m string) bool {
	return m == MethodCash || m == MethodCheck || m == MethodBankTransfer || m == MethodGCash
}

// Transaction is the immutable record of one recorded payment. Rows are
// never updated or deleted; reverts leave the original record in place.
type Transaction struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	ReferenceNumber string `gorm:"size:64;uniqueIndex;not null" json:"referenceNumber"`

	ScheduleID uint `gorm:"not null;index" json:"scheduleId"`
	ContractID uint `gorm:"not null;index" json:"contractId"`

	PaymentType string          `gorm:"size:20;not null" json:"paymentType"`
	AmountPaid  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amountPaid"`
	PenaltyPaid decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"penaltyPaid"`
	TotalPaid   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"totalPaid"`

	PaymentMethod string `gorm:"size:30;not null" json:"paymentMethod"`
	ProcessedByID uint   `gorm:"not null;index" json:"processedById"`
	Notes         string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"createdAt"`
}

// Migrate creates the table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Transaction{})
}
