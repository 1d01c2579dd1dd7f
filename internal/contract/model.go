// internal/contract/model.go
package contract

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/SolterraRealty/api-backoffice/internal/schedule"
)

// Contract status constants
const (
	StatusActive      = "active"
	StatusCompleted   = "completed"
	StatusCancelled   = "cancelled"
	StatusDefaulted   = "defaulted"
	StatusTransferred = "transferred"
)

// Contract is a property sale financed in monthly installments.
type Contract struct {
	gorm.Model

	PropertyID    uint  `gorm:"not null;index" json:"propertyId"`
	ClientID      uint  `gorm:"not null;index" json:"clientId"`
	ReservationID *uint `gorm:"index" json:"reservationId,omitempty"`

	TotalPrice         decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"totalPrice"`
	DownPayment        decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"downPayment"`
	TermMonths         int             `gorm:"not null" json:"termMonths"`
	MonthlyInstallment decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"monthlyInstallment"`

	Status    string    `gorm:"size:20;not null;default:'active';index" json:"status"`
	StartDate time.Time `gorm:"not null" json:"startDate"`

	// Multiple signed-document links stored as JSONB.
	DocumentURLs []string `gorm:"type:jsonb;serializer:json" json:"documentUrls"`

	Schedules []schedule.PaymentSchedule `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE" json:"schedules,omitempty"`
}

// MayComplete reports whether the contract can move to completed.
// The caller verifies all installments are settled before flipping.
func (c *Contract) MayComplete() bool {
	return c.Status == StatusActive
}

// MayCancel reports whether the contract can be cancelled.
func (c *Contract) MayCancel() bool {
	return c.Status == StatusActive || c.Status == StatusDefaulted
}

// MayDefault reports whether the contract can be marked defaulted.
func (c *Contract) MayDefault() bool {
	return c.Status == StatusActive
}

// MayTransfer reports whether the contract can be transferred to another
// buyer.
func (c *Contract) MayTransfer() bool {
	return c.Status == StatusActive
}

// Migrate creates the table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Contract{})
}
