// internal/reservation/model.go
package reservation

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Reservation status constants
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusDeclined  = "declined"
	StatusExpired   = "expired"
	StatusConverted = "converted"
)

// Reservation is a client's hold on a property while the sale is worked out.
type Reservation struct {
	gorm.Model

	PropertyID uint `gorm:"not null;index" json:"propertyId"`
	ClientID   uint `gorm:"not null;index" json:"clientId"`

	ReservationFee decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"reservationFee"`
	Status         string          `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Notes          string          `gorm:"type:text" json:"notes"`
	ExpiresAt      time.Time       `json:"expiresAt"`
}

// Active reservations block a second hold on the same property.
func (r *Reservation) Active() bool {
	return r.Status == StatusPending || r.Status == StatusApproved
}

// Migrate creates the table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Reservation{})
}
