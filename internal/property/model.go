// internal/property/model.go
package property

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Property status constants
const (
	StatusAvailable = "available"
	StatusReserved  = "reserved"
	StatusSold      = "sold"
)

// Property type constants
const (
	TypeLot         = "lot"
	TypeHouseAndLot = "house_and_lot"
	TypeCondo       = "condo"
)

// Property is a unit offered for sale: a lot, a house and lot, or a condo.
type Property struct {
	gorm.Model

	Code    string `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name    string `gorm:"size:255;not null" json:"name"`
	Type    string `gorm:"size:30;not null" json:"type"`
	Address string `gorm:"size:255" json:"address"`

	Area  float64         `json:"area"` // square meters
	Price decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"price"`

	Status      string `gorm:"size:20;not null;default:'available';index" json:"status"`
	Description string `gorm:"type:text" json:"description"`

	// Multiple listing photos stored as JSONB.
	PhotoURLs []string `gorm:"type:jsonb;serializer:json" json:"photoUrls"`
}

// Migrate creates the table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Property{})
}
