// internal/contract/dto.go
package contract

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateContractRequest struct {
	PropertyID    uint            `json:"propertyId"`
	ClientID      uint            `json:"clientId"`
	ReservationID *uint           `json:"reservationId,omitempty"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	DownPayment   decimal.Decimal `json:"downPayment"`
	TermMonths    int             `json:"termMonths"`
	StartDate     *time.Time      `json:"startDate,omitempty"` // defaults to now
	DocumentURLs  []string        `json:"documentUrls"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}
