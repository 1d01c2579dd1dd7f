// internal/contract/handler.go
package contract

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/SolterraRealty/api-backoffice/internal/auth"
	"github.com/SolterraRealty/api-backoffice/internal/property"
	"github.com/SolterraRealty/api-backoffice/internal/reservation"
	"github.com/SolterraRealty/api-backoffice/internal/schedule"
)

type Handler struct {
	DB           *gorm.DB
	Repository   Repository
	Schedules    *schedule.Repository
	Properties   *property.Repository
	Reservations *reservation.Repository
	Log          *logrus.Logger
}

func NewHandler(db *gorm.DB, schedules *schedule.Repository, props *property.Repository, reservations *reservation.Repository, log *logrus.Logger) *Handler {
	return &Handler{
		DB:           db,
		Repository:   NewRepository(),
		Schedules:    schedules,
		Properties:   props,
		Reservations: reservations,
		Log:          log,
	}
}

// POST /contracts (staff)
// Creates the contract and its full installment plan in one transaction;
// the property is marked sold and any source reservation converted.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if req.TermMonths <= 0 {
		http.Error(w, "term must be at least 1 month", http.StatusBadRequest)
		return
	}

	p, err := h.Properties.FindByID(req.PropertyID)
	if err != nil {
		http.Error(w, "property not found", http.StatusNotFound)
		return
	}
	if p.Status == property.StatusSold {
		http.Error(w, "property is already sold", http.StatusConflict)
		return
	}

	if req.ReservationID != nil {
		res, err := h.Reservations.FindByID(*req.ReservationID)
		if err != nil {
			http.Error(w, "reservation not found", http.StatusNotFound)
			return
		}
		if res.Status != reservation.StatusApproved {
			http.Error(w, "reservation is not approved", http.StatusConflict)
			return
		}
		if res.PropertyID != req.PropertyID || res.ClientID != req.ClientID {
			http.Error(w, "reservation does not match property and client", http.StatusBadRequest)
			return
		}
	}

	start := time.Now()
	if req.StartDate != nil {
		start = *req.StartDate
	}

	base, _, err := InstallmentAmount(req.TotalPrice, req.DownPayment, req.TermMonths)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c := Contract{
		PropertyID:         req.PropertyID,
		ClientID:           req.ClientID,
		ReservationID:      req.ReservationID,
		TotalPrice:         req.TotalPrice,
		DownPayment:        req.DownPayment,
		TermMonths:         req.TermMonths,
		MonthlyInstallment: base,
		Status:             StatusActive,
		StartDate:          start,
		DocumentURLs:       req.DocumentURLs,
	}

	tx := h.DB.Begin()
	if tx.Error != nil {
		http.Error(w, "failed to start transaction", http.StatusInternalServerError)
		return
	}

	if err := h.Repository.Create(tx, &c); err != nil {
		_ = tx.Rollback()
		http.Error(w, "failed to create contract", http.StatusInternalServerError)
		return
	}

	installments, err := GenerateSchedule(&c)
	if err != nil {
		_ = tx.Rollback()
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Schedules.WithDB(tx).CreateInBatch(installments); err != nil {
		_ = tx.Rollback()
		http.Error(w, "failed to create payment schedule", http.StatusInternalServerError)
		return
	}

	if err := h.Properties.UpdateStatus(tx, req.PropertyID, property.StatusSold); err != nil {
		_ = tx.Rollback()
		http.Error(w, "failed to update property", http.StatusInternalServerError)
		return
	}
	if req.ReservationID != nil {
		if err := h.Reservations.UpdateStatus(tx, *req.ReservationID, reservation.StatusConverted); err != nil {
			_ = tx.Rollback()
			http.Error(w, "failed to convert reservation", http.StatusInternalServerError)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		_ = tx.Rollback()
		http.Error(w, "failed to commit transaction", http.StatusInternalServerError)
		return
	}

	h.Log.Infof("Contract %d created for property %d, %d installments of %s",
		c.ID, c.PropertyID, c.TermMonths, c.MonthlyInstallment.StringFixed(2))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(c)
}

// GET /contracts (staff sees all; clients see their own)
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	role := auth.Role(r)
	if role == auth.RoleStaff || role == auth.RoleAdmin {
		out, err := h.Repository.ListAll(h.DB)
		if err != nil {
			http.Error(w, "failed to list contracts", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
		return
	}

	clientID, _ := auth.UserID(r)
	out, err := h.Repository.ListByClientID(h.DB, clientID)
	if err != nil {
		http.Error(w, "failed to list contracts", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// GET /contracts/{id} returns the contract with its ordered schedule.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid contract ID", http.StatusBadRequest)
		return
	}

	c, err := h.Repository.FindByIDWithSchedules(h.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "contract not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load contract", http.StatusInternalServerError)
		return
	}

	clientID, _ := auth.UserID(r)
	role := auth.Role(r)
	if role == auth.RoleClient && c.ClientID != clientID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(c)
}

// PATCH /contracts/{id}/status (staff)
// Guarded transitions only; completion is driven by the payment flow, not
// by this endpoint.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid contract ID", http.StatusBadRequest)
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	c, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "contract not found", http.StatusNotFound)
		return
	}

	allowed := false
	switch req.Status {
	case StatusCancelled:
		allowed = c.MayCancel()
	case StatusDefaulted:
		allowed = c.MayDefault()
	case StatusTransferred:
		allowed = c.MayTransfer()
	default:
		http.Error(w, "status must be 'cancelled', 'defaulted' or 'transferred'", http.StatusBadRequest)
		return
	}
	if !allowed {
		http.Error(w, "transition not allowed from status "+c.Status, http.StatusConflict)
		return
	}

	tx := h.DB.Begin()
	if tx.Error != nil {
		http.Error(w, "failed to start transaction", http.StatusInternalServerError)
		return
	}
	if err := h.Repository.UpdateStatus(tx, c.ID, req.Status); err != nil {
		_ = tx.Rollback()
		http.Error(w, "failed to update contract", http.StatusInternalServerError)
		return
	}
	// A cancelled sale puts the unit back on the market.
	if req.Status == StatusCancelled {
		if err := h.Properties.UpdateStatus(tx, c.PropertyID, property.StatusAvailable); err != nil {
			_ = tx.Rollback()
			http.Error(w, "failed to release property", http.StatusInternalServerError)
			return
		}
	}
	if err := tx.Commit().Error; err != nil {
		_ = tx.Rollback()
		http.Error(w, "failed to commit transaction", http.StatusInternalServerError)
		return
	}

	c.Status = req.Status
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(c)
}

// GET /contracts/{id}/schedules
func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid contract ID", http.StatusBadRequest)
		return
	}

	c, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "contract not found", http.StatusNotFound)
		return
	}

	clientID, _ := auth.UserID(r)
	role := auth.Role(r)
	if role == auth.RoleClient && c.ClientID != clientID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	out, err := h.Schedules.ListByContractID(c.ID)
	if err != nil {
		http.Error(w, "failed to list schedule", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}
