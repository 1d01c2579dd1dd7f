// internal/reservation/handler.go
package reservation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/SolterraRealty/api-backoffice/internal/auth"
	"github.com/SolterraRealty/api-backoffice/internal/notification"
	"github.com/SolterraRealty/api-backoffice/internal/property"
)

// Holds lapse after 30 days unless staff approves them first.
const holdDays = 30

type Handler struct {
	DB         *gorm.DB
	Repo       *Repository
	Properties *property.Repository
	Webhook    *notification.Webhook
	Log        *logrus.Logger
}

func NewHandler(db *gorm.DB, props *property.Repository, webhook *notification.Webhook, log *logrus.Logger) *Handler {
	return &Handler{
		DB:         db,
		Repo:       NewRepository(db),
		Properties: props,
		Webhook:    webhook,
		Log:        log,
	}
}

type createReservationRequest struct {
	PropertyID     uint            `json:"propertyId"`
	ReservationFee decimal.Decimal `json:"reservationFee"`
	Notes          string          `json:"notes"`
}

// POST /reservations
// Clients place a hold on an available property. The property flips to
// reserved inside the same transaction.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	clientID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "missing user", http.StatusUnauthorized)
		return
	}

	var req createReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	tx := h.DB.Begin()
	if tx.Error != nil {
		http.Error(w, "failed to start transaction", http.StatusInternalServerError)
		return
	}

	// Availability check under a row lock: two concurrent holds on the same
	// property cannot both see it available.
	p, err := h.Properties.FindByIDForUpdate(tx, req.PropertyID)
	if err != nil {
		_ = tx.Rollback()
		http.Error(w, "property not found", http.StatusNotFound)
		return
	}
	if p.Status != property.StatusAvailable {
		_ = tx.Rollback()
		if existing, err := h.Repo.FindActiveByProperty(p.ID); err == nil {
			h.Webhook.PostAlert(map[string]string{
				"message":       "reservation attempted on a property that already has an active hold",
				"propertyCode":  p.Code,
				"reservationId": strconv.Itoa(int(existing.ID)),
			})
		}
		http.Error(w, "property is not available", http.StatusConflict)
		return
	}

	res := Reservation{
		PropertyID:     p.ID,
		ClientID:       clientID,
		ReservationFee: req.ReservationFee,
		Status:         StatusPending,
		Notes:          req.Notes,
		ExpiresAt:      time.Now().AddDate(0, 0, holdDays),
	}

	if err := h.Repo.Create(tx, &res); err != nil {
		_ = tx.Rollback()
		http.Error(w, "failed to create reservation", http.StatusInternalServerError)
		return
	}
	if err := h.Properties.UpdateStatus(tx, p.ID, property.StatusReserved); err != nil {
		_ = tx.Rollback()
		http.Error(w, "failed to reserve property", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit().Error; err != nil {
		_ = tx.Rollback()
		http.Error(w, "failed to commit transaction", http.StatusInternalServerError)
		return
	}

	h.Log.Infof("Reservation %d placed on property %s by client %d", res.ID, p.Code, clientID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(res)
}

// GET /reservations
// Staff see all (optionally ?status=); clients see their own.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	role := auth.Role(r)
	if role == auth.RoleStaff || role == auth.RoleAdmin {
		out, err := h.Repo.ListAll(r.URL.Query().Get("status"))
		if err != nil {
			http.Error(w, "failed to list reservations", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
		return
	}

	clientID, _ := auth.UserID(r)
	out, err := h.Repo.ListByClientID(clientID)
	if err != nil {
		http.Error(w, "failed to list reservations", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// GET /reservations/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid reservation ID", http.StatusBadRequest)
		return
	}

	res, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "reservation not found", http.StatusNotFound)
		return
	}

	clientID, _ := auth.UserID(r)
	role := auth.Role(r)
	if role == auth.RoleClient && res.ClientID != clientID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}

// PATCH /reservations/{id}/approve (staff)
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, StatusApproved)
}

// PATCH /reservations/{id}/decline (staff)
// Declining releases the property back to available.
func (h *Handler) Decline(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, StatusDeclined)
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request, status string) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid reservation ID", http.StatusBadRequest)
		return
	}

	res, err := h.Repo.FindByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "reservation not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load reservation", http.StatusInternalServerError)
		return
	}
	if res.Status != StatusPending {
		http.Error(w, "only pending reservations can be resolved", http.StatusConflict)
		return
	}

	tx := h.DB.Begin()
	if tx.Error != nil {
		http.Error(w, "failed to start transaction", http.StatusInternalServerError)
		return
	}
	if err := h.Repo.UpdateStatus(tx, res.ID, status); err != nil {
		_ = tx.Rollback()
		http.Error(w, "failed to update reservation", http.StatusInternalServerError)
		return
	}
	if status == StatusDeclined {
		if err := h.Properties.UpdateStatus(tx, res.PropertyID, property.StatusAvailable); err != nil {
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

	res.Status = status
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}

// ExpireLapsed marks lapsed pending reservations expired and releases their
// properties. Called from the nightly sweep.
func (h *Handler) ExpireLapsed(asOf time.Time) (int, error) {
	lapsed, err := h.Repo.ListExpired(asOf)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, res := range lapsed {
		tx := h.DB.Begin()
		if tx.Error != nil {
			return expired, tx.Error
		}
		if err := h.Repo.UpdateStatus(tx, res.ID, StatusExpired); err != nil {
			_ = tx.Rollback()
			return expired, err
		}
		if err := h.Properties.UpdateStatus(tx, res.PropertyID, property.StatusAvailable); err != nil {
			_ = tx.Rollback()
			return expired, err
		}
		if err := tx.Commit().Error; err != nil {
			_ = tx.Rollback()
			return expired, err
		}
		expired++
	}
	return expired, nil
}
