// internal/payment/handler.go
package payment

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/SolterraRealty/api-backoffice/internal/amortization"
	"github.com/SolterraRealty/api-backoffice/internal/auth"
	"github.com/SolterraRealty/api-backoffice/internal/contract"
	"github.com/SolterraRealty/api-backoffice/internal/notification"
	"github.com/SolterraRealty/api-backoffice/internal/schedule"
	"github.com/SolterraRealty/api-backoffice/internal/transaction"
	"github.com/SolterraRealty/api-backoffice/internal/user"
)

type Handler struct {
	DB           *gorm.DB
	Schedules    *schedule.Repository
	Contracts    contract.Repository
	Transactions *transaction.Repository
	Users        user.Repository
	Mailer       *notification.Mailer
	Log          *logrus.Logger
}

func NewHandler(db *gorm.DB, schedules *schedule.Repository, contracts contract.Repository, transactions *transaction.Repository, users user.Repository, mailer *notification.Mailer, log *logrus.Logger) *Handler {
	return &Handler{
		DB:           db,
		Schedules:    schedules,
		Contracts:    contracts,
		Transactions: transactions,
		Users:        users,
		Mailer:       mailer,
		Log:          log,
	}
}

// GET /schedules/{id}/payment-details (staff)
func (h *Handler) PaymentDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid schedule ID", http.StatusBadRequest)
		return
	}

	s, err := h.Schedules.FindByID(uint(id))
	if err != nil {
		http.Error(w, "schedule not found", http.StatusNotFound)
		return
	}
	c, err := h.Contracts.FindByID(h.DB, s.ContractID)
	if err != nil {
		http.Error(w, "contract not found", http.StatusNotFound)
		return
	}

	remaining := s.ScheduledAmount.Sub(s.PaidAmount)
	pr := amortization.ComputePenalty(s.DueDate, amortization.GracePeriodDays, time.Now(), remaining)

	resp := PaymentDetailsResponse{
		Schedule:           *s,
		MonthlyInstallment: c.MonthlyInstallment,
		CalculatedPenalty:  pr.Penalty,
		DaysOverdue:        pr.DaysOverdue,
		GracePeriodEnd:     pr.GraceEnd,
		SuggestedAmounts: map[string]decimal.Decimal{
			string(amortization.PaymentTypeFull):    amortization.ComputeBaseAmount(amortization.PaymentTypeFull, remaining, c.MonthlyInstallment, decimal.Zero),
			string(amortization.PaymentTypeMonthly): amortization.ComputeBaseAmount(amortization.PaymentTypeMonthly, remaining, c.MonthlyInstallment, decimal.Zero),
			string(amortization.PaymentTypeWeekly):  amortization.ComputeBaseAmount(amortization.PaymentTypeWeekly, remaining, c.MonthlyInstallment, decimal.Zero),
			string(amortization.PaymentTypeDaily):   amortization.ComputeBaseAmount(amortization.PaymentTypeDaily, remaining, c.MonthlyInstallment, decimal.Zero),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// POST /payments/walk-in (staff)
//
// The whole read-modify-write runs under a row lock on the schedule so two
// tellers cannot apply against the same remaining balance; validation runs
// against the freshly locked row, not against whatever the form displayed.
func (h *Handler) SubmitWalkIn(w http.ResponseWriter, r *http.Request) {
	staffID, _ := auth.UserID(r)

	var req WalkInPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	pt := amortization.PaymentType(req.PaymentType)
	if !pt.Valid() {
		http.Error(w, "payment type must be full, monthly, weekly, daily or partial", http.StatusBadRequest)
		return
	}
	if !transaction.ValidMethod(req.PaymentMethod) {
		http.Error(w, "invalid payment method", http.StatusBadRequest)
		return
	}

	c, err := h.Contracts.FindByID(h.DB, req.ContractID)
	if err != nil {
		http.Error(w, "contract not found", http.StatusNotFound)
		return
	}
	if c.Status != contract.StatusActive {
		http.Error(w, "contract is not active", http.StatusConflict)
		return
	}

	now := time.Now()

	tx := h.DB.Begin()
	if tx.Error != nil {
		http.Error(w, "failed to start transaction", http.StatusInternalServerError)
		return
	}

	s, err := h.Schedules.FindByIDForUpdate(tx, req.ScheduleID)
	if err != nil {
		_ = tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "schedule not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load schedule", http.StatusInternalServerError)
		return
	}
	if s.ContractID != req.ContractID {
		_ = tx.Rollback()
		http.Error(w, "schedule does not belong to contract", http.StatusBadRequest)
		return
	}

	// Remaining is recomputed from the locked row; the stored column is a
	// cache of the same difference.
	remaining := s.ScheduledAmount.Sub(s.PaidAmount)
	if remaining.LessThanOrEqual(decimal.Zero) {
		_ = tx.Rollback()
		http.Error(w, "installment is already settled", http.StatusUnprocessableEntity)
		return
	}

	base := amortization.ComputeBaseAmount(pt, remaining, c.MonthlyInstallment, req.AmountPaid)
	if err := amortization.ValidatePayment(pt, base, remaining, c.MonthlyInstallment); err != nil {
		_ = tx.Rollback()
		var verr *amortization.ValidationError
		if errors.As(err, &verr) {
			http.Error(w, verr.Reason, http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, "payment validation failed", http.StatusUnprocessableEntity)
		return
	}

	pr := amortization.ComputePenalty(s.DueDate, amortization.GracePeriodDays, now, remaining)
	result := amortization.ApplyPayment(remaining, base, pr.Penalty)

	if err := h.Schedules.ApplyPayment(tx, s, result.BaseAmount, result.RemainingAfter, result.ResultingStatus, now); err != nil {
		_ = tx.Rollback()
		http.Error(w, "failed to update schedule", http.StatusInternalServerError)
		return
	}

	ref := req.ReferenceNumber
	if ref == "" {
		ref = uuid.NewString()
	}
	t := transaction.Transaction{
		ReferenceNumber: ref,
		ScheduleID:      s.ID,
		ContractID:      c.ID,
		PaymentType:     string(pt),
		AmountPaid:      result.BaseAmount,
		PenaltyPaid:     result.PenaltyAmount,
		TotalPaid:       result.TotalAmount,
		PaymentMethod:   req.PaymentMethod,
		ProcessedByID:   staffID,
		Notes:           req.Notes,
	}
	if err := h.Transactions.Create(tx, &t); err != nil {
		_ = tx.Rollback()
		http.Error(w, "failed to record transaction", http.StatusInternalServerError)
		return
	}

	// Settling the last installment completes the contract.
	if result.ResultingStatus == schedule.StatusPaid {
		unsettled, err := h.Schedules.CountUnsettledByContract(tx, c.ID)
		if err != nil {
			_ = tx.Rollback()
			http.Error(w, "failed to check contract completion", http.StatusInternalServerError)
			return
		}
		if unsettled == 0 && c.MayComplete() {
			if err := h.Contracts.UpdateStatus(tx, c.ID, contract.StatusCompleted); err != nil {
				_ = tx.Rollback()
				http.Error(w, "failed to complete contract", http.StatusInternalServerError)
				return
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		_ = tx.Rollback()
		http.Error(w, "failed to commit transaction", http.StatusInternalServerError)
		return
	}

	h.Log.Infof("Payment %s recorded: schedule %d, base %s, penalty %s",
		ref, s.ID, result.BaseAmount.StringFixed(2), result.PenaltyAmount.StringFixed(2))

	if client, err := h.Users.FindByID(h.DB, c.ClientID); err == nil && client.Email != "" {
		go func() {
			if err := h.Mailer.SendPaymentReceipt(client.Email, client.FirstName, ref,
				result.BaseAmount, result.PenaltyAmount, result.TotalAmount, s.InstallmentNumber); err != nil {
				h.Log.Warnf("Receipt email for %s failed: %v", ref, err)
			}
		}()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(WalkInPaymentResponse{
		Transaction:     t,
		Schedule:        *s,
		RemainingAfter:  result.RemainingAfter,
		ResultingStatus: result.ResultingStatus,
	})
}

// POST /schedules/{id}/revert (admin)
// The administrative revert: the installment goes back to pending with
// everything applied to it zeroed. The original transaction record stays.
func (h *Handler) Revert(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid schedule ID", http.StatusBadRequest)
		return
	}

	s, err := h.Schedules.FindByID(uint(id))
	if err != nil {
		http.Error(w, "schedule not found", http.StatusNotFound)
		return
	}

	tx := h.DB.Begin()
	if tx.Error != nil {
		http.Error(w, "failed to start transaction", http.StatusInternalServerError)
		return
	}

	if err := h.Schedules.Revert(tx, uint(id)); err != nil {
		_ = tx.Rollback()
		http.Error(w, "failed to revert schedule", http.StatusInternalServerError)
		return
	}

	// Reverting an installment of a completed contract reopens it.
	c, err := h.Contracts.FindByID(tx, s.ContractID)
	if err != nil {
		_ = tx.Rollback()
		http.Error(w, "failed to load contract", http.StatusInternalServerError)
		return
	}
	if c.Status == contract.StatusCompleted {
		if err := h.Contracts.UpdateStatus(tx, c.ID, contract.StatusActive); err != nil {
			_ = tx.Rollback()
			http.Error(w, "failed to reopen contract", http.StatusInternalServerError)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		_ = tx.Rollback()
		http.Error(w, "failed to commit transaction", http.StatusInternalServerError)
		return
	}

	h.Log.Infof("Schedule %d reverted to pending", s.ID)

	updated, err := h.Schedules.FindByID(uint(id))
	if err != nil {
		http.Error(w, "failed to reload schedule", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(updated)
}
