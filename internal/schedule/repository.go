// internal/schedule/repository.go
package schedule

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository encapsulates data access for payment schedules.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// WithDB returns a copy of the repo bound to a specific *gorm.DB (e.g. a tx).
func (r *Repository) WithDB(db *gorm.DB) *Repository {
	if db == nil {
		db = r.DB
	}
	return &Repository{DB: db}
}

/* ========================= CRUD ========================= */

// CreateInBatch inserts a full schedule at once (no-op when empty).
func (r *Repository) CreateInBatch(installments []*PaymentSchedule) error {
	if len(installments) == 0 {
		return nil
	}
	return r.DB.Create(installments).Error
}

// FindByID fetches a single installment.
func (r *Repository) FindByID(id uint) (*PaymentSchedule, error) {
	var s PaymentSchedule
	if err := r.DB.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// FindByIDForUpdate fetches an installment under a row lock. Must run inside
// a transaction; it is the read half of the apply-payment read-modify-write.
func (r *Repository) FindByIDForUpdate(tx *gorm.DB, id uint) (*PaymentSchedule, error) {
	var s PaymentSchedule
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// ListByContractID returns all installments of a contract, oldest due first.
func (r *Repository) ListByContractID(contractID uint) ([]PaymentSchedule, error) {
	var out []PaymentSchedule
	err := r.DB.
		Where("contract_id = ?", contractID).
		Order("due_date ASC").
		Find(&out).Error
	return out, err
}

// ListOverdue returns unsettled installments whose grace period ended before
// the cutoff.
func (r *Repository) ListOverdue(cutoff time.Time, gracePeriodDays int) ([]PaymentSchedule, error) {
	var out []PaymentSchedule
	err := r.DB.
		Where("payment_status <> ?", StatusPaid).
		Where("due_date < ?", cutoff.AddDate(0, 0, -gracePeriodDays)).
		Order("due_date ASC").
		Find(&out).Error
	return out, err
}

// CountUnsettledByContract counts installments not yet fully paid.
func (r *Repository) CountUnsettledByContract(db *gorm.DB, contractID uint) (int64, error) {
	if db == nil {
		db = r.DB
	}
	var n int64
	err := db.Model(&PaymentSchedule{}).
		Where("contract_id = ? AND payment_status <> ?", contractID, StatusPaid).
		Count(&n).Error
	return n, err
}

/* ===================== Payment application ===================== */

// ApplyPayment persists the outcome of a computed payment. Caller must hold
// the row lock taken by FindByIDForUpdate on the same tx.
// The assessed penalty is settled together with the payment and recorded on
// the transaction, so the outstanding penalty on the row goes back to zero.
func (r *Repository) ApplyPayment(tx *gorm.DB, s *PaymentSchedule, base, remainingAfter decimal.Decimal, status string, paidAt time.Time) error {
	s.PaidAmount = s.PaidAmount.Add(base)
	s.RemainingAmount = remainingAfter
	s.PenaltyAmount = decimal.Zero
	s.PaymentStatus = status
	if status == StatusPaid {
		s.PaidDate = &paidAt
	}
	return tx.Save(s).Error
}

// Revert resets an installment to pending, zeroing everything applied to it.
func (r *Repository) Revert(tx *gorm.DB, id uint) error {
	var s PaymentSchedule
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, id).Error; err != nil {
		return err
	}
	return tx.Model(&s).Updates(map[string]interface{}{
		"paid_amount":      decimal.Zero,
		"remaining_amount": s.ScheduledAmount,
		"penalty_amount":   decimal.Zero,
		"payment_status":   StatusPending,
		"paid_date":        nil,
	}).Error
}

// UpdatePenalty stores a freshly assessed display penalty (overdue sweep).
// Recomputed from the due date every run, never accumulated.
func (r *Repository) UpdatePenalty(id uint, penalty decimal.Decimal) error {
	return r.DB.Model(&PaymentSchedule{}).
		Where("id = ?", id).
		Update("penalty_amount", penalty).Error
}
