// internal/transaction/repository.go
package transaction

import "gorm.io/gorm"

// Repository encapsulates data access for payment transactions.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Create inserts a transaction record, normally inside the payment tx.
func (r *Repository) Create(db *gorm.DB, t *Transaction) error {
	if db == nil {
		db = r.DB
	}
	return db.Create(t).Error
}

func (r *Repository) ListByContractID(contractID uint) ([]Transaction, error) {
	var out []Transaction
	err := r.DB.
		Where("contract_id = ?", contractID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *Repository) FindByReference(ref string) (*Transaction, error) {
	var t Transaction
	if err := r.DB.Where("reference_number = ?", ref).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}
