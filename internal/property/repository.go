// internal/property/repository.go
package property

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListFilter narrows the client-facing browse query. Zero values mean "any".
type ListFilter struct {
	Status   string
	Type     string
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
}

// Repository encapsulates data access for properties.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) Create(p *Property) error {
	return r.DB.Create(p).Error
}

func (r *Repository) FindByID(id uint) (*Property, error) {
	var p Property
	if err := r.DB.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByIDForUpdate fetches a property under a row lock. Must run inside a
// transaction; used where a status check and the write that depends on it
// have to be atomic.
func (r *Repository) FindByIDForUpdate(tx *gorm.DB, id uint) (*Property, error) {
	var p Property
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) FindByCode(code string) (*Property, error) {
	var p Property
	if err := r.DB.Where("code = ?", code).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// List applies the browse filters, cheapest first.
func (r *Repository) List(f ListFilter) ([]Property, error) {
	q := r.DB.Model(&Property{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.MinPrice.IsPositive() {
		q = q.Where("price >= ?", f.MinPrice)
	}
	if f.MaxPrice.IsPositive() {
		q = q.Where("price <= ?", f.MaxPrice)
	}

	var out []Property
	err := q.Order("price ASC").Find(&out).Error
	return out, err
}

func (r *Repository) Update(p *Property) error {
	return r.DB.Save(p).Error
}

// UpdateStatus moves a property between available/reserved/sold. Accepts an
// optional tx so reservation and contract flows can flip it atomically.
func (r *Repository) UpdateStatus(db *gorm.DB, id uint, status string) error {
	if db == nil {
		db = r.DB
	}
	return db.Model(&Property{}).Where("id = ?", id).Update("status", status).Error
}

// DeleteByID removes a listing; returns gorm.ErrRecordNotFound when nothing
// was deleted.
func (r *Repository) DeleteByID(id uint) error {
	res := r.DB.Delete(&Property{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
