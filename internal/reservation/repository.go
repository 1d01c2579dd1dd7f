// internal/reservation/repository.go
package reservation

import (
	"time"

	"gorm.io/gorm"
)

// Repository encapsulates data access for reservations.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) Create(db *gorm.DB, res *Reservation) error {
	if db == nil {
		db = r.DB
	}
	return db.Create(res).Error
}

func (r *Repository) FindByID(id uint) (*Reservation, error) {
	var res Reservation
	if err := r.DB.First(&res, id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

// FindActiveByProperty returns the pending/approved hold on a property, if
// one exists.
func (r *Repository) FindActiveByProperty(propertyID uint) (*Reservation, error) {
	var res Reservation
	err := r.DB.
		Where("property_id = ? AND status IN ?", propertyID, []string{StatusPending, StatusApproved}).
		First(&res).Error
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *Repository) ListAll(status string) ([]Reservation, error) {
	q := r.DB.Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []Reservation
	err := q.Find(&out).Error
	return out, err
}

func (r *Repository) ListByClientID(clientID uint) ([]Reservation, error) {
	var out []Reservation
	err := r.DB.Where("client_id = ?", clientID).Order("created_at DESC").Find(&out).Error
	return out, err
}

// ListExpired returns pending reservations whose hold lapsed before the
// cutoff.
func (r *Repository) ListExpired(cutoff time.Time) ([]Reservation, error) {
	var out []Reservation
	err := r.DB.
		Where("status = ? AND expires_at < ?", StatusPending, cutoff).
		Find(&out).Error
	return out, err
}

func (r *Repository) UpdateStatus(db *gorm.DB, id uint, status string) error {
	if db == nil {
		db = r.DB
	}
	return db.Model(&Reservation{}).Where("id = ?", id).Update("status", status).Error
}
