// internal/contract/repository.go
package contract

import "gorm.io/gorm"

type Repository interface {
	Create(db *gorm.DB, c *Contract) error
	FindByID(db *gorm.DB, id uint) (*Contract, error)
	FindByIDWithSchedules(db *gorm.DB, id uint) (*Contract, error)
	ListAll(db *gorm.DB) ([]Contract, error)
	ListByClientID(db *gorm.DB, clientID uint) ([]Contract, error)
	UpdateStatus(db *gorm.DB, id uint, status string) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Create(db *gorm.DB, c *Contract) error {
	return db.Create(c).Error
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*Contract, error) {
	var c Contract
	if err := db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repositoryImpl) FindByIDWithSchedules(db *gorm.DB, id uint) (*Contract, error) {
	var c Contract
	err := db.
		Preload("Schedules", func(db *gorm.DB) *gorm.DB { return db.Order("due_date ASC") }).
		First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repositoryImpl) ListAll(db *gorm.DB) ([]Contract, error) {
	var out []Contract
	err := db.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *repositoryImpl) ListByClientID(db *gorm.DB, clientID uint) ([]Contract, error) {
	var out []Contract
	err := db.Where("client_id = ?", clientID).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *repositoryImpl) UpdateStatus(db *gorm.DB, id uint, status string) error {
	return db.Model(&Contract{}).Where("id = ?", id).Update("status", status).Error
}
