// internal/user/repository.go
package user

import "gorm.io/gorm"

type Repository interface {
	Save(db *gorm.DB, u *User) error
	FindByID(db *gorm.DB, id uint) (*User, error)
	FindByEmail(db *gorm.DB, email string) (*User, error)
	ListAll(db *gorm.DB) ([]User, error)
	Deactivate(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Save(db *gorm.DB, u *User) error {
	return db.Save(u).Error
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*User, error) {
	var u User
	if err := db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repositoryImpl) FindByEmail(db *gorm.DB, email string) (*User, error) {
	var u User
	if err := db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repositoryImpl) ListAll(db *gorm.DB) ([]User, error) {
	var out []User
	err := db.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *repositoryImpl) Deactivate(db *gorm.DB, id uint) error {
	return db.Model(&User{}).Where("id = ?", id).Update("active", false).Error
}
