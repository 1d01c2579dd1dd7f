// internal/user/model.go
package user

import "gorm.io/gorm"

// Role constants; mirrored in auth for middleware gates.
const (
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
	RoleClient = "client"
)

type User struct {
	gorm.Model
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"-" gorm:"not null"`
	Role         string `json:"role" gorm:"size:20;not null;default:'client'"`
	Active       bool   `json:"active" gorm:"not null;default:true"`

	// Set when staff resets the password; forces a change on next login.
	MustChangePassword bool `json:"-"`
}

func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleStaff || r == RoleClient
}

// Migrate creates the table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{})
}
