package entity

import "time"

const (
	RoleCustomer   = "CUSTOMER"
	RoleVendor     = "VENDOR"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"

	StatusActive = "ACTIVE"
)

type User struct {
	ID            string `gorm:"primaryKey"`
	Phone         string `gorm:"uniqueIndex;not null"`
	CountryCode   string `gorm:"not null"`
	PhoneVerified bool   `gorm:"not null;default:false"`
	Status        string `gorm:"not null"`
	Role          string `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
