package domain

import "time"

type Role string

const (
	RoleSuperadmin   Role = "superadmin"
	RoleAdminKos     Role = "adminkos"
	RoleReceptionist Role = "receptionist"
	RoleCustomer     Role = "customer"
)

// User rows are written by the external identity service; the engine reads
// id/role for authorization and references customers from bookings.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Role         Role      `json:"role" gorm:"type:varchar(20);not null;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
