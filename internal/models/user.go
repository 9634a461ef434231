package models

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role is the numeric role code carried on the wire.
type Role int

const (
	RoleAdmin    Role = 0
	RoleDriver   Role = 1
	RoleCustomer Role = 2
)

// ParseRole rejects role codes outside the known set.
func ParseRole(code int) (Role, error) {
	switch Role(code) {
	case RoleAdmin, RoleDriver, RoleCustomer:
		return Role(code), nil
	}
	return 0, fmt.Errorf("unknown role code %d", code)
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleDriver:
		return "driver"
	case RoleCustomer:
		return "customer"
	}
	return "unknown"
}

type User struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
	Username     string    `json:"username" gorm:"column:username;not null"`
	Email        string    `json:"email" gorm:"column:email;unique;not null"`
	Password     string    `json:"-" gorm:"-"` // Temporary field for password handling
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	PhoneNumber  string    `json:"phonenumber" gorm:"column:phone_number"`
	UserRole     Role      `json:"userrole" gorm:"column:user_role;not null"`
	Status       int       `json:"status" gorm:"column:status;default:0"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
