package models

import (
	"time"

	"github.com/alexedwards/argon2id"
)

// AdminUser is the single front-desk/owner account. The system intentionally
// supports one admin role only; registration is refused once a row exists.
type AdminUser struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username     string     `gorm:"type:varchar(50);uniqueIndex" json:"username"`
	PasswordHash string     `gorm:"type:varchar(255)" json:"-"`
	FullName     string     `gorm:"type:varchar(100)" json:"full_name"`
	Email        string     `gorm:"type:varchar(100);uniqueIndex" json:"email"`
	Role         string     `gorm:"type:varchar(20);default:'admin'" json:"role"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// SetPassword hashes and stores the given password
func (u *AdminUser) SetPassword(password string) error {
	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// CheckPassword verifies a candidate password against the stored hash
func (u *AdminUser) CheckPassword(password string) bool {
	ok, err := argon2id.ComparePasswordAndHash(password, u.PasswordHash)
	return err == nil && ok
}
