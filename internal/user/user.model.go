package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("user not found")
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	FirstName    string    `json:"firstName" db:"first_name"`
	LastName     string    `json:"lastName" db:"last_name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Avatar       string    `json:"avatar" db:"avatar"`
	GoogleID     *string   `json:"-" db:"google_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
