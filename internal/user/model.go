package user

import "time"

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never leaves the store layer in a response
	CreatedAt    time.Time `json:"created_at"`
}
