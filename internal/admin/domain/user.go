package domain

import "time"

type User struct {
	ID           string
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string // argon2id encoded
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
