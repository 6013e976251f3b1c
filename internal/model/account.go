package model

import "time"

type Account struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// AccountResponse is the shape returned to the account owner.
type AccountResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// PublicAccount is the shape exposed on public listings; no email.
type PublicAccount struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func (a Account) Response() AccountResponse {
	return AccountResponse{ID: a.ID, Username: a.Username, Email: a.Email}
}

func (a Account) Public() PublicAccount {
	return PublicAccount{ID: a.ID, Username: a.Username}
}
