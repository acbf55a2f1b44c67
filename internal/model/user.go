package model

import "time"

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"nome"`
	Email        string    `json:"email"`
	PasswordHash *string   `json:"-"`
	CreatedAt    time.Time `json:"criado_em"`
}

// HasPassword is false for accounts provisioned through Google login.
func (u User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// RegisterRequest accepts the legacy senha_hash field name as an alias for
// senha. Either way the value is hashed server-side before storage.
type RegisterRequest struct {
	Name       string `json:"nome"`
	Email      string `json:"email"`
	Password   string `json:"senha"`
	LegacyHash string `json:"senha_hash"`
}

func (r RegisterRequest) Secret() string {
	if r.Password != "" {
		return r.Password
	}
	return r.LegacyHash
}

type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"senha"`
	LegacyHash string `json:"senha_hash"`
}

func (r LoginRequest) Secret() string {
	if r.Password != "" {
		return r.Password
	}
	return r.LegacyHash
}

type Profile struct {
	Name  string `json:"nome"`
	Email string `json:"email"`
}
