package model

import "time"

// User is a registered account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"` // Never serialize
	CreatedAt    time.Time `json:"created_at"`
}

// Ref returns the lightweight reference used when resolving a post's owner.
func (u *User) Ref() UserRef {
	return UserRef{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
	}
}

// UserRef identifies a user without exposing account details.
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
}

// Identity is the authenticated caller attached to a request by the auth middleware.
type Identity struct {
	UserID   string
	Username string
}
