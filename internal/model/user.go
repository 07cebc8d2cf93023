// Package model defines domain entities for the application.
package model

import "time"

// User is a registered account that can receive anonymous messages.
// PasswordHash holds the argon2id PHC string and must never be serialized.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is a serializable projection of a User with no credential material.
type Profile struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// OwnProfile is the projection a user sees of themselves.
func (u *User) OwnProfile() Profile {
	updated := u.UpdatedAt
	return Profile{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: &updated,
	}
}

// PublicProfile is the projection shown to anonymous visitors.
// It omits the email, which doubles as the login identifier.
func (u *User) PublicProfile() Profile {
	return Profile{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}
