// Package dto defines request and response shapes for the HTTP API.
package dto

// LoginRequest is the body of POST /auth/login.
// Only email and password participate in authentication; any other
// fields a client sends are ignored.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
