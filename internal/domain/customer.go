package domain

import "time"

// AuthSession holds the platform-issued bearer token and the minimal user
// identity the storefront keeps. The token's remote expiry is not checked
// proactively; an expired token is discovered when an authenticated call
// fails with EUNAUTHORIZED.
type AuthSession struct {
	AccessToken string    `json:"access_token"`
	Email       string    `json:"email"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// Authenticated reports whether a session carries a token. Freshness is the
// platform's call, not ours.
func (s *AuthSession) Authenticated() bool {
	return s != nil && s.AccessToken != ""
}

// RegisterResult distinguishes the outcomes of register-then-login.
// Created without an established session means "account created, please sign
// in" - a success, not a failure.
type RegisterResult struct {
	Created            bool
	SessionEstablished bool
	Session            *AuthSession
	Message            string
}
