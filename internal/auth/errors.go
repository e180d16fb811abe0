package auth

import "errors"

// Sentinel errors returned by the Service. Handlers translate these
// into HTTP statuses exactly once, at the boundary.
var (
	// ErrEmailExists signals a duplicate registration (409).
	ErrEmailExists = errors.New("email already exists")
	// ErrInvalidCredentials covers both unknown email and wrong password
	// with a single message so responses cannot be used to enumerate
	// accounts (401).
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound signals the authenticated user no longer exists (404).
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidRefreshToken covers unknown, rotated-away and expired
	// refresh tokens (401).
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrInvalidResetToken covers unknown and expired reset tokens (401).
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	// ErrWeakPassword wraps the password-strength validator's message (400).
	ErrWeakPassword = errors.New("password too weak")
)
