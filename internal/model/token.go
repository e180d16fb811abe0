package model

import "time"

// RefreshToken models the single row in `refresh_tokens` owned by a user.
// The table carries a unique index on user_id: issuing a new refresh token
// replaces the previous row, so at most one refresh token is live per user.
// The plain token value is never stored, only its SHA-256 hex digest.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token (unique).
//  TokenHash – SHA-256 hex digest of the opaque token value.
//  ExpiresAt – expiration timestamp of the token.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of the last replacement.
type RefreshToken struct {
	ID        uint64    // refresh_tokens.id
	UserID    uint64    // refresh_tokens.user_id
	TokenHash string    // refresh_tokens.token_hash
	ExpiresAt time.Time // refresh_tokens.expires_at
	CreatedAt time.Time // refresh_tokens.created_at
	UpdatedAt time.Time // refresh_tokens.updated_at
}

// PasswordResetToken models a row in `password_reset_tokens`.  Unlike
// refresh tokens, several outstanding reset tokens per user are allowed;
// a token is accepted while expires_at is in the future and is not
// removed when consumed.
type PasswordResetToken struct {
	ID        uint64    // password_reset_tokens.id
	UserID    uint64    // password_reset_tokens.user_id
	Token     string    // password_reset_tokens.token (64 hex chars)
	ExpiresAt time.Time // password_reset_tokens.expires_at
	CreatedAt time.Time // password_reset_tokens.created_at
}
