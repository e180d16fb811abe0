package repository

import (
	"context"
	"database/sql"
	"time"

	"socialnet/internal/model"
)

// TokenRepo persists refresh tokens, one live row per user.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Replace stores the refresh token hash for a user, overwriting any
// previous row. The unique index on user_id turns the insert into a
// keyed replace, which is what makes rotation revoke the old value:
// after the write the superseded hash no longer exists to look up.
func (r *TokenRepo) Replace(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE token_hash=VALUES(token_hash), expires_at=VALUES(expires_at)`,
		userID, tokenHash, exp)
	return err
}

// GetByHash returns the stored refresh token row matching the hash.
// Expiry is checked by the caller so the "expired" and "unknown" cases
// can share one error surface.
func (r *TokenRepo) GetByHash(ctx context.Context, tokenHash string) (model.RefreshToken, error) {
	var t model.RefreshToken
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,token_hash,expires_at,created_at,updated_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// DeleteByUser removes the user's refresh token row, ending the session.
func (r *TokenRepo) DeleteByUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM refresh_tokens WHERE user_id=?", userID)
	return err
}
