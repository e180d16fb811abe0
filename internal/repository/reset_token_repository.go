package repository

import (
	"context"
	"database/sql"
	"time"

	"socialnet/internal/model"
)

// ResetTokenRepo persists password reset tokens. A user may hold several
// outstanding tokens at once; rows are only reaped by the retention job,
// never on consumption.
type ResetTokenRepo struct{ DB *sql.DB }

func NewResetTokenRepo(db *sql.DB) *ResetTokenRepo { return &ResetTokenRepo{DB: db} }

// Create inserts a reset token row for the user.
func (r *ResetTokenRepo) Create(ctx context.Context, userID uint64, token string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO password_reset_tokens (user_id, token, expires_at) VALUES (?,?,?)",
		userID, token, exp)
	return err
}

// GetByToken returns the row matching the exact token value.
func (r *ResetTokenRepo) GetByToken(ctx context.Context, token string) (model.PasswordResetToken, error) {
	var t model.PasswordResetToken
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,token,expires_at,created_at FROM password_reset_tokens WHERE token=? LIMIT 1",
		token).Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.CreatedAt)
	return t, err
}

// DeleteExpired removes rows whose expiry has passed, returning the
// number deleted. Called periodically from the server entry point.
func (r *ResetTokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM password_reset_tokens WHERE expires_at < UTC_TIMESTAMP()")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
