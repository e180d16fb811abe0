// Package auth implements the authentication core: registration, login,
// access/refresh token issuance and rotation, and the password reset
// lifecycle. The service holds no request state; all durable state lives
// behind the store interfaces, which the repository package implements
// over MySQL.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"socialnet/internal/model"
	"socialnet/internal/utils"
)

// UserStore is the slice of user persistence the auth service needs.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash, firstName, lastName string) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	UpdatePassword(ctx context.Context, id uint64, passwordHash string) error
}

// RefreshTokenStore persists the single live refresh token per user.
type RefreshTokenStore interface {
	Replace(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	GetByHash(ctx context.Context, tokenHash string) (model.RefreshToken, error)
	DeleteByUser(ctx context.Context, userID uint64) error
}

// ResetTokenStore persists password reset tokens.
type ResetTokenStore interface {
	Create(ctx context.Context, userID uint64, token string, exp time.Time) error
	GetByToken(ctx context.Context, token string) (model.PasswordResetToken, error)
}

// ResetNotifier delivers a reset token to the user out-of-band. The
// queue-backed implementation publishes an event consumed by the mail
// worker.
type ResetNotifier interface {
	PasswordResetRequested(ctx context.Context, email, token string) error
}

// Config carries the tunables of the auth core.
type Config struct {
	JWTSecret          string
	AccessTTL          time.Duration // default 1h
	RefreshTTL         time.Duration // default 72h
	ResetTTL           time.Duration // default 1h
	BcryptCost         int           // default 10
	MinPasswordEntropy float64       // bits, for go-password-validator
}

// TokenPair is returned by login and refresh.
type TokenPair struct {
	AccessToken  string
	AccessExp    time.Time
	RefreshToken string
	RefreshExp   time.Time
}

// Service composes the credential store, token service and reset flow.
type Service struct {
	cfg      Config
	users    UserStore
	tokens   RefreshTokenStore
	resets   ResetTokenStore
	notifier ResetNotifier
}

func NewService(cfg Config, users UserStore, tokens RefreshTokenStore, resets ResetTokenStore, notifier ResetNotifier) *Service {
	return &Service{cfg: cfg, users: users, tokens: tokens, resets: resets, notifier: notifier}
}

// Register creates a new account. Duplicate emails fail with
// ErrEmailExists; weak passwords fail with the validator's error.
func (s *Service) Register(ctx context.Context, email, password, firstName, lastName string) (model.User, error) {
	if err := utils.ValidatePasswordStrength(password, s.cfg.MinPasswordEntropy); err != nil {
		return model.User{}, fmt.Errorf("%w: %s", ErrWeakPassword, err)
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return model.User{}, ErrEmailExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return model.User{}, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := utils.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}
	id, err := s.users.Create(ctx, email, hash, firstName, lastName)
	if err != nil {
		return model.User{}, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return model.User{}, fmt.Errorf("load created user: %w", err)
	}
	return u, nil
}

// Login verifies credentials and issues a fresh token pair. Unknown
// email and wrong password share ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (model.User, TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, TokenPair{}, ErrInvalidCredentials
		}
		return model.User{}, TokenPair{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, TokenPair{}, ErrInvalidCredentials
	}
	pair, err := s.issueTokens(ctx, u)
	if err != nil {
		return model.User{}, TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh rotates the refresh token: the presented value must match the
// stored row and be unexpired, then both tokens are reissued and the
// stored row overwritten. A replayed pre-rotation value fails the lookup
// because its hash no longer exists.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (model.User, TokenPair, error) {
	row, err := s.tokens.GetByHash(ctx, utils.HashTokenRaw(refreshToken))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, TokenPair{}, ErrInvalidRefreshToken
		}
		return model.User{}, TokenPair{}, err
	}
	if time.Now().UTC().After(row.ExpiresAt) {
		return model.User{}, TokenPair{}, ErrInvalidRefreshToken
	}
	u, err := s.users.GetByID(ctx, row.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, TokenPair{}, ErrInvalidRefreshToken
		}
		return model.User{}, TokenPair{}, err
	}
	pair, err := s.issueTokens(ctx, u)
	if err != nil {
		return model.User{}, TokenPair{}, err
	}
	return u, pair, nil
}

// ChangePassword verifies the old password for the authenticated user
// and stores a hash of the new one.
func (s *Service) ChangePassword(ctx context.Context, userID uint64, oldPassword, newPassword string) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	if !utils.VerifyPassword(u.PasswordHash, oldPassword) {
		return ErrInvalidCredentials
	}
	if err := utils.ValidatePasswordStrength(newPassword, s.cfg.MinPasswordEntropy); err != nil {
		return fmt.Errorf("%w: %s", ErrWeakPassword, err)
	}
	hash, err := utils.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

// ForgotPassword creates a reset token for the account and hands it to
// the notifier. The caller always gets the same nil result whether or
// not the email exists, and notifier failures are logged but swallowed:
// the response must not reveal anything about delivery either.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}
	token, err := utils.RandomHex(32) // 64 hex chars
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	exp := time.Now().UTC().Add(s.cfg.ResetTTL)
	if err := s.resets.Create(ctx, u.ID, token, exp); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	if err := s.notifier.PasswordResetRequested(ctx, u.Email, token); err != nil {
		log.Printf("auth: reset notification for user %d failed: %v", u.ID, err)
	}
	return nil
}

// ResetPassword consumes a reset token and stores the new password.
// Outstanding sibling tokens stay valid until they expire; the retention
// job reaps them.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	row, err := s.resets.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInvalidResetToken
		}
		return err
	}
	if time.Now().UTC().After(row.ExpiresAt) {
		return ErrInvalidResetToken
	}
	if _, err := s.users.GetByID(ctx, row.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	if err := utils.ValidatePasswordStrength(newPassword, s.cfg.MinPasswordEntropy); err != nil {
		return fmt.Errorf("%w: %s", ErrWeakPassword, err)
	}
	hash, err := utils.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, row.UserID, hash)
}

// Logout drops the user's refresh token row, ending the session on all
// devices holding it.
func (s *Service) Logout(ctx context.Context, userID uint64) error {
	return s.tokens.DeleteByUser(ctx, userID)
}

// issueTokens builds a fresh access/refresh pair and replaces the user's
// stored refresh row. Concurrent calls for one user race read-then-write
// here; last write wins and earlier values stop resolving, which is the
// accepted behavior.
func (s *Service) issueTokens(ctx context.Context, u model.User) (TokenPair, error) {
	access, err := utils.NewAccessToken(s.cfg.JWTSecret, u.ID, u.Role, s.cfg.AccessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := utils.NewRefreshToken(s.cfg.RefreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}
	if err := s.tokens.Replace(ctx, u.ID, utils.HashTokenRaw(refresh.Raw), refresh.Exp); err != nil {
		return TokenPair{}, fmt.Errorf("store refresh token: %w", err)
	}
	return TokenPair{
		AccessToken:  access.Token,
		AccessExp:    access.Exp,
		RefreshToken: refresh.Raw,
		RefreshExp:   refresh.Exp,
	}, nil
}
