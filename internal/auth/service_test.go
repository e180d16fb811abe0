package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"socialnet/internal/model"
)

// ----- in-memory stores -----

type memUsers struct {
	seq  uint64
	byID map[uint64]model.User
}

func newMemUsers() *memUsers { return &memUsers{byID: map[uint64]model.User{}} }

func (m *memUsers) Create(_ context.Context, email, hash, first, last string) (uint64, error) {
	m.seq++
	m.byID[m.seq] = model.User{
		ID: m.seq, Email: strings.ToLower(email), PasswordHash: hash,
		FirstName: first, LastName: last, Role: model.RoleUser,
	}
	return m.seq, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range m.byID {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (m *memUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (m *memUsers) UpdatePassword(_ context.Context, id uint64, hash string) error {
	u, ok := m.byID[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.PasswordHash = hash
	m.byID[id] = u
	return nil
}

type memTokens struct {
	byUser map[uint64]model.RefreshToken
}

func newMemTokens() *memTokens { return &memTokens{byUser: map[uint64]model.RefreshToken{}} }

func (m *memTokens) Replace(_ context.Context, userID uint64, hash string, exp time.Time) error {
	m.byUser[userID] = model.RefreshToken{UserID: userID, TokenHash: hash, ExpiresAt: exp}
	return nil
}

func (m *memTokens) GetByHash(_ context.Context, hash string) (model.RefreshToken, error) {
	for _, t := range m.byUser {
		if t.TokenHash == hash {
			return t, nil
		}
	}
	return model.RefreshToken{}, sql.ErrNoRows
}

func (m *memTokens) DeleteByUser(_ context.Context, userID uint64) error {
	delete(m.byUser, userID)
	return nil
}

type memResets struct {
	rows []model.PasswordResetToken
}

func (m *memResets) Create(_ context.Context, userID uint64, token string, exp time.Time) error {
	m.rows = append(m.rows, model.PasswordResetToken{
		ID: uint64(len(m.rows) + 1), UserID: userID, Token: token, ExpiresAt: exp,
	})
	return nil
}

func (m *memResets) GetByToken(_ context.Context, token string) (model.PasswordResetToken, error) {
	for _, r := range m.rows {
		if r.Token == token {
			return r, nil
		}
	}
	return model.PasswordResetToken{}, sql.ErrNoRows
}

type sentMail struct{ email, token string }

type memNotifier struct {
	sent []sentMail
	err  error
}

func (m *memNotifier) PasswordResetRequested(_ context.Context, email, token string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{email: email, token: token})
	return nil
}

// ----- helpers -----

type fixture struct {
	svc      *Service
	users    *memUsers
	tokens   *memTokens
	resets   *memResets
	notifier *memNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:    newMemUsers(),
		tokens:   newMemTokens(),
		resets:   &memResets{},
		notifier: &memNotifier{},
	}
	f.svc = NewService(Config{
		JWTSecret:          "test-secret",
		AccessTTL:          time.Hour,
		RefreshTTL:         72 * time.Hour,
		ResetTTL:           time.Hour,
		BcryptCost:         bcrypt.MinCost,
		MinPasswordEntropy: 40,
	}, f.users, f.tokens, f.resets, f.notifier)
	return f
}

const strongPassword = "correct-horse-battery-staple-91"

func (f *fixture) register(t *testing.T, email string) model.User {
	t.Helper()
	u, err := f.svc.Register(context.Background(), email, strongPassword, "Ada", "Lovelace")
	require.NoError(t, err)
	return u
}

// ----- tests -----

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.register(t, "ada@example.com")
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, model.RoleUser, u.Role)

	stored, err := f.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, strongPassword, stored.PasswordHash,
		"plaintext password must never be stored")

	_, err = f.svc.Register(ctx, "ada@example.com", strongPassword, "Ada", "Lovelace")
	assert.ErrorIs(t, err, ErrEmailExists)

	_, err = f.svc.Register(ctx, "weak@example.com", "abc", "A", "B")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestLoginUniformError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "ada@example.com")

	_, _, errWrongPassword := f.svc.Login(ctx, "ada@example.com", "not-the-password")
	_, _, errUnknownEmail := f.svc.Login(ctx, "nobody@example.com", strongPassword)

	// Unknown account and bad password must be indistinguishable.
	assert.ErrorIs(t, errWrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknownEmail, ErrInvalidCredentials)
	assert.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error())
}

func TestLoginIssuesTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "ada@example.com")

	got, pair, err := f.svc.Login(ctx, "ada@example.com", strongPassword)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.Len(t, pair.RefreshToken, 96)

	row, ok := f.tokens.byUser[u.ID]
	require.True(t, ok, "refresh token row must be stored")
	assert.NotEqual(t, pair.RefreshToken, row.TokenHash,
		"refresh token must be stored hashed")
}

func TestRefreshRotation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "ada@example.com")

	_, pair, err := f.svc.Login(ctx, "ada@example.com", strongPassword)
	require.NoError(t, err)

	_, rotated, err := f.svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The pre-rotation value was overwritten and must no longer resolve.
	_, _, err = f.svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// The rotated value still works.
	_, _, err = f.svc.Refresh(ctx, rotated.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "ada@example.com")

	_, pair, err := f.svc.Login(ctx, "ada@example.com", strongPassword)
	require.NoError(t, err)

	row := f.tokens.byUser[u.ID]
	row.ExpiresAt = time.Now().UTC().Add(-time.Minute)
	f.tokens.byUser[u.ID] = row

	_, _, err = f.svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefreshUnknownToken(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.svc.Refresh(context.Background(), "never-issued")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "ada@example.com")

	const newPassword = "engine-analytical-babbage-42"

	err := f.svc.ChangePassword(ctx, u.ID, "not-the-password", newPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, f.svc.ChangePassword(ctx, u.ID, strongPassword, newPassword))

	_, _, err = f.svc.Login(ctx, "ada@example.com", newPassword)
	assert.NoError(t, err, "new password must work immediately")
	_, _, err = f.svc.Login(ctx, "ada@example.com", strongPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials, "old password must stop working")

	err = f.svc.ChangePassword(ctx, 9999, strongPassword, newPassword)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestForgotPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "ada@example.com")

	// Unknown email: same nil result, nothing stored or sent.
	require.NoError(t, f.svc.ForgotPassword(ctx, "nobody@example.com"))
	assert.Empty(t, f.resets.rows)
	assert.Empty(t, f.notifier.sent)

	require.NoError(t, f.svc.ForgotPassword(ctx, "ada@example.com"))
	require.Len(t, f.resets.rows, 1)
	row := f.resets.rows[0]
	assert.Equal(t, u.ID, row.UserID)
	assert.Len(t, row.Token, 64)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "ada@example.com", f.notifier.sent[0].email)
	assert.Equal(t, row.Token, f.notifier.sent[0].token)

	// A second request piles up another token; earlier ones stay valid.
	require.NoError(t, f.svc.ForgotPassword(ctx, "ada@example.com"))
	assert.Len(t, f.resets.rows, 2)
}

func TestForgotPasswordSwallowsNotifierFailure(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("broker down")
	f.register(t, "ada@example.com")

	// Delivery failure must not surface to the caller.
	require.NoError(t, f.svc.ForgotPassword(context.Background(), "ada@example.com"))
	assert.Len(t, f.resets.rows, 1, "token is still created")
}

func TestResetPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "ada@example.com")

	require.NoError(t, f.svc.ForgotPassword(ctx, "ada@example.com"))
	token := f.resets.rows[0].Token

	const newPassword = "engine-analytical-babbage-42"
	require.NoError(t, f.svc.ResetPassword(ctx, token, newPassword))

	_, _, err := f.svc.Login(ctx, "ada@example.com", newPassword)
	assert.NoError(t, err)
	_, _, err = f.svc.Login(ctx, "ada@example.com", strongPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "ada@example.com")

	require.NoError(t, f.svc.ForgotPassword(ctx, "ada@example.com"))
	f.resets.rows[0].ExpiresAt = time.Now().UTC().Add(-time.Minute)

	// Correct token value, expired row: still rejected.
	err := f.svc.ResetPassword(ctx, f.resets.rows[0].Token, "engine-analytical-babbage-42")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestResetPasswordUnknownToken(t *testing.T) {
	f := newFixture(t)
	err := f.svc.ResetPassword(context.Background(), strings.Repeat("a", 64), "engine-analytical-babbage-42")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestResetPasswordUserVanished(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "ada@example.com")

	require.NoError(t, f.svc.ForgotPassword(ctx, "ada@example.com"))
	delete(f.users.byID, u.ID)

	err := f.svc.ResetPassword(ctx, f.resets.rows[0].Token, "engine-analytical-babbage-42")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "ada@example.com")

	_, pair, err := f.svc.Login(ctx, "ada@example.com", strongPassword)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, u.ID))
	_, _, err = f.svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}
