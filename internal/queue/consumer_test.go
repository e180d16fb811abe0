package queue

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	sent []PasswordResetRequestedEvent
	err  error
}

func (f *fakeMailer) SendPasswordResetEmail(to, token string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, PasswordResetRequestedEvent{Email: to, Token: token})
	return nil
}

func TestHandleMessage(t *testing.T) {
	m := &fakeMailer{}
	body, err := json.Marshal(PasswordResetRequestedEvent{
		Email:       "ada@example.com",
		Token:       "tok",
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	})
	require.NoError(t, err)

	require.NoError(t, handleMessage(body, m))
	require.Len(t, m.sent, 1)
	assert.Equal(t, "ada@example.com", m.sent[0].Email)
	assert.Equal(t, "tok", m.sent[0].Token)
}

func TestHandleMessageBadPayload(t *testing.T) {
	m := &fakeMailer{}
	assert.Error(t, handleMessage([]byte("not json"), m))
	assert.Empty(t, m.sent)
}

func TestHandleMessageMissingFields(t *testing.T) {
	m := &fakeMailer{}
	body, _ := json.Marshal(PasswordResetRequestedEvent{Email: "ada@example.com"})
	assert.Error(t, handleMessage(body, m))
	assert.Empty(t, m.sent)
}

func TestHandleMessageMailerFailure(t *testing.T) {
	m := &fakeMailer{err: errors.New("smtp down")}
	body, _ := json.Marshal(PasswordResetRequestedEvent{Email: "ada@example.com", Token: "tok"})
	assert.Error(t, handleMessage(body, m))
}
