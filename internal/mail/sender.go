// Package mail sends transactional email over SMTP.
package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type Sender struct {
	dialer   *gomail.Dialer
	from     string
	resetURL string
}

// NewSender builds an SMTP sender. resetURL is the frontend page the
// reset token is appended to.
func NewSender(host string, port int, username, password, from, resetURL string) *Sender {
	return &Sender{
		dialer:   gomail.NewDialer(host, port, username, password),
		from:     from,
		resetURL: resetURL,
	}
}

// SendPasswordResetEmail delivers the reset link for the given token.
func (s *Sender) SendPasswordResetEmail(to, token string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Password reset request")
	m.SetBody("text/html", fmt.Sprintf(
		`<p>A password reset was requested for your account.</p>
<p><a href="%s?token=%s">Reset your password</a></p>
<p>The link expires in one hour. If you did not request this, ignore this email.</p>`,
		s.resetURL, token))

	return s.dialer.DialAndSend(m)
}
