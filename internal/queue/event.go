// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into outbound email.
package queue

// PasswordResetQueueName is the durable queue carrying reset events.
const PasswordResetQueueName = "password.reset.requested"

// PasswordResetRequestedEvent is published when a user asks for a
// password reset. The mail consumer delivers the token out-of-band; the
// HTTP request that produced the event never waits for delivery.
type PasswordResetRequestedEvent struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	RequestedAt string `json:"requested_at"`
}
