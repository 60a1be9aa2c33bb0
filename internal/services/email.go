// Package services – email notifications.
//
// EmailSender is a narrow outbound port: account lifecycle events call it,
// nothing reads from it. The default LogSender writes the mail as a
// structured log record, which is what development and test environments
// want; a real SMTP sender can be dropped in without touching the services.
package services

import (
	"context"

	"github.com/rs/zerolog/log"
)

// EmailSender delivers account-related notifications.
type EmailSender interface {
	// SendAccountCreated notifies a newly registered address.
	SendAccountCreated(ctx context.Context, email string) error
	// SendPasswordReset delivers a password-reset token to the address.
	SendPasswordReset(ctx context.Context, email, token string) error
}

// LogSender is the default EmailSender: it emits each mail as a log record
// instead of delivering it.
type LogSender struct{}

// SendAccountCreated implements EmailSender.
func (LogSender) SendAccountCreated(ctx context.Context, email string) error {
	log.Ctx(ctx).Info().
		Str("to", email).
		Str("template", "account_created").
		Msg("email queued")
	return nil
}

// SendPasswordReset implements EmailSender.
func (LogSender) SendPasswordReset(ctx context.Context, email, token string) error {
	log.Ctx(ctx).Info().
		Str("to", email).
		Str("template", "password_reset").
		Msg("email queued")
	return nil
}
