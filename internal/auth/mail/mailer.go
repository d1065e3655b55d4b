// Package mail delivers login-code emails. The engine treats delivery as a
// fallible side effect: any error here triggers a challenge rollback upstream.
package mail

import "context"

// Mailer sends a plain-text email. Implementations must respect ctx so slow
// SMTP servers turn into a dispatch failure instead of a hung login request.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// MailerFunc adapts a function to the Mailer interface. Handy in tests.
type MailerFunc func(ctx context.Context, to, subject, body string) error

func (f MailerFunc) Send(ctx context.Context, to, subject, body string) error {
	return f(ctx, to, subject, body)
}
