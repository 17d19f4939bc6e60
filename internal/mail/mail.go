// Package mail delivers account emails over SMTP.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/go-mail/mail/v2"
)

const sendAttempts = 3

// Sender delivers a composed message. *mail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*mail.Message) error
}

// Mailer renders account emails and sends them through an SMTP dialer.
type Mailer struct {
	sender      Sender
	from        string
	frontendURL string
}

// New creates a Mailer that dials the given SMTP server.
func New(host string, port int, username, password, from, frontendURL string) *Mailer {
	return NewWithSender(mail.NewDialer(host, port, username, password), from, frontendURL)
}

// NewWithSender creates a Mailer on top of an existing sender.
func NewWithSender(sender Sender, from, frontendURL string) *Mailer {
	return &Mailer{
		sender:      sender,
		from:        from,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

type templateData struct {
	Name string
	Link string
}

// SendConfirmation sends the account confirmation link.
func (m *Mailer) SendConfirmation(ctx context.Context, to, name, token string) error {
	return m.send(ctx, to, confirmationTmpl, templateData{
		Name: name,
		Link: m.frontendURL + "/confirm/" + token,
	})
}

// SendPasswordReset sends the password reset link.
func (m *Mailer) SendPasswordReset(ctx context.Context, to, name, token string) error {
	return m.send(ctx, to, resetTmpl, templateData{
		Name: name,
		Link: m.frontendURL + "/forgot-password/" + token,
	})
}

func (m *Mailer) send(ctx context.Context, to string, tmpl *template.Template, data any) error {
	var subject bytes.Buffer
	if err := tmpl.ExecuteTemplate(&subject, "subject", data); err != nil {
		return fmt.Errorf("render subject: %w", err)
	}
	var plainBody bytes.Buffer
	if err := tmpl.ExecuteTemplate(&plainBody, "plainBody", data); err != nil {
		return fmt.Errorf("render plain body: %w", err)
	}
	var htmlBody bytes.Buffer
	if err := tmpl.ExecuteTemplate(&htmlBody, "htmlBody", data); err != nil {
		return fmt.Errorf("render html body: %w", err)
	}

	msg := mail.NewMessage()
	msg.SetHeader("To", to)
	msg.SetHeader("From", m.from)
	msg.SetHeader("Subject", strings.TrimSpace(subject.String()))
	msg.SetBody("text/plain", plainBody.String())
	msg.AddAlternative("text/html", htmlBody.String())

	var err error
	for i := 0; i < sendAttempts; i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err = m.sender.DialAndSend(msg); err == nil {
			return nil
		}
	}
	return fmt.Errorf("send mail to %s: %w", to, err)
}
