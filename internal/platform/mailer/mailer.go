// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mailer provides outbound email delivery for the platform.

Its only production use is delivering signup confirmation codes. Delivery is
best-effort by design: a failed send is logged and surfaced to the caller,
but never rolls back the user record that triggered it.
*/
package mailer

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Mailer is the notification contract consumed by the identity service.
type Mailer interface {
	// Send delivers a plain-text message to a single recipient.
	Send(toAddress, subject, body string) error
}

// # SMTP Implementation

// SMTPMailer delivers mail through a single SMTP relay using PLAIN auth.
type SMTPMailer struct {
	host   string
	port   int
	user   string
	pass   string
	sender string
}

// NewSMTP constructs an [SMTPMailer] from relay settings.
func NewSMTP(host string, port int, user, pass, sender string) *SMTPMailer {
	return &SMTPMailer{
		host:   host,
		port:   port,
		user:   user,
		pass:   pass,
		sender: sender,
	}
}

// Send implements [Mailer] over SMTP.
func (mailer *SMTPMailer) Send(toAddress, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", mailer.host, mailer.port)

	var message strings.Builder
	message.WriteString("From: " + mailer.sender + "\r\n")
	message.WriteString("To: " + toAddress + "\r\n")
	message.WriteString("Subject: " + subject + "\r\n")
	message.WriteString("MIME-Version: 1.0\r\n")
	message.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	message.WriteString("\r\n")
	message.WriteString(body)

	auth := smtp.PlainAuth("", mailer.user, mailer.pass, mailer.host)
	if err := smtp.SendMail(addr, auth, mailer.sender, []string{toAddress}, []byte(message.String())); err != nil {
		return fmt.Errorf("mailer: smtp send failed: %w", err)
	}

	return nil
}

// # Development Implementation

// LogMailer writes outbound messages to the structured log instead of a relay.
// Used when no SMTP host is configured (local development, CI).
type LogMailer struct {
	logger *slog.Logger
}

// NewLog constructs a [LogMailer].
func NewLog(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send implements [Mailer] by logging the message.
func (mailer *LogMailer) Send(toAddress, subject, body string) error {
	mailer.logger.Info("mail_delivered_to_log",
		slog.String("to", toAddress),
		slog.String("subject", subject),
		slog.String("body", body),
	)
	return nil
}
