// Package mailer delivers transactional email such as password-reset links.
package mailer

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"
)

// Message is a single outgoing email.
type Message struct {
	To          mail.Address
	Subject     string
	TextContent string
	HTMLContent string
}

// Mailer sends messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type sendgridMailer struct {
	key        string
	from       *sgmail.Email
	subjPrefix string
}

var _ Mailer = (*sendgridMailer)(nil)

// NewSendgrid returns a Mailer backed by the SendGrid v3 API.
func NewSendgrid(key, appName, fromEmail string) Mailer {
	return &sendgridMailer{
		key:        key,
		from:       sgmail.NewEmail(appName, fromEmail),
		subjPrefix: "[" + appName + "] ",
	}
}

func (svc *sendgridMailer) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = svc.subjPrefix + msg.Subject
	p.AddTos(sgmail.NewEmail(msg.To.Name, msg.To.Address))

	m := sgmail.NewV3Mail()
	m.SetFrom(svc.from)
	m.AddPersonalizations(p)

	m.AddContent(sgmail.NewContent("text/plain", msg.TextContent))
	if msg.HTMLContent != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTMLContent))
	}
	return m
}

func (svc *sendgridMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	req := sendgrid.GetRequest(svc.key, endpoint, host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(svc.prepare(msg))

	res, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

// logMailer writes messages to the application log instead of sending them.
type logMailer struct{}

// NewLog returns a Mailer for development setups without an API key.
func NewLog() Mailer { return logMailer{} }

func (logMailer) Send(_ context.Context, msg Message) error {
	logrus.WithFields(logrus.Fields{
		"to":      msg.To.Address,
		"subject": msg.Subject,
	}).Info(msg.TextContent)
	return nil
}
