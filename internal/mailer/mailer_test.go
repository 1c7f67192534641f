package mailer

import (
	"context"
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendgridPrepare(t *testing.T) {
	svc := NewSendgrid("key", "Smart Collector", "no-reply@example.com").(*sendgridMailer)

	m := svc.prepare(Message{
		To:          mail.Address{Name: "Ana", Address: "ana@example.com"},
		Subject:     "Reset",
		TextContent: "link",
	})

	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "[Smart Collector] Reset", m.Personalizations[0].Subject)
	require.Len(t, m.Personalizations[0].To, 1)
	assert.Equal(t, "ana@example.com", m.Personalizations[0].To[0].Address)
	assert.Equal(t, "no-reply@example.com", m.From.Address)
	require.Len(t, m.Content, 1)
	assert.Equal(t, "text/plain", m.Content[0].Type)
}

func TestLogMailerNeverFails(t *testing.T) {
	err := NewLog().Send(context.Background(), Message{To: mail.Address{Address: "x@example.com"}})
	assert.NoError(t, err)
}
