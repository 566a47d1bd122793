package mailing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMailer_NoHostIsNoop(t *testing.T) {
	m := NewMailer(MailConfig{})
	assert.IsType(t, noopMailer{}, m)
	assert.NoError(t, m.SendMail("anna@example.com", "hi", "body"))
}

func TestSMTPMailer_BadPort(t *testing.T) {
	m := NewMailer(MailConfig{SMTPHost: "smtp.example.com", SMTPPort: "not-a-port"})
	assert.Error(t, m.SendMail("anna@example.com", "hi", "body"))
}

func TestWelcomeMail_EscapesUsername(t *testing.T) {
	subject, body := WelcomeMail("http://localhost:8080", "<anna>")
	assert.Equal(t, "Welcome to Foodgram", subject)
	assert.Contains(t, body, "&lt;anna&gt;")
	assert.Contains(t, body, "http://localhost:8080")
}
