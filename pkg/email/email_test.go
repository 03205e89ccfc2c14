package email

import (
	"context"
	"net/smtp"
	"testing"

	"employee-onboarding-backend/config"
	"employee-onboarding-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendStatusUpdate(t *testing.T) {
	svc := NewEmailService(&config.Config{
		SMTPHost:      "smtp.example.com",
		SMTPPort:      "587",
		SMTPUsername:  "mailer",
		SMTPPassword:  "pw",
		SMTPFromEmail: "onboarding@example.com",
	})

	var gotTo []string
	var gotMsg string
	svc.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		assert.Equal(t, "smtp.example.com:587", addr)
		assert.Equal(t, "onboarding@example.com", from)
		gotTo = to
		gotMsg = string(msg)
		return nil
	}

	err := svc.SendStatusUpdate(context.Background(), domain.StatusEmail{
		To:            "asha@example.com",
		CandidateName: "Asha",
		Status:        domain.ApplicationStatusRejected,
		Reason:        "Incomplete Information",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"asha@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Your application was not accepted")
	assert.Contains(t, gotMsg, "Incomplete Information")
}

func TestSendStatusUpdate_Unconfigured(t *testing.T) {
	svc := NewEmailService(&config.Config{})
	svc.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send must not be called without SMTP credentials")
		return nil
	}
	assert.NoError(t, svc.SendStatusUpdate(context.Background(), domain.StatusEmail{To: "x@example.com"}))
}
