package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"employee-onboarding-backend/config"
	"employee-onboarding-backend/internal/domain"
)

// EmailService sends application status emails via SMTP
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	send      func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailService creates an email service from the SMTP configuration
func NewEmailService(cfg *config.Config) *EmailService {
	from := cfg.SMTPFromEmail
	if from == "" {
		from = cfg.SMTPUsername
	}
	return &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: from,
		send:      smtp.SendMail,
	}
}

var statusHeadlines = map[domain.ApplicationStatus]string{
	domain.ApplicationStatusUnderReview:      "Your application is under review",
	domain.ApplicationStatusDocumentsPending: "More documents are needed",
	domain.ApplicationStatusAccepted:         "Your application has been accepted",
	domain.ApplicationStatusRejected:         "Your application was not accepted",
	domain.ApplicationStatusCompleted:        "Your onboarding is complete",
}

type statusEmailData struct {
	Name      string
	Headline  string
	Status    string
	Reason    string
	PortalURL string
}

var statusEmailTemplate = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Headline}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0066cc; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .reason { background: white; padding: 15px; border-left: 4px solid #cc3300; margin-top: 10px; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>{{.Headline}}</h1>
        </div>
        <div class="content">
            <p>Hello {{.Name}},</p>
            <p>The status of your onboarding application is now <strong>{{.Status}}</strong>.</p>
            {{if .Reason}}<div class="reason">{{.Reason}}</div>{{end}}
            {{if .PortalURL}}<p><a href="{{.PortalURL}}">Open the onboarding portal</a></p>{{end}}
        </div>
        <div class="footer">
            <p>This is an automated message from the onboarding team.</p>
        </div>
    </div>
</body>
</html>`))

// SendStatusUpdate emails the candidate about a status change
func (s *EmailService) SendStatusUpdate(ctx context.Context, msg domain.StatusEmail) error {
	if !s.IsConfigured() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	headline, ok := statusHeadlines[msg.Status]
	if !ok {
		headline = "Your application status changed"
	}

	var body bytes.Buffer
	err := statusEmailTemplate.Execute(&body, statusEmailData{
		Name:      msg.CandidateName,
		Headline:  headline,
		Status:    strings.ReplaceAll(string(msg.Status), "_", " "),
		Reason:    msg.Reason,
		PortalURL: msg.PortalURL,
	})
	if err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	raw := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.fromEmail,
		msg.To,
		headline,
		body.String(),
	))

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := s.send(addr, auth, s.fromEmail, []string{msg.To}, raw); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}
