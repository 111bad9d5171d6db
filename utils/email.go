package utils

import (
	"fmt"
	"net/smtp"

	"github.com/AhmadFauzanZW/wilopo-cargo/config"
)

type EmailService struct {
	config *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{config: cfg}
}

// SendEmail отправляет email через SMTP
func (s *EmailService) SendEmail(to, subject, body string) error {
	if s.config.SMTPHost == "" || s.config.SMTPUser == "" {
		return fmt.Errorf("SMTP not configured")
	}

	auth := smtp.PlainAuth("", s.config.SMTPUser, s.config.SMTPPassword, s.config.SMTPHost)

	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: text/html; charset=utf-8\r\n"+
		"\r\n"+
		"%s\r\n", to, subject, body))

	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.EmailFrom, []string{to}, msg)
}

// SendStatusUpdateEmail уведомляет о смене статуса отправления
func (s *EmailService) SendStatusUpdateEmail(to, userName, trackingNumber, newStatus, origin, destination string) error {
	subject := fmt.Sprintf("Shipment Update - %s", trackingNumber)
	body := fmt.Sprintf(`
		<h2>Shipment Status Update</h2>
		<p>Hello, <strong>%s</strong>!</p>
		<p>Your shipment <strong>%s</strong> has a new status: <strong>%s</strong></p>
		<table border="1" cellpadding="5" style="border-collapse: collapse;">
			<tr><td>Tracking Number</td><td>%s</td></tr>
			<tr><td>Origin</td><td>%s</td></tr>
			<tr><td>Destination</td><td>%s</td></tr>
			<tr><td>Current Status</td><td>%s</td></tr>
		</table>
		<p>Best regards,<br>Wilopo Cargo Team</p>
	`, userName, trackingNumber, newStatus, trackingNumber, origin, destination, newStatus)

	return s.SendEmail(to, subject, body)
}

// SendWelcomeEmail отправляется при регистрации
func (s *EmailService) SendWelcomeEmail(to, userName string) error {
	subject := "Welcome to Wilopo Cargo!"
	body := fmt.Sprintf(`
		<h2>Welcome to Wilopo Cargo!</h2>
		<p>Hello, <strong>%s</strong>!</p>
		<p>Thank you for registering. Start tracking your shipments now.</p>
		<p>Best regards,<br>Wilopo Cargo Team</p>
	`, userName)

	return s.SendEmail(to, subject, body)
}

// SendDocumentUploadedEmail уведомляет о новом документе по отправлению
func (s *EmailService) SendDocumentUploadedEmail(to, userName, trackingNumber, documentType string) error {
	subject := fmt.Sprintf("New Document Available - %s", trackingNumber)
	body := fmt.Sprintf(`
		<h2>New Document Available</h2>
		<p>Hello, <strong>%s</strong>!</p>
		<p>A new <strong>%s</strong> document has been uploaded for shipment <strong>%s</strong>.</p>
		<p>Best regards,<br>Wilopo Cargo Team</p>
	`, userName, documentType, trackingNumber)

	return s.SendEmail(to, subject, body)
}
