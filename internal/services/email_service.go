package services

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/gomail.v2"

	"careintake/internal/models"
)

// ErrMailUnconfigured is returned when SMTP credentials are absent.
var ErrMailUnconfigured = errors.New("email service not configured")

type EmailService interface {
	SendVerificationCode(email, code string) error
	SendApplication(recipient string, app *models.Application, attachments []*models.Attachment) error
	SendApplicantConfirmation(app *models.Application) error
}

type emailService struct {
	dialer     *gomail.Dialer
	from       string
	configured bool
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword string, smtpSecure bool, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	dialer.SSL = smtpSecure
	return &emailService{
		dialer:     dialer,
		from:       fromEmail,
		configured: smtpUser != "" && smtpPassword != "",
	}
}

func (s *emailService) newMessage(to, subject string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, "Job Applications")
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	return m
}

func (s *emailService) SendVerificationCode(email, code string) error {
	if !s.configured {
		return ErrMailUnconfigured
	}
	m := s.newMessage(email, "Your Verification Code")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2 style="color: #2563eb;">Job Application Verification</h2>
			<p>Your verification code is:</p>
			<div style="background-color: #f3f4f6; padding: 16px; text-align: center; margin: 16px 0; font-size: 24px; font-weight: bold;">%s</div>
			<p>This code expires in 15 minutes.</p>
		</div>
	`, code)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	return nil
}

func (s *emailService) SendApplication(recipient string, app *models.Application, attachments []*models.Attachment) error {
	if !s.configured {
		return ErrMailUnconfigured
	}
	subject := fmt.Sprintf("New Application: %s - %s", app.Position, app.Location)
	m := s.newMessage(recipient, subject)
	m.SetBody("text/html", buildHRBody(app))

	for _, a := range attachments {
		a := a
		m.Attach(a.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(a.Content)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}),
		)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send application email: %w", err)
	}

	return nil
}

func (s *emailService) SendApplicantConfirmation(app *models.Application) error {
	if !s.configured {
		return ErrMailUnconfigured
	}
	m := s.newMessage(app.Email, "Application Received")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2 style="color: #2563eb;">Application Received</h2>
			<p>Thank you for applying for the %s position at our %s office.</p>
			<p>We have received your application materials and will review them carefully. If your qualifications match our needs, we will contact you using the email address you provided.</p>
			<p style="margin-top: 30px;">Best regards,<br>The Hiring Team</p>
		</div>
	`, app.Position, app.Location)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}

	return nil
}

func buildHRBody(app *models.Application) string {
	phone := app.Phone
	if phone == "" {
		phone = "Not provided"
	}

	var checklist strings.Builder
	for _, slot := range models.DocumentSlots {
		mark := "✗"
		if app.Documents[slot] != nil {
			mark = "✓"
		}
		fmt.Fprintf(&checklist, "<li>%s %s</li>", mark, slot)
	}

	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2 style="color: #2563eb;">New Application Received</h2>
			<h3>%s - %s</h3>
			<div style="margin-top: 20px;">
				<h4>Candidate Details:</h4>
				<p><strong>Name:</strong> %s</p>
				<p><strong>Email:</strong> %s</p>
				<p><strong>Phone:</strong> %s</p>
			</div>
			<div style="margin-top: 20px;">
				<h4>Submitted Documents:</h4>
				<ul style="list-style: none; padding: 0;">%s</ul>
			</div>
		</div>
	`, app.Position, app.Location, app.FullName, app.Email, phone, checklist.String())
}
