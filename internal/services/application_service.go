package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"careintake/internal/models"
	"careintake/internal/pdf"
	"careintake/internal/repositories"
)

var ErrNotVerified = errors.New("email not verified")

type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "Missing fields: " + strings.Join(e.Fields, ", ")
}

type MissingDocumentsError struct {
	Slots []string
}

func (e *MissingDocumentsError) Error() string {
	return "Missing documents: " + strings.Join(e.Slots, ", ")
}

// ApplicationService is the submission gate: it forwards a payload to the
// right office's HR inbox only when the applicant's email holds a verified,
// unexpired entry.
type ApplicationService struct {
	Repo     *repositories.VerificationRepository
	Email    EmailService
	Offices  map[string]string
	Fallback string
	PDFGen   pdf.Generator
	Notifier *TelegramService
}

func NewApplicationService(
	repo *repositories.VerificationRepository,
	email EmailService,
	offices map[string]string,
	fallback string,
	pdfGen pdf.Generator,
	notifier *TelegramService,
) *ApplicationService {
	return &ApplicationService{
		Repo:     repo,
		Email:    email,
		Offices:  offices,
		Fallback: fallback,
		PDFGen:   pdfGen,
		Notifier: notifier,
	}
}

// Submit validates the payload, routes it to HR, confirms receipt to the
// applicant and clears the verification entry. On any delivery failure the
// entry stays so the applicant is not forced to re-verify; a retry after a
// partial failure may duplicate the HR mail (see log line below).
func (s *ApplicationService) Submit(app *models.Application) error {
	s.Repo.Sweep()

	entry := s.Repo.Get(app.Email)
	if entry == nil || !entry.Verified || time.Now().After(entry.ExpiresAt) {
		return ErrNotVerified
	}

	var missing []string
	if strings.TrimSpace(app.FullName) == "" {
		missing = append(missing, "fullName")
	}
	if strings.TrimSpace(app.Position) == "" {
		missing = append(missing, "position")
	}
	if strings.TrimSpace(app.Location) == "" {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}

	var missingDocs []string
	for _, slot := range models.RequiredDocumentSlots {
		if app.Documents[slot] == nil {
			missingDocs = append(missingDocs, slot)
		}
	}
	if len(missingDocs) > 0 {
		return &MissingDocumentsError{Slots: missingDocs}
	}

	recipient := s.Offices[app.Location]
	if recipient == "" {
		recipient = s.Fallback
	}

	attachments := s.buildAttachments(app)

	if err := s.Email.SendApplication(recipient, app, attachments); err != nil {
		return err
	}
	if err := s.Email.SendApplicantConfirmation(app); err != nil {
		// HR already has the mail; a retry will send it again
		log.Printf("[intake][submit] confirmation failed, HR mail already out email=%s: %v", app.Email, err)
		return err
	}

	s.Repo.Delete(app.Email)
	s.Notifier.NotifyApplication(app, recipient)
	log.Printf("[intake][submit] OK email=%s location=%q -> %s", app.Email, app.Location, recipient)
	return nil
}

// buildAttachments renames every submitted file to
// {fullName}_{slot}_{originalFilename} and appends the generated summary
// sheet. A summary failure only costs the sheet, never the submission.
func (s *ApplicationService) buildAttachments(app *models.Application) []*models.Attachment {
	var attachments []*models.Attachment
	for _, slot := range models.DocumentSlots {
		doc := app.Documents[slot]
		if doc == nil {
			continue
		}
		attachments = append(attachments, &models.Attachment{
			Slot:        slot,
			Filename:    fmt.Sprintf("%s_%s_%s", app.FullName, slot, doc.Filename),
			ContentType: doc.ContentType,
			Content:     doc.Content,
		})
	}

	if s.PDFGen == nil {
		return attachments
	}
	submitted := make(map[string]bool, len(app.Documents))
	for slot := range app.Documents {
		submitted[slot] = true
	}
	summary, err := s.PDFGen.Summary(pdf.SummaryData{
		FullName:   app.FullName,
		Email:      app.Email,
		Phone:      app.Phone,
		Position:   app.Position,
		Location:   app.Location,
		Slots:      models.DocumentSlots,
		Submitted:  submitted,
		ReceivedAt: time.Now(),
	})
	if err != nil {
		log.Printf("[intake][submit] summary pdf skipped email=%s: %v", app.Email, err)
		return attachments
	}
	return append(attachments, &models.Attachment{
		Slot:        "summary",
		Filename:    fmt.Sprintf("%s_summary.pdf", app.FullName),
		ContentType: "application/pdf",
		Content:     summary,
	})
}
