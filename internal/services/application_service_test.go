package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"careintake/internal/config"
	"careintake/internal/models"
	"careintake/internal/pdf"
	"careintake/internal/repositories"
)

const fallbackHR = "hr@batp.org"

func newApplicationFixture() (*ApplicationService, *repositories.VerificationRepository, *fakeEmailService) {
	repo := repositories.NewVerificationRepository()
	fake := newFakeEmailService()
	svc := NewApplicationService(repo, fake, config.DefaultOffices, fallbackHR, nil, nil)
	return svc, repo, fake
}

func markVerified(repo *repositories.VerificationRepository, email string) {
	now := time.Now()
	repo.Set(&models.VerificationEntry{
		Email:     email,
		CodeHash:  "hash",
		SentAt:    now,
		ExpiresAt: now.Add(15 * time.Minute),
		Verified:  true,
	})
}

func completeApplication(email string) *models.Application {
	docs := make(map[string]*models.Attachment)
	for _, slot := range models.RequiredDocumentSlots {
		docs[slot] = &models.Attachment{
			Slot:        slot,
			Filename:    slot + ".pdf",
			ContentType: "application/pdf",
			Content:     []byte("%PDF-1.4 test"),
		}
	}
	return &models.Application{
		FullName:  "Jane Doe",
		Email:     email,
		Position:  "Behavior Technician",
		Location:  "Philadelphia Office",
		Documents: docs,
	}
}

func TestSubmitRequiresVerification(t *testing.T) {
	svc, repo, fake := newApplicationFixture()

	// no entry at all
	require.ErrorIs(t, svc.Submit(completeApplication("a@x.com")), ErrNotVerified)

	// entry exists but the code was never confirmed
	now := time.Now()
	repo.Set(&models.VerificationEntry{
		Email:     "a@x.com",
		CodeHash:  "hash",
		SentAt:    now,
		ExpiresAt: now.Add(15 * time.Minute),
	})
	require.ErrorIs(t, svc.Submit(completeApplication("a@x.com")), ErrNotVerified)
	require.Empty(t, fake.hrRecipients)
}

func TestSubmitExpiredVerificationLooksUnverified(t *testing.T) {
	svc, repo, _ := newApplicationFixture()
	markVerified(repo, "a@x.com")
	entry := repo.Get("a@x.com")
	entry.ExpiresAt = time.Now().Add(-time.Second)
	repo.Set(entry)

	require.ErrorIs(t, svc.Submit(completeApplication("a@x.com")), ErrNotVerified)
	require.Nil(t, repo.Get("a@x.com"))
}

func TestSubmitMissingFields(t *testing.T) {
	svc, repo, _ := newApplicationFixture()
	markVerified(repo, "a@x.com")

	app := completeApplication("a@x.com")
	app.FullName = ""
	app.Position = "  "

	err := svc.Submit(app)
	var missing *MissingFieldsError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, []string{"fullName", "position"}, missing.Fields)
}

func TestSubmitMissingDocuments(t *testing.T) {
	svc, repo, _ := newApplicationFixture()
	markVerified(repo, "a@x.com")

	app := completeApplication("a@x.com")
	delete(app.Documents, "degree")
	delete(app.Documents, "idProof")

	err := svc.Submit(app)
	var missing *MissingDocumentsError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, []string{"degree", "idProof"}, missing.Slots)
}

func TestSubmitRoutesToOfficeAndClearsEntry(t *testing.T) {
	svc, repo, fake := newApplicationFixture()
	markVerified(repo, "a@x.com")

	require.NoError(t, svc.Submit(completeApplication("a@x.com")))

	require.Equal(t, []string{"samantha.power@batp.org"}, fake.hrRecipients)
	require.Equal(t, []string{"a@x.com"}, fake.confirmations)
	require.Nil(t, repo.Get("a@x.com"))
}

func TestSubmitUnknownLocationFallsBack(t *testing.T) {
	svc, repo, fake := newApplicationFixture()
	markVerified(repo, "a@x.com")

	app := completeApplication("a@x.com")
	app.Location = "Unknown Office"

	require.NoError(t, svc.Submit(app))
	require.Equal(t, []string{fallbackHR}, fake.hrRecipients)
}

func TestSubmitRenamesAttachmentsInSlotOrder(t *testing.T) {
	svc, repo, fake := newApplicationFixture()
	markVerified(repo, "a@x.com")

	app := completeApplication("a@x.com")
	app.Documents["other"] = &models.Attachment{
		Slot:        "other",
		Filename:    "cover letter.docx",
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Content:     []byte("docx"),
	}

	require.NoError(t, svc.Submit(app))
	require.Len(t, fake.hrAttachments, 1)

	var names []string
	for _, a := range fake.hrAttachments[0] {
		names = append(names, a.Filename)
	}
	require.Equal(t, []string{
		"Jane Doe_resume_resume.pdf",
		"Jane Doe_degree_degree.pdf",
		"Jane Doe_idProof_idProof.pdf",
		"Jane Doe_other_cover letter.docx",
	}, names)
}

func TestSubmitAttachesSummarySheet(t *testing.T) {
	repo := repositories.NewVerificationRepository()
	fake := newFakeEmailService()
	svc := NewApplicationService(repo, fake, config.DefaultOffices, fallbackHR, pdf.NewSummaryGenerator(), nil)
	markVerified(repo, "a@x.com")

	require.NoError(t, svc.Submit(completeApplication("a@x.com")))

	attachments := fake.hrAttachments[0]
	last := attachments[len(attachments)-1]
	require.Equal(t, "Jane Doe_summary.pdf", last.Filename)
	require.Equal(t, "application/pdf", last.ContentType)
	require.True(t, len(last.Content) > 4 && string(last.Content[:4]) == "%PDF")
}

func TestSubmitHRDeliveryFailureKeepsEntry(t *testing.T) {
	svc, repo, fake := newApplicationFixture()
	markVerified(repo, "a@x.com")
	fake.failApplication = errors.New("smtp down")

	require.Error(t, svc.Submit(completeApplication("a@x.com")))
	require.Empty(t, fake.confirmations)

	entry := repo.Get("a@x.com")
	require.NotNil(t, entry)
	require.True(t, entry.Verified)
}

func TestSubmitConfirmationFailureKeepsEntry(t *testing.T) {
	svc, repo, fake := newApplicationFixture()
	markVerified(repo, "a@x.com")
	fake.failConfirmation = errors.New("smtp down")

	require.Error(t, svc.Submit(completeApplication("a@x.com")))
	// HR mail already went out; retrying may duplicate it
	require.Len(t, fake.hrRecipients, 1)
	require.NotNil(t, repo.Get("a@x.com"))
}

func TestIntakeFlowEndToEnd(t *testing.T) {
	repo := repositories.NewVerificationRepository()
	fake := newFakeEmailService()
	verification := NewVerificationService(repo, fake)
	applications := NewApplicationService(repo, fake, config.DefaultOffices, fallbackHR, pdf.NewSummaryGenerator(), nil)

	require.NoError(t, verification.IssueCode("a@x.com"))
	require.NoError(t, verification.VerifyCode("a@x.com", fake.codes["a@x.com"]))
	require.NoError(t, applications.Submit(completeApplication("a@x.com")))

	require.Equal(t, []string{"samantha.power@batp.org"}, fake.hrRecipients)
	require.Equal(t, []string{"a@x.com"}, fake.confirmations)
	require.Equal(t, 0, repo.Count())

	// the flow is terminal: a new submission needs a fresh verification
	require.ErrorIs(t, applications.Submit(completeApplication("a@x.com")), ErrNotVerified)
}
