package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"careintake/internal/models"
	"careintake/internal/repositories"
	"careintake/internal/services"
)

// fakeEmail records sends instead of dialing SMTP.
type fakeEmail struct {
	codes   map[string]string
	sendErr error
}

func newFakeEmail() *fakeEmail { return &fakeEmail{codes: make(map[string]string)} }

func (f *fakeEmail) SendVerificationCode(email, code string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.codes[email] = code
	return nil
}

func (f *fakeEmail) SendApplication(string, *models.Application, []*models.Attachment) error {
	return f.sendErr
}

func (f *fakeEmail) SendApplicantConfirmation(*models.Application) error {
	return f.sendErr
}

func newVerifyRouter() (*gin.Engine, *repositories.VerificationRepository, *fakeEmail) {
	gin.SetMode(gin.TestMode)
	repo := repositories.NewVerificationRepository()
	fake := newFakeEmail()
	h := NewVerifyHandler(services.NewVerificationService(repo, fake))

	r := gin.New()
	r.POST("/verification/send", h.SendCode)
	r.POST("/verification/confirm", h.ConfirmCode)
	return r, repo, fake
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSendCodeRejectsBadEmail(t *testing.T) {
	r, _, _ := newVerifyRouter()

	w := postJSON(t, r, "/verification/send", gin.H{"email": "not-an-email"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Valid email is required")

	w = postJSON(t, r, "/verification/send", gin.H{})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendCodeOKThenRateLimited(t *testing.T) {
	r, _, fake := newVerifyRouter()

	w := postJSON(t, r, "/verification/send", gin.H{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, fake.codes["a@x.com"])

	w = postJSON(t, r, "/verification/send", gin.H{"email": "a@x.com"})
	require.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestSendCodeUnconfiguredMailIsServerFault(t *testing.T) {
	r, _, fake := newVerifyRouter()
	fake.sendErr = services.ErrMailUnconfigured

	w := postJSON(t, r, "/verification/send", gin.H{"email": "a@x.com"})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "Email service not configured")
}

func TestConfirmCode(t *testing.T) {
	r, _, fake := newVerifyRouter()

	w := postJSON(t, r, "/verification/confirm", gin.H{"email": "a@x.com", "code": "123456"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "No verification request found")

	postJSON(t, r, "/verification/send", gin.H{"email": "a@x.com"})

	w = postJSON(t, r, "/verification/confirm", gin.H{"email": "a@x.com", "code": "000000"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Invalid verification code")

	w = postJSON(t, r, "/verification/confirm", gin.H{"email": "a@x.com", "code": fake.codes["a@x.com"]})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"verified":true`)
}
