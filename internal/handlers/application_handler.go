package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"careintake/internal/models"
	"careintake/internal/services"
)

const maxUploadSize = 5 << 20 // 5MB per file

// The form restricts uploads to .pdf/.doc/.docx; enforced again here since
// clients cannot be trusted with it.
var allowedContentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

type ApplicationHandler struct {
	Applications *services.ApplicationService
}

func NewApplicationHandler(s *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{Applications: s}
}

// Submit godoc
// @Summary      Submit a completed application with documents
// @Tags         applications
// @Accept       multipart/form-data
// @Produce      json
// @Param        fullName  formData  string  true   "full name"
// @Param        email     formData  string  true   "verified email"
// @Param        phone     formData  string  false  "phone"
// @Param        position  formData  string  true   "position applied for"
// @Param        location  formData  string  true   "office location"
// @Param        resume    formData  file    true   "resume"
// @Param        degree    formData  file    true   "degree"
// @Param        idProof   formData  file    true   "ID proof"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]interface{}
// @Router       /applications [post]
func (h *ApplicationHandler) Submit(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}

	app := &models.Application{
		FullName:  formValue(form, "fullName"),
		Email:     formValue(form, "email"),
		Phone:     formValue(form, "phone"),
		Position:  formValue(form, "position"),
		Location:  formValue(form, "location"),
		Documents: make(map[string]*models.Attachment),
	}

	for _, slot := range models.DocumentSlots {
		files := form.File[slot]
		if len(files) == 0 {
			continue
		}
		doc, err := readUpload(slot, files[0])
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		app.Documents[slot] = doc
	}

	if err := h.Applications.Submit(app); err != nil {
		var missingFields *services.MissingFieldsError
		var missingDocs *services.MissingDocumentsError
		switch {
		case errors.Is(err, services.ErrNotVerified):
			c.JSON(http.StatusForbidden, gin.H{"error": "Email not verified. Please complete verification first."})
		case errors.As(err, &missingFields), errors.As(err, &missingDocs):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrMailUnconfigured):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Email service not configured"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit application"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func readUpload(slot string, fh *multipart.FileHeader) (*models.Attachment, error) {
	if fh.Size > maxUploadSize {
		return nil, fmt.Errorf("File %s exceeds the 5MB limit", slot)
	}
	contentType := fh.Header.Get("Content-Type")
	if !allowedContentTypes[contentType] {
		return nil, fmt.Errorf("File %s: only PDF and Word documents are allowed", slot)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("File %s could not be read", slot)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("File %s could not be read", slot)
	}
	if len(content) > maxUploadSize {
		return nil, fmt.Errorf("File %s exceeds the 5MB limit", slot)
	}

	return &models.Attachment{
		Slot:        slot,
		Filename:    fh.Filename,
		ContentType: contentType,
		Content:     content,
	}, nil
}

func formValue(form *multipart.Form, key string) string {
	values := form.Value[key]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}
