package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"careintake/internal/services"
)

type VerifyHandler struct {
	Verification *services.VerificationService
}

func NewVerifyHandler(s *services.VerificationService) *VerifyHandler {
	return &VerifyHandler{Verification: s}
}

// SendCode godoc
// @Summary      Send a verification code to an applicant's email
// @Tags         verification
// @Accept       json
// @Produce      json
// @Param        request  body  handlers.sendCodeRequest  true  "applicant email"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      429  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]interface{}
// @Router       /verification/send [post]
func (h *VerifyHandler) SendCode(c *gin.Context) {
	var req sendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid email is required"})
		return
	}

	if err := h.Verification.IssueCode(req.Email); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Valid email is required"})
		case errors.Is(err, services.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Please wait before requesting a new code"})
		case errors.Is(err, services.ErrMailUnconfigured):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Email service not configured"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send verification code"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ConfirmCode godoc
// @Summary      Confirm a verification code
// @Tags         verification
// @Accept       json
// @Produce      json
// @Param        request  body  handlers.confirmCodeRequest  true  "email and code"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      429  {object}  map[string]interface{}
// @Router       /verification/confirm [post]
func (h *VerifyHandler) ConfirmCode(c *gin.Context) {
	var req confirmCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Verification.VerifyCode(req.Email, req.Code); err != nil {
		switch {
		case errors.Is(err, services.ErrCodeNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No verification request found for this email"})
		case errors.Is(err, services.ErrCodeExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Verification code expired"})
		case errors.Is(err, services.ErrTooManyAttempts):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many attempts. Please request a new code."})
		case errors.Is(err, services.ErrCodeInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid verification code"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "confirmation failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "verified": true})
}

type sendCodeRequest struct {
	Email string `json:"email" binding:"required"`
}

type confirmCodeRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}
