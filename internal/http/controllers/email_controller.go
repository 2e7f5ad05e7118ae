package controllers

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/notibox/internal/email"
	httpx "github.com/dropDatabas3/notibox/internal/http"
	"github.com/dropDatabas3/notibox/internal/http/dto"
	"github.com/dropDatabas3/notibox/internal/service"
)

// EmailController maneja el endpoint de envío de emails.
type EmailController struct {
	emails *service.EmailService
}

func NewEmailController(emails *service.EmailService) *EmailController {
	return &EmailController{emails: emails}
}

// Send maneja POST /api/email/send
func (c *EmailController) Send(w http.ResponseWriter, r *http.Request) {
	apiKey := r.Header.Get("apiKey")
	if apiKey == "" {
		httpx.WriteFail(w, http.StatusBadRequest, "API key is required")
		return
	}

	var req dto.EmailRequest
	if !httpx.ReadJSON(w, r, &req) {
		return
	}
	if req.To == "" || req.Subject == "" {
		httpx.WriteFail(w, http.StatusBadRequest, "Recipient and subject are required")
		return
	}

	ok, err := c.emails.Send(r.Context(), apiKey, email.Message{
		To:      req.To,
		Subject: req.Subject,
		Body:    req.Body,
		IsHTML:  req.IsHTML,
		Cc:      req.Cc,
		Bcc:     req.Bcc,
	})
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			httpx.WriteFail(w, http.StatusBadRequest, verr.Message)
			return
		}
		httpx.WriteFail(w, http.StatusInternalServerError,
			"An unexpected error occurred. Please try again later.")
		return
	}
	if !ok {
		httpx.WriteJSON(w, http.StatusBadRequest,
			dto.FailData("Failed to send email. Check API key or daily limit", false))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, dto.OK("Email sent successfully", true))
}
