package controllers

import (
	"net/http"

	"github.com/bannugul/consumer-gateway/api/responses"
	"github.com/bannugul/consumer-gateway/api/validators"
	supportsvc "github.com/bannugul/consumer-gateway/internal/support"
	"github.com/bannugul/consumer-gateway/pkg/logger"
)

// ContactSubmit forwards a contact-form message. No session required.
func ContactSubmit(svc *supportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload contactRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Submit(r.Context(), supportsvc.ContactMessage{
			Name:        validators.SanitizeString(payload.Name, 120),
			Email:       payload.Email,
			Phone:       payload.Phone,
			Title:       validators.SanitizeString(payload.Title, 200),
			Description: validators.SanitizeString(payload.Description, 2000),
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "sent"})
	}
}

type contactRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone"`
	Title       string `json:"title"`
	Description string `json:"description" validate:"required"`
}
