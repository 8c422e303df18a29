package controllers

import (
	"net/http"

	"github.com/bannugul/consumer-gateway/api/responses"
	"github.com/bannugul/consumer-gateway/api/validators"
	authsvc "github.com/bannugul/consumer-gateway/internal/auth"
	"github.com/bannugul/consumer-gateway/internal/session"
	"github.com/bannugul/consumer-gateway/pkg/logger"
)

// AuthLogin authenticates with email or phone plus password and returns the
// gateway session token with the profile snapshot.
func AuthLogin(svc *authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), authsvc.Credentials{
			Email:    payload.Email,
			Phone:    payload.Phone,
			Password: payload.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"required"`
}

// AuthRegister creates a customer account. The client logs in afterwards;
// registration does not mint a session.
func AuthRegister(svc *authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload registerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Register(r.Context(), authsvc.Registration{
			Name:                 validators.SanitizeString(payload.Name, 120),
			Email:                payload.Email,
			Phone:                payload.Phone,
			Password:             payload.Password,
			PasswordConfirmation: payload.PasswordConfirmation,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"status": "registered"})
	}
}

type registerRequest struct {
	Name                 string `json:"name" validate:"required"`
	Email                string `json:"email" validate:"required,email"`
	Phone                string `json:"phone" validate:"required"`
	Password             string `json:"password" validate:"required,min=6"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required"`
}

// AuthForgotPassword triggers the reset-code email.
func AuthForgotPassword(svc *authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload forgotPasswordRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ForgotPassword(r.Context(), payload.Email); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "sent"})
	}
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// AuthResetPassword completes a forgot-password flow with the emailed code.
func AuthResetPassword(svc *authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload resetPasswordRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ResetPassword(r.Context(), authsvc.PasswordReset{
			Email:                payload.Email,
			Code:                 payload.Code,
			Password:             payload.Password,
			PasswordConfirmation: payload.PasswordConfirmation,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "reset"})
	}
}

type resetPasswordRequest struct {
	Email                string `json:"email" validate:"required,email"`
	Code                 string `json:"code" validate:"required"`
	Password             string `json:"password" validate:"required,min=6"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required"`
}

// AuthProfileUpdate edits the account and refreshes the stored snapshot.
func AuthProfileUpdate(svc *authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload profileUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.UpdateProfile(r.Context(), authsvc.ProfileUpdate{
			Name:  validators.SanitizeString(payload.Name, 120),
			Email: payload.Email,
			Phone: payload.Phone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

type profileUpdateRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
}

// AuthLogout deletes the gateway session. Safe to call twice.
// sessionMirror is any per-session in-memory mirror that must be dropped
// once the session ends.
type sessionMirror interface {
	Forget(sessionID string)
}

func AuthLogout(svc *authsvc.Service, logg *logger.Logger, mirrors ...sessionMirror) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Logout(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if sessionID, ok := session.IDFromContext(r.Context()); ok {
			for _, m := range mirrors {
				m.Forget(sessionID)
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}
