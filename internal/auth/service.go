package auth

import (
	"context"
	"strings"
	"time"

	"github.com/bannugul/consumer-gateway/internal/session"
	"github.com/bannugul/consumer-gateway/internal/upstream"
	pkgauth "github.com/bannugul/consumer-gateway/pkg/auth"
	"github.com/bannugul/consumer-gateway/pkg/config"
	pkgerrors "github.com/bannugul/consumer-gateway/pkg/errors"
	"github.com/bannugul/consumer-gateway/pkg/logger"
)

// The backend distinguishes manual/social logins and customer/merchant
// accounts; the storefront only ever sends these.
const (
	loginTypeManual  = "MANUAL"
	userTypeCustomer = "USER"
)

// Service handles login, registration and profile maintenance. Successful
// logins exchange the upstream bearer token for a gateway-signed session
// token; the upstream token never leaves the session store.
type Service struct {
	gateway  upstream.Gateway
	sessions *session.Store
	jwt      config.JWTConfig
	logg     *logger.Logger
}

func NewService(gateway upstream.Gateway, sessions *session.Store, jwt config.JWTConfig, logg *logger.Logger) *Service {
	return &Service{gateway: gateway, sessions: sessions, jwt: jwt, logg: logg}
}

// Credentials identify a customer by email or phone, exactly one of which
// must be set.
type Credentials struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Registration is the sign-up form.
type Registration struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Phone                string `json:"phone"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	ProfileImage         string `json:"profile_image,omitempty"`
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	ProfileImage string `json:"profile_image,omitempty"`
}

// PasswordReset completes a forgot-password flow with the emailed code.
type PasswordReset struct {
	Email                string `json:"email"`
	Code                 string `json:"code"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// LoginResult is what the storefront receives after a successful login.
type LoginResult struct {
	Token   string          `json:"token"`
	Profile session.Profile `json:"profile"`
}

type accountRecord struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Image string `json:"profile_image"`
}

func (r accountRecord) profile() session.Profile {
	return session.Profile{Name: r.Name, Email: r.Email, Phone: r.Phone, Image: r.Image}
}

// Login authenticates against the backend, persists a session row holding
// the upstream bearer token, and mints the gateway session token.
func (s *Service) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	creds.Phone = strings.TrimSpace(creds.Phone)
	if creds.Password == "" || (creds.Email == "" && creds.Phone == "") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email or phone and password are required")
	}

	endpoint := upstream.EndpointLoginEmail
	payload := map[string]string{
		"password":   creds.Password,
		"login_type": loginTypeManual,
		"user_type":  userTypeCustomer,
	}
	if creds.Email != "" {
		payload["email"] = creds.Email
	} else {
		endpoint = upstream.EndpointLoginPhone
		payload["phone"] = creds.Phone
	}

	env, err := s.gateway.Post(ctx, endpoint, payload)
	if err != nil {
		return nil, err
	}

	// The bearer token rides at the top level of the body, next to the
	// envelope fields, while records holds the account.
	var body struct {
		Token string `json:"token"`
	}
	if err := env.DecodeBody(&body); err != nil {
		return nil, err
	}
	if body.Token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, "login response carried no token")
	}

	var account accountRecord
	if _, err := env.DecodeFirst(&account); err != nil {
		return nil, err
	}

	sess := &session.Session{
		UserID:        account.ID,
		UpstreamToken: body.Token,
	}
	if err := sess.SetProfile(account.profile()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode profile snapshot")
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}

	signed, err := pkgauth.MintSessionToken(s.jwt, time.Now(), pkgauth.SessionTokenPayload{
		SessionID: sess.ID,
		UserID:    sess.UserID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token")
	}

	s.logg.Info(s.logg.WithSessionID(ctx, sess.ID), "customer logged in")
	return &LoginResult{Token: signed, Profile: account.profile()}, nil
}

// Register creates the account upstream. The storefront then logs in
// separately, matching the original flow.
func (s *Service) Register(ctx context.Context, reg Registration) error {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)
	switch {
	case reg.Name == "" || reg.Email == "" || reg.Phone == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "name, email and phone are required")
	case reg.Password == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	case reg.Password != reg.PasswordConfirmation:
		return pkgerrors.New(pkgerrors.CodeValidation, "passwords do not match")
	}

	payload := map[string]string{
		"name":                  reg.Name,
		"email":                 reg.Email,
		"phone":                 reg.Phone,
		"password":              reg.Password,
		"password_confirmation": reg.PasswordConfirmation,
		"login_type":            loginTypeManual,
		"user_type":             userTypeCustomer,
	}
	if reg.ProfileImage != "" {
		payload["profile_image"] = reg.ProfileImage
	}

	_, err := s.gateway.Post(ctx, upstream.EndpointRegister, payload)
	return err
}

// ForgotPassword asks the backend to email a reset code.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	_, err := s.gateway.Post(ctx, upstream.EndpointForgotPassword, map[string]string{"email": email})
	return err
}

// ResetPassword redeems the emailed code for a new password.
func (s *Service) ResetPassword(ctx context.Context, reset PasswordReset) error {
	switch {
	case strings.TrimSpace(reset.Email) == "" || reset.Code == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "email and code are required")
	case reset.Password == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	case reset.Password != reset.PasswordConfirmation:
		return pkgerrors.New(pkgerrors.CodeValidation, "passwords do not match")
	}
	_, err := s.gateway.Post(ctx, upstream.EndpointResetPassword, reset)
	return err
}

// UpdateProfile proxies the edit upstream and refreshes the stored snapshot
// so checkout keeps seeing current contact details.
func (s *Service) UpdateProfile(ctx context.Context, update ProfileUpdate) (session.Profile, error) {
	update.Name = strings.TrimSpace(update.Name)
	if update.Name == "" || update.Email == "" || update.Phone == "" {
		return session.Profile{}, pkgerrors.New(pkgerrors.CodeValidation, "name, email and phone are required")
	}

	if _, err := s.gateway.Post(ctx, upstream.EndpointUpdateProfile, update); err != nil {
		return session.Profile{}, err
	}

	profile := session.Profile{
		Name:  update.Name,
		Email: update.Email,
		Phone: update.Phone,
		Image: update.ProfileImage,
	}
	sessionID, ok := session.IDFromContext(ctx)
	if !ok {
		return session.Profile{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session")
	}
	if err := s.sessions.UpdateProfile(ctx, sessionID, profile); err != nil {
		return session.Profile{}, err
	}
	return profile, nil
}

// Logout discards the session row. The upstream token simply stops being
// used; the backend has no revocation endpoint.
func (s *Service) Logout(ctx context.Context) error {
	sessionID, ok := session.IDFromContext(ctx)
	if !ok {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}
