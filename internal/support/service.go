package support

import (
	"context"
	"strings"

	"github.com/bannugul/consumer-gateway/internal/upstream"
	pkgerrors "github.com/bannugul/consumer-gateway/pkg/errors"
	"github.com/bannugul/consumer-gateway/pkg/logger"
)

// ContactMessage is the contact form. It needs no session; anonymous
// visitors can write in too.
type ContactMessage struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Service forwards contact-form submissions upstream.
type Service struct {
	gateway upstream.Gateway
	logg    *logger.Logger
}

func NewService(gateway upstream.Gateway, logg *logger.Logger) *Service {
	return &Service{gateway: gateway, logg: logg}
}

// Submit validates and forwards a contact message.
func (s *Service) Submit(ctx context.Context, msg ContactMessage) error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Description = strings.TrimSpace(msg.Description)
	if msg.Name == "" || msg.Email == "" || msg.Description == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name, email and description are required")
	}

	if _, err := s.gateway.Post(ctx, upstream.EndpointContact, msg); err != nil {
		return err
	}
	s.logg.Info(ctx, "contact message forwarded")
	return nil
}
