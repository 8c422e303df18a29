package checkout

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bannugul/consumer-gateway/internal/address"
	"github.com/bannugul/consumer-gateway/internal/cart"
	"github.com/bannugul/consumer-gateway/internal/session"
	"github.com/bannugul/consumer-gateway/internal/settings"
	"github.com/bannugul/consumer-gateway/internal/upstream"
	"github.com/bannugul/consumer-gateway/pkg/config"
	"github.com/bannugul/consumer-gateway/pkg/enums"
	pkgerrors "github.com/bannugul/consumer-gateway/pkg/errors"
	"github.com/bannugul/consumer-gateway/pkg/logger"
)

// Service drives the order placement flow: review the cart with totals,
// then place the order against the selected address and clear the cart.
// Preconditions (non-empty cart, selected address) are checked before any
// network call goes out.
type Service struct {
	gateway       upstream.Gateway
	carts         *cart.Service
	addresses     *address.Service
	settings      *settings.Service
	voucherCredit decimal.Decimal
	logg          *logger.Logger
}

func NewService(
	gateway upstream.Gateway,
	carts *cart.Service,
	addresses *address.Service,
	appSettings *settings.Service,
	cfg config.CheckoutConfig,
	logg *logger.Logger,
) *Service {
	credit, err := decimal.NewFromString(cfg.VoucherCredit)
	if err != nil {
		credit = decimal.Zero
	}
	return &Service{
		gateway:       gateway,
		carts:         carts,
		addresses:     addresses,
		settings:      appSettings,
		voucherCredit: credit,
		logg:          logg,
	}
}

// Request is the confirm step: payment method, optional voucher code and
// kitchen notes.
type Request struct {
	PaymentMethod       string `json:"payment_method"`
	Voucher             string `json:"voucher,omitempty"`
	SpecialInstructions string `json:"special_instructions,omitempty"`
}

// Quote is the review step: the cart with derived money totals.
type Quote struct {
	Items    []cart.Item      `json:"items"`
	Totals   cart.Totals      `json:"totals"`
	Currency string           `json:"currency"`
	Address  *address.Address `json:"address,omitempty"`
}

// Confirmation is the success step.
type Confirmation struct {
	OrderID int64       `json:"order_id"`
	Totals  cart.Totals `json:"totals"`
	Message string      `json:"message,omitempty"`
}

// discountFor applies the flat voucher credit when any code is present.
func (s *Service) discountFor(voucher string) decimal.Decimal {
	if strings.TrimSpace(voucher) == "" {
		return decimal.Zero
	}
	return s.voucherCredit
}

// Review assembles the cart, delivery charge and voucher discount into a
// quote. It never mutates anything.
func (s *Service) Review(ctx context.Context, voucher string) (*Quote, error) {
	items, err := s.carts.Items(ctx)
	if err != nil {
		return nil, err
	}

	appSettings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	totals, err := s.carts.Totals(ctx, appSettings.DeliveryCharges, s.discountFor(voucher))
	if err != nil {
		return nil, err
	}

	quote := &Quote{Items: items, Totals: totals, Currency: appSettings.Currency}
	if selected, ok := s.addresses.Selected(ctx); ok {
		quote.Address = &selected
	}
	return quote, nil
}

// PlaceOrder submits the order and empties the cart. The restaurant comes
// from the cart itself, which the cart service keeps single-restaurant.
func (s *Service) PlaceOrder(ctx context.Context, req Request) (*Confirmation, error) {
	method, err := enums.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method, cash only")
	}

	items, err := s.carts.Items(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}

	restaurantID, ok := s.carts.RestaurantID(ctx)
	if !ok || restaurantID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart has no restaurant")
	}

	selected, ok := s.addresses.Selected(ctx)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no delivery address selected")
	}

	sess, ok := session.FromContext(ctx)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session")
	}
	profile := sess.Profile()

	appSettings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := s.carts.Totals(ctx, appSettings.DeliveryCharges, s.discountFor(req.Voucher))
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"restaurant_id":        restaurantID,
		"address_id":           selected.ID,
		"name":                 profile.Name,
		"mobile_number":        profile.Phone,
		"address":              selected.Address,
		"gps_address":          selected.GPSAddress,
		"location":             selected.Location,
		"payment_method":       method.String(),
		"special_instructions": req.SpecialInstructions,
	}

	env, err := s.gateway.Post(ctx, upstream.EndpointAddOrder, payload)
	if err != nil {
		return nil, err
	}

	confirmation := &Confirmation{Totals: totals, Message: env.Message}
	var created struct {
		ID      int64 `json:"id"`
		OrderID int64 `json:"order_id"`
	}
	if ok, err := env.DecodeFirst(&created); err == nil && ok {
		confirmation.OrderID = created.ID
		if created.OrderID != 0 {
			confirmation.OrderID = created.OrderID
		}
	}

	// The order is placed; a failed cart clear must not fail the checkout.
	// The next cart reload reconciles.
	if err := s.carts.Clear(ctx); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "order_id", confirmation.OrderID),
			"cart clear after checkout failed")
	}

	s.logg.Info(s.logg.WithField(ctx, "order_id", confirmation.OrderID), "order placed")
	return confirmation, nil
}
