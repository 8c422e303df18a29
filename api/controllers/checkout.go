package controllers

import (
	"net/http"

	"github.com/bannugul/consumer-gateway/api/responses"
	"github.com/bannugul/consumer-gateway/api/validators"
	checkoutsvc "github.com/bannugul/consumer-gateway/internal/checkout"
	"github.com/bannugul/consumer-gateway/pkg/logger"
)

// CheckoutReview quotes the order before confirmation: cart lines, derived
// totals and the selected delivery address. Nothing is mutated.
func CheckoutReview(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quote, err := svc.Review(r.Context(), r.URL.Query().Get("voucher"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// CheckoutPlaceOrder places the order against the selected address and
// clears the cart on success.
func CheckoutPlaceOrder(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload placeOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		confirmation, err := svc.PlaceOrder(r.Context(), checkoutsvc.Request{
			PaymentMethod:       payload.PaymentMethod,
			Voucher:             payload.Voucher,
			SpecialInstructions: validators.SanitizeString(payload.SpecialInstructions, 500),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, confirmation)
	}
}

type placeOrderRequest struct {
	PaymentMethod       string `json:"payment_method" validate:"required"`
	Voucher             string `json:"voucher"`
	SpecialInstructions string `json:"special_instructions"`
}
