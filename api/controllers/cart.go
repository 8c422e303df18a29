package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/bannugul/consumer-gateway/api/responses"
	"github.com/bannugul/consumer-gateway/api/validators"
	cartsvc "github.com/bannugul/consumer-gateway/internal/cart"
	pkgerrors "github.com/bannugul/consumer-gateway/pkg/errors"
	"github.com/bannugul/consumer-gateway/pkg/logger"
)

// CartShow returns the session's cart mirror without touching upstream.
func CartShow(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Items(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartResponse{Items: items})
	}
}

// CartReload refetches the cart from upstream and replaces the mirror.
func CartReload(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Reload(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartResponse{Items: items})
	}
}

type cartResponse struct {
	Items []cartsvc.Item `json:"items"`
}

// CartAddItem adds one unit of a product, merging into an existing line
// when the product and variation picks match.
func CartAddItem(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		price, err := decimal.NewFromString(payload.Price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price"))
			return
		}

		item, err := svc.AddItem(r.Context(), cartsvc.Product{
			ID:           payload.ProductID,
			Name:         payload.Name,
			Price:        price,
			Image:        payload.Image,
			RestaurantID: payload.RestaurantID,
		}, payload.VariationIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

type addItemRequest struct {
	ProductID    int64   `json:"product_id" validate:"required,min=1"`
	Name         string  `json:"name" validate:"required"`
	Price        string  `json:"price" validate:"required"`
	Image        string  `json:"image"`
	RestaurantID int64   `json:"restaurant_id" validate:"required,min=1"`
	VariationIDs []int64 `json:"variation_ids"`
}

// CartChangeQuantity bumps a line by a signed delta. Dropping to zero or
// below removes the line.
func CartChangeQuantity(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload changeQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.ChangeQuantity(r.Context(), payload.Key, payload.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if item.Quantity == 0 {
			responses.WriteSuccess(w, map[string]string{"status": "removed"})
			return
		}
		responses.WriteSuccess(w, item)
	}
}

type changeQuantityRequest struct {
	Key   string `json:"key" validate:"required"`
	Delta int    `json:"delta" validate:"required"`
}

// CartRemoveItem deletes a line by its key.
func CartRemoveItem(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload removeItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveItem(r.Context(), payload.Key); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

type removeItemRequest struct {
	Key string `json:"key" validate:"required"`
}

// CartClear empties the cart upstream and locally.
func CartClear(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
