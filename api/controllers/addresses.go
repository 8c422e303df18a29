package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bannugul/consumer-gateway/api/responses"
	"github.com/bannugul/consumer-gateway/api/validators"
	addresssvc "github.com/bannugul/consumer-gateway/internal/address"
	"github.com/bannugul/consumer-gateway/pkg/logger"
)

// AddressList loads the session's address book from upstream.
func AddressList(svc *addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addresses, err := svc.Load(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, addressListResponse{Addresses: addresses})
	}
}

type addressListResponse struct {
	Addresses []addresssvc.Address `json:"addresses"`
}

// AddressAdd saves a new address and selects it.
func AddressAdd(svc *addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		added, err := svc.Add(r.Context(), addresssvc.NewAddress{
			Title:      validators.SanitizeString(payload.Title, 80),
			Address:    validators.SanitizeString(payload.Address, 255),
			GPSAddress: payload.GPSAddress,
			Location:   payload.Location,
			City:       payload.City,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, added)
	}
}

type addAddressRequest struct {
	Title      string `json:"title" validate:"required"`
	Address    string `json:"address" validate:"required"`
	GPSAddress string `json:"gps_address"`
	Location   string `json:"location" validate:"required"`
	City       string `json:"city"`
}

// AddressSetActive moves the delivery selection to the given address.
func AddressSetActive(svc *addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLID(chi.URLParam(r, "addressId"), "address id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		selected, err := svc.SetActive(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, selected)
	}
}

// AddressDelete removes an address. The client confirms the delete by
// sending confirm=true; without it nothing happens.
func AddressDelete(svc *addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLID(chi.URLParam(r, "addressId"), "address id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		confirm := r.URL.Query().Get("confirm") == "true"
		if err := svc.Delete(r.Context(), id, confirm); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
