package controllers

import (
	"net/http"

	"github.com/bannugul/consumer-gateway/api/responses"
	settingssvc "github.com/bannugul/consumer-gateway/internal/settings"
	"github.com/bannugul/consumer-gateway/pkg/logger"
)

// SettingsShow returns the storefront configuration: delivery charge,
// currency and contact details.
func SettingsShow(svc *settingssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, settings)
	}
}
