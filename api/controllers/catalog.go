package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bannugul/consumer-gateway/api/responses"
	"github.com/bannugul/consumer-gateway/api/validators"
	catalogsvc "github.com/bannugul/consumer-gateway/internal/catalog"
	"github.com/bannugul/consumer-gateway/pkg/logger"
)

// RestaurantList returns all open storefront listings.
func RestaurantList(svc *catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		restaurants, err := svc.Restaurants(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, restaurantListResponse{Restaurants: restaurants})
	}
}

type restaurantListResponse struct {
	Restaurants []catalogsvc.Restaurant `json:"restaurants"`
}

// RestaurantDetail returns one restaurant listing.
func RestaurantDetail(svc *catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLID(chi.URLParam(r, "restaurantId"), "restaurant id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurant, err := svc.Restaurant(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, restaurant)
	}
}

// RestaurantMenu returns the restaurant's menu grouped by category.
func RestaurantMenu(svc *catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLID(chi.URLParam(r, "restaurantId"), "restaurant id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		menu, err := svc.Menu(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, menuResponse{Categories: menu})
	}
}

type menuResponse struct {
	Categories []catalogsvc.MenuCategory `json:"categories"`
}

// RestaurantReviews returns reviews with the aggregate rating.
func RestaurantReviews(svc *catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLID(chi.URLParam(r, "restaurantId"), "restaurant id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Reviews(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// ProductDetail returns one product with its variation groups.
func ProductDetail(svc *catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLID(chi.URLParam(r, "productId"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.ProductByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// RestaurantSearch searches restaurants by title. A blank query returns an
// empty list without an upstream round trip.
func RestaurantSearch(svc *catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results, err := svc.Search(r.Context(), r.URL.Query().Get("title"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, restaurantListResponse{Restaurants: results})
	}
}

// HomeSliders returns the home-page banner carousel.
func HomeSliders(svc *catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sliders, err := svc.Sliders(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sliderResponse{Sliders: sliders})
	}
}

type sliderResponse struct {
	Sliders []catalogsvc.Slider `json:"sliders"`
}

// CategoryList returns the global cuisine categories.
func CategoryList(svc *catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.Categories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categoryResponse{Categories: categories})
	}
}

type categoryResponse struct {
	Categories []catalogsvc.Category `json:"categories"`
}

// FavoriteList loads the session's favorite restaurant ids from upstream.
func FavoriteList(svc *catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := svc.LoadFavorites(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, favoriteResponse{RestaurantIDs: ids})
	}
}

type favoriteResponse struct {
	RestaurantIDs []int64 `json:"restaurant_ids"`
}

// FavoriteToggle flips a restaurant's favorite membership and reports the
// resulting state.
func FavoriteToggle(svc *catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLID(chi.URLParam(r, "restaurantId"), "restaurant id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		liked, err := svc.ToggleFavorite(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"favorite": liked})
	}
}
