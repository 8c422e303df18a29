package catalog

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/bannugul/consumer-gateway/internal/session"
	"github.com/bannugul/consumer-gateway/internal/upstream"
	pkgerrors "github.com/bannugul/consumer-gateway/pkg/errors"
	"github.com/bannugul/consumer-gateway/pkg/logger"
	"github.com/bannugul/consumer-gateway/pkg/media"
	"github.com/bannugul/consumer-gateway/pkg/types"
)

// Restaurant is a storefront listing. Thumb and Image arrive as bare
// filenames and leave as absolute media URLs.
type Restaurant struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Address     string     `json:"address,omitempty"`
	Thumb       string     `json:"thumb,omitempty"`
	Image       string     `json:"image,omitempty"`
	IsOpen      types.Flag `json:"is_open"`
	Favorite    bool       `json:"favorite"`
}

// Variation is one selectable product option.
type Variation struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// VariationGroup bundles variations with the pick rules: Selection is the
// maximum number of picks and Required flags groups that need at least one.
type VariationGroup struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	Selection  int         `json:"selection"`
	Required   types.Flag  `json:"required"`
	Variations []Variation `json:"product_variations"`
}

// Product is a menu entry.
type Product struct {
	ID              int64            `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	Price           decimal.Decimal  `json:"price"`
	Image           string           `json:"image,omitempty"`
	RestaurantID    int64            `json:"restaurant_id"`
	VariationGroups []VariationGroup `json:"product_variation_groups,omitempty"`
}

// MenuCategory is one section of a restaurant menu.
type MenuCategory struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Products []Product `json:"products"`
}

// Review is one customer review of a restaurant.
type Review struct {
	ID       int64           `json:"id"`
	Rating   decimal.Decimal `json:"rating"`
	Comment  string          `json:"comment,omitempty"`
	UserName string          `json:"user_name,omitempty"`
}

// ReviewSummary pairs the review list with the aggregate the backend sends
// next to the envelope.
type ReviewSummary struct {
	AverageRating decimal.Decimal `json:"average_rating"`
	TotalReviews  int             `json:"total_reviews"`
	Reviews       []Review        `json:"reviews"`
}

// Slider is a home-page banner.
type Slider struct {
	ID    int64  `json:"id"`
	Title string `json:"title,omitempty"`
	Image string `json:"image"`
}

// Category is a global cuisine category.
type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// Service serves browse data and the favorites toggle. Favorites are
// mirrored per session as an optimistic set; a rejected toggle restores
// the previous membership.
type Service struct {
	gateway upstream.Gateway
	media   *media.Resolver
	logg    *logger.Logger

	mu        sync.RWMutex
	favorites map[string]map[int64]bool
}

func NewService(gateway upstream.Gateway, resolver *media.Resolver, logg *logger.Logger) *Service {
	return &Service{
		gateway:   gateway,
		media:     resolver,
		logg:      logg,
		favorites: make(map[string]map[int64]bool),
	}
}

// Restaurants lists all restaurants, favorite-flagged for the session.
func (s *Service) Restaurants(ctx context.Context) ([]Restaurant, error) {
	env, err := s.gateway.Get(ctx, upstream.EndpointShowRestaurants, nil)
	if err != nil {
		return nil, err
	}

	var restaurants []Restaurant
	if err := env.Decode(&restaurants); err != nil {
		return nil, err
	}

	favorites := s.favoriteSet(ctx)
	for i := range restaurants {
		restaurants[i].Thumb = s.media.RestaurantURL(restaurants[i].Thumb)
		restaurants[i].Image = s.media.RestaurantURL(restaurants[i].Image)
		restaurants[i].Favorite = favorites[restaurants[i].ID]
	}
	return restaurants, nil
}

// Restaurant returns one listing by id.
func (s *Service) Restaurant(ctx context.Context, id int64) (*Restaurant, error) {
	restaurants, err := s.Restaurants(ctx)
	if err != nil {
		return nil, err
	}
	for i := range restaurants {
		if restaurants[i].ID == id {
			return &restaurants[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
}

// Menu fetches a restaurant's menu categories with products and their
// variation groups.
func (s *Service) Menu(ctx context.Context, restaurantID int64) ([]MenuCategory, error) {
	if restaurantID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id is required")
	}

	query := url.Values{}
	query.Set("restaurant_id", strconv.FormatInt(restaurantID, 10))

	env, err := s.gateway.Get(ctx, upstream.EndpointShowRestaurantCategories, query)
	if err != nil {
		return nil, err
	}

	var categories []MenuCategory
	if err := env.Decode(&categories); err != nil {
		return nil, err
	}

	for i := range categories {
		for j := range categories[i].Products {
			categories[i].Products[j].Image = s.media.ProductURL(categories[i].Products[j].Image)
		}
	}
	return categories, nil
}

// ProductByID fetches one product with its variation groups.
func (s *Service) ProductByID(ctx context.Context, id int64) (*Product, error) {
	if id == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	query := url.Values{}
	query.Set("id", strconv.FormatInt(id, 10))

	env, err := s.gateway.Get(ctx, upstream.EndpointShowProductByID, query)
	if err != nil {
		return nil, err
	}

	var product Product
	found, err := env.DecodeFirst(&product)
	if err != nil {
		return nil, err
	}
	if !found || product.ID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	product.Image = s.media.ProductURL(product.Image)
	return &product, nil
}

// Reviews fetches a restaurant's reviews. The aggregate rides next to the
// envelope in a body-level restaurant object.
func (s *Service) Reviews(ctx context.Context, restaurantID int64) (*ReviewSummary, error) {
	if restaurantID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id is required")
	}

	query := url.Values{}
	query.Set("restaurant_id", strconv.FormatInt(restaurantID, 10))

	env, err := s.gateway.Get(ctx, upstream.EndpointShowRestaurantReviews, query)
	if err != nil {
		return nil, err
	}

	var body struct {
		Restaurant struct {
			AverageRating decimal.Decimal `json:"average_rating"`
			TotalReviews  int             `json:"total_reviews"`
		} `json:"restaurant"`
	}
	if err := env.DecodeBody(&body); err != nil {
		return nil, err
	}

	summary := &ReviewSummary{
		AverageRating: body.Restaurant.AverageRating,
		TotalReviews:  body.Restaurant.TotalReviews,
	}
	if err := env.Decode(&summary.Reviews); err != nil {
		return nil, err
	}
	return summary, nil
}

// Sliders fetches the home-page banners with resolved image URLs.
func (s *Service) Sliders(ctx context.Context) ([]Slider, error) {
	env, err := s.gateway.Get(ctx, upstream.EndpointGetSliders, nil)
	if err != nil {
		return nil, err
	}

	var sliders []Slider
	if err := env.Decode(&sliders); err != nil {
		return nil, err
	}
	for i := range sliders {
		sliders[i].Image = s.media.SliderURL(sliders[i].Image)
	}
	return sliders, nil
}

// Categories fetches the global cuisine categories.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	env, err := s.gateway.Get(ctx, upstream.EndpointGetCategories, nil)
	if err != nil {
		return nil, err
	}

	var categories []Category
	if err := env.Decode(&categories); err != nil {
		return nil, err
	}
	for i := range categories {
		categories[i].Image = s.media.CategoryURL(categories[i].Image)
	}
	return categories, nil
}

// Search runs the combined restaurant and product search.
func (s *Service) Search(ctx context.Context, title string) ([]Restaurant, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}

	query := url.Values{}
	query.Set("title", title)

	env, err := s.gateway.Get(ctx, upstream.EndpointSearchRestaurants, query)
	if err != nil {
		return nil, err
	}

	var restaurants []Restaurant
	if err := env.Decode(&restaurants); err != nil {
		return nil, err
	}
	for i := range restaurants {
		restaurants[i].Thumb = s.media.RestaurantURL(restaurants[i].Thumb)
		restaurants[i].Image = s.media.RestaurantURL(restaurants[i].Image)
	}
	return restaurants, nil
}

type favoriteRecord struct {
	Restaurant struct {
		ID int64 `json:"id"`
	} `json:"restaurant"`
}

// LoadFavorites refreshes the session's favorite set from upstream and
// returns the favored restaurant ids.
func (s *Service) LoadFavorites(ctx context.Context) ([]int64, error) {
	sessionID, ok := session.IDFromContext(ctx)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session")
	}

	env, err := s.gateway.Get(ctx, upstream.EndpointShowFavorites, nil)
	if err != nil {
		return nil, err
	}

	var records []favoriteRecord
	if err := env.Decode(&records); err != nil {
		return nil, err
	}

	set := make(map[int64]bool, len(records))
	ids := make([]int64, 0, len(records))
	for _, record := range records {
		if record.Restaurant.ID == 0 {
			continue
		}
		set[record.Restaurant.ID] = true
		ids = append(ids, record.Restaurant.ID)
	}

	s.mu.Lock()
	s.favorites[sessionID] = set
	s.mu.Unlock()

	return ids, nil
}

// ToggleFavorite flips a restaurant's favorite state optimistically and
// restores the previous state if upstream rejects the change. Returns the
// new liked state.
func (s *Service) ToggleFavorite(ctx context.Context, restaurantID int64) (bool, error) {
	sessionID, ok := session.IDFromContext(ctx)
	if !ok {
		return false, pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session")
	}
	if restaurantID == 0 {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id is required")
	}

	s.mu.Lock()
	set := s.favorites[sessionID]
	if set == nil {
		set = make(map[int64]bool)
		s.favorites[sessionID] = set
	}
	wasLiked := set[restaurantID]
	liked := !wasLiked
	set[restaurantID] = liked
	s.mu.Unlock()

	islike := "0"
	if liked {
		islike = "1"
	}
	payload := map[string]any{
		"restaurant_id": restaurantID,
		"islike":        islike,
	}
	if _, err := s.gateway.Post(ctx, upstream.EndpointAddFavorite, payload); err != nil {
		s.mu.Lock()
		s.favorites[sessionID][restaurantID] = wasLiked
		s.mu.Unlock()
		return wasLiked, err
	}
	return liked, nil
}

// Forget drops a session's favorite mirror, for logout.
func (s *Service) Forget(sessionID string) {
	s.mu.Lock()
	delete(s.favorites, sessionID)
	s.mu.Unlock()
}

func (s *Service) favoriteSet(ctx context.Context) map[int64]bool {
	sessionID, ok := session.IDFromContext(ctx)
	if !ok {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := make(map[int64]bool, len(s.favorites[sessionID]))
	for id, liked := range s.favorites[sessionID] {
		set[id] = liked
	}
	return set
}
