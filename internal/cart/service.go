package cart

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/bannugul/consumer-gateway/internal/session"
	"github.com/bannugul/consumer-gateway/internal/upstream"
	pkgerrors "github.com/bannugul/consumer-gateway/pkg/errors"
	"github.com/bannugul/consumer-gateway/pkg/logger"
)

// Product is the catalog data AddItem needs to build a cart line.
type Product struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Image        string          `json:"image,omitempty"`
	RestaurantID int64           `json:"restaurant_id"`
}

// Service mirrors each session's upstream cart. The backend is the source
// of truth; the mirror mutates only after an upstream call succeeds, and
// Reload replaces it wholesale. Rapid concurrent quantity changes on one
// line can still race upstream; Reload is the recovery path.
type Service struct {
	gateway upstream.Gateway
	logg    *logger.Logger

	mu      sync.RWMutex
	mirrors map[string][]Item
}

func NewService(gateway upstream.Gateway, logg *logger.Logger) *Service {
	return &Service{
		gateway: gateway,
		logg:    logg,
		mirrors: make(map[string][]Item),
	}
}

type cartRecord struct {
	ID         int64  `json:"id"`
	CartID     int64  `json:"cart_id"`
	ProductID  int64  `json:"product_id"`
	Quantity   int    `json:"quantity"`
	Variations string `json:"variations"`
	Product    struct {
		ID           int64           `json:"id"`
		Name         string          `json:"name"`
		Price        decimal.Decimal `json:"price"`
		Image        string          `json:"image"`
		RestaurantID int64           `json:"restaurant_id"`
		Restaurant   struct {
			Name string `json:"name"`
		} `json:"restaurant"`
	} `json:"product"`
}

// rowID prefers cart_id but falls back to id; the backend is inconsistent
// about which field carries the row id.
func (r cartRecord) rowID() int64 {
	if r.CartID != 0 {
		return r.CartID
	}
	return r.ID
}

func (r cartRecord) item() Item {
	variationIDs := variationIDsFromField(r.Variations)
	return Item{
		CartID:         r.rowID(),
		Key:            ItemKey(r.ProductID, variationIDs),
		ProductID:      r.ProductID,
		VariationIDs:   variationIDs,
		Quantity:       r.Quantity,
		UnitPrice:      r.Product.Price,
		DisplayName:    r.Product.Name,
		Image:          r.Product.Image,
		RestaurantID:   r.Product.RestaurantID,
		RestaurantName: r.Product.Restaurant.Name,
	}
}

func sessionIDOf(ctx context.Context) (string, error) {
	id, ok := session.IDFromContext(ctx)
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session")
	}
	return id, nil
}

// Reload fetches the upstream cart and replaces the local mirror.
func (s *Service) Reload(ctx context.Context) ([]Item, error) {
	sessionID, err := sessionIDOf(ctx)
	if err != nil {
		return nil, err
	}

	env, err := s.gateway.Get(ctx, upstream.EndpointShowCartProducts, nil)
	if err != nil {
		return nil, err
	}

	var records []cartRecord
	if err := env.Decode(&records); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(records))
	for _, record := range records {
		items = append(items, record.item())
	}

	s.mu.Lock()
	s.mirrors[sessionID] = items
	s.mu.Unlock()

	return s.Items(ctx)
}

// Items returns a copy of the session's mirror.
func (s *Service) Items(ctx context.Context) ([]Item, error) {
	sessionID, err := sessionIDOf(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Item(nil), s.mirrors[sessionID]...), nil
}

// RestaurantID reports which restaurant the cart currently belongs to.
func (s *Service) RestaurantID(ctx context.Context) (int64, bool) {
	sessionID, ok := session.IDFromContext(ctx)
	if !ok {
		return 0, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := s.mirrors[sessionID]
	if len(items) == 0 {
		return 0, false
	}
	return items[0].RestaurantID, true
}

// AddItem puts one unit of the product (with the chosen variations) in the
// cart. A line with the same identity key gets its quantity bumped instead.
// A cart only ever holds one restaurant; adding from another is rejected so
// the caller can offer to clear the cart first.
func (s *Service) AddItem(ctx context.Context, product Product, variationIDs []int64) (Item, error) {
	sessionID, err := sessionIDOf(ctx)
	if err != nil {
		return Item{}, err
	}
	if product.ID == 0 || product.RestaurantID == 0 {
		return Item{}, pkgerrors.New(pkgerrors.CodeValidation, "product id and restaurant id are required")
	}

	key := ItemKey(product.ID, variationIDs)

	s.mu.RLock()
	items := s.mirrors[sessionID]
	var existing *Item
	for i := range items {
		if items[i].Key == key {
			copied := items[i]
			existing = &copied
			break
		}
	}
	cartRestaurant := int64(0)
	if len(items) > 0 {
		cartRestaurant = items[0].RestaurantID
	}
	s.mu.RUnlock()

	if cartRestaurant != 0 && cartRestaurant != product.RestaurantID {
		return Item{}, pkgerrors.New(pkgerrors.CodeConflict,
			"cart holds items from another restaurant, clear it first").
			WithDetails(map[string]any{"cart_restaurant_id": cartRestaurant})
	}

	if existing != nil {
		return s.setQuantity(ctx, sessionID, *existing, existing.Quantity+1)
	}

	payload := map[string]any{
		"restaurant_id":        product.RestaurantID,
		"product_id":           product.ID,
		"quantity":             1,
		"special_instructions": "",
		"addons":               []int64{},
	}
	if field := variationField(variationIDs); field != "" {
		payload["variations"] = field
	}

	env, err := s.gateway.Post(ctx, upstream.EndpointAddToCart, payload)
	if err != nil {
		return Item{}, err
	}

	item := Item{
		Key:          key,
		ProductID:    product.ID,
		VariationIDs: append([]int64(nil), variationIDs...),
		Quantity:     1,
		UnitPrice:    product.Price,
		DisplayName:  product.Name,
		Image:        product.Image,
		RestaurantID: product.RestaurantID,
	}

	// The add response usually echoes the created row; pick up its id so
	// quantity changes work without a full reload.
	var created struct {
		ID     int64 `json:"id"`
		CartID int64 `json:"cart_id"`
	}
	if ok, err := env.DecodeFirst(&created); err == nil && ok {
		if created.CartID != 0 {
			item.CartID = created.CartID
		} else {
			item.CartID = created.ID
		}
	}

	s.mu.Lock()
	s.mirrors[sessionID] = append(s.mirrors[sessionID], item)
	s.mu.Unlock()

	return item, nil
}

// ChangeQuantity applies a delta to a line. Dropping to zero or below
// removes the line, so repeated decrements converge on the same end state.
func (s *Service) ChangeQuantity(ctx context.Context, key string, delta int) (Item, error) {
	sessionID, err := sessionIDOf(ctx)
	if err != nil {
		return Item{}, err
	}

	item, err := s.find(sessionID, key)
	if err != nil {
		return Item{}, err
	}

	next := item.Quantity + delta
	if next <= 0 {
		return Item{}, s.RemoveItem(ctx, key)
	}
	return s.setQuantity(ctx, sessionID, item, next)
}

func (s *Service) setQuantity(ctx context.Context, sessionID string, item Item, quantity int) (Item, error) {
	payload := map[string]any{
		"cart_id":  item.CartID,
		"quantity": quantity,
	}
	if _, err := s.gateway.Post(ctx, upstream.EndpointUpdateCartItem, payload); err != nil {
		return Item{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.mirrors[sessionID]
	for i := range items {
		if items[i].Key == item.Key {
			items[i].Quantity = quantity
			return items[i], nil
		}
	}
	// Line vanished between the remote call and the local mutation; the
	// next Reload settles it.
	item.Quantity = quantity
	return item, nil
}

// RemoveItem deletes the line upstream, then drops it from the mirror.
func (s *Service) RemoveItem(ctx context.Context, key string) error {
	sessionID, err := sessionIDOf(ctx)
	if err != nil {
		return err
	}

	item, err := s.find(sessionID, key)
	if err != nil {
		return err
	}

	payload := map[string]any{"cart_id": item.CartID}
	if _, err := s.gateway.Delete(ctx, upstream.EndpointRemoveFromCart, payload); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.mirrors[sessionID]
	kept := items[:0]
	for _, it := range items {
		if it.Key != key {
			kept = append(kept, it)
		}
	}
	s.mirrors[sessionID] = kept
	return nil
}

// Clear empties the cart upstream and resets the mirror.
func (s *Service) Clear(ctx context.Context) error {
	sessionID, err := sessionIDOf(ctx)
	if err != nil {
		return err
	}
	if _, err := s.gateway.Delete(ctx, upstream.EndpointEmptyCart, nil); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.mirrors, sessionID)
	s.mu.Unlock()
	return nil
}

// Totals derives the money view of the current mirror.
func (s *Service) Totals(ctx context.Context, deliveryCharge, discount decimal.Decimal) (Totals, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return Totals{}, err
	}
	return totalsOf(items, deliveryCharge, discount), nil
}

// Forget drops a session's mirror, for logout.
func (s *Service) Forget(sessionID string) {
	s.mu.Lock()
	delete(s.mirrors, sessionID)
	s.mu.Unlock()
}

func (s *Service) find(sessionID, key string) (Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.mirrors[sessionID] {
		if item.Key == key {
			return item, nil
		}
	}
	return Item{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
}
