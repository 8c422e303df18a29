package orders

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bannugul/consumer-gateway/internal/upstream"
	"github.com/bannugul/consumer-gateway/pkg/enums"
	pkgerrors "github.com/bannugul/consumer-gateway/pkg/errors"
	"github.com/bannugul/consumer-gateway/pkg/logger"
)

// Order is one placed order as the storefront sees it: the backend's status
// spelling is normalized to the fixed vocabulary, with the raw spelling kept
// for diagnostics. GrandTotal is derived, never trusted from upstream.
type Order struct {
	ID              int64             `json:"id"`
	Status          enums.OrderStatus `json:"status"`
	RawStatus       string            `json:"raw_status,omitempty"`
	StatusStep      int               `json:"status_step"`
	RestaurantName  string            `json:"restaurant_name,omitempty"`
	RestaurantThumb string            `json:"restaurant_thumb,omitempty"`
	TotalPrice      decimal.Decimal   `json:"total_price"`
	DeliveryCharge  decimal.Decimal   `json:"delivery_charge"`
	GrandTotal      decimal.Decimal   `json:"grand_total"`
	CreatedAt       string            `json:"created_at,omitempty"`
	Items           []Item            `json:"items,omitempty"`
}

// Item is one line of an order.
type Item struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// Filter narrows the order list. Zero values match everything.
type Filter struct {
	Status enums.OrderStatus
	Search string
}

// Service reads the order history and performs the one state transition the
// customer owns, cancelling a still-pending order. Every other transition
// is observed by refetching, never caused.
type Service struct {
	gateway upstream.Gateway
	logg    *logger.Logger
}

func NewService(gateway upstream.Gateway, logg *logger.Logger) *Service {
	return &Service{gateway: gateway, logg: logg}
}

type orderRecord struct {
	ID              int64           `json:"id"`
	Status          string          `json:"status"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	DeliveryCharges decimal.Decimal `json:"delivery_charges"`
	CreatedAt       string          `json:"created_at"`
	Restaurant      struct {
		Name  string `json:"name"`
		Thumb string `json:"thumb"`
	} `json:"restaurant"`
	OrderDetails []struct {
		Quantity int             `json:"quantity"`
		Price    decimal.Decimal `json:"price"`
		Product  struct {
			Name string `json:"name"`
		} `json:"product"`
	} `json:"order_details"`
}

// stepOf places a status on the forward delivery path, -1 for cancelled
// and unknown.
func stepOf(status enums.OrderStatus) int {
	if step, ok := status.StepIndex(); ok {
		return step
	}
	return -1
}

func (r orderRecord) order() Order {
	status := enums.NormalizeOrderStatus(r.Status)
	order := Order{
		ID:              r.ID,
		Status:          status,
		RawStatus:       r.Status,
		StatusStep:      stepOf(status),
		RestaurantName:  r.Restaurant.Name,
		RestaurantThumb: r.Restaurant.Thumb,
		TotalPrice:      r.TotalPrice,
		DeliveryCharge:  r.DeliveryCharges,
		GrandTotal:      r.TotalPrice.Add(r.DeliveryCharges),
		CreatedAt:       r.CreatedAt,
	}
	for _, line := range r.OrderDetails {
		order.Items = append(order.Items, Item{
			ProductName: line.Product.Name,
			Quantity:    line.Quantity,
			Price:       line.Price,
		})
	}
	return order
}

// List fetches the order history, newest ordering as upstream returns it.
func (s *Service) List(ctx context.Context, filter Filter) ([]Order, error) {
	env, err := s.gateway.Get(ctx, upstream.EndpointShowOrders, nil)
	if err != nil {
		return nil, err
	}

	var records []orderRecord
	if err := env.Decode(&records); err != nil {
		return nil, err
	}

	orders := make([]Order, 0, len(records))
	for _, record := range records {
		order := record.order()
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(order.RestaurantName), strings.ToLower(filter.Search)) {
			continue
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// Detail fetches one order with its lines.
func (s *Service) Detail(ctx context.Context, orderID int64) (*Order, error) {
	if orderID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	query := url.Values{}
	query.Set("order_id", strconv.FormatInt(orderID, 10))

	env, err := s.gateway.Get(ctx, upstream.EndpointShowOrderDetails, query)
	if err != nil {
		return nil, err
	}

	var record orderRecord
	found, err := env.DecodeFirst(&record)
	if err != nil {
		return nil, err
	}
	if !found || record.ID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	order := record.order()
	return &order, nil
}

// Cancel withdraws a pending order. The reason is mandatory and the current
// status is checked before anything goes upstream; only pending orders can
// be cancelled, everything else is terminal from the customer's side.
func (s *Service) Cancel(ctx context.Context, orderID int64, reason string) (*Order, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cancellation reason is required")
	}

	order, err := s.Detail(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanCancel() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			"only pending orders can be cancelled").
			WithDetails(map[string]any{"status": order.Status.String()})
	}

	payload := map[string]any{
		"order_id": orderID,
		"reason":   reason,
	}
	if _, err := s.gateway.Post(ctx, upstream.EndpointOrderCancelUser, payload); err != nil {
		return nil, err
	}

	order.Status = enums.OrderStatusCancelled
	order.StatusStep = stepOf(order.Status)
	s.logg.Info(s.logg.WithField(ctx, "order_id", orderID), "order cancelled by customer")
	return order, nil
}
