package enums

import (
	"fmt"
	"strings"
)

// OrderStatus is the canonical client-side order lifecycle vocabulary. The
// backend spells statuses many ways; every spelling is normalized through an
// explicit table, and anything outside it becomes OrderStatusUnknown rather
// than being aliased to pending.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusAccepted   OrderStatus = "accepted"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusDispatched OrderStatus = "dispatched"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusUnknown    OrderStatus = "unknown"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusAccepted,
	OrderStatusProcessing,
	OrderStatusDispatched,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusUnknown,
}

// orderStatusSynonyms maps every backend spelling onto the canonical value.
// Canonical spellings map to themselves so the table alone decides the
// outcome of normalization.
var orderStatusSynonyms = map[string]OrderStatus{
	"pending":           OrderStatusPending,
	"accepted":          OrderStatusAccepted,
	"processing":        OrderStatusProcessing,
	"preparing":         OrderStatusProcessing,
	"dispatched":        OrderStatusDispatched,
	"ready_to_deliver":  OrderStatusDispatched,
	"delivered":         OrderStatusDelivered,
	"cancelled":         OrderStatusCancelled,
	"canceled":          OrderStatusCancelled,
	"cancelled_by_user": OrderStatusCancelled,
	"canceled_by_user":  OrderStatusCancelled,
}

// NormalizeOrderStatus is total: every input maps to a canonical status and
// unrecognized spellings come back as OrderStatusUnknown.
func NormalizeOrderStatus(raw string) OrderStatus {
	key := strings.ToLower(strings.TrimSpace(raw))
	if status, ok := orderStatusSynonyms[key]; ok {
		return status
	}
	return OrderStatusUnknown
}

// forwardPath is the observed happy path; cancelled and unknown sit outside it.
var forwardPath = []OrderStatus{
	OrderStatusPending,
	OrderStatusAccepted,
	OrderStatusProcessing,
	OrderStatusDispatched,
	OrderStatusDelivered,
}

// StepIndex returns the zero-based position of the status on the forward
// delivery path, for rendering step indicators. The second return is false
// for cancelled and unknown.
func (s OrderStatus) StepIndex() (int, bool) {
	for i, step := range forwardPath {
		if step == s {
			return i, true
		}
	}
	return 0, false
}

// IsTerminal reports whether the client will never observe another
// transition for the order.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanCancel reports whether a user-initiated cancellation is permitted.
func (s OrderStatus) CanCancel() bool {
	return s == OrderStatusPending
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus, accepting only
// canonical spellings. Use NormalizeOrderStatus for backend payloads.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
