package cart

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Item is one cart line as the storefront sees it. CartID is the upstream
// row id used for quantity updates and removal; it is zero for lines added
// locally until the next reload returns the assigned id.
type Item struct {
	CartID         int64           `json:"cart_id"`
	Key            string          `json:"key"`
	ProductID      int64           `json:"product_id"`
	VariationIDs   []int64         `json:"variation_ids,omitempty"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DisplayName    string          `json:"display_name"`
	Image          string          `json:"image,omitempty"`
	RestaurantID   int64           `json:"restaurant_id"`
	RestaurantName string          `json:"restaurant_name,omitempty"`
}

// LineTotal is quantity times unit price.
func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ItemKey derives the identity of a cart line. A product with no variations
// keys on its id alone; picking variations makes a distinct line, regardless
// of the order they were picked in.
func ItemKey(productID int64, variationIDs []int64) string {
	if len(variationIDs) == 0 {
		return strconv.FormatInt(productID, 10)
	}
	sorted := make([]int64, len(variationIDs))
	copy(sorted, variationIDs)
	sort.Slice(sorted, func(a, b int) bool { return sorted[a] < sorted[b] })

	parts := make([]string, 0, len(sorted)+1)
	parts = append(parts, strconv.FormatInt(productID, 10))
	for _, id := range sorted {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return parts[0] + ":" + strings.Join(parts[1:], "-")
}

// Totals are derived on every read, never stored.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DeliveryCharge decimal.Decimal `json:"delivery_charge"`
	Discount       decimal.Decimal `json:"discount"`
	Total          decimal.Decimal `json:"total"`
}

func totalsOf(items []Item, deliveryCharge, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	return Totals{
		Subtotal:       subtotal,
		DeliveryCharge: deliveryCharge,
		Discount:       discount,
		Total:          subtotal.Add(deliveryCharge).Sub(discount),
	}
}

// variationIDsFromField parses the upstream comma separated variation id
// string ("3,7,12"). Blank or junk segments are skipped.
func variationIDsFromField(raw string) []int64 {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id == 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func variationField(ids []int64) string {
	if len(ids) == 0 {
		return ""
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
