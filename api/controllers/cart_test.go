package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	cartsvc "github.com/bannugul/consumer-gateway/internal/cart"
	"github.com/bannugul/consumer-gateway/internal/upstream"
)

func TestCartAddItemCreatesLine(t *testing.T) {
	gw := &stubGateway{respond: func(method, path string, body any) (*upstream.Envelope, error) {
		if path == upstream.EndpointAddToCart {
			return recordsEnvelope(t, []map[string]any{{"id": 501}}), nil
		}
		return &upstream.Envelope{}, nil
	}}
	svc := cartsvc.NewService(gw, testLogger())
	handler := CartAddItem(svc, testLogger())

	body := `{"product_id":11,"name":"Burger","price":"500","restaurant_id":3}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var item cartsvc.Item
	decodeData(t, rec.Body, &item)
	require.Equal(t, "11", item.Key)
	require.Equal(t, 1, item.Quantity)
	require.Equal(t, int64(501), item.CartID)
}

func TestCartAddItemRejectsBadPrice(t *testing.T) {
	gw := &stubGateway{}
	handler := CartAddItem(cartsvc.NewService(gw, testLogger()), testLogger())

	body := `{"product_id":11,"name":"Burger","price":"not-a-number","restaurant_id":3}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, gw.calls)
}

func TestCartAddItemSecondRestaurantConflicts(t *testing.T) {
	gw := &stubGateway{respond: func(method, path string, body any) (*upstream.Envelope, error) {
		return recordsEnvelope(t, []map[string]any{{"id": 501}}), nil
	}}
	svc := cartsvc.NewService(gw, testLogger())
	handler := CartAddItem(svc, testLogger())

	first := `{"product_id":11,"name":"Burger","price":"500","restaurant_id":3}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(first)))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	second := `{"product_id":40,"name":"Biryani","price":"700","restaurant_id":9}`
	req = withSession(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(second)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "cart_restaurant_id")
}

func TestCartShowRequiresSession(t *testing.T) {
	handler := CartShow(cartsvc.NewService(&stubGateway{}, testLogger()), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartRemoveUnknownKeyNotFound(t *testing.T) {
	handler := CartRemoveItem(cartsvc.NewService(&stubGateway{}, testLogger()), testLogger())

	req := withSession(httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items", strings.NewReader(`{"key":"999"}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
