package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/bannugul/consumer-gateway/internal/session"
	"github.com/bannugul/consumer-gateway/internal/upstream"
	pkgerrors "github.com/bannugul/consumer-gateway/pkg/errors"
	"github.com/bannugul/consumer-gateway/pkg/logger"
)

type call struct {
	method string
	path   string
	body   any
}

type stubGateway struct {
	calls   []call
	respond func(method, path string, body any) (*upstream.Envelope, error)
}

func (s *stubGateway) do(method, path string, body any) (*upstream.Envelope, error) {
	s.calls = append(s.calls, call{method: method, path: path, body: body})
	if s.respond != nil {
		return s.respond(method, path, body)
	}
	return &upstream.Envelope{}, nil
}

func (s *stubGateway) Get(ctx context.Context, path string, query url.Values) (*upstream.Envelope, error) {
	return s.do("GET", path, nil)
}
func (s *stubGateway) Post(ctx context.Context, path string, body any) (*upstream.Envelope, error) {
	return s.do("POST", path, body)
}
func (s *stubGateway) Put(ctx context.Context, path string, body any) (*upstream.Envelope, error) {
	return s.do("PUT", path, body)
}
func (s *stubGateway) Delete(ctx context.Context, path string, body any) (*upstream.Envelope, error) {
	return s.do("DELETE", path, body)
}

func recordsEnvelope(t *testing.T, records any) *upstream.Envelope {
	t.Helper()
	raw, err := json.Marshal(records)
	if err != nil {
		t.Fatalf("marshal records: %v", err)
	}
	return &upstream.Envelope{Records: raw}
}

// upstreamRejection mimics the error the gateway client produces when the
// backend sets the error flag inside a 200 body.
func upstreamRejection(message string) error {
	return pkgerrors.New(pkgerrors.CodeUpstream, message)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

// withSession injects a logged-in session the way the auth middleware would.
func withSession(r *http.Request) *http.Request {
	sess := &session.Session{ID: "sess-1", UserID: 7, UpstreamToken: "upstream-token"}
	_ = sess.SetProfile(session.Profile{Name: "Asha", Phone: "03001234567"})
	return r.WithContext(session.ContextWith(r.Context(), sess))
}

func priceOf(t *testing.T, v string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(v)
	if err != nil {
		t.Fatalf("parse price: %v", err)
	}
	return d
}

func decodeData(t *testing.T, body io.Reader, out any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}
