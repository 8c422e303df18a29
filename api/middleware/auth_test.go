package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bannugul/consumer-gateway/internal/session"
	pkgauth "github.com/bannugul/consumer-gateway/pkg/auth"
	"github.com/bannugul/consumer-gateway/pkg/config"
	"github.com/bannugul/consumer-gateway/pkg/db"
)

var testJWT = config.JWTConfig{Secret: "secret", Issuer: "gateway-test", ExpirationMinutes: 60}

func newTestStore(t *testing.T) *session.Store {
	t.Helper()
	client, err := db.New(context.Background(), config.SessionConfig{DBPath: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store, err := session.NewStore(client, config.SessionConfig{TTL: time.Hour})
	require.NoError(t, err)
	return store
}

func TestAuthRejectsMissingToken(t *testing.T) {
	handler := Auth(testJWT, newTestStore(t), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	handler := Auth(testJWT, newTestStore(t), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAuthRejectsTokenWithoutSessionRow(t *testing.T) {
	store := newTestStore(t)
	token, err := pkgauth.MintSessionToken(testJWT, time.Now(), pkgauth.SessionTokenPayload{SessionID: "missing", UserID: 7})
	require.NoError(t, err)

	handler := Auth(testJWT, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAuthSeedsSessionContext(t *testing.T) {
	store := newTestStore(t)

	sess := &session.Session{UserID: 7, UpstreamToken: "upstream-token"}
	require.NoError(t, sess.SetProfile(session.Profile{Name: "Asha", Phone: "03001234567"}))
	require.NoError(t, store.Create(context.Background(), sess))

	token, err := pkgauth.MintSessionToken(testJWT, time.Now(), pkgauth.SessionTokenPayload{SessionID: sess.ID, UserID: 7})
	require.NoError(t, err)

	var captured *session.Session
	handler := Auth(testJWT, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = session.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, captured)
	require.Equal(t, sess.ID, captured.ID)
	require.Equal(t, "upstream-token", captured.UpstreamToken)
	require.Equal(t, "Asha", captured.Profile().Name)
}
