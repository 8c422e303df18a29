package session

import (
	"context"
	"testing"
	"time"

	"github.com/bannugul/consumer-gateway/pkg/config"
	"github.com/bannugul/consumer-gateway/pkg/db"
	pkgerrors "github.com/bannugul/consumer-gateway/pkg/errors"
)

func newTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	client, err := db.New(context.Background(), config.SessionConfig{DBPath: ":memory:"}, nil)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	store, err := NewStore(client, config.SessionConfig{TTL: ttl})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestStoreCreateAndFind(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	sess := &Session{UserID: 7, UpstreamToken: "token-abc"}
	if err := sess.SetProfile(Profile{Name: "Asad", Phone: "0300-1234567"}); err != nil {
		t.Fatalf("set profile: %v", err)
	}
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("create: %v", err)
	}
	if sess.ID == "" {
		t.Fatal("expected an id to be assigned")
	}

	found, err := store.Find(ctx, sess.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.UpstreamToken != "token-abc" {
		t.Fatalf("unexpected token %q", found.UpstreamToken)
	}
	if got := found.Profile(); got.Name != "Asad" || got.Phone != "0300-1234567" {
		t.Fatalf("unexpected profile %+v", got)
	}
}

func TestStoreCreateRequiresToken(t *testing.T) {
	store := newTestStore(t, time.Hour)
	err := store.Create(context.Background(), &Session{UserID: 1})
	if !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStoreFindUnknownSession(t *testing.T) {
	store := newTestStore(t, time.Hour)
	_, err := store.Find(context.Background(), "does-not-exist")
	if !pkgerrors.Is(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestStoreExpiredSessionIsRejected(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	sess := &Session{UserID: 2, UpstreamToken: "tok"}
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("create: %v", err)
	}
	// Force the row into the past.
	store.db.Model(&Session{}).Where("id = ?", sess.ID).
		Update("expires_at", time.Now().Add(-time.Minute))

	if _, err := store.Find(ctx, sess.ID); !pkgerrors.Is(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for expired session, got %v", err)
	}
}

func TestStoreUpdateProfile(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	sess := &Session{UserID: 3, UpstreamToken: "tok"}
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := store.UpdateProfile(ctx, sess.ID, Profile{Name: "Gul", Email: "gul@example.com"}); err != nil {
		t.Fatalf("update profile: %v", err)
	}

	found, err := store.Find(ctx, sess.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got := found.Profile(); got.Name != "Gul" || got.Email != "gul@example.com" {
		t.Fatalf("unexpected profile %+v", got)
	}
}

func TestStoreDeleteIsIdempotent(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	sess := &Session{UserID: 4, UpstreamToken: "tok"}
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("second delete must not fail: %v", err)
	}
	if _, err := store.Find(ctx, sess.ID); err == nil {
		t.Fatal("expected deleted session to be gone")
	}
}
