package address

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bannugul/consumer-gateway/internal/session"
	"github.com/bannugul/consumer-gateway/internal/upstream"
	pkgerrors "github.com/bannugul/consumer-gateway/pkg/errors"
	"github.com/bannugul/consumer-gateway/pkg/logger"
)

type stubGateway struct {
	paths   []string
	respond func(method, path string, body any) (*upstream.Envelope, error)
}

func (s *stubGateway) do(method, path string, body any) (*upstream.Envelope, error) {
	s.paths = append(s.paths, path)
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

func testCtx() context.Context {
	return session.ContextWith(context.Background(), &session.Session{ID: "sess-1", UpstreamToken: "t"})
}

func newTestService(gw upstream.Gateway) *Service {
	return NewService(gw, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
}

func addressBook(records string) func(method, path string, body any) (*upstream.Envelope, error) {
	return func(method, path string, body any) (*upstream.Envelope, error) {
		if path == upstream.EndpointShowAddresses {
			return &upstream.Envelope{Records: json.RawMessage(records)}, nil
		}
		return &upstream.Envelope{}, nil
	}
}

func TestLoadPrefersServerActiveFlag(t *testing.T) {
	gw := &stubGateway{respond: addressBook(`[
		{"id": 1, "title": "Home", "address": "Street 1", "isActive": 0},
		{"id": 2, "title": "Office", "address": "Street 2", "isActive": 1}
	]`)}
	svc := newTestService(gw)
	ctx := testCtx()

	_, err := svc.Load(ctx)
	require.NoError(t, err)

	selected, ok := svc.Selected(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(2), selected.ID)
}

func TestLoadFallsBackToFirstAddress(t *testing.T) {
	gw := &stubGateway{respond: addressBook(`[
		{"id": 1, "title": "Home", "address": "Street 1", "isActive": 0},
		{"id": 2, "title": "Office", "address": "Street 2", "isActive": 0}
	]`)}
	svc := newTestService(gw)
	ctx := testCtx()

	_, err := svc.Load(ctx)
	require.NoError(t, err)

	selected, ok := svc.Selected(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(1), selected.ID)
}

func TestLoadCollapsesMultipleActives(t *testing.T) {
	gw := &stubGateway{respond: addressBook(`[
		{"id": 1, "title": "Home", "address": "Street 1", "isActive": 1},
		{"id": 2, "title": "Office", "address": "Street 2", "isActive": 1}
	]`)}
	svc := newTestService(gw)
	ctx := testCtx()

	addresses, err := svc.Load(ctx)
	require.NoError(t, err)

	active := 0
	for _, addr := range addresses {
		if bool(addr.IsActive) {
			active++
		}
	}
	assert.Equal(t, 1, active)
}

func TestSetActiveMovesSingleSelection(t *testing.T) {
	gw := &stubGateway{respond: addressBook(`[
		{"id": 1, "title": "Home", "address": "Street 1", "isActive": 1},
		{"id": 2, "title": "Office", "address": "Street 2", "isActive": 0}
	]`)}
	svc := newTestService(gw)
	ctx := testCtx()

	_, err := svc.Load(ctx)
	require.NoError(t, err)

	selected, err := svc.SetActive(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), selected.ID)

	addresses, _ := svc.List(ctx)
	active := 0
	for _, addr := range addresses {
		if bool(addr.IsActive) {
			active++
		}
	}
	assert.Equal(t, 1, active)
}

func TestSetActiveRollsBackOnFailure(t *testing.T) {
	fail := false
	gw := &stubGateway{}
	gw.respond = func(method, path string, body any) (*upstream.Envelope, error) {
		switch path {
		case upstream.EndpointShowAddresses:
			return &upstream.Envelope{Records: json.RawMessage(`[
				{"id": 1, "title": "Home", "address": "Street 1", "isActive": 1},
				{"id": 2, "title": "Office", "address": "Street 2", "isActive": 0}
			]`)}, nil
		case upstream.EndpointSetActiveAddress:
			if fail {
				return nil, pkgerrors.New(pkgerrors.CodeUpstream, "address not yours")
			}
		}
		return &upstream.Envelope{}, nil
	}
	svc := newTestService(gw)
	ctx := testCtx()

	_, err := svc.Load(ctx)
	require.NoError(t, err)

	fail = true
	_, err = svc.SetActive(ctx, 2)
	require.Error(t, err)

	selected, ok := svc.Selected(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(1), selected.ID, "selection restored from snapshot")
}

func TestSetActiveUnknownIDIsNotFound(t *testing.T) {
	gw := &stubGateway{respond: addressBook(`[{"id": 1, "title": "Home", "address": "Street 1", "isActive": 1}]`)}
	svc := newTestService(gw)
	ctx := testCtx()

	_, err := svc.Load(ctx)
	require.NoError(t, err)

	_, err = svc.SetActive(ctx, 99)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestAddSelectsNewestEntry(t *testing.T) {
	pages := [][]byte{
		[]byte(`[{"id": 1, "title": "Home", "address": "Street 1", "isActive": 1},
		         {"id": 5, "title": "Office", "address": "Street 9", "isActive": 0}]`),
	}
	gw := &stubGateway{}
	gw.respond = func(method, path string, body any) (*upstream.Envelope, error) {
		if path == upstream.EndpointShowAddresses {
			return &upstream.Envelope{Records: json.RawMessage(pages[0])}, nil
		}
		return &upstream.Envelope{}, nil
	}
	svc := newTestService(gw)
	ctx := testCtx()

	added, err := svc.Add(ctx, NewAddress{Title: "Office", Address: "Street 9", Location: "33.6,73.0"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), added.ID)
	assert.True(t, bool(added.IsActive))

	selected, ok := svc.Selected(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(5), selected.ID)
}

func TestAddValidatesBeforeNetwork(t *testing.T) {
	gw := &stubGateway{}
	svc := newTestService(gw)

	_, err := svc.Add(testCtx(), NewAddress{Title: "  ", Address: ""})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
	assert.Empty(t, gw.paths)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	gw := &stubGateway{}
	svc := newTestService(gw)

	err := svc.Delete(testCtx(), 1, false)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
	assert.Empty(t, gw.paths)
}

func TestDeleteSelectedClearsSelection(t *testing.T) {
	gw := &stubGateway{respond: addressBook(`[
		{"id": 1, "title": "Home", "address": "Street 1", "isActive": 1},
		{"id": 2, "title": "Office", "address": "Street 2", "isActive": 0}
	]`)}
	svc := newTestService(gw)
	ctx := testCtx()

	_, err := svc.Load(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 1, true))

	addresses, _ := svc.List(ctx)
	assert.Len(t, addresses, 1)
	_, ok := svc.Selected(ctx)
	assert.False(t, ok)
}
