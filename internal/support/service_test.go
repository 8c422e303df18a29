package support

import (
	"context"
	"io"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bannugul/consumer-gateway/internal/upstream"
	pkgerrors "github.com/bannugul/consumer-gateway/pkg/errors"
	"github.com/bannugul/consumer-gateway/pkg/logger"
)

type stubGateway struct {
	paths []string
	body  any
}

func (s *stubGateway) Get(ctx context.Context, path string, query url.Values) (*upstream.Envelope, error) {
	s.paths = append(s.paths, path)
	return &upstream.Envelope{}, nil
}
func (s *stubGateway) Post(ctx context.Context, path string, body any) (*upstream.Envelope, error) {
	s.paths = append(s.paths, path)
	s.body = body
	return &upstream.Envelope{}, nil
}
func (s *stubGateway) Put(ctx context.Context, path string, body any) (*upstream.Envelope, error) {
	s.paths = append(s.paths, path)
	return &upstream.Envelope{}, nil
}
func (s *stubGateway) Delete(ctx context.Context, path string, body any) (*upstream.Envelope, error) {
	s.paths = append(s.paths, path)
	return &upstream.Envelope{}, nil
}

func TestSubmitForwardsMessage(t *testing.T) {
	gw := &stubGateway{}
	svc := NewService(gw, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))

	err := svc.Submit(context.Background(), ContactMessage{
		Name:        "Asad",
		Email:       "asad@example.com",
		Title:       "Late delivery",
		Description: "My order took two hours.",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{upstream.EndpointContact}, gw.paths)

	sent, ok := gw.body.(ContactMessage)
	require.True(t, ok)
	assert.Equal(t, "Late delivery", sent.Title)
}

func TestSubmitValidatesBeforeNetwork(t *testing.T) {
	gw := &stubGateway{}
	svc := NewService(gw, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))

	err := svc.Submit(context.Background(), ContactMessage{Name: "Asad"})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
	assert.Empty(t, gw.paths)
}
