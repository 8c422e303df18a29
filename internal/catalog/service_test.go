package catalog

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
	"github.com/bannugul/consumer-gateway/pkg/config"
	pkgerrors "github.com/bannugul/consumer-gateway/pkg/errors"
	"github.com/bannugul/consumer-gateway/pkg/logger"
	"github.com/bannugul/consumer-gateway/pkg/media"
)

type stubGateway struct {
	paths   []string
	queries []url.Values
	respond func(method, path string, query url.Values, body any) (*upstream.Envelope, error)
}

func (s *stubGateway) do(method, path string, query url.Values, body any) (*upstream.Envelope, error) {
	s.paths = append(s.paths, path)
	s.queries = append(s.queries, query)
	if s.respond != nil {
		return s.respond(method, path, query, body)
	}
	return &upstream.Envelope{}, nil
}

func (s *stubGateway) Get(ctx context.Context, path string, query url.Values) (*upstream.Envelope, error) {
	return s.do("GET", path, query, nil)
}
func (s *stubGateway) Post(ctx context.Context, path string, body any) (*upstream.Envelope, error) {
	return s.do("POST", path, nil, body)
}
func (s *stubGateway) Put(ctx context.Context, path string, body any) (*upstream.Envelope, error) {
	return s.do("PUT", path, nil, body)
}
func (s *stubGateway) Delete(ctx context.Context, path string, body any) (*upstream.Envelope, error) {
	return s.do("DELETE", path, nil, body)
}

func newTestService(gw upstream.Gateway) *Service {
	resolver := media.NewResolver(config.MediaConfig{BaseURL: "https://media.example.com/images"})
	return NewService(gw, resolver, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
}

func testCtx() context.Context {
	return session.ContextWith(context.Background(), &session.Session{ID: "sess-1", UpstreamToken: "t"})
}

func TestRestaurantsResolveMediaURLs(t *testing.T) {
	gw := &stubGateway{
		respond: func(method, path string, query url.Values, body any) (*upstream.Envelope, error) {
			return &upstream.Envelope{Records: json.RawMessage(`[
				{"id": 3, "name": "Bannu Gul", "thumb": "bannu.jpg"}
			]`)}, nil
		},
	}
	svc := newTestService(gw)

	restaurants, err := svc.Restaurants(testCtx())
	require.NoError(t, err)
	require.Len(t, restaurants, 1)
	assert.Equal(t, "https://media.example.com/images/restaurants/bannu.jpg", restaurants[0].Thumb)
}

func TestMenuDecodesVariationGroups(t *testing.T) {
	gw := &stubGateway{
		respond: func(method, path string, query url.Values, body any) (*upstream.Envelope, error) {
			assert.Equal(t, upstream.EndpointShowRestaurantCategories, path)
			assert.Equal(t, "3", query.Get("restaurant_id"))
			return &upstream.Envelope{Records: json.RawMessage(`[
				{"id": 1, "name": "Burgers", "products": [
					{"id": 11, "name": "Zinger", "price": 500, "restaurant_id": 3, "image": "zinger.jpg",
					 "product_variation_groups": [
						{"id": 9, "name": "Size", "selection": 1, "required": 1,
						 "product_variations": [{"id": 91, "name": "Large", "price": 100}]}
					 ]}
				]}
			]`)}, nil
		},
	}
	svc := newTestService(gw)

	menu, err := svc.Menu(testCtx(), 3)
	require.NoError(t, err)
	require.Len(t, menu, 1)
	require.Len(t, menu[0].Products, 1)

	product := menu[0].Products[0]
	assert.Equal(t, "https://media.example.com/images/products/zinger.jpg", product.Image)
	require.Len(t, product.VariationGroups, 1)
	group := product.VariationGroups[0]
	assert.Equal(t, 1, group.Selection)
	assert.True(t, bool(group.Required))
	require.Len(t, group.Variations, 1)
	assert.Equal(t, "Large", group.Variations[0].Name)
}

func TestReviewsReadBodyLevelAggregate(t *testing.T) {
	gw := &stubGateway{
		respond: func(method, path string, query url.Values, body any) (*upstream.Envelope, error) {
			raw := []byte(`{
				"error": false, "message": "",
				"restaurant": {"average_rating": "4.4", "total_reviews": 12},
				"records": [{"id": 1, "rating": 5, "comment": "great karahi"}]
			}`)
			env := &upstream.Envelope{}
			require.NoError(t, json.Unmarshal(raw, env))
			env.Raw = raw
			return env, nil
		},
	}
	svc := newTestService(gw)

	summary, err := svc.Reviews(testCtx(), 3)
	require.NoError(t, err)
	assert.Equal(t, "4.4", summary.AverageRating.String())
	assert.Equal(t, 12, summary.TotalReviews)
	require.Len(t, summary.Reviews, 1)
}

func TestSearchSkipsUpstreamOnBlankQuery(t *testing.T) {
	gw := &stubGateway{}
	svc := newTestService(gw)

	results, err := svc.Search(testCtx(), "   ")
	require.NoError(t, err)
	assert.Nil(t, results)
	assert.Empty(t, gw.paths)
}

func TestLoadFavoritesBuildsSet(t *testing.T) {
	gw := &stubGateway{
		respond: func(method, path string, query url.Values, body any) (*upstream.Envelope, error) {
			if path == upstream.EndpointShowFavorites {
				return &upstream.Envelope{Records: json.RawMessage(`[
					{"restaurant": {"id": 3}}, {"restaurant": {"id": 8}}
				]`)}, nil
			}
			return &upstream.Envelope{Records: json.RawMessage(`[
				{"id": 3, "name": "Bannu Gul"}, {"id": 5, "name": "Other"}
			]`)}, nil
		},
	}
	svc := newTestService(gw)
	ctx := testCtx()

	ids, err := svc.LoadFavorites(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{3, 8}, ids)

	restaurants, err := svc.Restaurants(ctx)
	require.NoError(t, err)
	assert.True(t, restaurants[0].Favorite)
	assert.False(t, restaurants[1].Favorite)
}

func TestToggleFavoriteOptimisticWithRollback(t *testing.T) {
	fail := false
	gw := &stubGateway{
		respond: func(method, path string, query url.Values, body any) (*upstream.Envelope, error) {
			if path == upstream.EndpointAddFavorite && fail {
				return nil, pkgerrors.New(pkgerrors.CodeUpstream, "not allowed")
			}
			return &upstream.Envelope{}, nil
		},
	}
	svc := newTestService(gw)
	ctx := testCtx()

	liked, err := svc.ToggleFavorite(ctx, 3)
	require.NoError(t, err)
	assert.True(t, liked)

	fail = true
	liked, err = svc.ToggleFavorite(ctx, 3)
	require.Error(t, err)
	assert.True(t, liked, "failed toggle rolls back to the prior liked state")

	fail = false
	liked, err = svc.ToggleFavorite(ctx, 3)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestProductByIDMissingIsNotFound(t *testing.T) {
	gw := &stubGateway{
		respond: func(method, path string, query url.Values, body any) (*upstream.Envelope, error) {
			return &upstream.Envelope{Records: json.RawMessage(`[]`)}, nil
		},
	}
	svc := newTestService(gw)

	_, err := svc.ProductByID(testCtx(), 42)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}
