package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bannugul/consumer-gateway/internal/session"
	"github.com/bannugul/consumer-gateway/pkg/config"
	pkgerrors "github.com/bannugul/consumer-gateway/pkg/errors"
	"github.com/bannugul/consumer-gateway/pkg/logger"
	"github.com/bannugul/consumer-gateway/pkg/metrics"
)

// Gateway is the surface domain services consume. *Client implements it;
// tests substitute fakes.
type Gateway interface {
	Get(ctx context.Context, path string, query url.Values) (*Envelope, error)
	Post(ctx context.Context, path string, body any) (*Envelope, error)
	Put(ctx context.Context, path string, body any) (*Envelope, error)
	Delete(ctx context.Context, path string, body any) (*Envelope, error)
}

// Client talks to the hosted ordering backend. It attaches the session's
// bearer token when one is on the context and normalizes the backend's
// body-level error convention into typed errors.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
	logg      *logger.Logger
	metrics   *metrics.UpstreamMetrics
}

// NewClient builds the upstream client from configuration.
func NewClient(cfg config.UpstreamConfig, logg *logger.Logger, m *metrics.UpstreamMetrics) *Client {
	return &Client{
		http:      &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		logg:      logg,
		metrics:   m,
	}
}

func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Envelope, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

func (c *Client) Put(ctx context.Context, path string, body any) (*Envelope, error) {
	return c.do(ctx, http.MethodPut, path, nil, body)
}

// Delete issues a DELETE, optionally with a JSON body; removeToCart expects
// the cart id in the body rather than the path.
func (c *Client) Delete(ctx context.Context, path string, body any) (*Envelope, error) {
	return c.do(ctx, http.MethodDelete, path, nil, body)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*Envelope, error) {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode upstream request")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upstream request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if token, ok := session.TokenFromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.IncCall(path, metrics.OutcomeTransport)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("call %s %s", method, path))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.IncCall(path, metrics.OutcomeTransport)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read upstream response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.IncCall(path, metrics.OutcomeTransport)
		return nil, pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("upstream returned status %d for %s", resp.StatusCode, path)).
			WithDetails(map[string]any{"status": resp.StatusCode})
	}

	// The backend occasionally emits non-JSON bodies on success paths;
	// those are treated as an empty envelope, matching its contract.
	env := &Envelope{}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, env); err != nil {
			if c.logg != nil {
				c.logg.Warn(c.logg.WithField(ctx, "endpoint", path), "upstream response not json, coercing to empty envelope")
			}
			*env = Envelope{}
		} else {
			env.Raw = raw
		}
	}

	if env.Err {
		c.metrics.IncCall(path, metrics.OutcomeRejected)
		msg := strings.TrimSpace(env.Message)
		if msg == "" {
			msg = "request rejected"
		}
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, msg).
			WithDetails(map[string]any{"endpoint": path})
	}

	c.metrics.IncCall(path, metrics.OutcomeOK)
	return env, nil
}
