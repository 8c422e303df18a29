package settings

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bannugul/consumer-gateway/internal/upstream"
	"github.com/bannugul/consumer-gateway/pkg/config"
	"github.com/bannugul/consumer-gateway/pkg/logger"
	pkgredis "github.com/bannugul/consumer-gateway/pkg/redis"
)

// Settings is the backend's read-only storefront configuration, the first
// record of showSettings.
type Settings struct {
	DeliveryCharges decimal.Decimal `json:"delivery_charges"`
	TaxPercentage   decimal.Decimal `json:"tax_percentage"`
	Currency        string          `json:"currency"`
	MaxDeliveryTime string          `json:"max_delivery_time"`
	ContactEmail    string          `json:"contact_email"`
	ContactAddress  string          `json:"contact_address"`
	ContactPhone    string          `json:"contact_phone"`
}

// Service reads settings through a shared cache. Settings change rarely and
// every checkout needs the delivery charge, so one upstream fetch serves
// all sessions for the TTL.
type Service struct {
	gateway upstream.Gateway
	cache   pkgredis.Cache
	ttl     time.Duration
	logg    *logger.Logger
}

func NewService(gateway upstream.Gateway, cache pkgredis.Cache, cfg config.CacheConfig, logg *logger.Logger) *Service {
	return &Service{gateway: gateway, cache: cache, ttl: cfg.SettingsTTL, logg: logg}
}

// Get returns the storefront settings, from cache when fresh.
func (s *Service) Get(ctx context.Context) (Settings, error) {
	key := ""
	if s.cache != nil {
		key = s.cache.CacheKey("settings")
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var settings Settings
			if json.Unmarshal([]byte(cached), &settings) == nil {
				return settings, nil
			}
		} else if !pkgredis.IsMiss(err) {
			// A broken cache must not take the storefront down.
			s.logg.Warn(ctx, "settings cache read failed, falling through to upstream")
		}
	}

	env, err := s.gateway.Get(ctx, upstream.EndpointShowSettings, nil)
	if err != nil {
		return Settings{}, err
	}

	var settings Settings
	if _, err := env.DecodeFirst(&settings); err != nil {
		return Settings{}, err
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(settings); err == nil {
			if err := s.cache.Set(ctx, key, string(encoded), s.ttl); err != nil {
				s.logg.Warn(ctx, "settings cache write failed")
			}
		}
	}
	return settings, nil
}
