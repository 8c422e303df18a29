package controllers

import (
	"net/http"

	"github.com/bannugul/consumer-gateway/api/responses"
	"github.com/bannugul/consumer-gateway/pkg/config"
	pkgerrors "github.com/bannugul/consumer-gateway/pkg/errors"
	"github.com/bannugul/consumer-gateway/pkg/logger"
	pkgredis "github.com/bannugul/consumer-gateway/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Bannugul-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness of the session store and redis. A failing
// dependency flips the endpoint to 503 so the platform stops routing here.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP pkgredis.Pinger, redisP pkgredis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Bannugul-Env", cfg.App.Env)

		checks := map[string]string{}
		healthy := true

		checkPing := func(name string, p pkgredis.Pinger) {
			if p == nil {
				checks[name] = "skipped"
				return
			}
			if err := p.Ping(r.Context()); err != nil {
				checks[name] = "down"
				healthy = false
				if logg != nil {
					logg.Error(r.Context(), "health check failed: "+name, err)
				}
				return
			}
			checks[name] = "up"
		}

		checkPing("sessions", dbP)
		checkPing("redis", redisP)

		if !healthy {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").WithDetails(checks)
			responses.WriteError(r.Context(), nil, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
