// AngelaMos | 2026
// routes.go

package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/startup-perks/internal/admin"
	"github.com/carterperez-dev/startup-perks/internal/auth"
	"github.com/carterperez-dev/startup-perks/internal/claim"
	"github.com/carterperez-dev/startup-perks/internal/config"
	"github.com/carterperez-dev/startup-perks/internal/core"
	"github.com/carterperez-dev/startup-perks/internal/deal"
	"github.com/carterperez-dev/startup-perks/internal/health"
	"github.com/carterperez-dev/startup-perks/internal/middleware"
	"github.com/carterperez-dev/startup-perks/internal/seed"
)

const (
	claimRequestsPerMinute = 10
	claimBurst             = 5

	credentialAttemptsPerHour = 30
	credentialBurst           = 10
)

type routeDeps struct {
	Config      *config.Config
	Logger      *slog.Logger
	RedisClient *redis.Client

	JWT    *auth.JWTManager
	Auth   *auth.Service
	Deals  *deal.Service
	Claims *claim.Service
	Seeder *seed.Seeder
	Health *health.Handler
	Admin  *admin.Handler
}

func mountRoutes(router chi.Router, d routeDeps) {
	cfg := d.Config

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(d.Logger))
	router.Use(middleware.Recoverer(d.Logger))
	router.Use(
		middleware.NewRateLimiter(d.RedisClient, middleware.RateLimitConfig{
			Limit: redis_rate.Limit{
				Rate:   cfg.RateLimit.Requests,
				Burst:  cfg.RateLimit.Burst,
				Period: cfg.RateLimit.Window,
			},
			BypassFunc: isProbe,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	d.Health.RegisterRoutes(router)
	router.Get("/.well-known/jwks.json", d.JWT.GetJWKSHandler())

	authenticator := middleware.Authenticator(d.Auth)
	claimLimiter := middleware.NewRateLimiter(d.RedisClient, middleware.RateLimitConfig{
		Limit:   middleware.PerMinute(claimRequestsPerMinute, claimBurst),
		KeyFunc: middleware.KeyByUserAndEndpoint,
	})
	credentialLimiter := middleware.NewRateLimiter(d.RedisClient, middleware.RateLimitConfig{
		Limit:   middleware.PerHour(credentialAttemptsPerHour, credentialBurst),
		KeyFunc: middleware.KeyByIPAndEndpoint,
	})

	router.Route("/api", func(r chi.Router) {
		auth.NewHandler(d.Auth).RegisterRoutes(r, authenticator, credentialLimiter.Handler)
		deal.NewHandler(d.Deals).RegisterRoutes(r)
		claim.NewHandler(d.Claims).RegisterRoutes(r, authenticator, claimLimiter.Handler)

		if cfg.Seed.Enabled {
			seed.NewHandler(d.Seeder).RegisterRoutes(r)
		}

		if cfg.Admin.APIKey != "" && d.Admin != nil {
			d.Admin.RegisterRoutes(r, middleware.RequireAdminKey(cfg.Admin.APIKey))
		}
	})

	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		core.Message(w, http.StatusNotFound, "Route not found")
	})
}

func isProbe(r *http.Request) bool {
	switch r.URL.Path {
	case "/healthz", "/livez", "/readyz":
		return true
	}
	return false
}
