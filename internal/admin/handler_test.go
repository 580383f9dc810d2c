// AngelaMos | 2026
// handler_test.go

package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/startup-perks/internal/middleware"
)

type fixedCount struct {
	n   int
	err error
}

func (f fixedCount) Count(context.Context) (int, error) { return f.n, f.err }

func newRouter(cfg HandlerConfig) http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		NewHandler(cfg).RegisterRoutes(r, middleware.RequireAdminKey("k"))
	})
	return r
}

func get(h http.Handler, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if key != "" {
		req.Header.Set(middleware.AdminKeyHeader, key)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestStats_RequiresKey(t *testing.T) {
	h := newRouter(HandlerConfig{})

	for _, path := range []string{"/api/admin/stats", "/api/admin/stats/catalog"} {
		assert.Equal(t, http.StatusUnauthorized, get(h, path, "").Code)
		assert.Equal(t, http.StatusUnauthorized, get(h, path, "wrong").Code)
	}
}

func TestStats_Catalog(t *testing.T) {
	h := newRouter(HandlerConfig{
		Users:  fixedCount{n: 3},
		Deals:  fixedCount{n: 4},
		Claims: fixedCount{n: 7},
	})

	rec := get(h, "/api/admin/stats/catalog", "k")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"users":3,"deals":4,"claims":7}`, rec.Body.String())
}

func TestStats_CatalogError(t *testing.T) {
	h := newRouter(HandlerConfig{Deals: fixedCount{err: errors.New("db down")}})

	rec := get(h, "/api/admin/stats/catalog", "k")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStats_System(t *testing.T) {
	h := newRouter(HandlerConfig{
		DBStats:    func() sql.DBStats { return sql.DBStats{MaxOpenConnections: 25, InUse: 2} },
		DBPing:     func(context.Context) error { return nil },
		RedisStats: func() *redis.PoolStats { return &redis.PoolStats{TotalConns: 5} },
		RedisPing:  func(context.Context) error { return errors.New("down") },
	})

	rec := get(h, "/api/admin/stats", "k")
	require.Equal(t, http.StatusOK, rec.Code)

	var body SystemStatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Database.Healthy)
	assert.Equal(t, 25, body.Database.Stats.MaxOpenConnections)
	assert.False(t, body.Redis.Healthy)
	assert.EqualValues(t, 5, body.Redis.Stats.TotalConns)
	assert.NotEmpty(t, body.Runtime.GoVersion)
}

func TestStats_NoRedis(t *testing.T) {
	h := newRouter(HandlerConfig{})

	rec := get(h, "/api/admin/stats/redis", "k")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null\n", rec.Body.String())
}
