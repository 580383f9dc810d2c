// AngelaMos | 2026
// handler_test.go

package claim

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/startup-perks/internal/middleware"
)

type tokenUsers map[string]string

func (t tokenUsers) VerifyAccessToken(
	_ context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	id, ok := t[token]
	if !ok {
		return nil, assert.AnError
	}
	return &middleware.AccessTokenClaims{UserID: id}, nil
}

func newTestRouter(f *fixture) http.Handler {
	auth := middleware.Authenticator(tokenUsers{
		"plain-token":    "plain-user",
		"verified-token": "verified-user",
	})
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		NewHandler(f.svc).RegisterRoutes(r, auth, nil)
	})
	return r
}

func call(h http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_ClaimResponses(t *testing.T) {
	f := newFixture()
	h := newTestRouter(f)

	cases := []struct {
		name    string
		path    string
		token   string
		status  int
		message string
	}{
		{"no token", "/api/deals/" + f.public.ID + "/claim", "", http.StatusUnauthorized, "Access token required"},
		{"bad token", "/api/deals/" + f.public.ID + "/claim", "nope", http.StatusForbidden, "Invalid token"},
		{"unknown deal", "/api/deals/" + uuid.New().String() + "/claim", "plain-token", http.StatusNotFound, "Deal not found"},
		{"locked unverified", "/api/deals/" + f.locked.ID + "/claim", "plain-token", http.StatusForbidden, "Verification required for locked deals"},
		{"public ok", "/api/deals/" + f.public.ID + "/claim", "plain-token", http.StatusCreated, "Deal claimed successfully"},
		{"public repeat", "/api/deals/" + f.public.ID + "/claim", "plain-token", http.StatusBadRequest, "Deal already claimed"},
		{"locked verified", "/api/deals/" + f.locked.ID + "/claim", "verified-token", http.StatusCreated, "Deal claimed successfully"},
	}

	for _, tc := range cases {
		rec := call(h, http.MethodPost, tc.path, tc.token)
		assert.Equal(t, tc.status, rec.Code, tc.name)

		var body struct {
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), tc.name)
		assert.Equal(t, tc.message, body.Message, tc.name)
	}
}

func TestHandler_ListMine(t *testing.T) {
	f := newFixture()
	h := newTestRouter(f)

	rec := call(h, http.MethodGet, "/api/user/claims", "plain-token")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	require.Equal(t, http.StatusCreated,
		call(h, http.MethodPost, "/api/deals/"+f.public.ID+"/claim", "plain-token").Code)

	rec = call(h, http.MethodGet, "/api/user/claims", "plain-token")
	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "pending", body[0]["status"])
	assert.Equal(t, "plain-user", body[0]["userId"])
	assert.NotEmpty(t, body[0]["_id"])
	assert.NotEmpty(t, body[0]["claimedAt"])

	populated, ok := body[0]["dealId"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, f.public.ID, populated["_id"])
	assert.Equal(t, "AWS Credits for Startups", populated["title"])

	rec = call(h, http.MethodGet, "/api/user/claims", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_ClaimLimiter(t *testing.T) {
	f := newFixture()
	auth := middleware.Authenticator(tokenUsers{"plain-token": "plain-user"})
	limiter := middleware.NewRateLimiter(nil, middleware.RateLimitConfig{
		Limit:   middleware.PerMinute(1, 1),
		KeyFunc: middleware.KeyByUserAndEndpoint,
	})

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		NewHandler(f.svc).RegisterRoutes(r, auth, limiter.Handler)
	})

	first := call(r, http.MethodPost, "/api/deals/"+f.public.ID+"/claim", "plain-token")
	second := call(r, http.MethodPost, "/api/deals/"+f.locked.ID+"/claim", "plain-token")
	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	listing := call(r, http.MethodGet, "/api/user/claims", "plain-token")
	assert.Equal(t, http.StatusOK, listing.Code)
}

func TestHandler_DeletedUser(t *testing.T) {
	f := newFixture()
	svc := newUserKeyedService(f)
	auth := middleware.Authenticator(tokenUsers{"stale-token": "deleted-user"})
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		NewHandler(svc).RegisterRoutes(r, auth, nil)
	})

	for _, d := range []string{f.public.ID, f.locked.ID} {
		rec := call(r, http.MethodPost, "/api/deals/"+d+"/claim", "stale-token")
		assert.Equal(t, http.StatusNotFound, rec.Code)

		var body struct {
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "User not found", body.Message)
	}
}
