// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/startup-perks/internal/core"
	"github.com/carterperez-dev/startup-perks/internal/middleware"
)

type fakeUsers struct {
	mu      sync.Mutex
	byEmail map[string]*UserInfo
	err     error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]*UserInfo{}}
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeUsers) EmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeUsers) Create(
	_ context.Context,
	email, passwordHash, name string,
) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[email]; ok {
		return nil, fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}
	u := &UserInfo{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
	}
	f.byEmail[email] = u
	cp := *u
	return &cp, nil
}

type fakeRevocations struct {
	revoked map[string]time.Time
	err     error
}

func newFakeRevocations() *fakeRevocations {
	return &fakeRevocations{revoked: map[string]time.Time{}}
}

func (f *fakeRevocations) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.revoked[jti] = expiresAt
	return nil
}

func (f *fakeRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.revoked[jti]
	return ok, nil
}

type serviceFixture struct {
	svc         *Service
	users       *fakeUsers
	revocations *fakeRevocations
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	hasher, err := core.NewPasswordHasher(4)
	require.NoError(t, err)

	users := newFakeUsers()
	revocations := newFakeRevocations()
	return &serviceFixture{
		svc:         NewService(newTestJWTManager(t), hasher, users, revocations),
		users:       users,
		revocations: revocations,
	}
}

func registerAlice(t *testing.T, svc *Service) {
	t.Helper()
	require.NoError(t, svc.Register(context.Background(), RegisterRequest{
		Email:    "alice@x.com",
		Password: "pw123456",
		Name:     "Alice",
	}))
}

func TestService_Register(t *testing.T) {
	f := newServiceFixture(t)
	registerAlice(t, f.svc)

	u, err := f.users.GetByEmail(context.Background(), "alice@x.com")
	require.NoError(t, err)
	assert.False(t, u.Verified)
	assert.NotEqual(t, "pw123456", u.PasswordHash)
	assert.True(t, strings.HasPrefix(u.PasswordHash, "$2"))
}

func TestService_Register_Conflict(t *testing.T) {
	f := newServiceFixture(t)
	registerAlice(t, f.svc)

	err := f.svc.Register(context.Background(), RegisterRequest{
		Email:    "alice@x.com",
		Password: "other",
		Name:     "Alice Again",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestService_Register_StoreError(t *testing.T) {
	f := newServiceFixture(t)
	f.users.err = errors.New("db down")

	err := f.svc.Register(context.Background(), RegisterRequest{
		Email: "alice@x.com", Password: "pw", Name: "Alice",
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailExists)
}

func TestService_Login(t *testing.T) {
	f := newServiceFixture(t)
	registerAlice(t, f.svc)

	resp, err := f.svc.Login(context.Background(), LoginRequest{
		Email:    "alice@x.com",
		Password: "pw123456",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice@x.com", resp.User.Email)
	assert.Equal(t, "Alice", resp.User.Name)
	assert.False(t, resp.User.Verified)

	claims, err := f.svc.VerifyAccessToken(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "alice@x.com", claims.Email)
}

func TestService_Login_SameErrorForUnknownAndWrongPassword(t *testing.T) {
	f := newServiceFixture(t)
	registerAlice(t, f.svc)

	_, wrongPw := f.svc.Login(context.Background(), LoginRequest{
		Email: "alice@x.com", Password: "nope",
	})
	_, unknown := f.svc.Login(context.Background(), LoginRequest{
		Email: "ghost@x.com", Password: "pw123456",
	})

	assert.ErrorIs(t, wrongPw, ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, ErrInvalidCredentials)
	assert.Equal(t, wrongPw.Error(), unknown.Error())
}

func TestService_Logout_RevokesToken(t *testing.T) {
	f := newServiceFixture(t)
	registerAlice(t, f.svc)
	ctx := context.Background()

	resp, err := f.svc.Login(ctx, LoginRequest{Email: "alice@x.com", Password: "pw123456"})
	require.NoError(t, err)

	claims, err := f.svc.VerifyAccessToken(ctx, resp.Token)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, claims))
	assert.Contains(t, f.revocations.revoked, claims.TokenID)

	_, err = f.svc.VerifyAccessToken(ctx, resp.Token)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)
}

func TestService_VerifyAccessToken_FailsOpenOnStoreError(t *testing.T) {
	f := newServiceFixture(t)
	registerAlice(t, f.svc)
	ctx := context.Background()

	resp, err := f.svc.Login(ctx, LoginRequest{Email: "alice@x.com", Password: "pw123456"})
	require.NoError(t, err)

	f.revocations.err = errors.New("redis down")
	claims, err := f.svc.VerifyAccessToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestService_NilRevocationStore(t *testing.T) {
	hasher, err := core.NewPasswordHasher(4)
	require.NoError(t, err)
	svc := NewService(newTestJWTManager(t), hasher, newFakeUsers(), nil)

	assert.NoError(t, svc.Logout(context.Background(), &middleware.AccessTokenClaims{TokenID: "x"}))
}

func TestService_GetCurrentUser(t *testing.T) {
	f := newServiceFixture(t)
	registerAlice(t, f.svc)

	u, err := f.users.GetByEmail(context.Background(), "alice@x.com")
	require.NoError(t, err)

	resp, err := f.svc.GetCurrentUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", resp.Name)

	_, err = f.svc.GetCurrentUser(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}
