// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/carterperez-dev/startup-perks/internal/core"
	"github.com/carterperez-dev/startup-perks/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
)

type UserInfo struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Verified     bool
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(
		ctx context.Context,
		email, passwordHash, name string,
	) (*UserInfo, error)
}

type Service struct {
	jwt          *JWTManager
	hasher       *core.PasswordHasher
	userProvider UserProvider
	revocations  RevocationStore
}

// NewService wires the auth flows. revocations may be nil, in which case
// logout is a no-op and tokens stay valid until they expire.
func NewService(
	jwt *JWTManager,
	hasher *core.PasswordHasher,
	userProvider UserProvider,
	revocations RevocationStore,
) *Service {
	return &Service{
		jwt:          jwt,
		hasher:       hasher,
		userProvider: userProvider,
		revocations:  revocations,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) error {
	exists, err := s.userProvider.EmailExists(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if exists {
		return ErrEmailExists
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return err
	}

	if _, err := s.userProvider.Create(ctx, req.Email, passwordHash, req.Name); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return ErrEmailExists
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// Login returns ErrInvalidCredentials for both an unknown email and a wrong
// password.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*LoginResponse, error) {
	user, err := s.userProvider.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention
			_, _ = s.hasher.VerifyTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, err := s.hasher.VerifyTimingSafe(req.Password, &user.PasswordHash)
	if err != nil {
		return nil, err
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	token, _, err := s.jwt.CreateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	return &LoginResponse{
		Token: token,
		User:  toUserResponse(user),
	}, nil
}

// VerifyAccessToken satisfies middleware.TokenVerifier. A revocation lookup
// failure is logged and the token accepted.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.jwt.VerifyAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if s.revocations == nil || claims.TokenID == "" {
		return claims, nil
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		slog.WarnContext(ctx, "revocation check failed, accepting token",
			"error", err,
			"user_id", claims.UserID,
		)
		return claims, nil
	}

	if revoked {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	return claims, nil
}

func (s *Service) Logout(
	ctx context.Context,
	claims *middleware.AccessTokenClaims,
) error {
	if s.revocations == nil || claims == nil || claims.TokenID == "" {
		return nil
	}

	if err := s.revocations.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	return nil
}

func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID string,
) (*UserResponse, error) {
	user, err := s.userProvider.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

var _ middleware.TokenVerifier = (*Service)(nil)
