// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/carterperez-dev/startup-perks/internal/auth"
	"github.com/carterperez-dev/startup-perks/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("get user %q: %w", id, core.ErrNotFound)
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

// GetByEmail matches the address exactly as stored.
func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) EmailExists(
	ctx context.Context,
	email string,
) (bool, error) {
	return s.repo.ExistsByEmail(ctx, email)
}

func (s *Service) Create(
	ctx context.Context,
	email, passwordHash, name string,
) (*auth.UserInfo, error) {
	user := &User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Verified:     false,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

// IsVerified is the lookup the claim workflow runs before a locked claim.
func (s *Service) IsVerified(ctx context.Context, id string) (bool, error) {
	info, err := s.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return info.Verified, nil
}

// SetVerifiedByEmail is used by the admin tooling only; no API route
// changes the flag.
func (s *Service) SetVerifiedByEmail(
	ctx context.Context,
	email string,
	verified bool,
) (*User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetVerified(ctx, user.ID, verified); err != nil {
		return nil, err
	}

	user.Verified = verified
	return user, nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Verified:     u.Verified,
	}
}

var _ auth.UserProvider = (*Service)(nil)
