// AngelaMos | 2026
// service.go

package claim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/startup-perks/internal/core"
	"github.com/carterperez-dev/startup-perks/internal/deal"
)

var (
	ErrVerificationRequired = errors.New("verification required for locked deals")
	ErrAlreadyClaimed       = errors.New("deal already claimed")
	ErrUserNotFound         = errors.New("claiming user not found")
)

type DealFinder interface {
	GetByID(ctx context.Context, id string) (*deal.Deal, error)
}

type Verifier interface {
	IsVerified(ctx context.Context, userID string) (bool, error)
}

type Service struct {
	repo     Repository
	deals    DealFinder
	verifier Verifier
	now      func() time.Time
}

func NewService(repo Repository, deals DealFinder, verifier Verifier) *Service {
	return &Service{
		repo:     repo,
		deals:    deals,
		verifier: verifier,
		now:      time.Now,
	}
}

// Claim records a pending claim of dealID by userID. Checks run in a fixed
// order: the deal must exist, a locked deal needs a verified user, and the
// pair must not already be claimed.
func (s *Service) Claim(ctx context.Context, dealID, userID string) (err error) {
	ctx, span := core.StartSpan(ctx, "claim.Claim",
		attribute.String("deal.id", dealID),
		attribute.String("user.id", userID),
	)
	defer func() {
		if err != nil {
			core.SetSpanError(ctx, err)
		}
		span.End()
	}()

	d, err := s.deals.GetByID(ctx, dealID)
	if err != nil {
		return err
	}

	if d.IsLocked() {
		verified, verr := s.verifier.IsVerified(ctx, userID)
		if errors.Is(verr, core.ErrNotFound) {
			return ErrUserNotFound
		}
		if verr != nil {
			return verr
		}
		if !verified {
			return ErrVerificationRequired
		}
	}

	exists, err := s.repo.Exists(ctx, userID, d.ID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyClaimed
	}

	c := &Claim{
		ID:        uuid.New().String(),
		UserID:    userID,
		DealID:    d.ID,
		Status:    StatusPending,
		ClaimedAt: s.now().UTC(),
	}

	inserted, err := s.repo.InsertIfAbsent(ctx, c)
	if err != nil {
		return err
	}
	if !inserted {
		core.AddSpanEvent(ctx, "claim.race_lost")
		return ErrAlreadyClaimed
	}

	core.AddSpanEvent(ctx, "claim.created", attribute.String("claim.id", c.ID))
	return nil
}

func (s *Service) ListMine(ctx context.Context, userID string) ([]WithDeal, error) {
	ctx, span := core.StartSpan(ctx, "claim.ListMine",
		attribute.String("user.id", userID),
	)
	defer span.End()

	return s.repo.ListByUserWithDeal(ctx, userID)
}

// SetStatus is an administrative operation; no API route exposes it.
func (s *Service) SetStatus(ctx context.Context, id string, status Status) error {
	if err := ValidateStatus(status); err != nil {
		return err
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("claim %q: %w", id, core.ErrNotFound)
	}

	return s.repo.SetStatus(ctx, id, status)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
