// AngelaMos | 2026
// service.go

package deal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/startup-perks/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Deal, error) {
	return s.repo.List(ctx)
}

// GetByID reports core.ErrNotFound both for unknown ids and for ids that
// are not UUIDs.
func (s *Service) GetByID(ctx context.Context, id string) (*Deal, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("get deal %q: %w", id, core.ErrNotFound)
	}

	return s.repo.GetByID(ctx, id)
}

// CreateAll validates and inserts deals in order through repo, which may be
// bound to a transaction. Creation times increase by one microsecond per
// deal so listing order matches insertion order.
func CreateAll(ctx context.Context, repo Repository, deals []Deal) ([]Deal, error) {
	base := time.Now().UTC().Truncate(time.Microsecond)
	created := make([]Deal, 0, len(deals))

	for i, d := range deals {
		level, err := ValidateAccessLevel(d.AccessLevel)
		if err != nil {
			return nil, err
		}
		d.AccessLevel = level

		if d.ID == "" {
			d.ID = uuid.New().String()
		}
		d.CreatedAt = base.Add(time.Duration(i) * time.Microsecond)

		if err := repo.Create(ctx, &d); err != nil {
			return nil, err
		}
		created = append(created, d)
	}

	return created, nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
