// AngelaMos | 2026
// repository.go

package deal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/startup-perks/internal/core"
)

type Repository interface {
	Create(ctx context.Context, deal *Deal) error
	GetByID(ctx context.Context, id string) (*Deal, error)
	List(ctx context.Context) ([]Deal, error)
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const dealColumns = `id, title, description, partner, category,
		access_level, eligibility_criteria, discount, created_at`

func (r *repository) Create(ctx context.Context, deal *Deal) error {
	query := `
		INSERT INTO deals (` + dealColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		deal.ID,
		deal.Title,
		deal.Description,
		deal.Partner,
		deal.Category,
		deal.AccessLevel,
		deal.EligibilityCriteria,
		deal.Discount,
		deal.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create deal: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE id = $1`

	var deal Deal
	err := r.db.GetContext(ctx, &deal, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get deal: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get deal: %w", err)
	}

	return &deal, nil
}

func (r *repository) List(ctx context.Context) ([]Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals ORDER BY created_at ASC, id ASC`

	deals := []Deal{}
	if err := r.db.SelectContext(ctx, &deals, query); err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}

	return deals, nil
}

func (r *repository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM deals`)
	if err != nil {
		return 0, fmt.Errorf("delete deals: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete deals: %w", err)
	}

	return n, nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM deals`); err != nil {
		return 0, fmt.Errorf("count deals: %w", err)
	}
	return n, nil
}
