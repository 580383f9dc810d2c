// AngelaMos | 2026
// repository.go

package claim

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/startup-perks/internal/core"
)

const userForeignKey = "claims_user_id_fkey"

type Repository interface {
	Exists(ctx context.Context, userID, dealID string) (bool, error)
	InsertIfAbsent(ctx context.Context, claim *Claim) (bool, error)
	ListByUserWithDeal(ctx context.Context, userID string) ([]WithDeal, error)
	SetStatus(ctx context.Context, id string, status Status) error
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Exists(
	ctx context.Context,
	userID, dealID string,
) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM claims WHERE user_id = $1 AND deal_id = $2
		)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID, dealID); err != nil {
		return false, fmt.Errorf("check claim exists: %w", err)
	}

	return exists, nil
}

// InsertIfAbsent reports false when the (user, deal) pair is already
// claimed. The unique constraint makes this safe under concurrent callers.
// A user or deal that no longer exists surfaces as ErrUserNotFound or
// core.ErrNotFound.
func (r *repository) InsertIfAbsent(
	ctx context.Context,
	claim *Claim,
) (bool, error) {
	query := `
		INSERT INTO claims (id, user_id, deal_id, status, claimed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, deal_id) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query,
		claim.ID,
		claim.UserID,
		claim.DealID,
		claim.Status,
		claim.ClaimedAt,
	)
	if constraint, ok := core.ForeignKeyConstraint(err); ok {
		if constraint == userForeignKey {
			return false, fmt.Errorf("insert claim: %w", ErrUserNotFound)
		}
		return false, fmt.Errorf("insert claim: deal %s: %w", claim.DealID, core.ErrNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("insert claim: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert claim: %w", err)
	}

	return rows == 1, nil
}

func (r *repository) ListByUserWithDeal(
	ctx context.Context,
	userID string,
) ([]WithDeal, error) {
	query := `
		SELECT
			c.id, c.user_id, c.deal_id, c.status, c.claimed_at,
			d.id                   AS "deal.id",
			d.title                AS "deal.title",
			d.description          AS "deal.description",
			d.partner              AS "deal.partner",
			d.category             AS "deal.category",
			d.access_level         AS "deal.access_level",
			d.eligibility_criteria AS "deal.eligibility_criteria",
			d.discount             AS "deal.discount",
			d.created_at           AS "deal.created_at"
		FROM claims c
		JOIN deals d ON d.id = c.deal_id
		WHERE c.user_id = $1
		ORDER BY c.claimed_at DESC, c.id DESC`

	claims := []WithDeal{}
	if err := r.db.SelectContext(ctx, &claims, query, userID); err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}

	return claims, nil
}

func (r *repository) SetStatus(
	ctx context.Context,
	id string,
	status Status,
) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE claims SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set claim status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set claim status: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("set claim status: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM claims`)
	if err != nil {
		return 0, fmt.Errorf("delete claims: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete claims: %w", err)
	}

	return n, nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM claims`); err != nil {
		return 0, fmt.Errorf("count claims: %w", err)
	}
	return n, nil
}
