// AngelaMos | 2026
// seeder.go

package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/startup-perks/internal/claim"
	"github.com/carterperez-dev/startup-perks/internal/core"
	"github.com/carterperez-dev/startup-perks/internal/deal"
)

// TxFunc receives repositories bound to a single transaction.
type TxFunc func(deals deal.Repository, claims claim.Repository) error

type Store interface {
	WithTx(ctx context.Context, fn TxFunc) error
}

type sqlStore struct {
	db *sqlx.DB
}

func NewSQLStore(db *sqlx.DB) Store {
	return &sqlStore{db: db}
}

func (s *sqlStore) WithTx(ctx context.Context, fn TxFunc) error {
	return core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		return fn(deal.NewRepository(tx), claim.NewRepository(tx))
	})
}

type Result struct {
	ClaimsDeleted int64
	DealsDeleted  int64
	Deals         []deal.Deal
}

type Seeder struct {
	store  Store
	logger *slog.Logger
}

func NewSeeder(store Store, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{store: store, logger: logger}
}

// Run replaces the catalog with the sample deals. Claims go first since
// they reference deals. Nothing changes if any step fails.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	res := &Result{}

	err := s.store.WithTx(ctx, func(deals deal.Repository, claims claim.Repository) error {
		var err error

		if res.ClaimsDeleted, err = claims.DeleteAll(ctx); err != nil {
			return err
		}
		if res.DealsDeleted, err = deals.DeleteAll(ctx); err != nil {
			return err
		}

		res.Deals, err = deal.CreateAll(ctx, deals, SampleDeals())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}

	s.logger.InfoContext(ctx, "sample data seeded",
		"claims_deleted", res.ClaimsDeleted,
		"deals_deleted", res.DealsDeleted,
		"deals_created", len(res.Deals),
	)

	return res, nil
}
