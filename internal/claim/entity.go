// AngelaMos | 2026
// entity.go

package claim

import (
	"fmt"
	"time"

	"github.com/carterperez-dev/startup-perks/internal/core"
	"github.com/carterperez-dev/startup-perks/internal/deal"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func ValidateStatus(s Status) error {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return nil
	default:
		return fmt.Errorf("claim status %q: %w", s, core.ErrInvalidInput)
	}
}

type Claim struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	DealID    string    `db:"deal_id"`
	Status    Status    `db:"status"`
	ClaimedAt time.Time `db:"claimed_at"`
}

// WithDeal is a claim joined with the deal it references.
type WithDeal struct {
	Claim
	Deal deal.Deal `db:"deal"`
}
