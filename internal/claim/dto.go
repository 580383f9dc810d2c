// AngelaMos | 2026
// dto.go

package claim

import (
	"time"

	"github.com/carterperez-dev/startup-perks/internal/deal"
)

// ClaimResponse embeds the full deal under dealId, the shape clients
// already render.
type ClaimResponse struct {
	ID        string            `json:"_id"`
	UserID    string            `json:"userId"`
	Deal      deal.DealResponse `json:"dealId"`
	Status    Status            `json:"status"`
	ClaimedAt time.Time         `json:"claimedAt"`
}

func toResponseList(claims []WithDeal) []ClaimResponse {
	out := make([]ClaimResponse, 0, len(claims))
	for i := range claims {
		c := &claims[i]
		out = append(out, ClaimResponse{
			ID:        c.ID,
			UserID:    c.UserID,
			Deal:      deal.ToResponse(&c.Deal),
			Status:    c.Status,
			ClaimedAt: c.ClaimedAt,
		})
	}
	return out
}
