// AngelaMos | 2026
// dto.go

package deal

import (
	"time"
)

// DealResponse keeps the field names existing clients read, including the
// underscore id.
type DealResponse struct {
	ID                  string      `json:"_id"`
	Title               string      `json:"title"`
	Description         string      `json:"description"`
	Partner             string      `json:"partner"`
	Category            string      `json:"category"`
	AccessLevel         AccessLevel `json:"accessLevel"`
	EligibilityCriteria string      `json:"eligibilityCriteria"`
	Discount            string      `json:"discount"`
	CreatedAt           time.Time   `json:"createdAt"`
}

func ToResponse(d *Deal) DealResponse {
	return DealResponse{
		ID:                  d.ID,
		Title:               d.Title,
		Description:         d.Description,
		Partner:             d.Partner,
		Category:            d.Category,
		AccessLevel:         d.AccessLevel,
		EligibilityCriteria: d.EligibilityCriteria,
		Discount:            d.Discount,
		CreatedAt:           d.CreatedAt,
	}
}

func ToResponseList(deals []Deal) []DealResponse {
	out := make([]DealResponse, 0, len(deals))
	for i := range deals {
		out = append(out, ToResponse(&deals[i]))
	}
	return out
}
