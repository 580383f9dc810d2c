// AngelaMos | 2026
// entity.go

package deal

import (
	"fmt"
	"time"

	"github.com/carterperez-dev/startup-perks/internal/core"
)

type AccessLevel string

const (
	AccessPublic AccessLevel = "public"
	AccessLocked AccessLevel = "locked"
)

// ValidateAccessLevel accepts only the two levels the catalog knows. An
// empty value is normalized to public.
func ValidateAccessLevel(level AccessLevel) (AccessLevel, error) {
	switch level {
	case "":
		return AccessPublic, nil
	case AccessPublic, AccessLocked:
		return level, nil
	default:
		return "", fmt.Errorf("access level %q: %w", level, core.ErrInvalidInput)
	}
}

type Deal struct {
	ID                  string      `db:"id"`
	Title               string      `db:"title"`
	Description         string      `db:"description"`
	Partner             string      `db:"partner"`
	Category            string      `db:"category"`
	AccessLevel         AccessLevel `db:"access_level"`
	EligibilityCriteria string      `db:"eligibility_criteria"`
	Discount            string      `db:"discount"`
	CreatedAt           time.Time   `db:"created_at"`
}

func (d *Deal) IsLocked() bool {
	return d.AccessLevel == AccessLocked
}
