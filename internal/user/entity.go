// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Name         string    `db:"name"`
	Verified     bool      `db:"verified"`
	CreatedAt    time.Time `db:"created_at"`
}

// CanClaimLocked reports whether the account may claim locked deals.
func (u *User) CanClaimLocked() bool {
	return u.Verified
}
