package entity

import (
	"time"
)

// Role is the authorization role attached to a user account.
type Role string

const (
	RoleUser      Role = "user"
	RoleGuide     Role = "guide"
	RoleLeadGuide Role = "lead-guide"
	RoleAdmin     Role = "admin"
)

// User is the principal of the system. The password hash, soft-delete flag
// and reset-token fields never leave the API.
type User struct {
	ID                 string     `db:"id" json:"id"`
	Name               string     `db:"name" json:"name"`
	Email              string     `db:"email" json:"email"`
	PasswordHash       string     `db:"password_hash" json:"-"`
	Photo              string     `db:"photo" json:"photo"`
	Role               Role       `db:"role" json:"role"`
	Active             bool       `db:"active" json:"-"`
	PasswordChangedAt  *time.Time `db:"password_changed_at" json:"-"`
	PasswordResetToken *string    `db:"password_reset_token" json:"-"`
	PasswordResetExp   *time.Time `db:"password_reset_expires" json:"-"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// PasswordChangedAfter reports whether the password was mutated after the
// given token issue time. Stale credentials must be rejected.
func (u *User) PasswordChangedAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.After(issuedAt)
}
