package domain

import (
	"fmt"
	"net/mail"
	"time"
)

// Role is the access level of a user
type Role string

const (
	RoleUser  Role = "user"
	RoleStaff Role = "staff"
	RoleAdmin Role = "admin"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// AtLeast reports whether r grants at least the access of min
func (r Role) AtLeast(min Role) bool {
	return r.rank() >= min.rank()
}

func (r Role) rank() int {
	switch r {
	case RoleAdmin:
		return 2
	case RoleStaff:
		return 1
	default:
		return 0
	}
}

// Profile holds contact data and the role of a registered user
type Profile struct {
	UserID    int64
	Username  string
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Address   string
	Role      Role
	CreatedAt time.Time
}

// FullName returns "First Last", or the username when both are empty
func (p *Profile) FullName() string {
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	case p.LastName != "":
		return p.LastName
	default:
		return p.Username
	}
}

// Validate checks profile invariants
func (p *Profile) Validate() error {
	if p.UserID <= 0 {
		return fmt.Errorf("%w: user id must be positive", ErrInvalidProfile)
	}
	if p.Username == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidProfile)
	}
	if p.Email != "" {
		if _, err := mail.ParseAddress(p.Email); err != nil {
			return fmt.Errorf("%w: invalid email: %v", ErrInvalidProfile, err)
		}
	}
	if !p.Role.IsValid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidProfile, p.Role)
	}
	return nil
}

// ProfileUpdate carries editable profile fields
type ProfileUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
	Phone     *string
	Address   *string
}
