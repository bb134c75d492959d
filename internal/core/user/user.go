package user

import (
	"context"
	"strings"

	"github.com/frahmantamala/staff-requests/internal"
)

// Profile is the read-only view of a user that the request modules and the
// notification dispatcher need. It never carries credentials.
type Profile struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	Role      internal.Role
	IsActive  bool
}

func (p Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// DisplayName falls back to the email when no name was recorded.
func (p Profile) DisplayName() string {
	if n := p.FullName(); n != "" {
		return n
	}
	return p.Email
}

// Directory resolves users for fan-out and delivery.
type Directory interface {
	GetProfile(ctx context.Context, id int64) (*Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*Profile, error)
	HRUsers(ctx context.Context) ([]Profile, error)
}
