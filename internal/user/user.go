package user

import (
	"time"

	"github.com/frahmantamala/staff-requests/internal"
	userDatamodel "github.com/frahmantamala/staff-requests/internal/core/datamodel/user"
	coreuser "github.com/frahmantamala/staff-requests/internal/core/user"
)

const dateLayout = "2006-01-02"

type User struct {
	ID               int64         `json:"id"`
	Email            string        `json:"email"`
	FirstName        string        `json:"first_name"`
	LastName         string        `json:"last_name"`
	Phone            *string       `json:"phone,omitempty"`
	BirthDate        *string       `json:"birth_date,omitempty"`
	Role             internal.Role `json:"role"`
	PasswordHash     string        `json:"-"`
	IsActive         bool          `json:"is_active"`
	SuspensionReason *string       `json:"suspension_reason,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

func (u *User) Profile() coreuser.Profile {
	return coreuser.Profile{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		IsActive:  u.IsActive,
	}
}

func ToDataModel(u *User) *userDatamodel.User {
	var birth *time.Time
	if u.BirthDate != nil {
		if t, err := time.Parse(dateLayout, *u.BirthDate); err == nil {
			birth = &t
		}
	}
	return &userDatamodel.User{
		ID:               u.ID,
		Email:            u.Email,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Phone:            u.Phone,
		BirthDate:        birth,
		Role:             string(u.Role),
		PasswordHash:     u.PasswordHash,
		IsActive:         u.IsActive,
		SuspensionReason: u.SuspensionReason,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	var birth *string
	if u.BirthDate != nil {
		s := u.BirthDate.Format(dateLayout)
		birth = &s
	}
	return &User{
		ID:               u.ID,
		Email:            u.Email,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Phone:            u.Phone,
		BirthDate:        birth,
		Role:             internal.Role(u.Role),
		PasswordHash:     u.PasswordHash,
		IsActive:         u.IsActive,
		SuspensionReason: u.SuspensionReason,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}
