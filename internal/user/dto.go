package user

import (
	"strings"
	"time"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/frahmantamala/staff-requests/internal/core/common/validation"
)

type CreateCollaboratorDTO struct {
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     *string `json:"phone,omitempty"`
	BirthDate *string `json:"birth_date,omitempty"`
	Role      string  `json:"role,omitempty"`
}

// Normalize lowercases the email and defaults the role to employee.
func (d *CreateCollaboratorDTO) Normalize() {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	if d.Role == "" {
		d.Role = string(internal.RoleEmployee)
	}
}

func (d CreateCollaboratorDTO) Validate(now time.Time) *internal.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().MaxLength(100).Email()
	v.Field("first_name", d.FirstName).Required().MinLength(2).MaxLength(50)
	v.Field("last_name", d.LastName).Required().MinLength(2).MaxLength(50)
	v.Field("phone", d.Phone).MaxLength(12)
	v.Field("birth_date", d.BirthDate).Custom(birthDateRule(now))
	v.Field("role", d.Role).OneOf(internal.ErrCodeInvalidRole, string(internal.RoleEmployee), string(internal.RoleHR))
	return v.Validate()
}

type UpdateProfileDTO struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     *string `json:"phone,omitempty"`
	BirthDate *string `json:"birth_date,omitempty"`
}

func (d UpdateProfileDTO) Validate(now time.Time) *internal.AppError {
	v := validation.NewValidator()
	v.Field("first_name", d.FirstName).Required().MaxLength(50)
	v.Field("last_name", d.LastName).Required().MaxLength(50)
	v.Field("phone", d.Phone).MaxLength(12)
	v.Field("birth_date", d.BirthDate).Custom(birthDateRule(now))
	return v.Validate()
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (d ChangePasswordDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("current_password", d.CurrentPassword).Required()
	v.Field("new_password", d.NewPassword).Required().MinLength(6)
	v.Field("confirm_password", d.ConfirmPassword).Required().Custom(func(interface{}) *internal.AppError {
		if d.NewPassword != d.ConfirmPassword {
			return internal.NewValidationFieldError("confirm_password", "new passwords do not match", internal.ErrCodePasswordMismatch)
		}
		return nil
	})
	return v.Validate()
}

type DeactivateDTO struct {
	Reason string `json:"reason"`
}

func (d DeactivateDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("reason", d.Reason).Required().MinLength(5).MaxLength(500)
	return v.Validate()
}

// CreatedCollaborator is returned to the HR caller. The temporary password
// is only included when the welcome email could not be delivered.
type CreatedCollaborator struct {
	User              *User  `json:"user"`
	WelcomeEmailSent  bool   `json:"welcome_email_sent"`
	TemporaryPassword string `json:"temporary_password,omitempty"`
}

func birthDateRule(now time.Time) func(interface{}) *internal.AppError {
	return func(value interface{}) *internal.AppError {
		s, ok := value.(*string)
		if !ok || s == nil || *s == "" {
			return nil
		}
		t, err := time.Parse(dateLayout, *s)
		if err != nil {
			return internal.NewValidationFieldError("birth_date", "birth_date must use the YYYY-MM-DD format", internal.ErrCodeInvalidDate)
		}
		if t.After(now) {
			return internal.NewValidationFieldError("birth_date", "birth_date cannot be in the future", internal.ErrCodeInvalidDate)
		}
		return nil
	}
}
