package servicerequest

import (
	"strings"
	"time"

	"github.com/frahmantamala/staff-requests/internal"
	serviceDatamodel "github.com/frahmantamala/staff-requests/internal/core/datamodel/servicerequest"
	"github.com/frahmantamala/staff-requests/internal/core/common/validation"
	"github.com/frahmantamala/staff-requests/internal/workflow"
)

const (
	SourceApp      = "APP"
	SourceWhatsApp = "WHATSAPP"

	CategoryOther = "AUTRE"
)

type ServiceRequest struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Category    string          `json:"category"`
	Subject     string          `json:"subject"`
	Description string          `json:"description"`
	Source      string          `json:"source"`
	Status      workflow.Status `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type CreateServiceRequestDTO struct {
	Category    string `json:"category"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

func (d CreateServiceRequestDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("category", d.Category).Required()
	v.Field("subject", d.Subject).Required().MinLength(3).MaxLength(200)
	v.Field("description", d.Description).Required().MinLength(10).MaxLength(5000)
	return v.Validate()
}

// ExternalServiceRequestDTO is posted by the messaging automation on behalf
// of a collaborator identified by email.
type ExternalServiceRequestDTO struct {
	Secret      string `json:"secret"`
	Email       string `json:"email"`
	Category    string `json:"category,omitempty"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Source      string `json:"source,omitempty"`
}

func (d *ExternalServiceRequestDTO) Normalize() {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	if strings.TrimSpace(d.Category) == "" {
		d.Category = CategoryOther
	}
	d.Source = strings.ToUpper(strings.TrimSpace(d.Source))
	if d.Source == "" {
		d.Source = SourceWhatsApp
	}
}

func (d ExternalServiceRequestDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email()
	v.Field("subject", d.Subject).Required().MaxLength(200)
	v.Field("description", d.Description).Required().MaxLength(5000)
	return v.Validate()
}

type DecisionDTO struct {
	Status string `json:"status"`
}

func ToDataModel(s *ServiceRequest) *serviceDatamodel.ServiceRequest {
	return &serviceDatamodel.ServiceRequest{
		ID:          s.ID,
		UserID:      s.UserID,
		Category:    s.Category,
		Subject:     s.Subject,
		Description: s.Description,
		Source:      s.Source,
		Status:      string(s.Status),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func FromDataModel(s *serviceDatamodel.ServiceRequest) *ServiceRequest {
	return &ServiceRequest{
		ID:          s.ID,
		UserID:      s.UserID,
		Category:    s.Category,
		Subject:     s.Subject,
		Description: s.Description,
		Source:      s.Source,
		Status:      workflow.Status(s.Status),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
