package advance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/staff-requests/internal"
	advanceDatamodel "github.com/frahmantamala/staff-requests/internal/core/datamodel/advance"
	"github.com/frahmantamala/staff-requests/internal/workflow"
)

const (
	targetMonthLayout = "2006-01"
	reasonMaxLength   = 500
)

type AdvanceRequest struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Reason      *string         `json:"reason,omitempty"`
	TargetMonth string          `json:"target_month"`
	Status      workflow.Status `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Policy holds the configurable limits of the advance rules.
type Policy struct {
	MaxAmount     decimal.Decimal
	WindowLastDay int
	Location      *time.Location
}

func PolicyFrom(cfg internal.PolicyConfig) Policy {
	cfg = cfg.WithDefaults()
	return Policy{
		MaxAmount:     cfg.AdvanceCap(),
		WindowLastDay: cfg.AdvanceWindowLastDay,
		Location:      cfg.Location(),
	}
}

type CreateAdvanceDTO struct {
	Amount decimal.Decimal `json:"amount"`
	Reason *string         `json:"reason,omitempty"`
}

type DecisionDTO struct {
	Status string `json:"status"`
}

func ToDataModel(a *AdvanceRequest) *advanceDatamodel.AdvanceRequest {
	return &advanceDatamodel.AdvanceRequest{
		ID:          a.ID,
		UserID:      a.UserID,
		Amount:      a.Amount,
		Reason:      a.Reason,
		TargetMonth: a.TargetMonth,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func FromDataModel(a *advanceDatamodel.AdvanceRequest) *AdvanceRequest {
	return &AdvanceRequest{
		ID:          a.ID,
		UserID:      a.UserID,
		Amount:      a.Amount,
		Reason:      a.Reason,
		TargetMonth: a.TargetMonth,
		Status:      workflow.Status(a.Status),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
