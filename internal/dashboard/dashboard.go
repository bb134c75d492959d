package dashboard

import (
	"time"

	"github.com/shopspring/decimal"
)

// HRSummary is what the HR landing page shows: the queues waiting for a
// decision and the head count.
type HRSummary struct {
	PendingAdvances int64 `json:"pending_advances" db:"pending_advances"`
	PendingLeaves   int64 `json:"pending_leaves" db:"pending_leaves"`
	PendingServices int64 `json:"pending_services" db:"pending_services"`
	ActiveEmployees int64 `json:"active_employees" db:"active_employees"`
}

type AdvanceItem struct {
	ID          int64           `json:"id" db:"id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	TargetMonth string          `json:"target_month" db:"target_month"`
	Status      string          `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

type ServiceItem struct {
	ID        int64     `json:"id" db:"id"`
	Category  string    `json:"category" db:"category"`
	Subject   string    `json:"subject" db:"subject"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// MyRequests lists the caller's own requests, newest first.
type MyRequests struct {
	Advances []AdvanceItem `json:"advances"`
	Services []ServiceItem `json:"services"`
}
