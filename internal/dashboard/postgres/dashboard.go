package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/frahmantamala/staff-requests/internal/dashboard"
	"github.com/frahmantamala/staff-requests/internal/workflow"
)

const hrSummaryQuery = `
SELECT
	(SELECT COUNT(*) FROM advance_requests WHERE status = ?) AS pending_advances,
	(SELECT COUNT(*) FROM leave_requests WHERE status = ?) AS pending_leaves,
	(SELECT COUNT(*) FROM service_requests WHERE status = ?) AS pending_services,
	(SELECT COUNT(*) FROM users WHERE role = ? AND is_active = ?) AS active_employees`

const myAdvancesQuery = `
SELECT id, amount, target_month, status, created_at
FROM advance_requests
WHERE user_id = ?
ORDER BY created_at DESC, id DESC`

const myServicesQuery = `
SELECT id, category, subject, status, created_at
FROM service_requests
WHERE user_id = ?
ORDER BY created_at DESC, id DESC`

// DashboardRepository runs the read-only reporting queries. Queries are
// written with ? placeholders and rebound for the connected driver.
type DashboardRepository struct {
	db *sqlx.DB
}

func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) HRSummary(ctx context.Context) (*dashboard.HRSummary, error) {
	var out dashboard.HRSummary
	pending := string(workflow.StatusPending)
	err := r.db.GetContext(ctx, &out, r.db.Rebind(hrSummaryQuery),
		pending, pending, pending, string(internal.RoleEmployee), true)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *DashboardRepository) MyRequests(ctx context.Context, userID int64) (*dashboard.MyRequests, error) {
	out := &dashboard.MyRequests{
		Advances: []dashboard.AdvanceItem{},
		Services: []dashboard.ServiceItem{},
	}
	if err := r.db.SelectContext(ctx, &out.Advances, r.db.Rebind(myAdvancesQuery), userID); err != nil {
		return nil, err
	}
	if err := r.db.SelectContext(ctx, &out.Services, r.db.Rebind(myServicesQuery), userID); err != nil {
		return nil, err
	}
	return out, nil
}
