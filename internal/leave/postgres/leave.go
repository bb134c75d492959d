package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/staff-requests/internal"
	leaveDatamodel "github.com/frahmantamala/staff-requests/internal/core/datamodel/leave"
	"github.com/frahmantamala/staff-requests/internal/leave"
	"github.com/frahmantamala/staff-requests/internal/notification"
	notificationPostgres "github.com/frahmantamala/staff-requests/internal/notification/postgres"
	"github.com/frahmantamala/staff-requests/internal/workflow"
)

type LeaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

func (r *LeaveRepository) ListByUser(ctx context.Context, userID int64) ([]*leave.LeaveRequest, error) {
	return r.find(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *LeaveRepository) ListApprovedByUser(ctx context.Context, userID int64) ([]*leave.LeaveRequest, error) {
	return r.find(r.db.WithContext(ctx).Where("user_id = ? AND status = ?", userID, string(workflow.StatusApproved)))
}

func (r *LeaveRepository) ListAll(ctx context.Context) ([]*leave.LeaveRequest, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *LeaveRepository) find(q *gorm.DB) ([]*leave.LeaveRequest, error) {
	var rows []*leaveDatamodel.LeaveRequest
	if err := q.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*leave.LeaveRequest, 0, len(rows))
	for _, row := range rows {
		out = append(out, leave.FromDataModel(row))
	}
	return out, nil
}

func (r *LeaveRepository) GetByID(ctx context.Context, id int64) (*leave.LeaveRequest, error) {
	var row leaveDatamodel.LeaveRequest
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrRequestNotFound
		}
		return nil, err
	}
	return leave.FromDataModel(&row), nil
}

func (r *LeaveRepository) Create(ctx context.Context, req *leave.LeaveRequest, msgs []notification.Message) ([]*notification.Notification, error) {
	row := leave.ToDataModel(req)
	var stored []*notification.Notification

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		var err error
		stored, err = notificationPostgres.InsertAll(tx, msgs)
		return err
	})
	if err != nil {
		return nil, err
	}

	*req = *leave.FromDataModel(row)
	return stored, nil
}

func (r *LeaveRepository) Decide(ctx context.Context, id int64, next workflow.Status, msg notification.Message) ([]*notification.Notification, error) {
	return notificationPostgres.Transition(ctx, r.db, &leaveDatamodel.LeaveRequest{}, id, next, msg)
}
