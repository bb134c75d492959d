package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/frahmantamala/staff-requests/internal/advance"
	advanceDatamodel "github.com/frahmantamala/staff-requests/internal/core/datamodel/advance"
	"github.com/frahmantamala/staff-requests/internal/notification"
	notificationPostgres "github.com/frahmantamala/staff-requests/internal/notification/postgres"
	"github.com/frahmantamala/staff-requests/internal/workflow"
)

type AdvanceRepository struct {
	db *gorm.DB
}

func NewAdvanceRepository(db *gorm.DB) *AdvanceRepository {
	return &AdvanceRepository{db: db}
}

func (r *AdvanceRepository) ListByUser(ctx context.Context, userID int64) ([]*advance.AdvanceRequest, error) {
	var rows []*advanceDatamodel.AdvanceRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

func (r *AdvanceRepository) ListAll(ctx context.Context) ([]*advance.AdvanceRequest, error) {
	var rows []*advanceDatamodel.AdvanceRequest
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

func (r *AdvanceRepository) GetByID(ctx context.Context, id int64) (*advance.AdvanceRequest, error) {
	var row advanceDatamodel.AdvanceRequest
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrRequestNotFound
		}
		return nil, err
	}
	return advance.FromDataModel(&row), nil
}

// Create re-checks the month inside the transaction; the unique index on
// (user_id, target_month) catches whatever still races past it.
func (r *AdvanceRepository) Create(ctx context.Context, req *advance.AdvanceRequest, msgs []notification.Message) ([]*notification.Notification, error) {
	row := advance.ToDataModel(req)
	var stored []*notification.Notification

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		err := tx.Model(&advanceDatamodel.AdvanceRequest{}).
			Where("user_id = ? AND target_month = ?", row.UserID, row.TargetMonth).
			Count(&n).Error
		if err != nil {
			return err
		}
		if n > 0 {
			return internal.ErrAdvanceDuplicate
		}
		if err := insertRequest(tx, row); err != nil {
			return err
		}
		stored, err = notificationPostgres.InsertAll(tx, msgs)
		return err
	})
	if err != nil {
		return nil, err
	}

	*req = *advance.FromDataModel(row)
	return stored, nil
}

func insertRequest(tx *gorm.DB, row *advanceDatamodel.AdvanceRequest) error {
	if err := tx.Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.ErrAdvanceDuplicate
		}
		return err
	}
	return nil
}

func (r *AdvanceRepository) Decide(ctx context.Context, id int64, next workflow.Status, msg notification.Message) ([]*notification.Notification, error) {
	return notificationPostgres.Transition(ctx, r.db, &advanceDatamodel.AdvanceRequest{}, id, next, msg)
}

func fromRows(rows []*advanceDatamodel.AdvanceRequest) []*advance.AdvanceRequest {
	out := make([]*advance.AdvanceRequest, 0, len(rows))
	for _, row := range rows {
		out = append(out, advance.FromDataModel(row))
	}
	return out
}
