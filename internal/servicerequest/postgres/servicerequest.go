package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/staff-requests/internal"
	serviceDatamodel "github.com/frahmantamala/staff-requests/internal/core/datamodel/servicerequest"
	"github.com/frahmantamala/staff-requests/internal/servicerequest"
	"github.com/frahmantamala/staff-requests/internal/notification"
	notificationPostgres "github.com/frahmantamala/staff-requests/internal/notification/postgres"
	"github.com/frahmantamala/staff-requests/internal/workflow"
)

type ServiceRequestRepository struct {
	db *gorm.DB
}

func NewServiceRequestRepository(db *gorm.DB) *ServiceRequestRepository {
	return &ServiceRequestRepository{db: db}
}

func (r *ServiceRequestRepository) ListByUser(ctx context.Context, userID int64) ([]*servicerequest.ServiceRequest, error) {
	return r.find(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *ServiceRequestRepository) ListAll(ctx context.Context) ([]*servicerequest.ServiceRequest, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *ServiceRequestRepository) find(q *gorm.DB) ([]*servicerequest.ServiceRequest, error) {
	var rows []*serviceDatamodel.ServiceRequest
	if err := q.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*servicerequest.ServiceRequest, 0, len(rows))
	for _, row := range rows {
		out = append(out, servicerequest.FromDataModel(row))
	}
	return out, nil
}

func (r *ServiceRequestRepository) GetByID(ctx context.Context, id int64) (*servicerequest.ServiceRequest, error) {
	var row serviceDatamodel.ServiceRequest
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrRequestNotFound
		}
		return nil, err
	}
	return servicerequest.FromDataModel(&row), nil
}

func (r *ServiceRequestRepository) Create(ctx context.Context, req *servicerequest.ServiceRequest, msgs []notification.Message) ([]*notification.Notification, error) {
	row := servicerequest.ToDataModel(req)
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

	*req = *servicerequest.FromDataModel(row)
	return stored, nil
}

func (r *ServiceRequestRepository) Decide(ctx context.Context, id int64, next workflow.Status, msg notification.Message) ([]*notification.Notification, error) {
	return notificationPostgres.Transition(ctx, r.db, &serviceDatamodel.ServiceRequest{}, id, next, msg)
}
