package postgres

import (
	"context"

	notificationDatamodel "github.com/frahmantamala/staff-requests/internal/core/datamodel/notification"
	"github.com/frahmantamala/staff-requests/internal/notification"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// InsertAll writes msgs through tx so request modules can store their
// notifications in the same transaction as the request itself.
func InsertAll(tx *gorm.DB, msgs []notification.Message) ([]*notification.Notification, error) {
	if len(msgs) == 0 {
		return nil, nil
	}
	rows := make([]*notificationDatamodel.Notification, 0, len(msgs))
	for _, m := range msgs {
		rows = append(rows, notification.ToDataModel(m))
	}
	if err := tx.Create(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*notification.Notification, 0, len(rows))
	for _, r := range rows {
		out = append(out, notification.FromDataModel(r))
	}
	return out, nil
}

func (r *NotificationRepository) ListVisible(ctx context.Context, userID int64, limit int) ([]*notification.Notification, error) {
	var rows []*notificationDatamodel.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_dismissed = ?", userID, false).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*notification.Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, notification.FromDataModel(row))
	}
	return out, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&notificationDatamodel.Notification{}).
		Where("user_id = ? AND is_read = ? AND is_dismissed = ?", userID, false, false).
		Count(&n).Error
	return n, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id int64) (bool, error) {
	return r.flag(ctx, userID, id, "is_read")
}

func (r *NotificationRepository) Dismiss(ctx context.Context, userID, id int64) (bool, error) {
	return r.flag(ctx, userID, id, "is_dismissed")
}

// flag reports false when no row matched (id, owner). Setting a flag that is
// already true still counts as a match.
func (r *NotificationRepository) flag(ctx context.Context, userID, id int64, column string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&notificationDatamodel.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Count(&n).Error
	if err != nil || n == 0 {
		return false, err
	}
	err = r.db.WithContext(ctx).
		Model(&notificationDatamodel.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update(column, true).Error
	return err == nil, err
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&notificationDatamodel.Notification{}).
		Where("user_id = ? AND is_dismissed = ? AND is_read = ?", userID, false, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
