package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/frahmantamala/staff-requests/internal/notification"
	"github.com/frahmantamala/staff-requests/internal/workflow"
)

// Transition moves the row id of model from PENDING to next and stores msgs
// in the same transaction. A row that is no longer PENDING (or does not
// exist) yields ErrInvalidTransition and nothing is written.
func Transition(ctx context.Context, db *gorm.DB, model interface{}, id int64, next workflow.Status, msgs ...notification.Message) ([]*notification.Notification, error) {
	var stored []*notification.Notification
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(model).
			Where("id = ? AND status = ?", id, string(workflow.StatusPending)).
			Update("status", string(next))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return internal.ErrInvalidTransition
		}
		var err error
		stored, err = InsertAll(tx, msgs)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}
