package postgres

import (
	"context"

	pushDatamodel "github.com/frahmantamala/staff-requests/internal/core/datamodel/push"
	"github.com/frahmantamala/staff-requests/internal/push"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// SaveIfAbsent inserts unless the endpoint is already registered.
func (r *SubscriptionRepository) SaveIfAbsent(ctx context.Context, sub *push.Subscription) (bool, error) {
	row := push.ToDataModel(sub)
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "endpoint"}}, DoNothing: true}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	sub.ID = row.ID
	sub.CreatedAt = row.CreatedAt
	return true, nil
}

func (r *SubscriptionRepository) ListByUser(ctx context.Context, userID int64) ([]*push.Subscription, error) {
	var rows []*pushDatamodel.Subscription
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*push.Subscription, 0, len(rows))
	for _, row := range rows {
		out = append(out, push.FromDataModel(row))
	}
	return out, nil
}

func (r *SubscriptionRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&pushDatamodel.Subscription{}, id).Error
}
