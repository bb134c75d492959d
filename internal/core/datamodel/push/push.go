package push

import "time"

type Subscription struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	Endpoint  string    `gorm:"column:endpoint;uniqueIndex;not null"`
	P256dh    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"column:auth;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Subscription) TableName() string {
	return "push_subscriptions"
}
