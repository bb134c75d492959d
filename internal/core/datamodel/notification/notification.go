package notification

import "time"

type Notification struct {
	ID          int64     `gorm:"primaryKey"`
	UserID      int64     `gorm:"column:user_id;not null;index"`
	Title       string    `gorm:"column:title;not null"`
	Message     string    `gorm:"column:message;not null"`
	Type        string    `gorm:"column:type;not null"`
	Status      *string   `gorm:"column:status"`
	Link        *string   `gorm:"column:link"`
	IsRead      bool      `gorm:"column:is_read;not null"`
	IsDismissed bool      `gorm:"column:is_dismissed;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime;index"`
}

func (Notification) TableName() string {
	return "notifications"
}
