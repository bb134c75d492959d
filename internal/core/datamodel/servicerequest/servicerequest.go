package servicerequest

import "time"

type ServiceRequest struct {
	ID          int64     `gorm:"primaryKey"`
	UserID      int64     `gorm:"column:user_id;not null;index"`
	Category    string    `gorm:"column:category;not null"`
	Subject     string    `gorm:"column:subject;not null"`
	Description string    `gorm:"column:description;not null"`
	Source      string    `gorm:"column:source;not null"`
	Status      string    `gorm:"column:status;not null;index"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ServiceRequest) TableName() string {
	return "service_requests"
}
