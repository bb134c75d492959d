package leave

import "time"

type LeaveRequest struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	Type      string    `gorm:"column:type;not null"`
	StartDate time.Time `gorm:"column:start_date;type:date;not null"`
	EndDate   time.Time `gorm:"column:end_date;type:date;not null"`
	StartHalf string    `gorm:"column:start_half;not null"`
	EndHalf   string    `gorm:"column:end_half;not null"`
	Reason    *string   `gorm:"column:reason"`
	Status    string    `gorm:"column:status;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}
