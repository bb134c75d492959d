package advance

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdvanceRequest carries a composite unique index on (user_id, target_month).
type AdvanceRequest struct {
	ID          int64           `gorm:"primaryKey"`
	UserID      int64           `gorm:"column:user_id;not null;uniqueIndex:idx_advance_user_month"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(10,2);not null"`
	Reason      *string         `gorm:"column:reason"`
	TargetMonth string          `gorm:"column:target_month;size:7;not null;uniqueIndex:idx_advance_user_month"`
	Status      string          `gorm:"column:status;not null;index"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (AdvanceRequest) TableName() string {
	return "advance_requests"
}
