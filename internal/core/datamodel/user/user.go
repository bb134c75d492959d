package user

import "time"

type User struct {
	ID               int64      `gorm:"primaryKey"`
	Email            string     `gorm:"column:email;uniqueIndex;not null"`
	FirstName        string     `gorm:"column:first_name;not null"`
	LastName         string     `gorm:"column:last_name;not null"`
	Phone            *string    `gorm:"column:phone"`
	BirthDate        *time.Time `gorm:"column:birth_date;type:date"`
	Role             string     `gorm:"column:role;not null;index"`
	PasswordHash     string     `gorm:"column:password_hash;not null"`
	IsActive         bool       `gorm:"column:is_active;not null"`
	SuspensionReason *string    `gorm:"column:suspension_reason"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
